package reconcile

// DefaultThreshold is the minimum similarity score needed to replace a value.
const DefaultThreshold = 40.0

// DefaultVocabulary is the ordered list of canonical category names. Order
// matters: on equal scores the earlier term wins.
var DefaultVocabulary = []string{
	"despensa",
	"hogar",
	"lenceria",
	"pequenos electrodomesticos",
	"carnes",
	"cuidado del bebe",
	"viaje",
	"bebidas",
	"ropa nino",
	"higiene personal",
	"salud",
	"relojeria",
	"electronica",
	"panaderia",
	"automotriz",
	"informatica",
	"ropa mujer",
	"jardin",
	"pescados",
	"mascotas",
	"camping",
	"papeleria",
	"belleza",
	"limpieza",
	"bisuteria",
	"lacteos",
	"congelados",
	"television y audio",
	"muebles",
	"iluminacion",
	"juguetes",
	"ropa hombre",
	"alimentos",
	"farmacia",
	"decoracion",
	"frutas y verduras",
	"calzado",
	"ferreteria",
	"deportes",
	"accesorios moviles",
	"moda",
}

// Vocabulary returns a copy of the built-in list.
func Vocabulary() []string {
	return append([]string(nil), DefaultVocabulary...)
}
