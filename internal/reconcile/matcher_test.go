package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailkpi/pkg/models"
)

func TestRatio(t *testing.T) {
	assert.InDelta(t, 66.67, Ratio("abc", "abd"), 0.01)
	assert.Equal(t, 100.0, Ratio("", ""))
	assert.Equal(t, 0.0, Ratio("abc", ""))
	assert.InDelta(t, 90.91, Ratio("electronika", "electronica"), 0.01)
}

func TestTokenSortRatioIgnoresWordOrder(t *testing.T) {
	assert.Equal(t, 100.0, TokenSortRatio("audio y television", "television y audio"))
	assert.Equal(t, 100.0, TokenSortRatio("hola  mundo", "mundo hola"))
}

func TestDefaultVocabulary(t *testing.T) {
	assert.Len(t, DefaultVocabulary, 41)
	v := Vocabulary()
	v[0] = "changed"
	assert.Equal(t, "despensa", DefaultVocabulary[0])
}

func TestBestMatch(t *testing.T) {
	m := NewMatcher(nil, DefaultThreshold, nil)

	tests := []struct {
		query string
		want  string
		score float64
	}{
		{"electronika", "electronica", 90.91},
		{"ropa ninos", "ropa nino", 94.74},
		{"jugetes", "juguetes", 93.33},
		{"audio y television", "television y audio", 100},
		{"computacion", "decoracion", 66.67},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, ok := m.BestMatch(tt.query)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Term)
			assert.InDelta(t, tt.score, got.Score, 0.01)
		})
	}
}

func TestBestMatchTieGoesToFirstTerm(t *testing.T) {
	m := NewMatcher([]string{"ab", "ac"}, DefaultThreshold, nil)
	got, ok := m.BestMatch("a")
	require.True(t, ok)
	assert.Equal(t, "ab", got.Term)

	m = NewMatcher([]string{"ac", "ab"}, DefaultThreshold, nil)
	got, _ = m.BestMatch("a")
	assert.Equal(t, "ac", got.Term)
}

func TestBestMatchEmptyVocabulary(t *testing.T) {
	m := &Matcher{Threshold: DefaultThreshold}
	_, ok := m.BestMatch("hogar")
	assert.False(t, ok)
	assert.Equal(t, "hogar", *m.Reconcile(models.String("hogar")))
}

func TestReconcile(t *testing.T) {
	m := NewMatcher(nil, DefaultThreshold, nil)

	assert.Nil(t, m.Reconcile(nil))
	assert.Equal(t, "electronica", *m.Reconcile(models.String("electronika")))
	// below threshold the value is kept
	assert.Equal(t, "xyz", *m.Reconcile(models.String("xyz")))
	assert.Equal(t, "", *m.Reconcile(models.String("")))
	// canonical values map to themselves
	for _, term := range DefaultVocabulary {
		assert.Equal(t, term, *m.Reconcile(models.String(term)))
	}
}

func TestReconcileThreshold(t *testing.T) {
	strict := NewMatcher(nil, 95, nil)
	assert.Equal(t, "electronika", *strict.Reconcile(models.String("electronika")))

	loose := NewMatcher(nil, 0, nil)
	assert.Equal(t, "belleza", *loose.Reconcile(models.String("xyz")))
}

func TestAliasesWinOverScoring(t *testing.T) {
	m := NewMatcher(nil, DefaultThreshold, map[string]string{"computacion": "informatica"})
	assert.Equal(t, "informatica", *m.Reconcile(models.String("computacion")))

	match, ok := m.Resolve("computacion")
	assert.True(t, ok)
	assert.Equal(t, 100.0, match.Score)
}

func TestCandidates(t *testing.T) {
	m := NewMatcher(nil, DefaultThreshold, nil)
	got := m.Candidates("ropa", 3)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
	assert.Contains(t, []string{"ropa nino", "ropa mujer", "ropa hombre"}, got[0].Term)

	assert.Len(t, m.Candidates("ropa", -1), len(DefaultVocabulary))
}

func TestReconcileTablesDoesNotMutate(t *testing.T) {
	in := models.Tables{
		Products:     []models.Product{{ProductID: "P1", Category: models.String("electronika")}},
		Inventory:    []models.InventorySnapshot{{ProductID: "P1", Category: models.String("hogr")}},
		Transactions: []models.Transaction{{ProductID: "P1"}},
	}
	m := NewMatcher(nil, DefaultThreshold, nil)

	out := ReconcileTables(in, m)
	assert.Equal(t, "electronica", *out.Products[0].Category)
	assert.Equal(t, "hogar", *out.Inventory[0].Category)
	assert.Nil(t, out.Transactions[0].Category)
	assert.Equal(t, "electronika", *in.Products[0].Category)
}

func TestUnmatched(t *testing.T) {
	tables := models.Tables{
		Products: []models.Product{
			{Category: models.String("xyz")},
			{Category: models.String("hogar")},
			{Category: nil},
		},
		Transactions: []models.Transaction{
			{Category: models.String("xyz")},
			{Category: models.String("qqq")},
		},
	}
	m := NewMatcher(nil, DefaultThreshold, nil)

	got := Unmatched(tables, m)
	require.Len(t, got, 2)
	assert.Equal(t, "xyz", got[0].Value)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, "belleza", got[0].BestMatch)
	assert.Equal(t, "qqq", got[1].Value)
}
