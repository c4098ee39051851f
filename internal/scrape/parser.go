package scrape

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	apperrors "retailkpi/pkg/errors"
	"retailkpi/pkg/models"
)

const (
	itemSelector         = `li[class*="ui-search-layout__item"]`
	fallbackItemSelector = `div[class*="ui-search-result"]`
	priceSelector        = `span[class*="price-tag-fraction"], span[class*="andes-money-amount__fraction"]`
	currencySelector     = `span[class*="price-tag-symbol"], span[class*="andes-money-amount__currency"]`
	amountSelector       = `span[class*="andes-money-amount"]`
	attributeSelector    = `li[class*="ui-search-card-attributes"]`
)

// ParseListings extracts the listings of one result page. It also returns
// the number of result items found, which is zero past the last page. Items
// without both a UF price and a surface are skipped.
func ParseListings(r io.Reader) ([]models.Listing, int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.ErrCodeParse, "failed to parse result page")
	}

	items := doc.Find(itemSelector)
	if items.Length() == 0 {
		items = doc.Find(fallbackItemSelector)
	}

	var listings []models.Listing
	items.Each(func(_ int, item *goquery.Selection) {
		price, ok := itemPrice(item)
		if !ok || price == 0 {
			return
		}
		meters, ok := itemSquareMeters(item)
		if !ok || meters == 0 {
			return
		}
		listings = append(listings, models.Listing{PriceUF: price, SquareMeters: meters})
	})

	return listings, items.Length(), nil
}

func itemPrice(item *goquery.Selection) (float64, bool) {
	priceText := item.Find(priceSelector).First().Text()

	currency := item.Find(currencySelector).First()
	if priceText != "" && currency.Length() > 0 && strings.Contains(currency.Text(), "UF") {
		return ExtractUF(priceText + " UF")
	}

	amount := item.Find(amountSelector).First()
	if amount.Length() == 0 {
		return 0, false
	}
	return ExtractUF(amount.Text())
}

func itemSquareMeters(item *goquery.Selection) (float64, bool) {
	var meters float64
	found := false
	item.Find(attributeSelector).EachWithBreak(func(_ int, attr *goquery.Selection) bool {
		text := attr.Text()
		if !strings.Contains(strings.ToLower(text), "m") {
			return true
		}
		if v, ok := ExtractSquareMeters(text); ok && v != 0 {
			meters, found = v, true
			return false
		}
		return true
	})
	return meters, found
}

// captchaMarkers identify anti-bot interstitials served with status 200.
var captchaMarkers = []string{"captcha", "are you a human", "verifica que eres humano", "px-block"}

// LooksBlocked reports whether body is an anti-bot page rather than results.
func LooksBlocked(body []byte) bool {
	lower := strings.ToLower(string(body))
	for _, m := range captchaMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
