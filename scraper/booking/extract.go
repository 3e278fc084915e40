package booking

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"hotels-etl/models"
)

// Extract parses a rendered results page into one RawRecord per property card,
// in document order. A missing sub-element only blanks that field to N/A.
func Extract(html string) ([]models.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("extract: parse document: %w", err)
	}

	records := make([]models.RawRecord, 0)
	doc.Find(CardSelector).Each(func(_ int, card *goquery.Selection) {
		records = append(records, models.RawRecord{
			Name:     textOf(card, NameSelector),
			Link:     attrOf(card, LinkSelector, "href"),
			Location: textOf(card, LocationSelector),
			Price:    textOf(card, PriceSelector),
			Rating:   ratingOf(card),
		})
	})
	return records, nil
}

func textOf(card *goquery.Selection, selector string) string {
	el := card.Find(selector).First()
	if el.Length() == 0 {
		return models.NotAvailable
	}
	return strings.TrimSpace(el.Text())
}

func attrOf(card *goquery.Selection, selector, attr string) string {
	val, ok := card.Find(selector).First().Attr(attr)
	if !ok {
		return models.NotAvailable
	}
	return val
}

// ratingOf reads the score out of the review badge. The badge text is
// "<label> <score> ..."; anything shorter is treated as absent.
func ratingOf(card *goquery.Selection) string {
	text := textOf(card, RatingSelector)
	if text == models.NotAvailable {
		return text
	}
	tokens := strings.Fields(text)
	if len(tokens) < 2 {
		return models.NotAvailable
	}
	return tokens[1]
}
