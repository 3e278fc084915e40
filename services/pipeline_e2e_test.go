package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hotels-etl/models"
	"hotels-etl/scraper/booking"
)

const threeCards = `<html><body>
<div data-testid="property-card">
  <div data-testid="title">Eko Hotel</div>
  <a data-testid="title-link" href="/hotel/ng/eko.html">Eko</a>
  <span data-testid="address">Victoria Island</span>
  <span data-testid="price-and-discounted-price">£1,234.50</span>
  <div data-testid="review-score">Scored 9.0 Superb</div>
</div>
<div data-testid="property-card">
  <div data-testid="title">Ikoyi Suites</div>
  <a data-testid="title-link" href="/hotel/ng/ikoyi.html">Ikoyi</a>
  <span data-testid="address">Ikoyi</span>
  <span data-testid="price-and-discounted-price">£410</span>
</div>
<div data-testid="property-card">
  <div data-testid="title">Ikeja Inn</div>
  <a data-testid="title-link" href="/hotel/ng/ikeja.html">Ikeja</a>
  <span data-testid="address">Ikeja</span>
  <div data-testid="review-score">Scored 7.5 Good</div>
</div>
</body></html>`

func TestExtractAndTransformThreeCards(t *testing.T) {
	raw, err := booking.Extract(threeCards)
	require.NoError(t, err)

	ds := NewPipeline("Lagos", newTestLogger()).WithClock(fixedClock).Run(raw)
	require.Equal(t, 3, ds.Len())

	var naCategory, missingPrice int
	for i, r := range ds.Records {
		if r.RatingCategory == models.CategoryNotAvailable {
			naCategory++
		}
		if !r.Price.Valid {
			missingPrice++
		}
		require.NotEqual(t, models.NotAvailable, r.Name, "row %d name", i)
		require.NotEqual(t, models.NotAvailable, r.Link, "row %d link", i)
		require.Equal(t, "Lagos", r.Location, "row %d location", i)
		require.True(t, r.ScrapedAt.Equal(ds.Records[0].ScrapedAt), "row %d: scraped_at differs from row 0", i)
	}
	require.Equal(t, 1, naCategory, "rows with N/A category")
	require.Equal(t, 1, missingPrice, "rows with missing price")

	require.Equal(t, "1234.5", ds.Records[0].Price.Decimal.String())
	require.Equal(t, models.CategoryExcellence, ds.Records[0].RatingCategory)
	require.Equal(t, models.CategoryGood, ds.Records[2].RatingCategory)
}
