package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hotels-etl/models"
	"hotels-etl/utils"
)

var priceReplacer = strings.NewReplacer("£", "", ",", "")

// ratingBands are checked top-down; the first lower bound the rating reaches wins.
var ratingBands = []struct {
	min      decimal.Decimal
	category models.RatingCategory
}{
	{decimal.NewFromInt(9), models.CategoryExcellence},
	{decimal.NewFromInt(8), models.CategoryVeryGood},
	{decimal.NewFromInt(7), models.CategoryGood},
	{decimal.NewFromInt(6), models.CategoryFair},
}

// Pipeline turns extracted RawRecords into a typed, enriched Dataset.
type Pipeline struct {
	logger   *utils.Logger
	location string
	now      func() time.Time
}

// NewPipeline creates a Pipeline that stamps every record with location.
func NewPipeline(location string, logger *utils.Logger) *Pipeline {
	return &Pipeline{logger: logger, location: location, now: time.Now}
}

// WithClock replaces the wall clock used for scraped_at.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Run cleans and enriches raw records. Every input row yields exactly one
// output row, in the same order.
func (p *Pipeline) Run(raw []models.RawRecord) *models.Dataset {
	scrapedAt := p.now().Local().Truncate(time.Second)

	ds := &models.Dataset{
		ScrapedAt: scrapedAt,
		Records:   make([]*models.Record, 0, len(raw)),
	}

	var badPrice, badRating int
	for _, r := range raw {
		rec := &models.Record{
			Name:      r.Name,
			Link:      r.Link,
			Location:  p.location,
			Price:     CleanPrice(r.Price),
			Rating:    ParseRating(r.Rating),
			ScrapedAt: scrapedAt,
		}
		rec.RatingCategory = Categorize(rec.Rating)

		if !rec.Price.Valid {
			badPrice++
		}
		if !rec.Rating.Valid {
			badRating++
		}
		ds.Records = append(ds.Records, rec)
	}

	p.logger.Info("[pipeline] Cleaned %d records (%d without price, %d without rating)",
		ds.Len(), badPrice, badRating)
	return ds
}

// CleanPrice strips the currency symbol and thousands separators and parses
// what is left. Anything unparseable, including N/A, is missing.
func CleanPrice(raw string) decimal.NullDecimal {
	return parseDecimal(priceReplacer.Replace(raw))
}

// ParseRating parses a review score; anything unparseable is missing.
func ParseRating(raw string) decimal.NullDecimal {
	return parseDecimal(raw)
}

func parseDecimal(s string) decimal.NullDecimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// Categorize maps a rating to its review band.
func Categorize(rating decimal.NullDecimal) models.RatingCategory {
	if !rating.Valid {
		return models.CategoryNotAvailable
	}
	for _, band := range ratingBands {
		if rating.Decimal.GreaterThanOrEqual(band.min) {
			return band.category
		}
	}
	return models.CategoryAverage
}
