package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotAvailable marks a field whose element was missing from the property card.
const NotAvailable = "N/A"

// TimestampLayout is the second-resolution format used for scraped_at in every sink.
const TimestampLayout = "2006-01-02 15:04:05"

// Columns is the column order shared by the CSV file and the database table.
var Columns = []string{"name", "link", "location", "price", "rating", "rating_category", "scraped_at"}

// RawRecord holds one property card exactly as it was read from the rendered page.
// Absent fields carry NotAvailable.
type RawRecord struct {
	Name     string
	Link     string
	Location string
	Price    string
	Rating   string
}

// RatingCategory is the review band derived from the numeric rating.
type RatingCategory string

const (
	CategoryExcellence   RatingCategory = "Excellence"
	CategoryVeryGood     RatingCategory = "Very Good"
	CategoryGood         RatingCategory = "Good"
	CategoryFair         RatingCategory = "Fair"
	CategoryAverage      RatingCategory = "Average"
	CategoryNotAvailable RatingCategory = NotAvailable
)

// Categories lists every band from the top down, ending with CategoryNotAvailable.
var Categories = []RatingCategory{
	CategoryExcellence,
	CategoryVeryGood,
	CategoryGood,
	CategoryFair,
	CategoryAverage,
	CategoryNotAvailable,
}

// Record is the cleaned, enriched form of a RawRecord.
// An invalid Price or Rating means the raw text could not be read as a number.
type Record struct {
	Name           string
	Link           string
	Location       string
	Price          decimal.NullDecimal
	Rating         decimal.NullDecimal
	RatingCategory RatingCategory
	ScrapedAt      time.Time
}

// Dataset is the output of one pipeline run, in card order.
// Every record carries the same ScrapedAt.
type Dataset struct {
	ScrapedAt time.Time
	Records   []*Record
}

// Len returns the number of rows in the dataset.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// InsightReport holds the computed analytics over a finished dataset.
type InsightReport struct {
	TotalRecords  int
	PricedRecords int
	RatedRecords  int
	AveragePrice  decimal.Decimal
	MinPrice      decimal.Decimal
	MaxPrice      decimal.Decimal
	MostExpensive *Record
	TopRated      []*Record
	ByCategory    map[RatingCategory]int
	ScrapedAt     time.Time
}
