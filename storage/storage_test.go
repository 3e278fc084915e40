package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"hotels-etl/models"
)

var testScrapedAt = time.Date(2026, time.October, 19, 9, 15, 42, 0, time.Local)

func num(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func sampleDataset() *models.Dataset {
	return &models.Dataset{
		ScrapedAt: testScrapedAt,
		Records: []*models.Record{
			{
				Name: "Eko Hotel, Suites", Link: "/hotel/ng/eko.html", Location: "Lagos",
				Price: num("1234.5"), Rating: num("9.1"),
				RatingCategory: models.CategoryExcellence, ScrapedAt: testScrapedAt,
			},
			{
				Name: "Ikoyi \"Grand\"", Link: "/hotel/ng/ikoyi.html", Location: "Lagos",
				Price: num("410"), RatingCategory: models.CategoryNotAvailable, ScrapedAt: testScrapedAt,
			},
			{
				Name: "Ikeja Inn", Link: models.NotAvailable, Location: "Lagos",
				Rating: num("7.5"), RatingCategory: models.CategoryGood, ScrapedAt: testScrapedAt,
			},
		},
	}
}

type recordingSink struct {
	name     string
	err      error
	replaced int
	closed   int
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Replace(context.Context, *models.Dataset) error {
	r.replaced++
	return r.err
}

func (r *recordingSink) Close() error {
	r.closed++
	return r.err
}

func TestMultiSinkStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("disk full")
	a := &recordingSink{name: "a"}
	b := &recordingSink{name: "b", err: boom}
	c := &recordingSink{name: "c"}

	err := MultiSink{a, b, c}.Replace(context.Background(), sampleDataset())
	require.ErrorIs(t, err, boom)
	require.Equal(t, []int{1, 1, 0}, []int{a.replaced, b.replaced, c.replaced}, "replace calls per sink")
}

func TestMultiSinkClosesAll(t *testing.T) {
	boom := errors.New("close failed")
	a := &recordingSink{name: "a", err: boom}
	b := &recordingSink{name: "b"}

	require.ErrorIs(t, MultiSink{a, b}.Close(), boom)
	require.Equal(t, 1, a.closed)
	require.Equal(t, 1, b.closed)
}
