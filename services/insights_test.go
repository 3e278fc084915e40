package services

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"hotels-etl/models"
)

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func sampleDataset() *models.Dataset {
	recs := []*models.Record{
		{Name: "Villa A", Price: price("200"), Rating: price("9.4")},
		{Name: "Studio B", Price: price("50"), Rating: price("8.1")},
		{Name: "Loft C", Price: price("120"), Rating: price("8.8")},
		{Name: "Cabin D", Price: price("300")},
		{Name: "Flat E", Rating: price("6.2")},
	}
	for _, r := range recs {
		r.RatingCategory = Categorize(r.Rating)
	}
	return &models.Dataset{ScrapedAt: fixedClock(), Records: recs}
}

func TestInsightCounts(t *testing.T) {
	r := NewInsightService(newTestLogger()).Generate(sampleDataset())
	require.Equal(t, 5, r.TotalRecords)
	require.Equal(t, 4, r.PricedRecords)
	require.Equal(t, 4, r.RatedRecords)
}

func TestInsightPricesSkipMissing(t *testing.T) {
	r := NewInsightService(newTestLogger()).Generate(sampleDataset())
	require.True(t, r.AveragePrice.Equal(decimal.RequireFromString("167.5")), "AveragePrice: got %s", r.AveragePrice)
	require.True(t, r.MinPrice.Equal(decimal.NewFromInt(50)), "MinPrice: got %s", r.MinPrice)
	require.True(t, r.MaxPrice.Equal(decimal.NewFromInt(300)), "MaxPrice: got %s", r.MaxPrice)
}

func TestInsightMostExpensive(t *testing.T) {
	r := NewInsightService(newTestLogger()).Generate(sampleDataset())
	require.NotNil(t, r.MostExpensive)
	require.Equal(t, "Cabin D", r.MostExpensive.Name)
}

func TestInsightTopRated(t *testing.T) {
	r := NewInsightService(newTestLogger()).Generate(sampleDataset())

	var got []string
	for _, rec := range r.TopRated {
		got = append(got, rec.Name)
	}
	want := []string{"Villa A", "Loft C", "Studio B", "Flat E"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TopRated mismatch (-want +got):\n%s", diff)
	}
}

func TestInsightCategoryCounts(t *testing.T) {
	r := NewInsightService(newTestLogger()).Generate(sampleDataset())
	want := map[models.RatingCategory]int{
		models.CategoryExcellence:   1,
		models.CategoryVeryGood:     2,
		models.CategoryFair:         1,
		models.CategoryNotAvailable: 1,
	}
	for _, c := range models.Categories {
		require.Equal(t, want[c], r.ByCategory[c], "category %s", c)
	}
}

func TestInsightEmptyInput(t *testing.T) {
	r := NewInsightService(newTestLogger()).Generate(nil)
	require.Zero(t, r.TotalRecords)
	require.Nil(t, r.MostExpensive)
}

func TestInsightPrint(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	var buf bytes.Buffer
	svc.Print(&buf, svc.Generate(sampleDataset()))

	for _, want := range []string{"Villa A", "167.50", "Very Good", "Cabin D"} {
		require.Contains(t, buf.String(), want)
	}
}
