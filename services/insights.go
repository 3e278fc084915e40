package services

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"

	"hotels-etl/models"
	"hotels-etl/utils"
)

const topRatedCount = 5

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate summarises a dataset. Missing prices and ratings are left out of
// the statistics rather than counted as zero.
func (s *InsightService) Generate(ds *models.Dataset) *models.InsightReport {
	report := &models.InsightReport{
		ByCategory: make(map[models.RatingCategory]int),
	}
	if ds.Len() == 0 {
		return report
	}

	report.TotalRecords = ds.Len()
	report.ScrapedAt = ds.ScrapedAt

	var rated []*models.Record
	total := decimal.Zero

	for _, r := range ds.Records {
		report.ByCategory[r.RatingCategory]++

		if r.Rating.Valid {
			rated = append(rated, r)
		}
		if !r.Price.Valid {
			continue
		}

		price := r.Price.Decimal
		if report.PricedRecords == 0 || price.LessThan(report.MinPrice) {
			report.MinPrice = price
		}
		if report.PricedRecords == 0 || price.GreaterThan(report.MaxPrice) {
			report.MaxPrice = price
			report.MostExpensive = r
		}
		total = total.Add(price)
		report.PricedRecords++
	}

	if report.PricedRecords > 0 {
		report.AveragePrice = total.Div(decimal.NewFromInt(int64(report.PricedRecords))).Round(2)
	}

	report.RatedRecords = len(rated)
	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].Rating.Decimal.GreaterThan(rated[j].Rating.Decimal)
	})
	if len(rated) > topRatedCount {
		rated = rated[:topRatedCount]
	}
	report.TopRated = rated

	s.logger.Debug("[insights] %d records, %d priced, %d rated",
		report.TotalRecords, report.PricedRecords, report.RatedRecords)
	return report
}

// Print renders the report as tables on w.
func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	heading := color.New(color.FgMagenta, color.Bold)
	section := color.New(color.FgYellow, color.Bold)

	heading.Fprintln(w, "\n  HOTEL SCRAPE INSIGHTS")
	if !r.ScrapedAt.IsZero() {
		fmt.Fprintf(w, "  scraped at %s\n", r.ScrapedAt.Format(models.TimestampLayout))
	}

	section.Fprintln(w, "\n  Overview")
	overview := newTable(w)
	overview.AppendRows([]table.Row{
		{"Total hotels", r.TotalRecords},
		{"With a price", r.PricedRecords},
		{"With a rating", r.RatedRecords},
	})
	if r.PricedRecords > 0 {
		overview.AppendSeparator()
		overview.AppendRows([]table.Row{
			{"Average price", "£" + r.AveragePrice.StringFixed(2)},
			{"Minimum price", "£" + r.MinPrice.StringFixed(2)},
			{"Maximum price", "£" + r.MaxPrice.StringFixed(2)},
		})
	}
	overview.Render()

	if r.MostExpensive != nil {
		section.Fprintln(w, "\n  Most Expensive")
		fmt.Fprintf(w, "  %s (£%s)\n", truncate(r.MostExpensive.Name, 50),
			r.MostExpensive.Price.Decimal.StringFixed(2))
	}

	section.Fprintln(w, "\n  Rating Categories")
	categories := newTable(w)
	categories.AppendHeader(table.Row{"Category", "Hotels"})
	for _, c := range models.Categories {
		categories.AppendRow(table.Row{string(c), r.ByCategory[c]})
	}
	categories.Render()

	section.Fprintf(w, "\n  Top %d Highest Rated\n", topRatedCount)
	if len(r.TopRated) == 0 {
		fmt.Fprintln(w, "  No rated hotels found")
		return
	}
	top := newTable(w)
	top.AppendHeader(table.Row{"#", "Hotel", "Rating", "Category"})
	for i, l := range r.TopRated {
		top.AppendRow(table.Row{i + 1, truncate(l.Name, 40), l.Rating.Decimal.String(), string(l.RatingCategory)})
	}
	top.Render()
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
