package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"hotels-etl/models"
)

const batchSize = 50

var identRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ErrBadTableName is returned for table names that are not plain identifiers.
var ErrBadTableName = errors.New("table name must be a plain identifier")

// Dialect captures the SQL differences between the supported databases.
type Dialect struct {
	Driver      string
	FloatType   string
	TimeType    string
	RowOrder    string
	placeholder func(n int) string
}

var (
	Postgres = Dialect{
		Driver:      "postgres",
		FloatType:   "DOUBLE PRECISION",
		TimeType:    "TIMESTAMP",
		RowOrder:    "ctid",
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	}
	SQLite = Dialect{
		Driver:      "sqlite",
		FloatType:   "REAL",
		TimeType:    "TEXT",
		RowOrder:    "rowid",
		placeholder: func(int) string { return "?" },
	}
)

// TableWriter persists datasets to a single relational table that is dropped
// and recreated on every Replace. Readers may see the table missing or half
// filled while a Replace is running.
type TableWriter struct {
	db      *sql.DB
	dialect Dialect
	table   string
}

// OpenTable connects to the database and returns a ready-to-use TableWriter.
func OpenTable(ctx context.Context, dialect Dialect, dsn, table string) (*TableWriter, error) {
	if !identRegexp.MatchString(table) {
		return nil, fmt.Errorf("%s: %q: %w", dialect.Driver, table, ErrBadTableName)
	}

	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", dialect.Driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping: %w", dialect.Driver, err)
	}

	return &TableWriter{db: db, dialect: dialect, table: table}, nil
}

func (tw *TableWriter) Name() string { return tw.dialect.Driver + ":" + tw.table }

func (tw *TableWriter) quoted() string { return `"` + tw.table + `"` }

// Replace drops the table, recreates it and batch-inserts every record.
func (tw *TableWriter) Replace(ctx context.Context, ds *models.Dataset) error {
	if _, err := tw.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+tw.quoted()); err != nil {
		return fmt.Errorf("%s: drop table: %w", tw.dialect.Driver, err)
	}

	create := fmt.Sprintf(`
		CREATE TABLE %s (
			name            TEXT,
			link            TEXT,
			location        TEXT,
			price           %s,
			rating          %s,
			rating_category TEXT,
			scraped_at      %s
		)`, tw.quoted(), tw.dialect.FloatType, tw.dialect.FloatType, tw.dialect.TimeType)
	if _, err := tw.db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("%s: create table: %w", tw.dialect.Driver, err)
	}

	if ds == nil {
		return nil
	}
	for i := 0; i < len(ds.Records); i += batchSize {
		end := i + batchSize
		if end > len(ds.Records) {
			end = len(ds.Records)
		}
		if err := tw.insertBatch(ctx, ds.Records[i:end]); err != nil {
			return fmt.Errorf("%s: insert rows %d-%d: %w", tw.dialect.Driver, i, end-1, err)
		}
	}
	return nil
}

func (tw *TableWriter) insertBatch(ctx context.Context, batch []*models.Record) error {
	cols := len(models.Columns)
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, r := range batch {
		ph := make([]string, cols)
		for c := range ph {
			ph[c] = tw.dialect.placeholder(idx*cols + c + 1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
		valueArgs = append(valueArgs,
			r.Name, r.Link, r.Location, r.Price, r.Rating,
			string(r.RatingCategory), r.ScrapedAt.Format(models.TimestampLayout))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		tw.quoted(), strings.Join(models.Columns, ", "), strings.Join(valueStrings, ","))

	_, err := tw.db.ExecContext(ctx, query, valueArgs...)
	return err
}

// Load reads the table back in insertion order.
func (tw *TableWriter) Load(ctx context.Context) (*models.Dataset, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(models.Columns, ", "), tw.quoted(), tw.dialect.RowOrder)
	rows, err := tw.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: load: %w", tw.dialect.Driver, err)
	}
	defer rows.Close()

	ds := &models.Dataset{Records: make([]*models.Record, 0)}
	for rows.Next() {
		var (
			r                    models.Record
			name, link, location sql.NullString
			category             sql.NullString
			scrapedAt            interface{}
		)
		if err := rows.Scan(&name, &link, &location, &r.Price, &r.Rating, &category, &scrapedAt); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", tw.dialect.Driver, err)
		}
		r.Name, r.Link, r.Location = name.String, link.String, location.String
		r.RatingCategory = models.RatingCategory(category.String)
		if r.ScrapedAt, err = parseScrapedAt(scrapedAt); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", tw.dialect.Driver, err)
		}
		ds.Records = append(ds.Records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: load: %w", tw.dialect.Driver, err)
	}
	if len(ds.Records) > 0 {
		ds.ScrapedAt = ds.Records[0].ScrapedAt
	}
	return ds, nil
}

// parseScrapedAt accepts the TIMESTAMP value Postgres returns and the TEXT
// value SQLite returns, both holding local wall-clock time.
func parseScrapedAt(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local), nil
	case string:
		return time.ParseInLocation(models.TimestampLayout, t, time.Local)
	case []byte:
		return time.ParseInLocation(models.TimestampLayout, string(t), time.Local)
	default:
		return time.Time{}, fmt.Errorf("unexpected scraped_at type %T", v)
	}
}

func (tw *TableWriter) Close() error {
	return tw.db.Close()
}
