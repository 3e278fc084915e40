package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"hotels-etl/config"
	"hotels-etl/models"
	"hotels-etl/scraper/booking"
	"hotels-etl/services"
	"hotels-etl/storage"
	"hotels-etl/utils"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hotels-etl [url]",
		Short: "Scrapes a hotel search results page into CSV and a database table.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			applyFlags(cmd, cfg)

			url, err := resolveURL(args, cfg)
			if err != nil {
				return err
			}

			logger := utils.NewLogger().With("run", uuid.NewString()[:8])
			logger.SetLevel(cfg.LogLevel)
			return run(cmd.Context(), cfg, logger, booking.ChromeFactory(cfg, logger), url, cmd.OutOrStdout())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().Var(new(secondsValue), "scroll-pause", "pause after each scroll, in seconds or as a duration (overrides SCROLL_PAUSE)")
	cmd.Flags().Int("max-scrolls", 0, "upper bound on scroll iterations (overrides MAX_SCROLLS)")
	cmd.Flags().String("csv", "", "CSV output path (overrides CSV_OUTPUT_PATH)")
	cmd.Flags().String("driver", "", "database sink: postgres, sqlite or none (overrides DB_DRIVER)")
	return cmd
}

// secondsValue is a flag value that takes config.ParseSeconds input.
type secondsValue time.Duration

func (v *secondsValue) String() string { return time.Duration(*v).String() }

func (v *secondsValue) Set(s string) error {
	d, err := config.ParseSeconds(s)
	if err != nil {
		return err
	}
	*v = secondsValue(d)
	return nil
}

func (v *secondsValue) Type() string { return "seconds" }

// applyFlags copies explicitly set flags over the env-derived config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("scroll-pause") {
		cfg.ScrollPause = time.Duration(*fs.Lookup("scroll-pause").Value.(*secondsValue))
	}
	if fs.Changed("max-scrolls") {
		cfg.MaxScrolls, _ = fs.GetInt("max-scrolls")
	}
	if fs.Changed("csv") {
		cfg.CSVOutputPath, _ = fs.GetString("csv")
	}
	if fs.Changed("driver") {
		driver, _ := fs.GetString("driver")
		cfg.DBDriver = strings.ToLower(driver)
	}
}

func resolveURL(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if cfg.TargetURL != "" {
		return cfg.TargetURL, nil
	}
	return "", booking.ErrNoURL
}

// openSinks returns the CSV sink plus the table sink selected by DB_DRIVER,
// and the table sink on its own so insights can be read back from it.
func openSinks(ctx context.Context, cfg *config.Config) (storage.MultiSink, *storage.TableWriter, error) {
	sinks := storage.MultiSink{storage.NewCSVWriter(cfg.CSVOutputPath)}

	var (
		tw  *storage.TableWriter
		err error
	)
	switch cfg.DBDriver {
	case config.DriverPostgres:
		tw, err = storage.OpenTable(ctx, storage.Postgres, cfg.DSN(), cfg.DBTable)
	case config.DriverSQLite:
		tw, err = storage.OpenTable(ctx, storage.SQLite, cfg.SQLitePath, cfg.DBTable)
	case config.DriverNone:
		return sinks, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, nil, err
	}
	return append(sinks, tw), tw, nil
}

func run(ctx context.Context, cfg *config.Config, logger *utils.Logger, open booking.SurfaceFactory, url string, out io.Writer) error {
	logger.Info("=== Hotels ETL starting ===")
	if !cfg.EnvFileLoaded {
		logger.Debug("No .env file found, using process environment only")
	}
	logger.Info("Config: scroll pause %s | max scrolls %d | csv %s | db %s",
		cfg.ScrollPause, cfg.MaxScrolls, cfg.CSVOutputPath, cfg.DBDriver)

	sinks, table, err := openSinks(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open sinks: %v", err)
		if cfg.DBDriver == config.DriverPostgres {
			logger.Error("Make sure Docker is running: docker compose up -d")
		}
		return err
	}
	defer sinks.Close()

	acquirer := booking.NewAcquirer(open, booking.Options{
		ScrollPause: cfg.ScrollPause,
		MaxScrolls:  cfg.MaxScrolls,
		PopupSettle: cfg.PopupSettle,
		PopupPause:  cfg.PopupPause,
	}, logger)

	page, err := acquirer.Acquire(ctx, url)
	if err != nil {
		logger.Error("Acquisition failed: %v", err)
		return err
	}

	raw, err := booking.Extract(page.HTML)
	if err != nil {
		logger.Error("Extraction failed: %v", err)
		return err
	}
	logger.Info("Extracted %d property cards", len(raw))

	ds := services.NewPipeline(cfg.LocationLabel, logger).Run(raw)

	if err := sinks.Replace(ctx, ds); err != nil {
		logger.Error("Load failed: %v", err)
		return err
	}
	logger.Info("Dataset written to %s", cfg.CSVOutputPath)
	if table != nil {
		logger.Info("Dataset written to table %s", table.Name())
	}

	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(out, insightSvc.Generate(reportSource(ctx, table, ds, logger)))
	return nil
}

// reportSource prefers the stored table so the report reflects what was persisted.
func reportSource(ctx context.Context, table *storage.TableWriter, ds *models.Dataset, logger *utils.Logger) *models.Dataset {
	if table == nil {
		return ds
	}
	stored, err := table.Load(ctx)
	if err != nil {
		logger.Warn("Failed to read %s back for insights: %v", table.Name(), err)
		return ds
	}
	return stored
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
