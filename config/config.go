package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers accepted in DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverNone     = "none"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	TargetURL string

	ScrollPause  time.Duration
	MaxScrolls   int
	PopupSettle  time.Duration
	PopupPause   time.Duration
	Headless     bool
	ChromeBin    string
	WindowWidth  int
	WindowHeight int

	LocationLabel string
	CSVOutputPath string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBTable    string
	SQLitePath string

	LogLevel string

	// EnvFileLoaded reports whether a .env file was found and applied.
	EnvFileLoaded bool
}

// Load reads the given .env files (".env" when none are named) and returns a
// populated Config. Variables already present in the environment win.
func Load(files ...string) *Config {
	loaded := godotenv.Load(files...) == nil

	return &Config{
		TargetURL: getEnv("TARGET_URL", ""),

		ScrollPause:  getEnvSeconds("SCROLL_PAUSE", 3*time.Second),
		MaxScrolls:   getEnvInt("MAX_SCROLLS", 100),
		PopupSettle:  getEnvSeconds("POPUP_SETTLE", 5*time.Second),
		PopupPause:   getEnvSeconds("POPUP_PAUSE", 2*time.Second),
		Headless:     getEnvBool("HEADLESS", true),
		ChromeBin:    getEnv("CHROME_BIN", ""),
		WindowWidth:  getEnvInt("WINDOW_WIDTH", 1920),
		WindowHeight: getEnvInt("WINDOW_HEIGHT", 1080),

		LocationLabel: getEnv("LOCATION_LABEL", "Lagos"),
		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "hotels_data.csv"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "hotels"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBTable:    getEnv("DB_TABLE", "hotels_data"),
		SQLitePath: getEnv("SQLITE_PATH", "hotels_data.db"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		EnvFileLoaded: loaded,
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" port=" + c.DBPort +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" sslmode=" + c.DBSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

// getEnvSeconds reads a ParseSeconds value, falling back on absence or error.
func getEnvSeconds(key string, fallback time.Duration) time.Duration {
	d, err := ParseSeconds(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}

// ParseSeconds accepts either a Go duration ("1500ms") or a bare number of seconds ("1.5").
func ParseSeconds(val string) (time.Duration, error) {
	if d, err := time.ParseDuration(val); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds value %q", val)
	}
	if secs < 0 {
		return 0, fmt.Errorf("negative seconds value %q", val)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
