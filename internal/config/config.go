// Package config loads dashboard settings from an optional .env file and
// PITCHERLUCK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultDataDir    = "data"
	DefaultGameLog    = "MLB2020-2024GameInfo.csv"
	DefaultHost       = "127.0.0.1"
	DefaultPort       = 8008
	DefaultExportDir  = "site"
	DefaultCacheDir   = "~/.cache/pitcher-luck"
	DefaultLogLevel   = "INFO"
	DefaultYearsValue = "2022,2023,2024"
)

// Config holds all application configuration
type Config struct {
	DataDir     string
	GameLog     string // file name inside DataDir
	Years       []int  // seasons offered in the year selector, ascending
	Host        string
	Port        int
	ExportDir   string
	CacheDir    string // empty disables the season cache
	LogLevel    string
	CORSOrigins []string
}

// Load reads envFile (when it exists) into the process environment, then
// builds a Config from the environment. Variables already set in the
// environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	years, err := ParseYears(getEnv("PITCHERLUCK_YEARS", DefaultYearsValue))
	if err != nil {
		return nil, err
	}

	port, err := getEnvInt("PITCHERLUCK_PORT", DefaultPort)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:     getEnv("PITCHERLUCK_DATA_DIR", DefaultDataDir),
		GameLog:     getEnv("PITCHERLUCK_GAMELOG", DefaultGameLog),
		Years:       years,
		Host:        getEnv("PITCHERLUCK_HOST", DefaultHost),
		Port:        port,
		ExportDir:   getEnv("PITCHERLUCK_EXPORT_DIR", DefaultExportDir),
		CacheDir:    getEnv("PITCHERLUCK_CACHE_DIR", DefaultCacheDir),
		LogLevel:    getEnv("PITCHERLUCK_LOG_LEVEL", DefaultLogLevel),
		CORSOrigins: splitList(getEnv("PITCHERLUCK_CORS_ORIGINS", "")),
	}
	if v, ok := os.LookupEnv("PITCHERLUCK_NO_CACHE"); ok && v != "" && v != "0" && v != "false" {
		cfg.CacheDir = ""
	}

	return cfg, cfg.Validate()
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data dir must not be empty")
	}
	if c.GameLog == "" {
		return fmt.Errorf("game log file name must not be empty")
	}
	if len(c.Years) == 0 {
		return fmt.Errorf("at least one season is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.ExportDir == "" {
		return fmt.Errorf("export dir must not be empty")
	}
	return nil
}

// Addr returns host:port for the HTTP listeners.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// GameLogPath returns the full path of the game log CSV.
func (c *Config) GameLogPath() string {
	return filepath.Join(c.DataDir, c.GameLog)
}

// ERAPath returns the path of the per-season ERA table.
func (c *Config) ERAPath(year int) string {
	return filepath.Join(c.DataDir, fmt.Sprintf("%dera.csv", year))
}

// LogoDir returns the directory holding team logos named {TEAM}.png.
func (c *Config) LogoDir() string {
	return filepath.Join(c.DataDir, "images")
}

// HeadshotDir returns the directory holding headshots named {ID}.png.
func (c *Config) HeadshotDir() string {
	return filepath.Join(c.DataDir, "player_headshots_id")
}

// LatestYear returns the most recent configured season.
func (c *Config) LatestYear() int {
	return c.Years[len(c.Years)-1]
}

// ParseYears parses a comma-separated season list such as "2022,2023,2024".
// Duplicates are dropped and the result is sorted ascending.
func ParseYears(s string) ([]int, error) {
	seen := make(map[int]bool)
	var years []int
	for _, part := range splitList(s) {
		year, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid season %q: %w", part, err)
		}
		if year < 1871 || year > 9999 {
			return nil, fmt.Errorf("season out of range: %d", year)
		}
		if !seen[year] {
			seen[year] = true
			years = append(years, year)
		}
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("no seasons in %q", s)
	}
	sort.Ints(years)
	return years, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}
