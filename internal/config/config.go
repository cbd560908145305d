package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// MapGen holds all configuration for the map generator tools.
type MapGen struct {
	// Input/output
	BitmapDir  string `yaml:"bitmap_dir"`
	OutputPath string `yaml:"output_path"`

	// Random seed for spawn placement (0 = random per run)
	Seed uint64 `yaml:"seed"`

	// debug | info | warn | error
	LogLevel string `yaml:"log_level"`

	Batch   BatchConfig   `yaml:"batch"`
	Archive ArchiveConfig `yaml:"archive"`
}

// BatchConfig controls directory-wide conversion.
type BatchConfig struct {
	OutputDir string `yaml:"output_dir"`
	Workers   int    `yaml:"workers"`
}

// ArchiveConfig controls storing generated maps in PostgreSQL.
type ArchiveConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultMapGen returns MapGen config with sensible defaults.
func DefaultMapGen() MapGen {
	return MapGen{
		BitmapDir:  "bitmaps",
		OutputPath: "output.txt",
		LogLevel:   "info",
		Batch: BatchConfig{
			OutputDir: "maps",
			Workers:   4,
		},
		Archive: ArchiveConfig{
			Database: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "mapgen",
				Password: "mapgen",
				DBName:   "mapgen",
				SSLMode:  "disable",
			},
		},
	}
}

// LoadMapGen loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadMapGen(path string) (MapGen, error) {
	cfg := DefaultMapGen()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that have no usable fallback.
func (c MapGen) Validate() error {
	var errs []error
	if c.OutputPath == "" {
		errs = append(errs, errors.New("output_path is empty"))
	}
	if c.Batch.Workers < 1 {
		errs = append(errs, fmt.Errorf("batch.workers must be >= 1, got %d", c.Batch.Workers))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel converts LogLevel to a slog.Level. Empty means info.
func (c MapGen) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToLower(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
