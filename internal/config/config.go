// Package config reads server and converter settings from the environment.
//
// An optional .env file in the working directory is loaded first; variables
// already set in the environment win.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ironsheep/bead-pattern-mcp/internal/deltae"
	"github.com/ironsheep/bead-pattern-mcp/internal/estimate"
)

// Config holds the server and converter settings from the environment and
// an optional config file.
type Config struct {
	Debug          bool
	MaxCells       int
	Workers        int
	ChunkRows      int
	ConvertTimeout time.Duration
	MaxFileBytes   int64
	ResultLimit    int
	Policy         deltae.Policy
	Estimate       estimate.Settings
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() (Config, error) {
	packs, err := getEnvInts("BEAD_MCP_PACK_SIZES", []int{200, 500, 1000, 2000})
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Debug:          strings.EqualFold(getEnv("BEAD_MCP_LOG_LEVEL", "info"), "debug"),
		MaxCells:       getEnvInt("BEAD_MCP_MAX_CELLS", 10000),
		Workers:        getEnvInt("BEAD_MCP_WORKERS", runtime.NumCPU()),
		ChunkRows:      getEnvInt("BEAD_MCP_CHUNK_ROWS", 8),
		ConvertTimeout: getEnvDuration("BEAD_MCP_CONVERT_TIMEOUT", 30*time.Second),
		MaxFileBytes:   getEnvInt64("BEAD_MCP_MAX_FILE_BYTES", 10*1024*1024),
		ResultLimit:    getEnvInt("BEAD_MCP_RESULT_LIMIT", 32),
		Policy: deltae.Policy{
			Threshold:    getEnvFloat("BEAD_MCP_HYBRID_THRESHOLD", deltae.DefaultThreshold),
			ScreenFactor: getEnvFloat("BEAD_MCP_SCREEN_FACTOR", deltae.DefaultScreenFactor),
		},
		Estimate: estimate.Settings{
			SpareRatio: getEnvFloat("BEAD_MCP_SPARE_RATIO", 0.10),
			RoundTo:    getEnvInt("BEAD_MCP_ROUND_TO", 100),
			PackSizes:  packs,
			UnitPrice:  getEnvFloat("BEAD_MCP_UNIT_PRICE", 0.05),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every setting.
func (c Config) Validate() error {
	if c.MaxCells <= 0 {
		return errors.New("max cells must be > 0")
	}
	if c.Workers <= 0 {
		return errors.New("workers must be > 0")
	}
	if c.ChunkRows <= 0 {
		return errors.New("chunk rows must be > 0")
	}
	if c.ConvertTimeout <= 0 {
		return errors.New("convert timeout must be > 0")
	}
	if c.MaxFileBytes <= 0 {
		return errors.New("max file bytes must be > 0")
	}
	if c.ResultLimit <= 0 {
		return errors.New("result limit must be > 0")
	}
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	if err := c.Estimate.Validate(); err != nil {
		return err
	}
	return nil
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		MaxCells:       10000,
		Workers:        runtime.NumCPU(),
		ChunkRows:      8,
		ConvertTimeout: 30 * time.Second,
		MaxFileBytes:   10 * 1024 * 1024,
		ResultLimit:    32,
		Policy:         deltae.DefaultPolicy(),
		Estimate:       estimate.DefaultSettings(),
	}
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// getEnvInts parses a comma-separated list. Unlike the scalar getters it
// fails on a malformed value.
func getEnvInts(key string, fallback []int) ([]int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer %q", key, part)
		}
		out = append(out, n)
	}
	return out, nil
}
