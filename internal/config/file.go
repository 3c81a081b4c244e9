package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// MergeFile overlays the settings found in a YAML, TOML or JSON file on c.
// Keys missing from the file keep their current value.
//
// Recognized keys: log_level, max_cells, workers, chunk_rows,
// convert_timeout, max_file_bytes, result_limit, hybrid_threshold,
// screen_factor, spare_ratio, round_to, pack_sizes, unit_price.
func (c Config) MergeFile(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if v.IsSet("log_level") {
		c.Debug = strings.EqualFold(v.GetString("log_level"), "debug")
	}
	if v.IsSet("max_cells") {
		c.MaxCells = v.GetInt("max_cells")
	}
	if v.IsSet("workers") {
		c.Workers = v.GetInt("workers")
	}
	if v.IsSet("chunk_rows") {
		c.ChunkRows = v.GetInt("chunk_rows")
	}
	if v.IsSet("convert_timeout") {
		c.ConvertTimeout = v.GetDuration("convert_timeout")
	}
	if v.IsSet("max_file_bytes") {
		c.MaxFileBytes = v.GetInt64("max_file_bytes")
	}
	if v.IsSet("result_limit") {
		c.ResultLimit = v.GetInt("result_limit")
	}
	if v.IsSet("hybrid_threshold") {
		c.Policy.Threshold = v.GetFloat64("hybrid_threshold")
	}
	if v.IsSet("screen_factor") {
		c.Policy.ScreenFactor = v.GetFloat64("screen_factor")
	}
	if v.IsSet("spare_ratio") {
		c.Estimate.SpareRatio = v.GetFloat64("spare_ratio")
	}
	if v.IsSet("round_to") {
		c.Estimate.RoundTo = v.GetInt("round_to")
	}
	if v.IsSet("pack_sizes") {
		var packs []int
		if err := v.UnmarshalKey("pack_sizes", &packs); err != nil {
			return Config{}, fmt.Errorf("pack_sizes: %w", err)
		}
		c.Estimate.PackSizes = packs
	}
	if v.IsSet("unit_price") {
		c.Estimate.UnitPrice = v.GetFloat64("unit_price")
	}

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}
