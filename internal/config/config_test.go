package config

import (
	"reflect"
	"testing"
	"time"
)

var allKeys = []string{
	"BEAD_MCP_LOG_LEVEL",
	"BEAD_MCP_MAX_CELLS",
	"BEAD_MCP_WORKERS",
	"BEAD_MCP_CHUNK_ROWS",
	"BEAD_MCP_CONVERT_TIMEOUT",
	"BEAD_MCP_MAX_FILE_BYTES",
	"BEAD_MCP_RESULT_LIMIT",
	"BEAD_MCP_HYBRID_THRESHOLD",
	"BEAD_MCP_SCREEN_FACTOR",
	"BEAD_MCP_SPARE_RATIO",
	"BEAD_MCP_ROUND_TO",
	"BEAD_MCP_PACK_SIZES",
	"BEAD_MCP_UNIT_PRICE",
}

// clearEnv blanks every key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("defaults differ:\n got  %+v\n want %+v", cfg, Default())
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BEAD_MCP_LOG_LEVEL", "DEBUG")
	t.Setenv("BEAD_MCP_MAX_CELLS", "2500")
	t.Setenv("BEAD_MCP_WORKERS", "3")
	t.Setenv("BEAD_MCP_CHUNK_ROWS", "4")
	t.Setenv("BEAD_MCP_CONVERT_TIMEOUT", "1m30s")
	t.Setenv("BEAD_MCP_MAX_FILE_BYTES", "2048")
	t.Setenv("BEAD_MCP_RESULT_LIMIT", "5")
	t.Setenv("BEAD_MCP_HYBRID_THRESHOLD", "7.5")
	t.Setenv("BEAD_MCP_SCREEN_FACTOR", "0")
	t.Setenv("BEAD_MCP_SPARE_RATIO", "0.2")
	t.Setenv("BEAD_MCP_ROUND_TO", "50")
	t.Setenv("BEAD_MCP_PACK_SIZES", "100, 250,1000")
	t.Setenv("BEAD_MCP_UNIT_PRICE", "0.1")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if !cfg.Debug {
		t.Error("Debug should be enabled")
	}
	if cfg.MaxCells != 2500 || cfg.Workers != 3 || cfg.ChunkRows != 4 {
		t.Errorf("ints: got %d/%d/%d", cfg.MaxCells, cfg.Workers, cfg.ChunkRows)
	}
	if cfg.ConvertTimeout != 90*time.Second {
		t.Errorf("ConvertTimeout: got %v", cfg.ConvertTimeout)
	}
	if cfg.MaxFileBytes != 2048 || cfg.ResultLimit != 5 {
		t.Errorf("limits: got %d/%d", cfg.MaxFileBytes, cfg.ResultLimit)
	}
	if cfg.Policy.Threshold != 7.5 || cfg.Policy.ScreenFactor != 0 {
		t.Errorf("Policy: got %+v", cfg.Policy)
	}
	if cfg.Estimate.SpareRatio != 0.2 || cfg.Estimate.RoundTo != 50 || cfg.Estimate.UnitPrice != 0.1 {
		t.Errorf("Estimate: got %+v", cfg.Estimate)
	}
	if !reflect.DeepEqual(cfg.Estimate.PackSizes, []int{100, 250, 1000}) {
		t.Errorf("PackSizes: got %v", cfg.Estimate.PackSizes)
	}
}

func TestFromEnv_MalformedScalarFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("BEAD_MCP_MAX_CELLS", "lots")
	t.Setenv("BEAD_MCP_CONVERT_TIMEOUT", "soon")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.MaxCells != 10000 {
		t.Errorf("MaxCells: got %d, want fallback 10000", cfg.MaxCells)
	}
	if cfg.ConvertTimeout != 30*time.Second {
		t.Errorf("ConvertTimeout: got %v, want fallback 30s", cfg.ConvertTimeout)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"BEAD_MCP_MAX_CELLS", "0"},
		{"BEAD_MCP_WORKERS", "-2"},
		{"BEAD_MCP_CHUNK_ROWS", "0"},
		{"BEAD_MCP_CONVERT_TIMEOUT", "-5s"},
		{"BEAD_MCP_MAX_FILE_BYTES", "0"},
		{"BEAD_MCP_RESULT_LIMIT", "0"},
		{"BEAD_MCP_HYBRID_THRESHOLD", "-1"},
		{"BEAD_MCP_SCREEN_FACTOR", "-0.5"},
		{"BEAD_MCP_SPARE_RATIO", "-0.1"},
		{"BEAD_MCP_ROUND_TO", "0"},
		{"BEAD_MCP_PACK_SIZES", "500,200"},
		{"BEAD_MCP_PACK_SIZES", "200,big"},
		{"BEAD_MCP_UNIT_PRICE", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := FromEnv(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
