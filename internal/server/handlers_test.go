package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/bead-pattern-mcp/internal/config"
	"github.com/ironsheep/bead-pattern-mcp/internal/palette"
)

var (
	beadRed  = color.NRGBA{179, 25, 46, 255}  // P06
	beadBlue = color.NRGBA{44, 113, 171, 255} // P07
)

// createTestImageFile creates a single-color PNG and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return writeTestPNG(t, img)
}

// createSplitImageFile creates a PNG whose left half is left and right half
// is right.
func createSplitImageFile(t *testing.T, width, height int, left, right color.Color) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.Set(x, y, left)
			} else {
				img.Set(x, y, right)
			}
		}
	}
	return writeTestPNG(t, img)
}

func writeTestPNG(t *testing.T, img image.Image) string {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "handler-test-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return f.Name()
}

// callTool runs a tools/call request and decodes the JSON text content.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) map[string]interface{} {
	t.Helper()

	resp := s.handleRequest(toolRequest(t, name, args))
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("%s failed: %s: %v", name, resp.Error.Message, resp.Error.Data)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("Result should be a map, got %T", resp.Result)
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("unexpected content: %v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &out); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	return out
}

// callToolError runs a tools/call request that is expected to fail and
// returns the error detail.
func callToolError(t *testing.T, s *Server, name string, args map[string]interface{}) string {
	t.Helper()

	resp := s.handleRequest(toolRequest(t, name, args))
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error == nil {
		t.Fatalf("%s should fail", name)
	}
	if resp.Error.Code != -32000 {
		t.Errorf("error code: got %d, want -32000", resp.Error.Code)
	}
	detail, _ := resp.Error.Data.(string)
	return detail
}

func toolRequest(t *testing.T, name string, args map[string]interface{}) *MCPRequest {
	t.Helper()
	params, err := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}
	return &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params}
}

// convert runs bead_convert and returns the job ID with the decoded result.
func convert(t *testing.T, s *Server, args map[string]interface{}) (string, map[string]interface{}) {
	t.Helper()
	out := callTool(t, s, "bead_convert", args)
	id, _ := out["job_id"].(string)
	if id == "" {
		t.Fatal("bead_convert returned no job_id")
	}
	return id, out
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 100, 80, color.NRGBA{255, 0, 0, 255})

	out := callTool(t, s, "image_load", map[string]interface{}{"path": imgPath})

	if out["width"] != float64(100) || out["height"] != float64(80) {
		t.Errorf("dimensions: got %vx%v, want 100x80", out["width"], out["height"])
	}
	if out["format"] != "png" {
		t.Errorf("format: got %v, want png", out["format"])
	}
	if out["has_transparency"] != false {
		t.Errorf("has_transparency: got %v, want false", out["has_transparency"])
	}
	if out["cells"] != float64(8000) {
		t.Errorf("cells: got %v, want 8000", out["cells"])
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := newTestServer(t)
	detail := callToolError(t, s, "image_load", map[string]interface{}{"path": "/nonexistent/image.png"})
	if detail == "" {
		t.Error("expected error detail")
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: json.RawMessage(`{bad`)})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected -32602, got %+v", resp.Error)
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := newTestServer(t)
	detail := callToolError(t, s, "image_ocr_full", map[string]interface{}{})
	if !strings.Contains(detail, "unknown tool") {
		t.Errorf("detail: got %q", detail)
	}
}

func TestHandleToolsCall_Palette(t *testing.T) {
	s := newTestServer(t)

	all := callTool(t, s, "bead_palette", map[string]interface{}{})
	if all["count"] != float64(palette.Default().Len()) {
		t.Errorf("count: got %v, want %d", all["count"], palette.Default().Len())
	}

	plain := callTool(t, s, "bead_palette", map[string]interface{}{"exclude_special": true})
	if plain["count"].(float64) >= all["count"].(float64) {
		t.Errorf("exclude_special should shrink the palette: %v vs %v", plain["count"], all["count"])
	}
	for _, c := range plain["colors"].([]interface{}) {
		if c.(map[string]interface{})["special"] == true {
			t.Errorf("special color listed: %v", c)
		}
	}

	blues := callTool(t, s, "bead_palette", map[string]interface{}{"category": "blue"})
	for _, c := range blues["colors"].([]interface{}) {
		if c.(map[string]interface{})["category"] != "blue" {
			t.Errorf("non-blue color listed: %v", c)
		}
	}

	callToolError(t, s, "bead_palette", map[string]interface{}{"category": "plaid"})
}

func TestHandleToolsCall_PaletteStats(t *testing.T) {
	s := newTestServer(t)

	out := callTool(t, s, "bead_palette_stats", map[string]interface{}{})

	n := out["total"].(float64)
	if n != float64(palette.Default().Len()) {
		t.Errorf("total: got %v, want %d", n, palette.Default().Len())
	}

	sum := 0.0
	for _, v := range out["by_category"].(map[string]interface{}) {
		sum += v.(float64)
	}
	if sum != n {
		t.Errorf("category counts sum to %v, want %v", sum, n)
	}

	spacing := out["spacing"].(map[string]interface{})
	if spacing["pairs"] != n*(n-1)/2 {
		t.Errorf("pairs: got %v, want %v", spacing["pairs"], n*(n-1)/2)
	}
	if _, ok := out["threshold_safe"].(bool); !ok {
		t.Error("threshold_safe missing")
	}

	plain := callTool(t, s, "bead_palette_stats", map[string]interface{}{"exclude_special": true})
	if plain["special"] != float64(0) {
		t.Errorf("special after exclusion: got %v, want 0", plain["special"])
	}
}

func TestHandleToolsCall_MatchColor(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		args   map[string]interface{}
		wantID string
	}{
		{"exact rgb", map[string]interface{}{"r": 179, "g": 25, "b": 46}, "P06"},
		{"exact hex", map[string]interface{}{"hex": "#2C71AB"}, "P07"},
		{"translucent red", map[string]interface{}{"hex": "#FF0000"}, "P27"},
		{"black", map[string]interface{}{"r": 70, "g": 68, "b": 68}, "P02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := callTool(t, s, "bead_match_color", tt.args)
			best := out["best"].(map[string]interface{})
			id := best["color"].(map[string]interface{})["id"]
			if id != tt.wantID {
				t.Errorf("best: got %v, want %s", id, tt.wantID)
			}
			if d := best["distance"].(float64); d > 1e-9 {
				t.Errorf("distance: got %v, want 0", d)
			}
		})
	}
}

func TestHandleToolsCall_MatchColor_Exclusions(t *testing.T) {
	s := newTestServer(t)

	out := callTool(t, s, "bead_match_color", map[string]interface{}{"hex": "#FF0000", "exclude_translucent": true})
	best := out["best"].(map[string]interface{})
	bead := best["color"].(map[string]interface{})
	if bead["category"] == "translucent" {
		t.Errorf("translucent bead returned: %v", bead["id"])
	}
	if best["distance"].(float64) <= 0 {
		t.Error("no exact match should remain")
	}
}

func TestHandleToolsCall_MatchColor_Alternatives(t *testing.T) {
	s := newTestServer(t)

	out := callTool(t, s, "bead_match_color", map[string]interface{}{"r": 120, "g": 90, "b": 60, "k": 4})

	alts := out["alternatives"].([]interface{})
	if len(alts) != 4 {
		t.Fatalf("alternatives: got %d, want 4", len(alts))
	}
	prev := -1.0
	for _, a := range alts {
		d := a.(map[string]interface{})["distance"].(float64)
		if d < prev {
			t.Errorf("alternatives not sorted: %v after %v", d, prev)
		}
		prev = d
	}

	// The hybrid best is the exact best.
	best := out["best"].(map[string]interface{})
	first := alts[0].(map[string]interface{})
	if math.Abs(best["distance"].(float64)-first["distance"].(float64)) > 1e-9 {
		t.Errorf("best %v differs from top alternative %v", best["distance"], first["distance"])
	}

	query := out["query"].(map[string]interface{})
	if query["hex"] != "#785A3C" {
		t.Errorf("query hex: got %v, want #785A3C", query["hex"])
	}

	def := callTool(t, s, "bead_match_color", map[string]interface{}{"hex": "#785A3C"})
	if n := len(def["alternatives"].([]interface{})); n != defaultAlternatives {
		t.Errorf("default alternatives: got %d, want %d", n, defaultAlternatives)
	}
}

func TestHandleToolsCall_MatchColor_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"no color", map[string]interface{}{}},
		{"partial rgb", map[string]interface{}{"r": 10, "g": 10}},
		{"hex and rgb", map[string]interface{}{"hex": "#000000", "r": 0, "g": 0, "b": 0}},
		{"channel too large", map[string]interface{}{"r": 300, "g": 0, "b": 0}},
		{"negative channel", map[string]interface{}{"r": -1, "g": 0, "b": 0}},
		{"bad hex", map[string]interface{}{"hex": "red"}},
		{"negative k", map[string]interface{}{"hex": "#000000", "k": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			callToolError(t, s, "bead_match_color", tt.args)
		})
	}
}

func TestHandleToolsCall_SampleColor(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 10, 10, beadRed)

	out := callTool(t, s, "bead_sample_color", map[string]interface{}{"path": imgPath, "x": 5, "y": 5})

	sample := out["sample"].(map[string]interface{})
	if sample["hex"] != "#B3192E" {
		t.Errorf("sample hex: got %v, want #B3192E", sample["hex"])
	}
	if _, ok := out["region"]; ok {
		t.Error("single-pixel sample should not report a region")
	}
	best := out["best"].(map[string]interface{})
	if id := best["color"].(map[string]interface{})["id"]; id != "P06" {
		t.Errorf("best: got %v, want P06", id)
	}
}

func TestHandleToolsCall_SampleColor_Radius(t *testing.T) {
	s := newTestServer(t)
	imgPath := createSplitImageFile(t, 10, 10, beadRed, beadBlue)

	out := callTool(t, s, "bead_sample_color", map[string]interface{}{"path": imgPath, "x": 0, "y": 0, "radius": 2})

	region := out["region"].(map[string]interface{})
	if region["x1"] != float64(0) || region["y1"] != float64(0) || region["x2"] != float64(3) || region["y2"] != float64(3) {
		t.Errorf("region should be clipped to the image: %v", region)
	}
	best := out["best"].(map[string]interface{})
	if id := best["color"].(map[string]interface{})["id"]; id != "P06" {
		t.Errorf("best: got %v, want P06", id)
	}

	callToolError(t, s, "bead_sample_color", map[string]interface{}{"path": imgPath, "x": 10, "y": 0, "radius": 1})
	callToolError(t, s, "bead_sample_color", map[string]interface{}{"path": imgPath, "x": 1, "y": 1, "radius": -1})
}

func TestHandleToolsCall_SampleColor_Transparent(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 4, 4, color.NRGBA{0, 0, 0, 0})

	out := callTool(t, s, "bead_sample_color", map[string]interface{}{"path": imgPath, "x": 1, "y": 1})

	composited := out["sample"].(map[string]interface{})["composited"].(map[string]interface{})
	if composited["r"] != float64(255) || composited["g"] != float64(255) || composited["b"] != float64(255) {
		t.Errorf("transparent pixel should composite to white, got %v", composited)
	}
	if q := out["query"].(map[string]interface{}); q["hex"] != "#FFFFFF" {
		t.Errorf("match query: got %v, want #FFFFFF", q["hex"])
	}
}

func TestHandleToolsCall_Convert(t *testing.T) {
	s := newTestServer(t)
	imgPath := createSplitImageFile(t, 20, 10, beadRed, beadBlue)

	id, out := convert(t, s, map[string]interface{}{"path": imgPath})

	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("job_id is not a UUID: %v", err)
	}
	if out["width"] != float64(20) || out["height"] != float64(10) {
		t.Errorf("size: got %vx%v, want 20x10", out["width"], out["height"])
	}
	if out["total_beads"] != float64(200) || out["unique_colors"] != float64(2) {
		t.Errorf("totals: got %v beads, %v colors", out["total_beads"], out["unique_colors"])
	}

	counts := out["counts"].(map[string]interface{})
	if counts["P06"] != float64(100) || counts["P07"] != float64(100) {
		t.Errorf("counts: got %v", counts)
	}
	if d := out["mean_distance"].(float64); d > 1e-9 {
		t.Errorf("mean_distance: got %v, want 0", d)
	}

	quality := out["quality"].(map[string]interface{})
	if quality["grade"] != "good" || quality["score"] != float64(100) {
		t.Errorf("quality: got %v", quality)
	}

	grid := out["grid"].([]interface{})
	if len(grid) != 10 {
		t.Fatalf("grid rows: got %d, want 10", len(grid))
	}
	row := grid[0].([]interface{})
	if len(row) != 20 || row[0] != "P06" || row[19] != "P07" {
		t.Errorf("first row: %v", row)
	}

	if s.jobs.count() != 1 {
		t.Errorf("stored jobs: got %d, want 1", s.jobs.count())
	}
}

func TestHandleToolsCall_Convert_Options(t *testing.T) {
	s := newTestServer(t)
	imgPath := createSplitImageFile(t, 20, 10, beadRed, beadBlue)

	tests := []struct {
		name       string
		args       map[string]interface{}
		wantW      float64
		wantH      float64
		wantCounts map[string]float64
	}{
		{
			"crop region",
			map[string]interface{}{"crop_region": "left-half"},
			10, 10,
			map[string]float64{"P06": 100},
		},
		{
			"explicit crop",
			map[string]interface{}{"crop": map[string]interface{}{"x1": 12, "y1": 0, "x2": 20, "y2": 5}},
			8, 5,
			map[string]float64{"P07": 40},
		},
		{
			"stretch",
			map[string]interface{}{"crop_region": "right-half", "width": 4, "height": 2, "mode": "stretch"},
			4, 2,
			map[string]float64{"P07": 8},
		},
		{
			"fit by width",
			map[string]interface{}{"crop_region": "left-half", "width": 5},
			5, 5,
			map[string]float64{"P06": 25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.args["path"] = imgPath
			tt.args["include_grid"] = false
			_, out := convert(t, s, tt.args)

			if out["width"] != tt.wantW || out["height"] != tt.wantH {
				t.Errorf("size: got %vx%v, want %vx%v", out["width"], out["height"], tt.wantW, tt.wantH)
			}
			if _, ok := out["grid"]; ok {
				t.Error("grid should be omitted")
			}
			counts := out["counts"].(map[string]interface{})
			if len(counts) != len(tt.wantCounts) {
				t.Errorf("counts: got %v, want %v", counts, tt.wantCounts)
			}
			for id, n := range tt.wantCounts {
				if counts[id] != n {
					t.Errorf("%s: got %v, want %v", id, counts[id], n)
				}
			}
		})
	}
}

func TestHandleToolsCall_Convert_MaxColors(t *testing.T) {
	s := newTestServer(t)
	img := image.NewNRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.NRGBA{uint8(x * 16), uint8(y * 32), 128, 255})
		}
	}
	imgPath := writeTestPNG(t, img)

	_, out := convert(t, s, map[string]interface{}{"path": imgPath, "max_colors": 2, "include_grid": false})
	if n := out["unique_colors"].(float64); n < 1 || n > 2 {
		t.Errorf("unique_colors: got %v, want at most 2", n)
	}
	if out["total_beads"] != float64(128) {
		t.Errorf("total_beads: got %v, want 128", out["total_beads"])
	}
}

func TestHandleToolsCall_Convert_Errors(t *testing.T) {
	cfg := config.Default()
	cfg.MaxCells = 50
	s := New(cfg)
	imgPath := createSplitImageFile(t, 20, 10, beadRed, beadBlue)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"too many cells", map[string]interface{}{"path": imgPath}},
		{"crop and crop_region", map[string]interface{}{
			"path": imgPath, "width": 5,
			"crop":        map[string]interface{}{"x1": 0, "y1": 0, "x2": 5, "y2": 5},
			"crop_region": "center",
		}},
		{"unknown region", map[string]interface{}{"path": imgPath, "width": 5, "crop_region": "middle"}},
		{"crop outside image", map[string]interface{}{"path": imgPath, "width": 5, "crop": map[string]interface{}{"x1": 0, "y1": 0, "x2": 30, "y2": 5}}},
		{"unknown mode", map[string]interface{}{"path": imgPath, "width": 5, "mode": "zoom"}},
		{"brightness out of range", map[string]interface{}{"path": imgPath, "width": 5, "brightness": 200}},
		{"one max color", map[string]interface{}{"path": imgPath, "width": 5, "max_colors": 1}},
		{"missing file", map[string]interface{}{"path": filepath.Join(t.TempDir(), "missing.png"), "width": 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			callToolError(t, s, "bead_convert", tt.args)
		})
	}
	if s.jobs.count() != 0 {
		t.Errorf("failed conversions should not be stored, got %d jobs", s.jobs.count())
	}
}

func TestHandleToolsCall_Convert_Timeout(t *testing.T) {
	cfg := config.Default()
	cfg.ConvertTimeout = time.Nanosecond
	s := New(cfg)
	imgPath := createTestImageFile(t, 20, 20, beadRed)

	detail := callToolError(t, s, "bead_convert", map[string]interface{}{"path": imgPath})
	if !strings.Contains(detail, "timed out") {
		t.Errorf("detail: got %q, want a timeout", detail)
	}
}

func TestHandleToolsCall_Convert_Evicts(t *testing.T) {
	cfg := config.Default()
	cfg.ResultLimit = 2
	s := New(cfg)
	imgPath := createTestImageFile(t, 4, 4, beadBlue)

	first, _ := convert(t, s, map[string]interface{}{"path": imgPath})
	second, _ := convert(t, s, map[string]interface{}{"path": imgPath})
	third, _ := convert(t, s, map[string]interface{}{"path": imgPath})

	if first == second || second == third {
		t.Fatal("job IDs should be unique")
	}
	detail := callToolError(t, s, "bead_color_list", map[string]interface{}{"job_id": first})
	if !strings.Contains(detail, first) {
		t.Errorf("detail should name the job: %q", detail)
	}
	callTool(t, s, "bead_color_list", map[string]interface{}{"job_id": second})
	callTool(t, s, "bead_color_list", map[string]interface{}{"job_id": third})
}

func TestHandleToolsCall_ColorList(t *testing.T) {
	s := newTestServer(t)
	imgPath := createSplitImageFile(t, 20, 10, beadRed, beadBlue)
	id, _ := convert(t, s, map[string]interface{}{"path": imgPath})

	out := callTool(t, s, "bead_color_list", map[string]interface{}{"job_id": id})

	if out["total_beads"] != float64(200) || out["unique_colors"] != float64(2) {
		t.Errorf("totals: got %v beads, %v colors", out["total_beads"], out["unique_colors"])
	}
	groups := out["groups"].([]interface{})
	if len(groups) != 2 {
		t.Fatalf("groups: got %d, want 2", len(groups))
	}
	// Catalog category order: red before blue
	if g := groups[0].(map[string]interface{}); g["category"] != "red" || g["total"] != float64(100) {
		t.Errorf("first group: %v", g)
	}
	if g := groups[1].(map[string]interface{}); g["category"] != "blue" {
		t.Errorf("second group: %v", g)
	}

	callToolError(t, s, "bead_color_list", map[string]interface{}{})
	callToolError(t, s, "bead_color_list", map[string]interface{}{"job_id": uuid.NewString()})
}

func TestHandleToolsCall_ShoppingList(t *testing.T) {
	s := newTestServer(t)
	imgPath := createSplitImageFile(t, 20, 10, beadRed, beadBlue)
	id, _ := convert(t, s, map[string]interface{}{"path": imgPath})

	tests := []struct {
		name          string
		args          map[string]interface{}
		wantSuggested float64 // per color
		wantPackage   float64
		wantCost      float64
	}{
		// 100 * 1.1 = 110, rounded up to 200
		{"defaults", map[string]interface{}{}, 200, 200, 20},
		{"no spare", map[string]interface{}{"spare_ratio": 0}, 100, 200, 10},
		{"round to 10", map[string]interface{}{"round_to": 10}, 110, 200, 11},
		{"custom packs", map[string]interface{}{"pack_sizes": []int{50, 150, 300}}, 200, 300, 20},
		{"price", map[string]interface{}{"unit_price": 0.1}, 200, 200, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.args["job_id"] = id
			out := callTool(t, s, "bead_shopping_list", tt.args)

			items := out["items"].([]interface{})
			if len(items) != 2 {
				t.Fatalf("items: got %d, want 2", len(items))
			}
			for _, it := range items {
				item := it.(map[string]interface{})
				if item["count"] != float64(100) {
					t.Errorf("%v count: got %v, want 100", item["id"], item["count"])
				}
				if item["suggested"] != tt.wantSuggested {
					t.Errorf("%v suggested: got %v, want %v", item["id"], item["suggested"], tt.wantSuggested)
				}
				if item["package"] != tt.wantPackage {
					t.Errorf("%v package: got %v, want %v", item["id"], item["package"], tt.wantPackage)
				}
			}
			if out["total_needed"] != float64(200) {
				t.Errorf("total_needed: got %v, want 200", out["total_needed"])
			}
			if math.Abs(out["estimated_cost"].(float64)-tt.wantCost) > 1e-9 {
				t.Errorf("estimated_cost: got %v, want %v", out["estimated_cost"], tt.wantCost)
			}
		})
	}

	callToolError(t, s, "bead_shopping_list", map[string]interface{}{"job_id": id, "round_to": 0})
	callToolError(t, s, "bead_shopping_list", map[string]interface{}{"job_id": id, "pack_sizes": []int{500, 200}})
}

func TestHandleToolsCall_Preview(t *testing.T) {
	s := newTestServer(t)
	imgPath := createSplitImageFile(t, 20, 10, beadRed, beadBlue)
	id, _ := convert(t, s, map[string]interface{}{"path": imgPath})

	tests := []struct {
		name  string
		args  map[string]interface{}
		wantW int
		wantH int
	}{
		{"defaults", map[string]interface{}{}, 20*12 + 1, 10*12 + 1},
		{"no grid", map[string]interface{}{"show_grid": false, "cell_size": 4}, 80, 40},
		{"circles with ids", map[string]interface{}{"style": "circle", "cell_size": 16, "show_ids": true}, 20*16 + 1, 10*16 + 1},
		{"coordinates", map[string]interface{}{"major_every": 5, "show_coordinates": true, "cell_size": 20}, 20*20 + 1, 10*20 + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.args["job_id"] = id
			out := callTool(t, s, "bead_preview", tt.args)

			if out["mime_type"] != "image/png" {
				t.Errorf("mime_type: got %v", out["mime_type"])
			}
			data, err := base64.StdEncoding.DecodeString(out["image_base64"].(string))
			if err != nil {
				t.Fatalf("failed to decode base64: %v", err)
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("failed to decode PNG: %v", err)
			}
			if img.Bounds().Dx() != tt.wantW || img.Bounds().Dy() != tt.wantH {
				t.Errorf("size: got %v, want %dx%d", img.Bounds(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestHandleToolsCall_PreviewToFile(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 3, 2, beadBlue)
	id, _ := convert(t, s, map[string]interface{}{"path": imgPath})

	outPath := filepath.Join(t.TempDir(), "pattern.png")
	out := callTool(t, s, "bead_preview", map[string]interface{}{
		"job_id":      id,
		"output_path": outPath,
		"cell_size":   10,
		"show_grid":   false,
	})

	if out["path"] != outPath {
		t.Errorf("path: got %v, want %s", out["path"], outPath)
	}
	if _, ok := out["image_base64"]; ok {
		t.Error("file output should not include base64 data")
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("preview not written: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode preview: %v", err)
	}
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 20 {
		t.Errorf("size: got %v, want 30x20", img.Bounds())
	}
}

func TestHandleToolsCall_Preview_Errors(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 3, 2, beadBlue)
	id, _ := convert(t, s, map[string]interface{}{"path": imgPath})

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"unknown job", map[string]interface{}{"job_id": "not-a-job"}},
		{"bad style", map[string]interface{}{"job_id": id, "style": "hexagon"}},
		{"cell too large", map[string]interface{}{"job_id": id, "cell_size": 500}},
		{"unsupported extension", map[string]interface{}{"job_id": id, "output_path": filepath.Join(t.TempDir(), "p.xyz")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			callToolError(t, s, "bead_preview", tt.args)
		})
	}
}

func TestHandleToolsCall_PatternSheet(t *testing.T) {
	s := newTestServer(t)
	imgPath := createSplitImageFile(t, 20, 10, beadRed, beadBlue)
	id, _ := convert(t, s, map[string]interface{}{"path": imgPath})

	out := callTool(t, s, "bead_pattern_sheet", map[string]interface{}{"job_id": id, "show_ids": true})
	html, _ := out["html"].(string)
	if int(out["bytes"].(float64)) != len(html) {
		t.Errorf("bytes: got %v, html is %d", out["bytes"], len(html))
	}
	for _, want := range []string{filepath.Base(imgPath), ">P06</td>", ">P07</td>", "Shopping list"} {
		if !strings.Contains(html, want) {
			t.Errorf("sheet missing %q", want)
		}
	}

	path := filepath.Join(t.TempDir(), "sheet.html")
	out = callTool(t, s, "bead_pattern_sheet", map[string]interface{}{"job_id": id, "title": "Split", "output_path": path})
	if out["path"] != path {
		t.Errorf("path: got %v, want %s", out["path"], path)
	}
	if _, ok := out["html"]; ok {
		t.Error("html should be omitted when writing to a file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("sheet not written: %v", err)
	}
	if !strings.Contains(string(data), "<title>Split</title>") {
		t.Error("written sheet lacks the title")
	}

	callToolError(t, s, "bead_pattern_sheet", map[string]interface{}{"job_id": id, "cell_size": -1})
	callToolError(t, s, "bead_pattern_sheet", map[string]interface{}{"job_id": uuid.NewString()})
}

func TestExecuteTool_AllTools(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 8, 8, color.NRGBA{128, 128, 128, 255})
	id, _ := convert(t, s, map[string]interface{}{"path": imgPath})

	// Test each tool to ensure executeTool correctly dispatches
	toolTests := []struct {
		name string
		args map[string]interface{}
	}{
		{"image_load", map[string]interface{}{"path": imgPath}},
		{"bead_palette", map[string]interface{}{}},
		{"bead_palette_stats", map[string]interface{}{"exclude_translucent": true}},
		{"bead_match_color", map[string]interface{}{"r": 1, "g": 2, "b": 3}},
		{"bead_sample_color", map[string]interface{}{"path": imgPath, "x": 4, "y": 4}},
		{"bead_convert", map[string]interface{}{"path": imgPath, "width": 4}},
		{"bead_color_list", map[string]interface{}{"job_id": id}},
		{"bead_shopping_list", map[string]interface{}{"job_id": id}},
		{"bead_preview", map[string]interface{}{"job_id": id}},
		{"bead_pattern_sheet", map[string]interface{}{"job_id": id}},
	}

	if len(toolTests) != len(GetToolDefinitions()) {
		t.Fatalf("table covers %d tools, %d are defined", len(toolTests), len(GetToolDefinitions()))
	}

	for _, tt := range toolTests {
		t.Run(tt.name, func(t *testing.T) {
			argsJSON, _ := json.Marshal(tt.args)
			result, err := s.executeTool(tt.name, argsJSON)
			if err != nil {
				t.Fatalf("executeTool(%s) failed: %v", tt.name, err)
			}
			if result == nil {
				t.Errorf("executeTool(%s) returned nil result", tt.name)
			}
		})
	}
}

func TestExecuteTool_EmptyArguments(t *testing.T) {
	s := newTestServer(t)

	if _, err := s.executeTool("bead_palette", nil); err != nil {
		t.Errorf("missing arguments should mean defaults: %v", err)
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := newTestServer(t)

	_, err := s.executeTool("image_load", json.RawMessage(`{invalid`))
	if err == nil {
		t.Error("executeTool should fail for invalid JSON")
	}
}
