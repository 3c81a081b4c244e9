package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ironsheep/bead-pattern-mcp/internal/colorspace"
	"github.com/ironsheep/bead-pattern-mcp/internal/deltae"
	"github.com/ironsheep/bead-pattern-mcp/internal/estimate"
	"github.com/ironsheep/bead-pattern-mcp/internal/imaging"
	"github.com/ironsheep/bead-pattern-mcp/internal/match"
	"github.com/ironsheep/bead-pattern-mcp/internal/palette"
	"github.com/ironsheep/bead-pattern-mcp/internal/quantize"
	"github.com/ironsheep/bead-pattern-mcp/internal/report"
)

// Defaults for optional tool arguments.
const (
	defaultAlternatives = 5
	defaultMajorEvery   = 10
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "bead_convert").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.cfg.Debug {
			log.Printf("tool %s failed after %s: %v", params.Name, time.Since(start), err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	if s.cfg.Debug {
		log.Printf("tool %s done in %s", params.Name, time.Since(start))
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Resolves images from the cache or conversions from the job store
//  4. Calls into the imaging, match, quantize or estimate packages
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Images
	case "image_load":
		return s.handleImageLoad(args)

	// Palette
	case "bead_palette":
		return s.handleBeadPalette(args)
	case "bead_palette_stats":
		return s.handleBeadPaletteStats(args)

	// Matching
	case "bead_match_color":
		return s.handleBeadMatchColor(args)
	case "bead_sample_color":
		return s.handleBeadSampleColor(args)

	// Conversion
	case "bead_convert":
		return s.handleBeadConvert(args)

	// Follow-ups on a stored conversion
	case "bead_color_list":
		return s.handleBeadColorList(args)
	case "bead_shopping_list":
		return s.handleBeadShoppingList(args)
	case "bead_preview":
		return s.handleBeadPreview(args)
	case "bead_pattern_sheet":
		return s.handleBeadPatternSheet(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// paletteFilterArgs is embedded by every tool that matches against the palette.
type paletteFilterArgs struct {
	ExcludeSpecial     bool `json:"exclude_special"`
	ExcludeTranslucent bool `json:"exclude_translucent"`
}

func (a paletteFilterArgs) options() palette.Options {
	return palette.Options{
		ExcludeSpecial:     a.ExcludeSpecial,
		ExcludeTranslucent: a.ExcludeTranslucent,
	}
}

// === Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Palette Handlers ===

type beadPaletteArgs struct {
	paletteFilterArgs
	Category string `json:"category"`
}

type beadPaletteResult struct {
	Count      int                `json:"count"`
	Categories []palette.Category `json:"categories"`
	Colors     []palette.Color    `json:"colors"`
}

func (s *Server) handleBeadPalette(args json.RawMessage) (interface{}, error) {
	var a beadPaletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	view, err := s.catalog.Filter(a.options())
	if err != nil {
		return nil, err
	}

	colors := view.Colors()
	if a.Category != "" {
		filtered := colors[:0:0]
		for _, c := range colors {
			if string(c.Category) == a.Category {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) == 0 {
			return nil, fmt.Errorf("no colors in category %q", a.Category)
		}
		colors = filtered
	}

	return &beadPaletteResult{
		Count:      len(colors),
		Categories: view.Categories(),
		Colors:     colors,
	}, nil
}

type beadPaletteStatsResult struct {
	Total       int                      `json:"total"`
	ByCategory  map[palette.Category]int `json:"by_category"`
	Special     int                      `json:"special"`
	Translucent int                      `json:"translucent"`
	Spacing     match.Spacing            `json:"spacing"`
	Policy      deltae.Policy            `json:"policy"`

	// ThresholdSafe reports whether the hybrid threshold is at or below the
	// closest Delta E 76 pair, so no two distinct entries both fall under it
	// for a query halfway between them.
	ThresholdSafe bool `json:"threshold_safe"`
}

func (s *Server) handleBeadPaletteStats(args json.RawMessage) (interface{}, error) {
	var a paletteFilterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	view, err := s.catalog.Filter(a.options())
	if err != nil {
		return nil, err
	}

	stats := &beadPaletteStatsResult{
		Total:      view.Len(),
		ByCategory: make(map[palette.Category]int),
		Spacing:    match.ClosestPair(view),
		Policy:     s.cfg.Policy,
	}
	for _, c := range view.Colors() {
		stats.ByCategory[c.Category]++
		if c.Special {
			stats.Special++
		}
		if c.Translucent() {
			stats.Translucent++
		}
	}
	stats.ThresholdSafe = stats.Spacing.Pairs == 0 || s.cfg.Policy.Threshold <= stats.Spacing.Closest76.Distance
	return stats, nil
}

// === Matching Handlers ===

type beadMatchColorArgs struct {
	paletteFilterArgs
	R   *int   `json:"r"`
	G   *int   `json:"g"`
	B   *int   `json:"b"`
	Hex string `json:"hex"`
	K   int    `json:"k"`
}

// queryColor is the color a match was computed for.
type queryColor struct {
	Hex string         `json:"hex"`
	RGB colorspace.RGB `json:"rgb"`
	Lab colorspace.Lab `json:"lab"`
}

type beadMatchResult struct {
	Query        queryColor     `json:"query"`
	Best         match.Result   `json:"best"`
	Alternatives []match.Result `json:"alternatives"`
}

func (a beadMatchColorArgs) color() (colorspace.RGB, error) {
	if a.Hex != "" {
		if a.R != nil || a.G != nil || a.B != nil {
			return colorspace.RGB{}, errors.New("give either hex or r, g and b, not both")
		}
		return colorspace.ParseHex(a.Hex)
	}
	if a.R == nil || a.G == nil || a.B == nil {
		return colorspace.RGB{}, errors.New("r, g and b (or hex) are required")
	}
	return colorspace.RGBFromInts(*a.R, *a.G, *a.B)
}

func (s *Server) handleBeadMatchColor(args json.RawMessage) (interface{}, error) {
	var a beadMatchColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c, err := a.color()
	if err != nil {
		return nil, err
	}
	if a.K == 0 {
		a.K = defaultAlternatives
	}
	m, err := s.matcher(a.options())
	if err != nil {
		return nil, err
	}
	return matchColor(m, c, a.K)
}

// matchColor runs the hybrid nearest search and the exact top-k ranking for c.
func matchColor(m *match.Matcher, c colorspace.RGB, k int) (*beadMatchResult, error) {
	lab := c.Lab()
	alternatives, err := m.NearestKLab(lab, k)
	if err != nil {
		return nil, err
	}
	return &beadMatchResult{
		Query:        queryColor{Hex: c.Hex(), RGB: c, Lab: lab},
		Best:         m.NearestLab(lab),
		Alternatives: alternatives,
	}, nil
}

type beadSampleColorArgs struct {
	paletteFilterArgs
	Path   string `json:"path"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Radius int    `json:"radius"`
	K      int    `json:"k"`
}

type beadSampleResult struct {
	Sample *imaging.ColorResult `json:"sample"`
	Region *imaging.Region      `json:"region,omitempty"`
	*beadMatchResult
}

func (s *Server) handleBeadSampleColor(args json.RawMessage) (interface{}, error) {
	var a beadSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Radius < 0 {
		return nil, fmt.Errorf("radius must not be negative, got %d", a.Radius)
	}
	if a.K == 0 {
		a.K = defaultAlternatives
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	result := &beadSampleResult{}
	if a.Radius == 0 {
		result.Sample, err = imaging.SampleColor(img, a.X, a.Y)
	} else {
		b := img.Bounds()
		if a.X < 0 || a.Y < 0 || a.X >= b.Dx() || a.Y >= b.Dy() {
			return nil, fmt.Errorf("coordinates (%d, %d) outside image bounds (%dx%d)", a.X, a.Y, b.Dx(), b.Dy())
		}
		r := imaging.Region{
			X1: max(a.X-a.Radius, 0),
			Y1: max(a.Y-a.Radius, 0),
			X2: min(a.X+a.Radius+1, b.Dx()),
			Y2: min(a.Y+a.Radius+1, b.Dy()),
		}
		result.Region = &r
		result.Sample, err = imaging.AverageColor(img, r)
	}
	if err != nil {
		return nil, err
	}

	m, err := s.matcher(a.options())
	if err != nil {
		return nil, err
	}
	result.beadMatchResult, err = matchColor(m, result.Sample.Composited, a.K)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// === Conversion Handlers ===

type beadConvertArgs struct {
	paletteFilterArgs
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Mode   string `json:"mode"`

	Crop       *imaging.Region `json:"crop"`
	CropRegion string          `json:"crop_region"`

	Denoise          bool    `json:"denoise"`
	Brightness       int     `json:"brightness"`
	Contrast         int     `json:"contrast"`
	Saturation       int     `json:"saturation"`
	Sharpen          bool    `json:"sharpen"`
	LineArt          bool    `json:"line_art"`
	LineArtThreshold float64 `json:"line_art_threshold"`
	MaxColors        int     `json:"max_colors"`

	IncludeGrid *bool `json:"include_grid"`
}

type beadConvertResult struct {
	JobID        string                  `json:"job_id"`
	Width        int                     `json:"width"`
	Height       int                     `json:"height"`
	TotalBeads   int                     `json:"total_beads"`
	UniqueColors int                     `json:"unique_colors"`
	MeanDistance float64                 `json:"mean_distance"`
	Quality      *quantize.QualityReport `json:"quality"`
	Counts       map[string]int          `json:"counts"`
	Grid         [][]string              `json:"grid,omitempty"`
	ElapsedMS    int64                   `json:"elapsed_ms"`
}

func (s *Server) handleBeadConvert(args json.RawMessage) (interface{}, error) {
	var a beadConvertArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	start := time.Now()

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	opts := imaging.PrepareOptions{
		Width:            a.Width,
		Height:           a.Height,
		Mode:             imaging.ResizeMode(a.Mode),
		Crop:             a.Crop,
		Denoise:          a.Denoise,
		Brightness:       a.Brightness,
		Contrast:         a.Contrast,
		Saturation:       a.Saturation,
		Sharpen:          a.Sharpen,
		LineArt:          a.LineArt,
		LineArtThreshold: a.LineArtThreshold,
		MaxColors:        a.MaxColors,
		MaxCells:         s.cfg.MaxCells,
	}
	if a.CropRegion != "" {
		if a.Crop != nil {
			return nil, errors.New("give either crop or crop_region, not both")
		}
		b := img.Bounds()
		r, err := imaging.NamedRegion(b.Dx(), b.Dy(), a.CropRegion)
		if err != nil {
			return nil, err
		}
		opts.Crop = &r
	}

	prepared, err := imaging.Prepare(img, opts)
	if err != nil {
		return nil, err
	}
	grid, err := imaging.GridFromImage(prepared)
	if err != nil {
		return nil, err
	}

	m, err := s.matcher(a.options())
	if err != nil {
		return nil, err
	}
	q := quantize.New(m)
	q.Workers = s.cfg.Workers
	q.ChunkRows = s.cfg.ChunkRows

	sess, err := q.Start(grid)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ConvertTimeout)
	defer cancel()

	res, err := sess.Run(ctx, nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			rows, total := sess.Progress()
			return nil, fmt.Errorf("conversion timed out after %s with %d of %d rows done; reduce the grid size", s.cfg.ConvertTimeout, rows, total)
		}
		return nil, err
	}

	quality, err := quantize.Analyze(grid, res)
	if err != nil {
		return nil, err
	}

	id := s.jobs.put(&job{
		Path:    a.Path,
		Options: a.options(),
		Result:  res,
		Quality: quality,
	})

	out := &beadConvertResult{
		JobID:        id,
		Width:        res.Width,
		Height:       res.Height,
		TotalBeads:   res.Total(),
		UniqueColors: len(res.Counts),
		MeanDistance: res.MeanDistance,
		Quality:      quality,
		Counts:       res.Counts,
		ElapsedMS:    time.Since(start).Milliseconds(),
	}
	if a.IncludeGrid == nil || *a.IncludeGrid {
		out.Grid = res.IDs()
	}

	if s.cfg.Debug {
		log.Printf("convert %s: %dx%d, %d colors, mean dE %.2f, job %s", a.Path, res.Width, res.Height, len(res.Counts), res.MeanDistance, id)
	}
	return out, nil
}

// === Stored Job Handlers ===

type jobArgs struct {
	JobID string `json:"job_id"`
}

func (s *Server) handleBeadColorList(args json.RawMessage) (interface{}, error) {
	var a jobArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	j, err := s.jobs.get(a.JobID)
	if err != nil {
		return nil, err
	}
	return estimate.ColorList(j.Result.Counts, j.Result.Palette)
}

type beadShoppingListArgs struct {
	JobID      string   `json:"job_id"`
	SpareRatio *float64 `json:"spare_ratio"`
	RoundTo    *int     `json:"round_to"`
	PackSizes  []int    `json:"pack_sizes"`
	UnitPrice  *float64 `json:"unit_price"`
}

func (s *Server) handleBeadShoppingList(args json.RawMessage) (interface{}, error) {
	var a beadShoppingListArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	j, err := s.jobs.get(a.JobID)
	if err != nil {
		return nil, err
	}

	settings := s.cfg.Estimate
	if a.SpareRatio != nil {
		settings.SpareRatio = *a.SpareRatio
	}
	if a.RoundTo != nil {
		settings.RoundTo = *a.RoundTo
	}
	if a.PackSizes != nil {
		settings.PackSizes = a.PackSizes
	}
	if a.UnitPrice != nil {
		settings.UnitPrice = *a.UnitPrice
	}
	return estimate.Shopping(j.Result.Counts, j.Result.Palette, settings)
}

type beadPreviewArgs struct {
	JobID           string `json:"job_id"`
	CellSize        int    `json:"cell_size"`
	Style           string `json:"style"`
	ShowGrid        *bool  `json:"show_grid"`
	MajorEvery      *int   `json:"major_every"`
	ShowIDs         bool   `json:"show_ids"`
	ShowCoordinates bool   `json:"show_coordinates"`
	OutputPath      string `json:"output_path"`
}

// previewFileResult describes a preview written to disk.
type previewFileResult struct {
	Path     string `json:"path"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	CellSize int    `json:"cell_size"`
}

func (s *Server) handleBeadPreview(args json.RawMessage) (interface{}, error) {
	var a beadPreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	j, err := s.jobs.get(a.JobID)
	if err != nil {
		return nil, err
	}

	opts := imaging.PreviewOptions{
		CellSize:        a.CellSize,
		Style:           imaging.PreviewStyle(a.Style),
		ShowGrid:        true,
		MajorEvery:      defaultMajorEvery,
		ShowIDs:         a.ShowIDs,
		ShowCoordinates: a.ShowCoordinates,
	}
	if a.ShowGrid != nil {
		opts.ShowGrid = *a.ShowGrid
	}
	if a.MajorEvery != nil {
		opts.MajorEvery = *a.MajorEvery
	}
	if opts.CellSize == 0 {
		opts.CellSize = imaging.DefaultCellSize
	}

	img, err := imaging.RenderPattern(j.Result, opts)
	if err != nil {
		return nil, err
	}

	if a.OutputPath == "" {
		return imaging.EncodePreview(img, opts.CellSize)
	}

	path, err := imaging.ExpandPath(a.OutputPath)
	if err != nil {
		return nil, err
	}
	if err := imaging.SavePreview(img, path); err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &previewFileResult{
		Path:     path,
		Width:    b.Dx(),
		Height:   b.Dy(),
		CellSize: opts.CellSize,
	}, nil
}

type beadPatternSheetArgs struct {
	JobID      string `json:"job_id"`
	Title      string `json:"title"`
	CellSize   int    `json:"cell_size"`
	ShowIDs    bool   `json:"show_ids"`
	OutputPath string `json:"output_path"`
}

type patternSheetResult struct {
	HTML  string `json:"html,omitempty"`
	Path  string `json:"path,omitempty"`
	Bytes int    `json:"bytes"`
}

func (s *Server) handleBeadPatternSheet(args json.RawMessage) (interface{}, error) {
	var a beadPatternSheetArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	j, err := s.jobs.get(a.JobID)
	if err != nil {
		return nil, err
	}
	if a.Title == "" {
		a.Title = filepath.Base(j.Path)
	}

	sheet, err := report.NewSheet(j.Result, j.Quality, s.cfg.Estimate, report.Options{
		Title:    a.Title,
		CellSize: a.CellSize,
		ShowIDs:  a.ShowIDs,
	})
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := report.Render(&buf, sheet); err != nil {
		return nil, err
	}

	if a.OutputPath == "" {
		return &patternSheetResult{HTML: buf.String(), Bytes: buf.Len()}, nil
	}
	path, err := imaging.ExpandPath(a.OutputPath)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write pattern sheet: %w", err)
	}
	return &patternSheetResult{Path: path, Bytes: buf.Len()}, nil
}
