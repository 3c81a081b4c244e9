package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ironsheep/bead-pattern-mcp/internal/estimate"
	"github.com/ironsheep/bead-pattern-mcp/internal/imaging"
	"github.com/ironsheep/bead-pattern-mcp/internal/match"
	"github.com/ironsheep/bead-pattern-mcp/internal/palette"
	"github.com/ironsheep/bead-pattern-mcp/internal/quantize"
	"github.com/ironsheep/bead-pattern-mcp/internal/report"
)

type convertOptions struct {
	paletteFlags

	width      int
	height     int
	mode       string
	crop       []int
	cropRegion string

	denoise          bool
	brightness       int
	contrast         int
	saturation       int
	sharpen          bool
	lineArt          bool
	lineArtThreshold float64
	maxColors        int

	preview  string
	cellSize int
	style    string
	showIDs  bool
	sheet    string

	workers int
	jsonOut bool
	quiet   bool
	grid    bool
}

// convertReport is the --json output of convert.
type convertReport struct {
	Width        int                       `json:"width"`
	Height       int                       `json:"height"`
	MeanDistance float64                   `json:"mean_distance"`
	Quality      *quantize.QualityReport   `json:"quality"`
	Colors       *estimate.ColorListResult `json:"colors"`
	Shopping     *estimate.ShoppingList    `json:"shopping"`
	Grid         [][]string                `json:"grid,omitempty"`
	Preview      string                    `json:"preview,omitempty"`
	Sheet        string                    `json:"sheet,omitempty"`
}

func newConvertCmd() *cobra.Command {
	o := &convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert <image>",
		Short: "Convert an image into a bead pattern",
		Example: `  beadconv convert cat.png --width 29
  beadconv convert photo.jpg -W 58 -H 58 --mode fill --denoise --preview pattern.png
  beadconv convert logo.png --crop 10,10,210,110 --exclude-special --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args[0])
		},
	}

	f := cmd.Flags()
	f.IntVarP(&o.width, "width", "W", 0, "pattern width in beads (0 derives it from the height)")
	f.IntVarP(&o.height, "height", "H", 0, "pattern height in beads (0 derives it from the width)")
	f.StringVar(&o.mode, "mode", string(imaging.ResizeFit), "resize mode: fit, stretch or fill")
	f.IntSliceVar(&o.crop, "crop", nil, "source rectangle x1,y1,x2,y2 in pixels")
	f.StringVar(&o.cropRegion, "crop-region", "", "named source region (top-left, center, left-half, ...)")

	f.BoolVar(&o.denoise, "denoise", false, "apply a 3x3 median filter")
	f.IntVar(&o.brightness, "brightness", 0, "brightness adjustment -100..100")
	f.IntVar(&o.contrast, "contrast", 0, "contrast adjustment -100..100")
	f.IntVar(&o.saturation, "saturation", 0, "saturation adjustment -100..100")
	f.BoolVar(&o.sharpen, "sharpen", false, "sharpen before resizing")
	f.BoolVar(&o.lineArt, "line-art", false, "reduce the image to black outlines on white")
	f.Float64Var(&o.lineArtThreshold, "line-art-threshold", imaging.DefaultLineArtThreshold, "gradient threshold for --line-art")
	f.IntVar(&o.maxColors, "max-colors", 0, "reduce the image to at most this many colors before matching (0 keeps all)")

	f.StringVar(&o.preview, "preview", "", "write a pegboard preview to this file")
	f.IntVar(&o.cellSize, "cell-size", imaging.DefaultCellSize, "preview pixels per bead")
	f.StringVar(&o.style, "style", string(imaging.StyleSquare), "preview bead shape: square or circle")
	f.BoolVar(&o.showIDs, "show-ids", false, "label preview and sheet beads with their color ID")
	f.StringVar(&o.sheet, "sheet", "", "write a printable HTML pattern sheet to this file")

	f.IntVar(&o.workers, "workers", 0, "quantization workers (default BEAD_MCP_WORKERS or the CPU count)")
	f.BoolVar(&o.jsonOut, "json", false, "print the result as JSON")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "hide the progress bar")
	f.BoolVar(&o.grid, "grid", false, "include the bead ID grid in the output")

	o.paletteFlags.register(cmd)
	cmd.MarkFlagsMutuallyExclusive("crop", "crop-region")
	return cmd
}

func (o *convertOptions) prepareOptions(width, height, maxCells int) (imaging.PrepareOptions, error) {
	opts := imaging.PrepareOptions{
		Width:            o.width,
		Height:           o.height,
		Mode:             imaging.ResizeMode(o.mode),
		Denoise:          o.denoise,
		Brightness:       o.brightness,
		Contrast:         o.contrast,
		Saturation:       o.saturation,
		Sharpen:          o.sharpen,
		LineArt:          o.lineArt,
		LineArtThreshold: o.lineArtThreshold,
		MaxColors:        o.maxColors,
		MaxCells:         maxCells,
	}

	switch {
	case len(o.crop) > 0:
		if len(o.crop) != 4 {
			return opts, fmt.Errorf("--crop needs four values x1,y1,x2,y2, got %d", len(o.crop))
		}
		opts.Crop = &imaging.Region{X1: o.crop[0], Y1: o.crop[1], X2: o.crop[2], Y2: o.crop[3]}
	case o.cropRegion != "":
		r, err := imaging.NamedRegion(width, height, o.cropRegion)
		if err != nil {
			return opts, err
		}
		opts.Crop = &r
	}
	return opts, nil
}

func (o *convertOptions) run(cmd *cobra.Command, path string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if o.workers > 0 {
		cfg.Workers = o.workers
	}
	start := time.Now()

	img, err := imaging.NewImageCache(cfg.MaxFileBytes).Load(path)
	if err != nil {
		return err
	}
	b := img.Bounds()
	opts, err := o.prepareOptions(b.Dx(), b.Dy(), cfg.MaxCells)
	if err != nil {
		return err
	}
	prepared, err := imaging.Prepare(img, opts)
	if err != nil {
		return err
	}
	grid, err := imaging.GridFromImage(prepared)
	if err != nil {
		return err
	}

	view, err := palette.Default().Filter(o.options())
	if err != nil {
		return err
	}
	m, err := match.New(view, cfg.Policy)
	if err != nil {
		return err
	}
	q := quantize.New(m)
	q.Workers = cfg.Workers
	q.ChunkRows = cfg.ChunkRows

	sess, err := q.Start(grid)
	if err != nil {
		return err
	}

	var onBatch func(rows, total int)
	if !o.quiet && !o.jsonOut {
		bar := progressbar.NewOptions(grid.Height,
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("matching rows"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
		onBatch = func(rows, _ int) {
			_ = bar.Set(rows)
		}
	}

	res, err := sess.Run(cmd.Context(), onBatch)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			rows, total := sess.Progress()
			return fmt.Errorf("conversion cancelled after %d of %d rows", rows, total)
		}
		return err
	}

	summary := &convertReport{
		Width:        res.Width,
		Height:       res.Height,
		MeanDistance: res.MeanDistance,
	}
	if summary.Quality, err = quantize.Analyze(grid, res); err != nil {
		return err
	}
	if summary.Colors, err = estimate.ColorList(res.Counts, res.Palette); err != nil {
		return err
	}
	if summary.Shopping, err = estimate.Shopping(res.Counts, res.Palette, cfg.Estimate); err != nil {
		return err
	}
	if o.grid {
		summary.Grid = res.IDs()
	}

	if o.preview != "" {
		previewPath, err := o.savePreview(res)
		if err != nil {
			return err
		}
		summary.Preview = previewPath
	}
	if o.sheet != "" {
		sheetPath, err := o.saveSheet(res, summary.Quality, cfg.Estimate, path)
		if err != nil {
			return err
		}
		summary.Sheet = sheetPath
	}

	if cfg.Debug {
		fmt.Fprintf(cmd.ErrOrStderr(), "converted %s in %s\n", path, time.Since(start))
	}
	if o.jsonOut {
		return writeJSON(cmd.OutOrStdout(), summary)
	}
	return printReport(cmd.OutOrStdout(), summary)
}

func (o *convertOptions) savePreview(res *quantize.Result) (string, error) {
	img, err := imaging.RenderPattern(res, imaging.PreviewOptions{
		CellSize:   o.cellSize,
		Style:      imaging.PreviewStyle(o.style),
		ShowGrid:   true,
		MajorEvery: 10,
		ShowIDs:    o.showIDs,
	})
	if err != nil {
		return "", err
	}
	path, err := imaging.ExpandPath(o.preview)
	if err != nil {
		return "", err
	}
	if err := imaging.SavePreview(img, path); err != nil {
		return "", err
	}
	return path, nil
}

func (o *convertOptions) saveSheet(res *quantize.Result, quality *quantize.QualityReport, settings estimate.Settings, source string) (string, error) {
	sheet, err := report.NewSheet(res, quality, settings, report.Options{
		Title:   filepath.Base(source),
		ShowIDs: o.showIDs,
	})
	if err != nil {
		return "", err
	}
	path, err := imaging.ExpandPath(o.sheet)
	if err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create pattern sheet: %w", err)
	}
	if err := report.Render(f, sheet); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

func printReport(out io.Writer, r *convertReport) error {
	fmt.Fprintf(out, "Pattern: %dx%d, %d beads, %d colors\n", r.Width, r.Height, r.Colors.TotalBeads, r.Colors.UniqueColors)
	fmt.Fprintf(out, "Mean distance (CIEDE2000): %.2f\n", r.MeanDistance)
	fmt.Fprintf(out, "Quality: %s (score %d, max error %.2f)\n", r.Quality.Grade, r.Quality.Score, r.Quality.MaxError)
	if r.Preview != "" {
		fmt.Fprintf(out, "Preview: %s\n", r.Preview)
	}
	if r.Sheet != "" {
		fmt.Fprintf(out, "Sheet: %s\n", r.Sheet)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Colors:")
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, g := range r.Colors.Groups {
		fmt.Fprintf(tw, "  %s\t\t\t%d\n", g.Category, g.Total)
		for _, c := range g.Colors {
			fmt.Fprintf(tw, "    %s\t%s\t%s\t%d\n", c.ID, c.Name, c.Hex, c.Count)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := r.Shopping
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Shopping list (%.0f%% spare):\n", s.Settings.SpareRatio*100)
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tNAME\tNEED\tBUY\tPACK")
	for _, it := range s.Items {
		fmt.Fprintf(tw, "  %s\t%s\t%d\t%d\t%d\n", it.ID, it.Name, it.Count, it.Suggested, it.Package)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Total: need %d, buy %d, estimated cost %.2f\n", s.TotalNeeded, s.TotalSuggested, s.EstimatedCost)

	if r.Grid != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Grid:")
		for _, row := range r.Grid {
			for x, id := range row {
				if x > 0 {
					fmt.Fprint(out, " ")
				}
				fmt.Fprint(out, id)
			}
			fmt.Fprintln(out)
		}
	}
	return nil
}
