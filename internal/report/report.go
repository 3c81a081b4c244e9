// Package report renders a finished conversion as a printable HTML pattern
// sheet: the bead grid, the color list and the shopping list on one page.
package report

import (
	_ "embed"
	"fmt"
	"io"
	"sync"

	"github.com/flosch/pongo2"

	"github.com/ironsheep/bead-pattern-mcp/internal/estimate"
	"github.com/ironsheep/bead-pattern-mcp/internal/quantize"
)

// DefaultCellSize is the edge of one bead on the sheet in CSS pixels.
const DefaultCellSize = 14

// majorEvery matches the darker pegboard lines of the PNG preview.
const majorEvery = 10

//go:embed sheet.html
var sheetSource string

var (
	sheetOnce sync.Once
	sheetTpl  *pongo2.Template
	sheetErr  error
)

func sheetTemplate() (*pongo2.Template, error) {
	sheetOnce.Do(func() {
		sheetTpl, sheetErr = pongo2.FromString(sheetSource)
	})
	return sheetTpl, sheetErr
}

// Cell is one bead of the sheet grid.
type Cell struct {
	ID    string
	Name  string
	Hex   string
	Ink   string // label color readable on Hex
	Major bool   // first cell after a major vertical line
}

// Row is one line of beads.
type Row struct {
	Cells []Cell
	Major bool // first row after a major horizontal line
}

// Sheet is everything the template shows.
type Sheet struct {
	Title        string
	Width        int
	Height       int
	MeanDistance float64
	CellSize     int
	ShowIDs      bool

	Quality  *quantize.QualityReport
	Colors   *estimate.ColorListResult
	Shopping *estimate.ShoppingList
	Rows     []Row
}

// Options control NewSheet.
type Options struct {
	Title    string
	CellSize int // zero uses DefaultCellSize
	ShowIDs  bool
}

// NewSheet collects the color list and shopping list for res.
//
// Parameters:
//   - res: A complete quantization result.
//   - quality: Optional quality report; nil omits it.
//   - settings: Purchase estimate settings.
//   - opts: Title, cell size and labels.
func NewSheet(res *quantize.Result, quality *quantize.QualityReport, settings estimate.Settings, opts Options) (*Sheet, error) {
	if res == nil || res.Palette == nil {
		return nil, fmt.Errorf("no conversion result")
	}
	if opts.CellSize < 0 {
		return nil, fmt.Errorf("cell size must not be negative, got %d", opts.CellSize)
	}

	colors, err := estimate.ColorList(res.Counts, res.Palette)
	if err != nil {
		return nil, err
	}
	shopping, err := estimate.Shopping(res.Counts, res.Palette, settings)
	if err != nil {
		return nil, err
	}

	s := &Sheet{
		Title:        opts.Title,
		Width:        res.Width,
		Height:       res.Height,
		MeanDistance: res.MeanDistance,
		CellSize:     opts.CellSize,
		ShowIDs:      opts.ShowIDs,
		Quality:      quality,
		Colors:       colors,
		Shopping:     shopping,
		Rows:         make([]Row, res.Height),
	}
	if s.Title == "" {
		s.Title = "Bead pattern"
	}
	if s.CellSize == 0 {
		s.CellSize = DefaultCellSize
	}

	for y := 0; y < res.Height; y++ {
		row := Row{
			Cells: make([]Cell, res.Width),
			Major: y > 0 && y%majorEvery == 0,
		}
		for x := 0; x < res.Width; x++ {
			c := res.ColorAt(x, y)
			ink := "#FFFFFF"
			if c.Lab.L > 55 {
				ink = "#000000"
			}
			row.Cells[x] = Cell{
				ID:    c.ID,
				Name:  c.Name,
				Hex:   c.Hex,
				Ink:   ink,
				Major: x > 0 && x%majorEvery == 0,
			}
		}
		s.Rows[y] = row
	}
	return s, nil
}

// Render writes the sheet as HTML.
func Render(w io.Writer, s *Sheet) error {
	tpl, err := sheetTemplate()
	if err != nil {
		return fmt.Errorf("parse sheet template: %w", err)
	}
	if err := tpl.ExecuteWriter(pongo2.Context{"sheet": s}, w); err != nil {
		return fmt.Errorf("render sheet: %w", err)
	}
	return nil
}
