// Package estimate turns bead counts into color lists and purchase quantities.
//
// Counts come from a quantized pattern (identifier -> number of cells). The
// palette view used for quantization resolves identifiers to names, hex codes
// and categories.
//
// # Purchase Rules
//
// For every color the suggested purchase adds a spare margin and rounds up to
// a multiple of RoundTo:
//
//	suggested = ceil(count * (1 + SpareRatio) / RoundTo) * RoundTo
//
// The package is the smallest pack size that holds the suggested amount, or the
// largest pack size when none does. The estimated cost is the total suggested
// beads times UnitPrice.
package estimate

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ironsheep/bead-pattern-mcp/internal/palette"
)

// ColorCount is one color of a pattern with its number of cells.
type ColorCount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Hex   string `json:"hex"`
	Count int    `json:"count"`
}

// CategoryGroup lists the colors of one category, most used first.
type CategoryGroup struct {
	Category palette.Category `json:"category"`
	Colors   []ColorCount     `json:"colors"`
	Total    int              `json:"total"`
}

// ColorListResult is a pattern's colors grouped by category.
type ColorListResult struct {
	Groups       []CategoryGroup `json:"groups"`
	TotalBeads   int             `json:"total_beads"`
	UniqueColors int             `json:"unique_colors"`
}

// ColorList groups counts by category.
//
// Parameters:
//   - counts: Palette identifier -> number of cells. Zero counts are skipped.
//   - view: The palette the counts were produced with.
//
// Returns:
//   - *ColorListResult: Groups in catalog category order; within a group,
//     colors by count descending with ties in catalog order.
//   - error: Non-nil if an identifier is not in view or a count is negative.
func ColorList(counts map[string]int, view *palette.Palette) (*ColorListResult, error) {
	entries, err := resolve(counts, view)
	if err != nil {
		return nil, err
	}

	groups := make(map[palette.Category]*CategoryGroup)
	result := &ColorListResult{Groups: []CategoryGroup{}}
	for _, e := range entries {
		g, ok := groups[e.color.Category]
		if !ok {
			g = &CategoryGroup{Category: e.color.Category}
			groups[e.color.Category] = g
		}
		g.Colors = append(g.Colors, e.colorCount())
		g.Total += e.count
		result.TotalBeads += e.count
		result.UniqueColors++
	}

	for _, cat := range view.Categories() {
		if g, ok := groups[cat]; ok {
			result.Groups = append(result.Groups, *g)
		}
	}
	return result, nil
}

// Settings control the purchase estimate.
type Settings struct {
	SpareRatio float64 `json:"spare_ratio"` // extra beads as a fraction of the count
	RoundTo    int     `json:"round_to"`    // suggested amounts are multiples of this
	PackSizes  []int   `json:"pack_sizes"`  // ascending package sizes
	UnitPrice  float64 `json:"unit_price"`  // per bead
}

// DefaultSettings returns 10% spare, rounding to 100, packs of 200, 500, 1000
// and 2000 beads and a price of 0.05 per bead.
func DefaultSettings() Settings {
	return Settings{
		SpareRatio: 0.10,
		RoundTo:    100,
		PackSizes:  []int{200, 500, 1000, 2000},
		UnitPrice:  0.05,
	}
}

// ErrInvalidSettings is wrapped by Settings.Validate failures.
var ErrInvalidSettings = errors.New("invalid estimate settings")

// Validate checks the settings.
func (s Settings) Validate() error {
	if !(s.SpareRatio >= 0) || math.IsInf(s.SpareRatio, 0) {
		return fmt.Errorf("%w: spare ratio must be >= 0, got %v", ErrInvalidSettings, s.SpareRatio)
	}
	if s.RoundTo < 1 {
		return fmt.Errorf("%w: round-to must be >= 1, got %d", ErrInvalidSettings, s.RoundTo)
	}
	if len(s.PackSizes) == 0 {
		return fmt.Errorf("%w: at least one pack size is required", ErrInvalidSettings)
	}
	for i, size := range s.PackSizes {
		if size < 1 {
			return fmt.Errorf("%w: pack size must be >= 1, got %d", ErrInvalidSettings, size)
		}
		if i > 0 && size <= s.PackSizes[i-1] {
			return fmt.Errorf("%w: pack sizes must be ascending, got %v", ErrInvalidSettings, s.PackSizes)
		}
	}
	if !(s.UnitPrice >= 0) || math.IsInf(s.UnitPrice, 0) {
		return fmt.Errorf("%w: unit price must be >= 0, got %v", ErrInvalidSettings, s.UnitPrice)
	}
	return nil
}

// Suggested returns the purchase amount for count beads.
func (s Settings) Suggested(count int) int {
	if count <= 0 {
		return 0
	}
	// Rounded to 1e-9 first so 1000 * 1.1 is 1100, not 1100.0000000000002.
	units := float64(count) * (1 + s.SpareRatio) / float64(s.RoundTo)
	units = math.Round(units*1e9) / 1e9
	return int(math.Ceil(units)) * s.RoundTo
}

// Package returns the smallest pack size holding amount, or the largest size.
func (s Settings) Package(amount int) int {
	for _, size := range s.PackSizes {
		if size >= amount {
			return size
		}
	}
	return s.PackSizes[len(s.PackSizes)-1]
}

// ShoppingItem is the purchase suggestion for one color.
type ShoppingItem struct {
	ColorCount
	Suggested int `json:"suggested"`
	Package   int `json:"package"`
}

// ShoppingList is the purchase suggestion for a whole pattern.
type ShoppingList struct {
	Items          []ShoppingItem `json:"items"`
	TotalNeeded    int            `json:"total_needed"`
	TotalSuggested int            `json:"total_suggested"`
	EstimatedCost  float64        `json:"estimated_cost"`
	Settings       Settings       `json:"settings"`
}

// Shopping builds a shopping list from counts.
//
// Parameters:
//   - counts: Palette identifier -> number of cells. Zero counts are skipped.
//   - view: The palette the counts were produced with.
//   - settings: Spare margin, rounding, pack sizes and price.
//
// Returns:
//   - *ShoppingList: Items by count descending, ties in catalog order.
//   - error: Non-nil for invalid settings, unknown identifiers or negative counts.
func Shopping(counts map[string]int, view *palette.Palette, settings Settings) (*ShoppingList, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	entries, err := resolve(counts, view)
	if err != nil {
		return nil, err
	}

	list := &ShoppingList{Items: make([]ShoppingItem, 0, len(entries)), Settings: settings}
	for _, e := range entries {
		suggested := settings.Suggested(e.count)
		list.Items = append(list.Items, ShoppingItem{
			ColorCount: e.colorCount(),
			Suggested:  suggested,
			Package:    settings.Package(suggested),
		})
		list.TotalNeeded += e.count
		list.TotalSuggested += suggested
	}
	list.EstimatedCost = math.Round(float64(list.TotalSuggested)*settings.UnitPrice*100) / 100
	return list, nil
}

type countedColor struct {
	color palette.Color
	index int
	count int
}

func (c countedColor) colorCount() ColorCount {
	return ColorCount{ID: c.color.ID, Name: c.color.Name, Hex: c.color.Hex, Count: c.count}
}

// resolve looks up every identifier and sorts by count descending, then by
// catalog position.
func resolve(counts map[string]int, view *palette.Palette) ([]countedColor, error) {
	if view == nil {
		return nil, palette.ErrEmptyPalette
	}

	entries := make([]countedColor, 0, len(counts))
	for id, n := range counts {
		if n < 0 {
			return nil, fmt.Errorf("negative count %d for color %s", n, id)
		}
		if n == 0 {
			continue
		}
		idx := view.IndexOf(id)
		if idx < 0 {
			return nil, fmt.Errorf("color %s is not in the palette", id)
		}
		entries = append(entries, countedColor{color: view.At(idx), index: idx, count: n})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].index < entries[j].index
	})
	return entries, nil
}
