// Package palette holds the catalog of physical bead colors.
//
// A Palette is built once, derives the L*a*b* coordinates of every entry at
// construction time, and is read-only afterwards. Filtered views (for example
// without glow, translucent, metallic and pearlescent beads) are new Palette
// values over the same precomputed entries; the base palette is never modified.
//
// All methods are safe for concurrent use.
package palette

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ironsheep/bead-pattern-mcp/internal/colorspace"
)

// Category groups catalog entries by color family or bead finish.
type Category string

// Categories in catalog order.
const (
	CategoryNeutral     Category = "neutral" // whites, grays and black
	CategoryRed         Category = "red"
	CategoryPink        Category = "pink"
	CategoryYellow      Category = "yellow"
	CategoryOrange      Category = "orange"
	CategoryGreen       Category = "green"
	CategoryBlue        Category = "blue"
	CategoryPurple      Category = "purple"
	CategoryBrown       Category = "brown"
	CategoryLuminous    Category = "luminous" // glow-in-the-dark and fluorescent
	CategoryTranslucent Category = "translucent"
	CategoryMetallic    Category = "metallic"
	CategoryPearlescent Category = "pearlescent"
)

// Special reports whether beads of this category have a finish that does not
// reproduce as a flat color (glow, fluorescent, translucent, metallic,
// pearlescent).
func (c Category) Special() bool {
	switch c {
	case CategoryLuminous, CategoryTranslucent, CategoryMetallic, CategoryPearlescent:
		return true
	}
	return false
}

// Translucent reports whether the category is see-through.
func (c Category) Translucent() bool {
	return c == CategoryTranslucent
}

// Entry is the static description of a bead color.
type Entry struct {
	ID       string
	Name     string
	Category Category
	RGB      colorspace.RGB
}

// Color is a catalog entry with its precomputed L*a*b* coordinates.
type Color struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Category Category       `json:"category"`
	RGB      colorspace.RGB `json:"rgb"`
	Hex      string         `json:"hex"`
	Lab      colorspace.Lab `json:"lab"`
	Special  bool           `json:"special"`
}

// Translucent reports whether the bead is see-through.
func (c Color) Translucent() bool {
	return c.Category.Translucent()
}

// ErrEmptyPalette is matched by every *ConfigurationError.
var ErrEmptyPalette = errors.New("palette has no candidate colors")

// ConfigurationError reports a palette or filter that leaves nothing to match
// against.
type ConfigurationError struct {
	Options Options // Filter that was applied
	Base    int     // Number of entries before filtering
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("palette configuration error: filter %s excludes all %d colors", e.Options, e.Base)
}

// Is lets errors.Is match ErrEmptyPalette.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrEmptyPalette
}

// Options selects which entries a filtered view excludes.
type Options struct {
	ExcludeSpecial     bool `json:"exclude_special"`
	ExcludeTranslucent bool `json:"exclude_translucent"`
}

func (o Options) String() string {
	return fmt.Sprintf("{exclude_special=%t exclude_translucent=%t}", o.ExcludeSpecial, o.ExcludeTranslucent)
}

// keep reports whether c survives the filter.
func (o Options) keep(c Color) bool {
	if o.ExcludeSpecial && c.Special {
		return false
	}
	if o.ExcludeTranslucent && c.Translucent() {
		return false
	}
	return true
}

// Palette is an ordered, immutable collection of bead colors.
type Palette struct {
	colors []Color
	index  map[string]int
}

// New builds a palette from static entries, computing Lab once per entry.
//
// Returns an error if entries is empty or contains a blank or duplicate ID.
func New(entries []Entry) (*Palette, error) {
	if len(entries) == 0 {
		return nil, &ConfigurationError{}
	}

	colors := make([]Color, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("palette entry %q has an empty ID", e.Name)
		}
		colors = append(colors, Color{
			ID:       e.ID,
			Name:     e.Name,
			Category: e.Category,
			RGB:      e.RGB,
			Hex:      e.RGB.Hex(),
			Lab:      colorspace.ToLab(e.RGB),
			Special:  e.Category.Special(),
		})
	}
	return fromColors(colors)
}

func fromColors(colors []Color) (*Palette, error) {
	index := make(map[string]int, len(colors))
	for i, c := range colors {
		if _, dup := index[c.ID]; dup {
			return nil, fmt.Errorf("duplicate palette ID %q", c.ID)
		}
		index[c.ID] = i
	}
	return &Palette{colors: colors, index: index}, nil
}

// Default builds the built-in bead catalog.
//
// Each call converts all 76 entries to Lab. Build it once at startup and pass
// the value to whatever needs it.
func Default() *Palette {
	p, err := New(catalog)
	if err != nil {
		panic(fmt.Sprintf("palette: built-in catalog is invalid: %v", err))
	}
	return p
}

// Filter returns a view without the entries excluded by opts.
//
// The view reuses the precomputed entries. Returns *ConfigurationError when
// no entry survives the filter.
func (p *Palette) Filter(opts Options) (*Palette, error) {
	if !opts.ExcludeSpecial && !opts.ExcludeTranslucent {
		return p, nil
	}

	kept := make([]Color, 0, len(p.colors))
	for _, c := range p.colors {
		if opts.keep(c) {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return nil, &ConfigurationError{Options: opts, Base: len(p.colors)}
	}
	return fromColors(kept)
}

// Len returns the number of entries.
func (p *Palette) Len() int {
	return len(p.colors)
}

// At returns the entry at index i in catalog order.
func (p *Palette) At(i int) Color {
	return p.colors[i]
}

// Colors returns a copy of the entries in catalog order.
func (p *Palette) Colors() []Color {
	return slices.Clone(p.colors)
}

// ByID looks up an entry by identifier.
func (p *Palette) ByID(id string) (Color, bool) {
	i, ok := p.index[id]
	if !ok {
		return Color{}, false
	}
	return p.colors[i], true
}

// IndexOf returns the catalog position of id, or -1.
func (p *Palette) IndexOf(id string) int {
	if i, ok := p.index[id]; ok {
		return i
	}
	return -1
}

// Categories returns the distinct categories in first-appearance order.
func (p *Palette) Categories() []Category {
	var cats []Category
	seen := make(map[Category]bool)
	for _, c := range p.colors {
		if !seen[c.Category] {
			seen[c.Category] = true
			cats = append(cats, c.Category)
		}
	}
	return cats
}
