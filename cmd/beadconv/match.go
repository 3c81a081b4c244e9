package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/bead-pattern-mcp/internal/colorspace"
	"github.com/ironsheep/bead-pattern-mcp/internal/match"
	"github.com/ironsheep/bead-pattern-mcp/internal/palette"
)

type matchOptions struct {
	paletteFlags

	k       int
	jsonOut bool
}

type matchReport struct {
	Query   string         `json:"query"`
	Lab     colorspace.Lab `json:"lab"`
	Matches []match.Result `json:"matches"`
}

func newMatchCmd() *cobra.Command {
	o := &matchOptions{}
	cmd := &cobra.Command{
		Use:   "match <r g b | #rrggbb>",
		Short: "Find the bead colors closest to a color",
		Example: `  beadconv match 120 90 60
  beadconv match '#785A3C' -k 3 --exclude-special`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return fmt.Errorf("expected a hex color or three channels, got %d arguments", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}

	cmd.Flags().IntVarP(&o.k, "count", "k", 1, "number of matches to list")
	cmd.Flags().BoolVar(&o.jsonOut, "json", false, "print the matches as JSON")
	o.paletteFlags.register(cmd)
	return cmd
}

// parseColorArgs accepts either one hex color, with or without the leading
// '#', or three decimal channels.
func parseColorArgs(args []string) (colorspace.RGB, error) {
	switch len(args) {
	case 1:
		s := args[0]
		if !strings.HasPrefix(s, "#") {
			s = "#" + s
		}
		return colorspace.ParseHex(s)
	case 3:
		var ch [3]int
		for i, a := range args {
			v, err := strconv.Atoi(a)
			if err != nil {
				return colorspace.RGB{}, fmt.Errorf("invalid channel %q: %w", a, err)
			}
			ch[i] = v
		}
		return colorspace.RGBFromInts(ch[0], ch[1], ch[2])
	}
	return colorspace.RGB{}, fmt.Errorf("expected 1 or 3 arguments, got %d", len(args))
}

func (o *matchOptions) run(cmd *cobra.Command, args []string) error {
	query, err := parseColorArgs(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
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
	results, err := m.NearestK(query, o.k)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	report := matchReport{Query: query.Hex(), Lab: query.Lab(), Matches: results}
	if o.jsonOut {
		return writeJSON(out, report)
	}

	fmt.Fprintf(out, "%s  L=%.1f a=%.1f b=%.1f\n", report.Query, report.Lab.L, report.Lab.A, report.Lab.B)
	for i, r := range results {
		fmt.Fprintf(out, "%2d. %s  %-28s %s  dE2000 %.2f\n", i+1, r.Color.ID, r.Color.Name, r.Color.Hex, r.Distance)
	}
	return nil
}
