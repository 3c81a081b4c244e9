package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ironsheep/bead-pattern-mcp/internal/match"
	"github.com/ironsheep/bead-pattern-mcp/internal/palette"
)

type paletteOptions struct {
	paletteFlags

	category string
	stats    bool
	jsonOut  bool
}

func newPaletteCmd() *cobra.Command {
	o := &paletteOptions{}
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "List the bead colors available for matching",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&o.category, "category", "c", "", "only list one category (red, blue, neutral, ...)")
	cmd.Flags().BoolVar(&o.stats, "stats", false, "print how closely the colors are packed")
	cmd.Flags().BoolVar(&o.jsonOut, "json", false, "print the colors as JSON")
	o.paletteFlags.register(cmd)
	return cmd
}

func (o *paletteOptions) run(cmd *cobra.Command) error {
	view, err := palette.Default().Filter(o.options())
	if err != nil {
		return err
	}

	var colors []palette.Color
	for _, c := range view.Colors() {
		if o.category == "" || string(c.Category) == o.category {
			colors = append(colors, c)
		}
	}
	if len(colors) == 0 {
		return fmt.Errorf("no colors in category %q", o.category)
	}

	out := cmd.OutOrStdout()
	if o.jsonOut {
		return writeJSON(out, colors)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tHEX\tRGB")
	for _, c := range colors {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d,%d,%d\n", c.ID, c.Name, c.Category, c.Hex, c.RGB.R, c.RGB.G, c.RGB.B)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d colors\n", len(colors))

	if o.stats {
		s := match.ClosestPair(view)
		fmt.Fprintf(out, "closest pair (CIE76):     %s / %s  %.2f\n", s.Closest76.A, s.Closest76.B, s.Closest76.Distance)
		fmt.Fprintf(out, "closest pair (CIEDE2000): %s / %s  %.2f\n", s.Closest2000.A, s.Closest2000.B, s.Closest2000.Distance)
		for _, d := range s.Duplicates {
			fmt.Fprintf(out, "duplicate: %s / %s\n", d.A, d.B)
		}
	}
	return nil
}
