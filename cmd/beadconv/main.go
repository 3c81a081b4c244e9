// Command beadconv converts images into fuse bead patterns from the command
// line. It shares its settings with the MCP server: BEAD_MCP_* variables, an
// optional .env file, and on top of those a --config file.
package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/ironsheep/bead-pattern-mcp/internal/config"
	"github.com/ironsheep/bead-pattern-mcp/internal/palette"
)

// Version information - set by ldflags during build
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "beadconv",
		Short:        "Convert images into fuse bead patterns",
		Long:         "beadconv matches every pixel of a resized image to the closest bead color\nby CIEDE2000 and prints the color and shopping lists for the pattern.",
		Version:      Version,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "settings file (YAML, TOML or JSON) applied over BEAD_MCP_* variables")
	root.AddCommand(newConvertCmd(), newPaletteCmd(), newMatchCmd())
	return root
}

// loadConfig reads BEAD_MCP_* variables and the optional --config file.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil || path == "" {
		return cfg, err
	}
	if path, err = homedir.Expand(path); err != nil {
		return config.Config{}, err
	}
	return cfg.MergeFile(path)
}

// paletteFlags are the palette exclusions shared by every subcommand.
type paletteFlags struct {
	excludeSpecial     bool
	excludeTranslucent bool
}

func (p *paletteFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&p.excludeSpecial, "exclude-special", false, "skip glow, fluorescent, translucent, metallic and pearlescent beads")
	cmd.Flags().BoolVar(&p.excludeTranslucent, "exclude-translucent", false, "skip translucent beads")
}

func (p paletteFlags) options() palette.Options {
	return palette.Options{
		ExcludeSpecial:     p.excludeSpecial,
		ExcludeTranslucent: p.excludeTranslucent,
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
