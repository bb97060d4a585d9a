// Command swrast renders a scene described by a TOML file with the swrast software rasterizer, either headless to PNG
// files and the terminal, or live in a window.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/solarlune/swrast"
	"github.com/solarlune/swrast/internal/app"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {

	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "swrast",
		Short:         "Render 3D scenes on the CPU",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
				return fmt.Errorf("--log-level: %w", err)
			}
			swrast.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "scene configuration file (TOML); built-in defaults if empty")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, or error")

	root.AddCommand(newRenderCommand(opts), newViewCommand(opts))

	return root

}

// loadConfig returns the configuration file's contents, or the defaults if no file was given.
func (opts *rootOptions) loadConfig() (app.Config, error) {
	if opts.configPath == "" {
		return app.Default(), nil
	}
	return app.Load(opts.configPath)
}
