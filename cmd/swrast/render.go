package main

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/muesli/termenv"
	"github.com/solarlune/swrast"
	"github.com/solarlune/swrast/internal/app"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	out          string
	frames       int
	preview      bool
	previewWidth int
}

func newRenderCommand(root *rootOptions) *cobra.Command {

	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the scene to PNG files, and optionally to the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			return runRender(cmd, cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "swrast.png", "PNG file to write; numbered per frame if --frames is above 1, skipped if empty")
	cmd.Flags().IntVarP(&opts.frames, "frames", "n", 1, "number of frames spread evenly over one orbit")
	cmd.Flags().BoolVarP(&opts.preview, "preview", "p", false, "print each frame to the terminal")
	cmd.Flags().IntVar(&opts.previewWidth, "preview-width", 80, "terminal columns used by --preview")

	return cmd

}

func runRender(cmd *cobra.Command, cfg app.Config, opts *renderOptions) error {

	if opts.frames < 1 {
		return fmt.Errorf("--frames must be at least 1, got %d", opts.frames)
	}

	scene, err := app.NewScene(cfg)
	if err != nil {
		return err
	}

	output := termenv.NewOutput(cmd.OutOrStdout())

	for frame := 0; frame < opts.frames; frame++ {

		scene.Seek(scene.Orbit.Seconds() * float32(frame) / float32(opts.frames))

		if err := scene.Render(); err != nil {
			return err
		}

		info := scene.Engine.DebugInfo
		swrast.Logger().Info("rendered frame",
			"frame", frame,
			"time", info.FrameTime,
			"drawn", info.DrawnTris,
			"culled", info.CulledTris,
			"fragments", info.Fragments,
		)

		if opts.out != "" {
			path := framePath(opts.out, frame, opts.frames)
			if err := writePNG(path, scene); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}

		if opts.preview {
			if err := app.WritePreview(cmd.OutOrStdout(), scene.Engine.Image(), opts.previewWidth, output.ColorProfile()); err != nil {
				return err
			}
		}

	}

	return nil

}

// framePath numbers out for each frame when more than one is rendered: "out.png" becomes "out_000.png" and so on.
func framePath(out string, frame, frames int) string {
	if frames == 1 {
		return out
	}
	ext := filepath.Ext(out)
	return fmt.Sprintf("%s_%03d%s", strings.TrimSuffix(out, ext), frame, ext)
}

func writePNG(path string, scene *app.Scene) error {

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := png.Encode(file, scene.Engine.Image()); err != nil {
		file.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	return file.Close()

}
