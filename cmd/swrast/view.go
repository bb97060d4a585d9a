package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/solarlune/swrast"
	"github.com/solarlune/swrast/internal/app"
	"github.com/spf13/cobra"
	"golang.org/x/image/font/basicfont"
)

func newViewCommand(root *rootOptions) *cobra.Command {

	var scale int

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show the scene in a window, orbiting the camera; the configuration file reloads on save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			viewer, err := newViewer(cfg)
			if err != nil {
				return err
			}

			if root.configPath != "" {
				watcher, err := app.WatchConfig(root.configPath)
				if err != nil {
					return err
				}
				defer watcher.Close()
				viewer.reloads = watcher.Changes()
			}

			ebiten.SetWindowTitle("swrast")
			ebiten.SetWindowSize(cfg.Output.Width*scale, cfg.Output.Height*scale)
			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

			return ebiten.RunGame(viewer)

		},
	}

	cmd.Flags().IntVar(&scale, "scale", 2, "window pixels per rendered pixel")

	return cmd

}

type viewer struct {
	scene         *app.Scene
	frame         *ebiten.Image
	reloads       <-chan app.Config
	paused        bool
	drawDebugText bool
}

func newViewer(cfg app.Config) (*viewer, error) {
	v := &viewer{drawDebugText: true}
	if err := v.setScene(cfg); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *viewer) setScene(cfg app.Config) error {

	scene, err := app.NewScene(cfg)
	if err != nil {
		return err
	}

	if v.scene != nil {
		// Pick the new orbit up where the old one was.
		scene.Seek(v.scene.Orbit.Elapsed())
	}

	v.scene = scene

	width, height := scene.Engine.Size()
	if v.frame == nil || v.frame.Bounds().Dx() != width || v.frame.Bounds().Dy() != height {
		v.frame = ebiten.NewImage(width, height)
	}

	return nil

}

func (v *viewer) Update() error {

	// Quit if we press Escape.
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	select {
	case cfg, ok := <-v.reloads:
		if !ok {
			v.reloads = nil
		} else if err := v.setScene(cfg); err != nil {
			swrast.Logger().Warn("couldn't apply reloaded config", "error", err)
		}
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		v.drawDebugText = !v.drawDebugText
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.paused = !v.paused
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF4) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	if !v.paused {
		v.scene.Step(1 / float32(ebiten.TPS()))
	}

	return nil

}

func (v *viewer) Draw(screen *ebiten.Image) {

	if err := v.scene.Render(); err != nil {
		swrast.Logger().Error("render failed", "error", err)
		return
	}

	v.frame.WritePixels(v.scene.Engine.Image().Pix)
	screen.DrawImage(v.frame, nil)

	if v.drawDebugText {
		info := v.scene.Engine.DebugInfo
		txt := fmt.Sprintf(
			"FPS: %.0f\nFrame: %s\nTris: %d drawn, %d culled, %d clipped\nFragments: %d\nF1: Toggle this text\nSpace: Pause orbit\nF4: Toggle fullscreen\nESC: Quit",
			ebiten.ActualFPS(), info.FrameTime, info.DrawnTris, info.CulledTris, info.ClippedTris, info.Fragments,
		)
		text.Draw(screen, txt, basicfont.Face7x13, 2, 12, color.RGBA{200, 200, 200, 255})
	}

}

func (v *viewer) Layout(w, h int) (int, int) {
	return v.scene.Engine.Size()
}
