// Package app assembles swrast scenes from TOML configuration files, for the swrast command.
package app

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/solarlune/swrast/colors"
)

// ErrInvalidConfig is wrapped by errors describing a configuration value that's out of range.
var ErrInvalidConfig = errors.New("app: invalid configuration")

// Config describes one scene: the output buffer, the camera, the model to draw, and how it's rendered.
type Config struct {
	Output OutputConfig `toml:"output"`
	Camera CameraConfig `toml:"camera"`
	Model  ModelConfig  `toml:"model"`
	Render RenderConfig `toml:"render"`
	Orbit  OrbitConfig  `toml:"orbit"`

	// Directory relative model and texture paths are resolved against; set by Load.
	dir string
}

type OutputConfig struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"` // Color name (see colors.Parse) or hex string
}

type CameraConfig struct {
	FieldOfView float32 `toml:"fov"` // Vertical, in degrees
	Near        float32 `toml:"near"`
	Far         float32 `toml:"far"`
	Distance    float32 `toml:"distance"` // From the origin, on the XZ plane
	Height      float32 `toml:"height"`
}

type ModelConfig struct {
	GLTF    string  `toml:"gltf"`    // .gltf or .glb file; a cube is drawn if empty
	Texture string  `toml:"texture"` // Image applied to nodes that don't have a texture of their own
	Shader  string  `toml:"shader"`  // One of ShaderNames
	Color   string  `toml:"color"`   // Used by the "solid" shader
	Size    float32 `toml:"size"`    // Side length of the cube
}

type RenderConfig struct {
	DepthTest          bool `toml:"depth_test"`
	PerspectiveCorrect bool `toml:"perspective_correct"`
	BackfaceCulling    bool `toml:"backface_culling"`
}

type OrbitConfig struct {
	Seconds float32 `toml:"seconds"` // Time for one full turn; 0 holds the camera still
	Ease    string  `toml:"ease"`    // One of EaseNames
}

// Default returns the configuration used for anything a file leaves out.
func Default() Config {
	return Config{
		Output: OutputConfig{
			Width:      320,
			Height:     240,
			Background: "darkest_gray",
		},
		Camera: CameraConfig{
			FieldOfView: 60,
			Near:        0.1,
			Far:         100,
			Distance:    5,
			Height:      2,
		},
		Model: ModelConfig{
			Shader: "lambert",
			Color:  "white",
			Size:   2,
		},
		Render: RenderConfig{
			DepthTest:          true,
			PerspectiveCorrect: true,
			BackfaceCulling:    true,
		},
		Orbit: OrbitConfig{
			Seconds: 8,
			Ease:    "linear",
		},
	}
}

// Load reads a TOML configuration file over the defaults and validates it. Unknown keys are an error.
func Load(path string) (Config, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	cfg.dir = filepath.Dir(path)

	return cfg, nil

}

// Parse decodes TOML configuration data over the defaults and validates it.
func Parse(data []byte) (Config, error) {

	cfg := Default()

	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, strict.String())
		}
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil

}

// Validate checks that every value is in range. Camera values are checked again by swrast.NewCamera.
func (cfg Config) Validate() error {

	var errs []error

	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(cfg.Output.Width > 0 && cfg.Output.Width <= 8192, "output.width %d must be within 1 - 8192", cfg.Output.Width)
	check(cfg.Output.Height > 0 && cfg.Output.Height <= 8192, "output.height %d must be within 1 - 8192", cfg.Output.Height)

	_, ok := colors.Parse(cfg.Output.Background)
	check(ok, "output.background %q isn't a color", cfg.Output.Background)

	check(cfg.Camera.FieldOfView > 0 && cfg.Camera.FieldOfView < 180, "camera.fov %v must be within 0 - 180", cfg.Camera.FieldOfView)
	check(cfg.Camera.Near > 0, "camera.near %v must be positive", cfg.Camera.Near)
	check(cfg.Camera.Far > cfg.Camera.Near, "camera.far %v must be beyond camera.near", cfg.Camera.Far)
	check(cfg.Camera.Distance > 0, "camera.distance %v must be positive", cfg.Camera.Distance)

	_, ok = shaders[strings.ToLower(cfg.Model.Shader)]
	check(ok, "model.shader %q must be one of %s", cfg.Model.Shader, strings.Join(ShaderNames(), ", "))

	_, ok = colors.Parse(cfg.Model.Color)
	check(ok, "model.color %q isn't a color", cfg.Model.Color)

	check(cfg.Model.Size > 0, "model.size %v must be positive", cfg.Model.Size)

	check(cfg.Orbit.Seconds >= 0, "orbit.seconds %v can't be negative", cfg.Orbit.Seconds)

	_, ok = eases[strings.ToLower(cfg.Orbit.Ease)]
	check(ok, "orbit.ease %q must be one of %s", cfg.Orbit.Ease, strings.Join(EaseNames(), ", "))

	return errors.Join(errs...)

}

// Dir returns the directory relative paths in the configuration are resolved against.
func (cfg Config) Dir() string {
	return cfg.dir
}

func (cfg Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || cfg.dir == "" {
		return path
	}
	return filepath.Join(cfg.dir, path)
}

// Aspect returns the aspect ratio of the output.
func (cfg Config) Aspect() float32 {
	return float32(cfg.Output.Width) / float32(cfg.Output.Height)
}
