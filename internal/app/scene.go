package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/solarlune/swrast"
	"github.com/solarlune/swrast/colors"
)

var shaders = map[string]func(cfg ModelConfig) swrast.Shader{
	"default": func(ModelConfig) swrast.Shader { return swrast.DefaultShader },
	"texture": func(ModelConfig) swrast.Shader { return swrast.TextureShader{} },
	"normal":  func(ModelConfig) swrast.Shader { return swrast.NormalShader{} },
	"lambert": func(ModelConfig) swrast.Shader {
		return swrast.LambertShader{LightDirection: swrast.Vector3{X: -1, Y: -2, Z: -1.5}, Ambient: 0.25}
	},
	"solid": func(cfg ModelConfig) swrast.Shader {
		color, _ := colors.Parse(cfg.Color)
		return swrast.SolidShader{Color: color}
	},
}

// ShaderNames returns the names model.shader accepts, sorted.
func ShaderNames() []string {
	names := make([]string, 0, len(shaders))
	for name := range shaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scene is a ready-to-render Engine built from a Config, with the Camera on its Orbit.
type Scene struct {
	Config Config
	Engine *swrast.Engine
	Camera *swrast.Camera
	Nodes  []*swrast.Node
	Orbit  *Orbit
}

// NewScene builds the Engine, Camera, and Nodes a Config describes. The configuration should already be valid
// (see Config.Validate); loading the model or texture can still fail.
func NewScene(cfg Config) (*Scene, error) {

	camera, err := swrast.NewCamera(cfg.Camera.FieldOfView, cfg.Aspect(), cfg.Camera.Near, cfg.Camera.Far, nil, swrast.WorldUp)
	if err != nil {
		return nil, err
	}

	background, ok := colors.Parse(cfg.Output.Background)
	if !ok {
		return nil, fmt.Errorf("%w: output.background %q isn't a color", ErrInvalidConfig, cfg.Output.Background)
	}

	engine, err := swrast.NewEngine(cfg.Output.Width, cfg.Output.Height, camera, background)
	if err != nil {
		return nil, err
	}

	engine.DepthTest = cfg.Render.DepthTest
	engine.PerspectiveCorrect = cfg.Render.PerspectiveCorrect

	shaderFn, ok := shaders[strings.ToLower(cfg.Model.Shader)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown shader %q", ErrInvalidConfig, cfg.Model.Shader)
	}
	shader := shaderFn(cfg.Model)

	var nodes []*swrast.Node

	if cfg.Model.GLTF != "" {

		options := swrast.DefaultGLTFLoadOptions()
		options.Shader = shader

		nodes, err = swrast.LoadGLTFFile(cfg.resolve(cfg.Model.GLTF), options)
		if err != nil {
			return nil, err
		}

	} else {
		cube := swrast.NewCube(cfg.Model.Size, nil)
		cube.SetShader(shader)
		nodes = append(nodes, cube)
	}

	if cfg.Model.Texture != "" {

		tex, err := swrast.LoadTexture(cfg.resolve(cfg.Model.Texture))
		if err != nil {
			return nil, err
		}

		for _, node := range nodes {
			if node.Texture() == nil {
				node.SetTexture(tex)
			}
		}

	}

	if !cfg.Render.BackfaceCulling {
		for _, node := range nodes {
			node.BackfaceCulling = false
		}
	}

	engine.AddNodes(nodes...)

	scene := &Scene{
		Config: cfg,
		Engine: engine,
		Camera: camera,
		Nodes:  nodes,
		Orbit:  NewOrbit(cfg.Orbit, cfg.Camera.Distance, cfg.Camera.Height),
	}

	scene.Orbit.Apply(camera)

	swrast.Logger().Info("scene ready",
		"size", fmt.Sprintf("%dx%d", cfg.Output.Width, cfg.Output.Height),
		"nodes", len(nodes),
		"shader", cfg.Model.Shader,
	)

	return scene, nil

}

// Step advances the orbit by dt seconds and moves the camera to match.
func (scene *Scene) Step(dt float32) {
	scene.Orbit.Update(dt)
	scene.Orbit.Apply(scene.Camera)
}

// Seek moves the orbit to the given time and the camera to match.
func (scene *Scene) Seek(seconds float32) {
	scene.Orbit.Seek(seconds)
	scene.Orbit.Apply(scene.Camera)
}

// Render renders a frame with the Engine.
func (scene *Scene) Render() error {
	return scene.Engine.Render()
}
