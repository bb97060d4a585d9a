// Package swrast is a scalar software rasterizer. It turns triangle meshes into a packed
// 32-bit color buffer without any help from the GPU, running programmable vertex and fragment
// stages on the CPU.
//
// The usual setup is a Camera, one or more Nodes (NewCube, NewPlane, LoadGLTFFile, or
// hand-built vertex and index lists), and an Engine that owns the color and depth buffers:
//
//	cam, _ := swrast.NewCamera(60, 1, 0.1, 100, nil, swrast.WorldUp)
//	cam.Transform().SetPosition(0, 0, 5)
//	engine, _ := swrast.NewEngine(320, 240, cam, colors.Black())
//	engine.AddNodes(swrast.NewCube(2, nil))
//	engine.Render()
//	img := engine.Image()
//
// Matrices follow the row-vector convention: a point is transformed with
// point × Model × View × Projection, which reads Model.Mult(View).Mult(Projection).
package swrast
