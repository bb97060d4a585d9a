package swrast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBarycentricPartition(t *testing.T) {

	triangles := [][3]Vector2{
		{{0, 0}, {10, 0}, {0, 10}},
		{{50, 10}, {90, 90}, {10, 90}},
		{{-3.5, 2}, {1000, -40}, {7, 800.25}},
		{{0.1, 0.1}, {0.4, 0.15}, {0.2, 0.6}},
	}

	samples := [][3]float32{
		{1.0 / 3, 1.0 / 3, 1.0 / 3},
		{0.8, 0.1, 0.1},
		{0.05, 0.9, 0.05},
		{0.25, 0.25, 0.5},
	}

	for _, tri := range triangles {
		for _, sample := range samples {

			p := tri[0].Scale(sample[0]).Add(tri[1].Scale(sample[1])).Add(tri[2].Scale(sample[2]))

			w0, w1, w2, ok := Barycentric(p, tri[0], tri[1], tri[2])
			assert.True(t, ok)

			for _, w := range []float32{w0, w1, w2} {
				assert.GreaterOrEqual(t, w, float32(0))
				assert.LessOrEqual(t, w, float32(1))
			}

			assert.InDelta(t, 1, w0+w1+w2, 1e-5)
			assert.InDelta(t, sample[0], w0, 1e-3)
			assert.InDelta(t, sample[1], w1, 1e-3)
			assert.InDelta(t, sample[2], w2, 1e-3)

		}
	}

}

func TestBarycentricCorners(t *testing.T) {

	a, b, c := Vector2{0, 0}, Vector2{4, 0}, Vector2{0, 4}

	w0, w1, w2, ok := Barycentric(b, a, b, c)
	assert.True(t, ok)
	assert.InDelta(t, 0, w0, 1e-6)
	assert.InDelta(t, 1, w1, 1e-6)
	assert.InDelta(t, 0, w2, 1e-6)

	// Outside the triangle, one weight goes negative.
	w0, _, _, ok = Barycentric(Vector2{4, 4}, a, b, c)
	assert.True(t, ok)
	assert.Less(t, w0, float32(0))

}

func TestBarycentricDegenerate(t *testing.T) {

	degenerate := [][3]Vector2{
		{{0, 0}, {5, 0}, {10, 0}},
		{{1, 1}, {1, 1}, {1, 1}},
		{{0, 0}, {0, 0}, {3, 7}},
		{{0, 0}, {1000, 1000.0001}, {-1000, -1000}},
	}

	for _, tri := range degenerate {
		w0, w1, w2, ok := Barycentric(Vector2{1, 0}, tri[0], tri[1], tri[2])
		assert.False(t, ok, "%v", tri)
		assert.Zero(t, w0+w1+w2)
	}

}
