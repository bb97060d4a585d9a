package swrast

import "github.com/chewxy/math32"

// barycentricSetup holds the parts of the barycentric solve that only depend on the triangle, so that they're computed
// once per triangle rather than once per pixel.
type barycentricSetup struct {
	a        Vector2
	v0, v1   Vector2
	d00, d01 float32
	d11      float32
	invDenom float32
}

// newBarycentricSetup prepares barycentric solves against the triangle a, b, c. It returns false if the triangle is
// degenerate (collinear or zero-area), as there's no unique solution then.
func newBarycentricSetup(a, b, c Vector2) (barycentricSetup, bool) {

	setup := barycentricSetup{
		a:  a,
		v0: b.Sub(a),
		v1: c.Sub(a),
	}

	setup.d00 = setup.v0.Dot(setup.v0)
	setup.d01 = setup.v0.Dot(setup.v1)
	setup.d11 = setup.v1.Dot(setup.v1)

	denom := setup.d00*setup.d11 - setup.d01*setup.d01

	// Relative to the edge lengths, so that large and small triangles are judged alike.
	if setup.d00 == 0 || setup.d11 == 0 || math32.Abs(denom) <= 1e-6*setup.d00*setup.d11 || !isFinite(denom) {
		return setup, false
	}

	setup.invDenom = 1 / denom
	return setup, true

}

// weights returns the barycentric weights of p: p = a*w0 + b*w1 + c*w2, with w0 + w1 + w2 = 1.
func (setup *barycentricSetup) weights(p Vector2) (w0, w1, w2 float32) {
	v2 := p.Sub(setup.a)
	d20 := v2.Dot(setup.v0)
	d21 := v2.Dot(setup.v1)
	w1 = (setup.d11*d20 - setup.d01*d21) * setup.invDenom
	w2 = (setup.d00*d21 - setup.d01*d20) * setup.invDenom
	w0 = 1 - w1 - w2
	return
}

// Barycentric returns the barycentric weights of the point p relative to the triangle a, b, c. ok is false if the
// triangle is degenerate, in which case the weights are all 0.
func Barycentric(p, a, b, c Vector2) (w0, w1, w2 float32, ok bool) {
	setup, ok := newBarycentricSetup(a, b, c)
	if !ok {
		return 0, 0, 0, false
	}
	w0, w1, w2 = setup.weights(p)
	return w0, w1, w2, true
}
