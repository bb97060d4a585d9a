package app

import (
	"sort"
	"strings"

	"github.com/chewxy/math32"
	"github.com/solarlune/swrast"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

var eases = map[string]ease.TweenFunc{
	"linear":        ease.Linear,
	"in_out_quad":   ease.InOutQuad,
	"in_out_cubic":  ease.InOutCubic,
	"in_out_sine":   ease.InOutSine,
	"in_out_expo":   ease.InOutExpo,
	"in_out_back":   ease.InOutBack,
	"out_bounce":    ease.OutBounce,
	"out_elastic":   ease.OutElastic,
	"in_out_circle": ease.InOutCirc,
}

// EaseNames returns the names orbit.ease accepts, sorted.
func EaseNames() []string {
	names := make([]string, 0, len(eases))
	for name := range eases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Orbit swings a camera around the origin, one full turn every cycle, looking at the origin the whole time.
// The angle over each cycle follows the configured easing function.
type Orbit struct {
	Distance float32
	Height   float32

	tween   *gween.Tween
	seconds float32
	elapsed float32
	angle   float32
}

// NewOrbit creates an Orbit from the [orbit] section, at the camera distance and height given.
func NewOrbit(cfg OrbitConfig, distance, height float32) *Orbit {

	orbit := &Orbit{
		Distance: distance,
		Height:   height,
		seconds:  cfg.Seconds,
	}

	easing, ok := eases[strings.ToLower(cfg.Ease)]
	if !ok {
		easing = ease.Linear
	}

	if cfg.Seconds > 0 {
		orbit.tween = gween.New(0, 2*math32.Pi, cfg.Seconds, easing)
	}

	return orbit

}

// Update advances the orbit by dt seconds, starting the next turn once one finishes, and returns the current angle.
func (orbit *Orbit) Update(dt float32) float32 {

	if orbit.tween == nil {
		return orbit.angle
	}

	orbit.elapsed += dt

	angle, finished := orbit.tween.Update(dt)
	if finished {
		orbit.tween.Reset()
		orbit.elapsed = 0
		angle = 0
	}

	orbit.angle = angle
	return angle

}

// Seek jumps to the given time within a turn, wrapping times beyond the cycle length.
func (orbit *Orbit) Seek(seconds float32) float32 {

	if orbit.tween == nil {
		return orbit.angle
	}

	seconds = math32.Mod(seconds, orbit.seconds)
	if seconds < 0 {
		seconds += orbit.seconds
	}

	orbit.elapsed = seconds
	orbit.angle, _ = orbit.tween.Set(seconds)
	return orbit.angle

}

// Angle returns the current angle around the Y axis, in radians.
func (orbit *Orbit) Angle() float32 {
	return orbit.angle
}

// Elapsed returns how far into the current turn the orbit is, in seconds.
func (orbit *Orbit) Elapsed() float32 {
	return orbit.elapsed
}

// Seconds returns the length of one turn; 0 if the orbit holds still.
func (orbit *Orbit) Seconds() float32 {
	return orbit.seconds
}

// Apply places the camera on the orbit at the current angle and points it at the origin.
func (orbit *Orbit) Apply(camera *swrast.Camera) {
	s, c := math32.Sin(orbit.angle), math32.Cos(orbit.angle)
	camera.Transform().SetPosition(s*orbit.Distance, orbit.Height, c*orbit.Distance)
	camera.LookAt(swrast.Vector3{})
}
