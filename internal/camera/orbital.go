// Package camera implements the orbit camera used by 3D plots.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/gpuplot/internal/gpu"
)

const (
	ElevationMin = -math.Pi/2 + 0.01
	ElevationMax = math.Pi/2 - 0.01
	DistanceMin  = 0.1
	DistanceMax  = 50.0

	nearPlane = 0.01
	farPlane  = 100.0
	panScale  = 0.002
)

var worldUp = r3.Vec{Y: 1}

// Orbital revolves around Target at Distance. Azimuth turns about world +Y,
// Elevation tilts toward it.
type Orbital struct {
	Target    r3.Vec  `json:"target"`
	Distance  float64 `json:"distance"`
	Azimuth   float64 `json:"azimuth"`
	Elevation float64 `json:"elevation"`
	FovY      float64 `json:"fov_y"`
}

// NewOrbital returns a camera at the default pose.
func NewOrbital() *Orbital {
	c := &Orbital{}
	c.Reset()
	return c
}

// Reset restores the default pose: distance 3, azimuth π/4, elevation π/6,
// 45° field of view, looking at the origin.
func (c *Orbital) Reset() {
	*c = Orbital{
		Distance:  3,
		Azimuth:   math.Pi / 4,
		Elevation: math.Pi / 6,
		FovY:      math.Pi / 4,
	}
}

// Position returns the eye position in world space.
func (c *Orbital) Position() r3.Vec {
	ce, se := math.Cos(c.Elevation), math.Sin(c.Elevation)
	ca, sa := math.Cos(c.Azimuth), math.Sin(c.Azimuth)
	return r3.Add(c.Target, r3.Scale(c.Distance, r3.Vec{X: ce * sa, Y: se, Z: ce * ca}))
}

// View returns the look-at matrix with +Y up.
func (c *Orbital) View() Mat4 {
	return LookAtRH(c.Position(), c.Target, worldUp)
}

// Projection returns the perspective matrix for a viewport of the given
// width/height ratio.
func (c *Orbital) Projection(aspect float64) Mat4 {
	return PerspectiveRH(c.FovY, aspect, nearPlane, farPlane)
}

// ViewProjection returns Projection * View.
func (c *Orbital) ViewProjection(aspect float64) Mat4 {
	return c.Projection(aspect).Mul(c.View())
}

// Rotate adds to azimuth and elevation; elevation stays clear of the poles.
func (c *Orbital) Rotate(dAzimuth, dElevation float64) {
	c.Azimuth += dAzimuth
	c.Elevation = clamp(c.Elevation+dElevation, ElevationMin, ElevationMax)
}

// Zoom multiplies the distance by factor.
func (c *Orbital) Zoom(factor float64) {
	c.Distance = clamp(c.Distance*factor, DistanceMin, DistanceMax)
}

// Pan moves the target in the camera's right/up plane by a screen drag.
// The step grows with distance so panning feels the same at any zoom.
func (c *Orbital) Pan(dx, dy float64) {
	v := c.View()
	right := r3.Vec{X: v.At(0, 0), Y: v.At(0, 1), Z: v.At(0, 2)}
	up := r3.Vec{X: v.At(1, 0), Y: v.At(1, 1), Z: v.At(1, 2)}
	s := c.Distance * panScale
	c.Target = r3.Add(c.Target, r3.Add(r3.Scale(-dx*s, right), r3.Scale(dy*s, up)))
}

// Uniforms fills the camera part of a 3D uniform block. Colour, resolution
// and sizes are left for the caller.
func (c *Orbital) Uniforms(aspect float64) gpu.Plot3DUniforms {
	p := c.Position()
	return gpu.Plot3DUniforms{
		ViewProj:  c.ViewProjection(aspect).Float32(),
		CameraPos: [4]float32{float32(p.X), float32(p.Y), float32(p.Z), 1},
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
