package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mat4 is a 4x4 matrix stored column-major, the order WGSL expects.
// Element (row r, column c) is m[c*4+r].
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

// At returns the element at row r, column c.
func (m Mat4) At(r, c int) float64 { return m[c*4+r] }

// Mul returns m * n.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[k*4+r] * n[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// MulVec4 returns m * v.
func (m Mat4) MulVec4(v [4]float64) [4]float64 {
	var out [4]float64
	for r := 0; r < 4; r++ {
		out[r] = m[r]*v[0] + m[4+r]*v[1] + m[8+r]*v[2] + m[12+r]*v[3]
	}
	return out
}

// Project returns m * (p, 1) in clip space.
func (m Mat4) Project(p r3.Vec) [4]float64 {
	return m.MulVec4([4]float64{p.X, p.Y, p.Z, 1})
}

// Float32 narrows m for a uniform block.
func (m Mat4) Float32() [16]float32 {
	var out [16]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

// LookAtRH builds a right-handed view matrix looking from eye toward target.
func LookAtRH(eye, target, up r3.Vec) Mat4 {
	f := r3.Unit(r3.Sub(target, eye))
	s := r3.Unit(r3.Cross(f, up))
	u := r3.Cross(s, f)
	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-r3.Dot(s, eye), -r3.Dot(u, eye), r3.Dot(f, eye), 1,
	}
}

// PerspectiveRH builds a right-handed perspective projection mapping view
// depth [near, far] to clip depth [0, 1].
func PerspectiveRH(fovY, aspect, near, far float64) Mat4 {
	h := 1 / math.Tan(fovY/2)
	w := h / aspect
	r := far / (near - far)
	return Mat4{
		w, 0, 0, 0,
		0, h, 0, 0,
		0, 0, r, -1,
		0, 0, r * near, 0,
	}
}
