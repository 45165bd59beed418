package render3d

import "math"

// clipToScreen maps a clip-space position to target pixels with y up, the
// convention the 3D shaders use.
func clipToScreen(c [4]float64, res [2]float64) [2]float64 {
	return [2]float64{
		(c[0]/c[3]*0.5 + 0.5) * res[0],
		(c[1]/c[3]*0.5 + 0.5) * res[1],
	}
}

// RibbonVertex computes one corner of the screen-space ribbon that vs_line
// emits for the segment clip0 -> clip1. t selects the endpoint (0 or 1),
// side the edge (+1 or -1); width is in pixels of a target of size res.
//
// The corner is offset in screen space, so its depth cannot be taken from
// either endpoint directly. 1/w and z/w are linear in screen space and are
// interpolated there, then w and z are recovered.
func RibbonVertex(clip0, clip1 [4]float64, t, side, width float64, res [2]float64) [4]float64 {
	s0, s1 := clipToScreen(clip0, res), clipToScreen(clip1, res)
	dx, dy := s1[0]-s0[0], s1[1]-s0[1]
	l := math.Hypot(dx, dy)
	px, py := 0.0, width/2
	if l > 0.001 {
		px, py = -dy/l*width/2, dx/l*width/2
	}

	sx := s0[0] + dx*t + px*side
	sy := s0[1] + dy*t + py*side
	ndcX := sx/res[0]*2 - 1
	ndcY := sy/res[1]*2 - 1

	invW := lerp(1/clip0[3], 1/clip1[3], t)
	w := 1 / invW
	z := lerp(clip0[2]/clip0[3], clip1[2]/clip1[3], t) * w
	return [4]float64{ndcX * w, ndcY * w, z, w}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
