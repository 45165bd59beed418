package gpu

import (
	"encoding/binary"
	"math"
	"sync"
)

// Storage bindings may not be empty; these are the smallest payloads the
// 2D (vec2) and 3D (vec4) shaders accept.
const (
	MinStorage2D = 8
	MinStorage3D = 16
)

// bytePool reuses storage payloads between frames. A 10k point series packs
// to 80KB of line pairs.
var bytePool = sync.Pool{
	New: func() interface{} {
		return make([]byte, 0, 160000)
	},
}

func getBytes(n int) []byte {
	b := bytePool.Get().([]byte)
	if cap(b) < n {
		bytePool.Put(b[:0])
		return make([]byte, n)
	}
	return b[:n]
}

func putBytes(b []byte) {
	// Skip oversized slices so one huge frame doesn't pin memory.
	if cap(b) > 0 && cap(b) <= 1<<20 {
		bytePool.Put(b[:0])
	}
}

// PackVec2 encodes points as little-endian vec2<f32>, padded to MinStorage2D.
func PackVec2(pts [][2]float32) []byte {
	b := make([]byte, max(len(pts)*8, MinStorage2D))
	writeVec2(b, pts)
	return b
}

// PackVec4 encodes points as little-endian vec4<f32>, padded to MinStorage3D.
func PackVec4(pts [][4]float32) []byte {
	b := make([]byte, max(len(pts)*16, MinStorage3D))
	writeVec4(b, pts)
	return b
}

func writeVec2(b []byte, pts [][2]float32) {
	clear(b)
	for i, p := range pts {
		binary.LittleEndian.PutUint32(b[i*8:], math.Float32bits(p[0]))
		binary.LittleEndian.PutUint32(b[i*8+4:], math.Float32bits(p[1]))
	}
}

func writeVec4(b []byte, pts [][4]float32) {
	clear(b)
	for i, p := range pts {
		for j, v := range p {
			binary.LittleEndian.PutUint32(b[i*16+j*4:], math.Float32bits(v))
		}
	}
}

// NewDrawCall builds a 2D draw call whose storage is packed into a pooled
// buffer; call Release once the call has been executed.
func NewDrawCall(label string, p Pipeline, u PlotUniforms, pts [][2]float32, instances int) DrawCall {
	b := getBytes(max(len(pts)*8, MinStorage2D))
	writeVec2(b, pts)
	return DrawCall{
		Label:         label,
		Pipeline:      p,
		Uniform:       u.Bytes(),
		Storage:       b,
		VertexCount:   VerticesPerInstance,
		InstanceCount: uint32(instances),
		pooled:        true,
	}
}

// NewDrawCall3D is NewDrawCall for the vec4 storage of the 3D pipelines.
func NewDrawCall3D(label string, p Pipeline, u Plot3DUniforms, pts [][4]float32, instances int) DrawCall {
	b := getBytes(max(len(pts)*16, MinStorage3D))
	writeVec4(b, pts)
	return DrawCall{
		Label:         label,
		Pipeline:      p,
		Uniform:       u.Bytes(),
		Storage:       b,
		VertexCount:   VerticesPerInstance,
		InstanceCount: uint32(instances),
		pooled:        true,
	}
}

// UnpackVec2 decodes a storage payload written by PackVec2. Trailing padding
// is returned as points, so callers pass the count they expect.
func UnpackVec2(b []byte, n int) [][2]float32 {
	n = min(n, len(b)/8)
	out := make([][2]float32, n)
	for i := range out {
		out[i][0] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*8:]))
		out[i][1] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*8+4:]))
	}
	return out
}

// UnpackVec4 decodes a storage payload written by PackVec4.
func UnpackVec4(b []byte, n int) [][4]float32 {
	n = min(n, len(b)/16)
	out := make([][4]float32, n)
	for i := range out {
		for j := range out[i] {
			out[i][j] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*16+j*4:]))
		}
	}
	return out
}
