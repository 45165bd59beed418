package gpu

import (
	"encoding/binary"
)

// Uniform block sizes in bytes; both are multiples of 16 as WGSL requires.
const (
	PlotUniformsSize   = 64
	Plot3DUniformsSize = 112
)

// PlotUniforms is the per-draw uniform block of the 2D pipelines. Field order
// matches the Uniforms struct in plot2d.wgsl.
type PlotUniforms struct {
	ViewMin     [2]float32
	ViewMax     [2]float32
	Resolution  [2]float32
	LineWidth   float32
	PointRadius float32
	Color       [4]float32
	_           [4]float32
}

// Bytes encodes u in the little-endian std140 layout the shader reads.
func (u PlotUniforms) Bytes() []byte {
	b, err := binary.Append(make([]byte, 0, PlotUniformsSize), binary.LittleEndian, u)
	if err != nil {
		// Fixed-size struct of float32 fields; encoding cannot fail.
		panic(err)
	}
	return b
}

// Plot3DUniforms is the per-draw uniform block of the 3D pipelines. ViewProj
// is column-major.
type Plot3DUniforms struct {
	ViewProj   [16]float32
	CameraPos  [4]float32
	Color      [4]float32
	Resolution [2]float32
	PointSize  float32
	LineWidth  float32
}

// Bytes encodes u in the little-endian layout plot3d.wgsl reads.
func (u Plot3DUniforms) Bytes() []byte {
	b, err := binary.Append(make([]byte, 0, Plot3DUniformsSize), binary.LittleEndian, u)
	if err != nil {
		panic(err)
	}
	return b
}
