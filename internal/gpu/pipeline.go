// Package gpu describes draw calls for the plot pipelines without binding to
// a particular graphics API. A host backend implements Device and Pass; the
// builders only produce DrawCall descriptors.
package gpu

import (
	"errors"
	"fmt"
)

// VerticesPerInstance is the quad (two triangles) every pipeline expands
// each instance into.
const VerticesPerInstance = 6

// ErrAllocation is returned by a Device that could not create a buffer or
// texture.
var ErrAllocation = errors.New("gpu resource allocation failed")

// Pipeline identifies one of the compiled render pipelines.
type Pipeline int

const (
	PipelineLine Pipeline = iota
	PipelinePoint
	PipelineLine3D
	PipelinePoint3D
	PipelineBlit
)

func (p Pipeline) String() string {
	switch p {
	case PipelineLine:
		return "line"
	case PipelinePoint:
		return "point"
	case PipelineLine3D:
		return "line3d"
	case PipelinePoint3D:
		return "point3d"
	case PipelineBlit:
		return "blit"
	default:
		return fmt.Sprintf("pipeline(%d)", int(p))
	}
}

// DrawCall is one instanced draw: a pipeline, its uniform block and storage
// payload, and the instance count. Blit calls carry a Texture instead of
// storage.
type DrawCall struct {
	Label         string
	Pipeline      Pipeline
	Uniform       []byte
	Storage       []byte
	Texture       Texture
	VertexCount   uint32
	InstanceCount uint32

	pooled bool
}

// Release returns a pooled storage payload. The call must not be drawn
// afterwards.
func (d *DrawCall) Release() {
	if d.pooled {
		putBytes(d.Storage)
		d.Storage = nil
		d.pooled = false
	}
}

// BufferUsage says how a buffer is bound.
type BufferUsage int

const (
	UsageUniform BufferUsage = iota
	UsageStorage
)

func (u BufferUsage) String() string {
	if u == UsageStorage {
		return "storage"
	}
	return "uniform"
}

// TextureFormat lists the formats the plot targets use.
type TextureFormat int

const (
	FormatRGBA8Unorm TextureFormat = iota
	FormatBGRA8Unorm
	FormatDepth32Float
)

func (f TextureFormat) String() string {
	switch f {
	case FormatRGBA8Unorm:
		return "rgba8unorm"
	case FormatBGRA8Unorm:
		return "bgra8unorm"
	case FormatDepth32Float:
		return "depth32float"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// TextureDesc describes a render target.
type TextureDesc struct {
	Label  string
	Width  int
	Height int
	Format TextureFormat
}

// Buffer is an uploaded GPU buffer.
type Buffer interface {
	Size() int
	Release()
}

// Texture is an allocated GPU texture.
type Texture interface {
	Desc() TextureDesc
	Release()
}

// Device allocates resources and opens offscreen passes.
type Device interface {
	CreateBuffer(label string, usage BufferUsage, contents []byte) (Buffer, error)
	CreateTexture(desc TextureDesc) (Texture, error)
	// BeginPass opens a pass rendering into color (and depth when non-nil),
	// clearing color to clear and depth to 1.
	BeginPass(label string, color, depth Texture, clear [4]float32) (Pass, error)
}

// Pass records draws into a render target.
type Pass interface {
	SetPipeline(p Pipeline)
	SetBindings(uniform, storage Buffer)
	SetTexture(t Texture)
	Draw(vertexCount, instanceCount uint32)
	End()
}
