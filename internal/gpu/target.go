package gpu

import (
	"fmt"

	"github.com/banshee-data/gpuplot/internal/monitoring"
)

// TargetCache holds the offscreen colour and depth textures of one 3D view.
// They are reallocated only when the requested size or format changes.
type TargetCache struct {
	color   Texture
	depth   Texture
	width   int
	height  int
	format  TextureFormat
	metrics *monitoring.Metrics
}

// NewTargetCache returns an empty cache. m may be nil.
func NewTargetCache(m *monitoring.Metrics) *TargetCache {
	return &TargetCache{metrics: m}
}

// Ensure returns textures of exactly width x height. allocated is true when
// new textures were created on this call.
func (c *TargetCache) Ensure(dev Device, width, height int, format TextureFormat) (color, depth Texture, allocated bool, err error) {
	if width <= 0 || height <= 0 {
		return nil, nil, false, fmt.Errorf("offscreen target %dx%d: %w", width, height, ErrAllocation)
	}
	if c.color != nil && c.width == width && c.height == height && c.format == format {
		return c.color, c.depth, false, nil
	}

	c.Release()
	color, err = dev.CreateTexture(TextureDesc{Label: "plot3d_color", Width: width, Height: height, Format: format})
	if err != nil {
		return nil, nil, false, err
	}
	depth, err = dev.CreateTexture(TextureDesc{Label: "plot3d_depth", Width: width, Height: height, Format: FormatDepth32Float})
	if err != nil {
		color.Release()
		return nil, nil, false, err
	}
	c.color, c.depth = color, depth
	c.width, c.height, c.format = width, height, format
	c.metrics.TargetAllocated()
	monitoring.Logf("gpu: offscreen target allocated %dx%d %s", width, height, format)
	return color, depth, true, nil
}

// Color returns the current colour target, or nil before the first Ensure.
func (c *TargetCache) Color() Texture { return c.color }

// Release frees the cached textures.
func (c *TargetCache) Release() {
	if c.color != nil {
		c.color.Release()
	}
	if c.depth != nil {
		c.depth.Release()
	}
	c.color, c.depth = nil, nil
	c.width, c.height = 0, 0
}
