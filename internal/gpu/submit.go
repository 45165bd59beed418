package gpu

import (
	"github.com/banshee-data/gpuplot/internal/monitoring"
)

// Submit uploads and draws calls in order. A call whose buffers cannot be
// allocated is skipped and logged; the rest of the frame still draws. It
// returns the number of calls drawn.
func Submit(dev Device, pass Pass, calls []DrawCall, m *monitoring.Metrics) int {
	drawn := 0
	for i := range calls {
		c := &calls[i]
		if c.InstanceCount == 0 {
			continue
		}
		if c.Pipeline == PipelineBlit {
			if c.Texture == nil {
				monitoring.Logf("gpu: %s: no source texture, skipped", c.Label)
				m.Skipped("texture")
				continue
			}
			pass.SetPipeline(c.Pipeline)
			pass.SetTexture(c.Texture)
			pass.Draw(c.VertexCount, c.InstanceCount)
			m.DrawCall(c.Pipeline.String())
			drawn++
			continue
		}

		ub, err := dev.CreateBuffer(c.Label+"_uniform", UsageUniform, c.Uniform)
		if err != nil {
			monitoring.Logf("gpu: %s: uniform buffer: %v", c.Label, err)
			m.Skipped("allocation")
			continue
		}
		sb, err := dev.CreateBuffer(c.Label+"_storage", UsageStorage, c.Storage)
		if err != nil {
			ub.Release()
			monitoring.Logf("gpu: %s: storage buffer: %v", c.Label, err)
			m.Skipped("allocation")
			continue
		}
		pass.SetPipeline(c.Pipeline)
		pass.SetBindings(ub, sb)
		pass.Draw(c.VertexCount, c.InstanceCount)
		m.DrawCall(c.Pipeline.String())
		drawn++
	}
	return drawn
}
