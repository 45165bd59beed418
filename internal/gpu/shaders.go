package gpu

import (
	"embed"
	"fmt"
)

//go:embed shaders/*.wgsl
var shaderFS embed.FS

// Stage names the vertex and fragment entry points of a pipeline.
type Stage struct {
	Module   string
	Vertex   string
	Fragment string
}

var stages = map[Pipeline]Stage{
	PipelineLine:    {Module: "plot2d.wgsl", Vertex: "vs_line", Fragment: "fs_solid"},
	PipelinePoint:   {Module: "plot2d.wgsl", Vertex: "vs_point", Fragment: "fs_point"},
	PipelineLine3D:  {Module: "plot3d.wgsl", Vertex: "vs_line", Fragment: "fs_line"},
	PipelinePoint3D: {Module: "plot3d.wgsl", Vertex: "vs_scatter", Fragment: "fs_scatter"},
	PipelineBlit:    {Module: "blit.wgsl", Vertex: "vs_blit", Fragment: "fs_blit"},
}

// StageFor returns the shader module and entry points used by p.
func StageFor(p Pipeline) (Stage, error) {
	s, ok := stages[p]
	if !ok {
		return Stage{}, fmt.Errorf("no shader stage for %s", p)
	}
	return s, nil
}

// ShaderSource returns the WGSL text of the module backing p.
func ShaderSource(p Pipeline) (string, error) {
	s, err := StageFor(p)
	if err != nil {
		return "", err
	}
	b, err := shaderFS.ReadFile("shaders/" + s.Module)
	if err != nil {
		return "", fmt.Errorf("read shader %s: %w", s.Module, err)
	}
	return string(b), nil
}
