package gpu

import (
	"fmt"
	"strings"
	"sync"
)

// Command is one operation captured by a RecordingDevice.
type Command struct {
	Op            string
	Pass          string
	Pipeline      Pipeline
	Uniform       []byte
	Storage       []byte
	Texture       string
	Clear         [4]float32
	VertexCount   uint32
	InstanceCount uint32
}

// RecordingDevice is an in-memory Device. It keeps every pass and draw so a
// frame can be inspected without a GPU, and can be told to fail chosen
// allocations.
type RecordingDevice struct {
	mu       sync.Mutex
	commands []Command
	textures map[string]int
	live     int

	// FailBuffer, when set, is consulted for every buffer label; returning
	// true makes CreateBuffer fail with ErrAllocation.
	FailBuffer func(label string) bool
	// FailTextures makes every CreateTexture call fail.
	FailTextures bool
}

// NewRecordingDevice returns an empty recorder.
func NewRecordingDevice() *RecordingDevice {
	return &RecordingDevice{textures: map[string]int{}}
}

type recBuffer struct {
	label string
	data  []byte
}

func (b *recBuffer) Size() int { return len(b.data) }
func (b *recBuffer) Release()  {}

type recTexture struct {
	dev      *RecordingDevice
	desc     TextureDesc
	released bool
}

func (t *recTexture) Desc() TextureDesc { return t.desc }

func (t *recTexture) Release() {
	t.dev.mu.Lock()
	defer t.dev.mu.Unlock()
	if !t.released {
		t.released = true
		t.dev.live--
	}
}

// CreateBuffer copies contents so later reuse of the caller's slice does not
// alter the recording.
func (d *RecordingDevice) CreateBuffer(label string, usage BufferUsage, contents []byte) (Buffer, error) {
	if d.FailBuffer != nil && d.FailBuffer(label) {
		return nil, fmt.Errorf("%w: %s buffer %q", ErrAllocation, usage, label)
	}
	return &recBuffer{label: label, data: append([]byte(nil), contents...)}, nil
}

func (d *RecordingDevice) CreateTexture(desc TextureDesc) (Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailTextures {
		return nil, fmt.Errorf("%w: texture %q %dx%d", ErrAllocation, desc.Label, desc.Width, desc.Height)
	}
	d.textures[desc.Label]++
	d.live++
	return &recTexture{dev: d, desc: desc}, nil
}

func (d *RecordingDevice) BeginPass(label string, color, depth Texture, clear [4]float32) (Pass, error) {
	if color == nil {
		return nil, fmt.Errorf("begin pass %q: no color target", label)
	}
	d.record(Command{Op: "begin", Pass: label, Texture: color.Desc().Label, Clear: clear})
	return &recPass{dev: d, label: label}, nil
}

// HostPass returns a Pass that records into the host's surface pass.
func (d *RecordingDevice) HostPass(label string) Pass {
	d.record(Command{Op: "begin", Pass: label})
	return &recPass{dev: d, label: label}
}

// Commands returns a copy of the recording.
func (d *RecordingDevice) Commands() []Command {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Command(nil), d.commands...)
}

// Draws returns only the draw commands.
func (d *RecordingDevice) Draws() []Command {
	var out []Command
	for _, c := range d.Commands() {
		if c.Op == "draw" {
			out = append(out, c)
		}
	}
	return out
}

// TexturesCreated returns how many textures were created with label.
func (d *RecordingDevice) TexturesCreated(label string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.textures[label]
}

// LiveTextures returns the number of created, unreleased textures.
func (d *RecordingDevice) LiveTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live
}

// Reset drops the recording but keeps texture accounting.
func (d *RecordingDevice) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands = nil
}

// Dump renders the recording one command per line.
func (d *RecordingDevice) Dump() string {
	var sb strings.Builder
	for _, c := range d.Commands() {
		switch c.Op {
		case "draw":
			fmt.Fprintf(&sb, "  draw %-8s vertices=%d instances=%d storage=%dB\n",
				c.Pipeline, c.VertexCount, c.InstanceCount, len(c.Storage))
		case "begin":
			fmt.Fprintf(&sb, "pass %s", c.Pass)
			if c.Texture != "" {
				fmt.Fprintf(&sb, " -> %s", c.Texture)
			}
			sb.WriteString("\n")
		case "end":
			fmt.Fprintf(&sb, "end %s\n", c.Pass)
		}
	}
	return sb.String()
}

func (d *RecordingDevice) record(c Command) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands = append(d.commands, c)
}

type recPass struct {
	dev      *RecordingDevice
	label    string
	pipeline Pipeline
	uniform  *recBuffer
	storage  *recBuffer
	texture  Texture
}

func (p *recPass) SetPipeline(pl Pipeline) { p.pipeline = pl }

func (p *recPass) SetBindings(uniform, storage Buffer) {
	p.uniform, _ = uniform.(*recBuffer)
	p.storage, _ = storage.(*recBuffer)
}

func (p *recPass) SetTexture(t Texture) { p.texture = t }

func (p *recPass) Draw(vertexCount, instanceCount uint32) {
	c := Command{
		Op:            "draw",
		Pass:          p.label,
		Pipeline:      p.pipeline,
		VertexCount:   vertexCount,
		InstanceCount: instanceCount,
	}
	if p.uniform != nil {
		c.Uniform = p.uniform.data
	}
	if p.storage != nil {
		c.Storage = p.storage.data
	}
	if p.texture != nil {
		c.Texture = p.texture.Desc().Label
	}
	p.dev.record(c)
}

func (p *recPass) End() { p.dev.record(Command{Op: "end", Pass: p.label}) }
