package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical render defaults file.
const DefaultConfigPath = "config/render.defaults.json"

// RenderConfig holds the tunables read by the frame builders, the
// interaction handlers and the CLI. Every field is optional; the Get*
// accessors supply the built-in default for anything left unset.
type RenderConfig struct {
	// Downsampling
	MaxDisplayPoints *int `json:"max_display_points,omitempty"`
	MarkerMaxPoints  *int `json:"marker_max_points,omitempty"`

	// Interaction
	ZoomSensitivity   *float64 `json:"zoom_sensitivity,omitempty"`
	RotateSensitivity *float64 `json:"rotate_sensitivity,omitempty"`
	HoverRadiusPx     *float64 `json:"hover_radius_px,omitempty"`

	// Alignment
	AlignTolerance *float64 `json:"align_tolerance,omitempty"`

	// Strokes
	GridLineWidth    *float64 `json:"grid_line_width,omitempty"`
	DefaultLineWidth *float64 `json:"default_line_width,omitempty"`

	// Appearance
	Theme *string `json:"theme,omitempty"` // "dark" or "light"

	// Frames slower than this are logged.
	SlowFrame *string `json:"slow_frame,omitempty"` // duration string like "16ms"
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyRenderConfig returns a RenderConfig with all fields set to nil.
func EmptyRenderConfig() *RenderConfig {
	return &RenderConfig{}
}

// DefaultRenderConfig returns a RenderConfig with every field populated
// from the built-in defaults.
func DefaultRenderConfig() *RenderConfig {
	c := EmptyRenderConfig()
	return &RenderConfig{
		MaxDisplayPoints:  ptrInt(c.GetMaxDisplayPoints()),
		MarkerMaxPoints:   ptrInt(c.GetMarkerMaxPoints()),
		ZoomSensitivity:   ptrFloat64(c.GetZoomSensitivity()),
		RotateSensitivity: ptrFloat64(c.GetRotateSensitivity()),
		HoverRadiusPx:     ptrFloat64(c.GetHoverRadiusPx()),
		AlignTolerance:    ptrFloat64(c.GetAlignTolerance()),
		GridLineWidth:     ptrFloat64(c.GetGridLineWidth()),
		DefaultLineWidth:  ptrFloat64(c.GetDefaultLineWidth()),
		Theme:             ptrString(c.GetTheme()),
		SlowFrame:         ptrString(c.GetSlowFrame().String()),
	}
}

// LoadRenderConfig loads a RenderConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file fall back to their defaults, so
// partial configs are safe.
func LoadRenderConfig(path string) (*RenderConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyRenderConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical render defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *RenderConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/<pkg>/ and cmd/plotctl/
	}
	for _, path := range candidates {
		if cfg, err := LoadRenderConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *RenderConfig) Validate() error {
	if c.MaxDisplayPoints != nil && *c.MaxDisplayPoints < 3 {
		return fmt.Errorf("max_display_points must be at least 3, got %d", *c.MaxDisplayPoints)
	}
	if c.MarkerMaxPoints != nil && *c.MarkerMaxPoints < 0 {
		return fmt.Errorf("marker_max_points must be non-negative, got %d", *c.MarkerMaxPoints)
	}
	if c.ZoomSensitivity != nil && (*c.ZoomSensitivity <= 0 || *c.ZoomSensitivity > 1) {
		return fmt.Errorf("zoom_sensitivity must be in (0, 1], got %f", *c.ZoomSensitivity)
	}
	if c.RotateSensitivity != nil && *c.RotateSensitivity <= 0 {
		return fmt.Errorf("rotate_sensitivity must be positive, got %f", *c.RotateSensitivity)
	}
	if c.HoverRadiusPx != nil && *c.HoverRadiusPx < 0 {
		return fmt.Errorf("hover_radius_px must be non-negative, got %f", *c.HoverRadiusPx)
	}
	if c.AlignTolerance != nil && *c.AlignTolerance < 0 {
		return fmt.Errorf("align_tolerance must be non-negative, got %g", *c.AlignTolerance)
	}
	if c.GridLineWidth != nil && *c.GridLineWidth <= 0 {
		return fmt.Errorf("grid_line_width must be positive, got %f", *c.GridLineWidth)
	}
	if c.DefaultLineWidth != nil && *c.DefaultLineWidth <= 0 {
		return fmt.Errorf("default_line_width must be positive, got %f", *c.DefaultLineWidth)
	}
	if c.Theme != nil && *c.Theme != "dark" && *c.Theme != "light" {
		return fmt.Errorf("theme must be \"dark\" or \"light\", got %q", *c.Theme)
	}
	if c.SlowFrame != nil && *c.SlowFrame != "" {
		if _, err := time.ParseDuration(*c.SlowFrame); err != nil {
			return fmt.Errorf("invalid slow_frame '%s': %w", *c.SlowFrame, err)
		}
	}
	return nil
}

// GetMaxDisplayPoints returns the per-series point budget for one frame.
func (c *RenderConfig) GetMaxDisplayPoints() int {
	if c.MaxDisplayPoints == nil {
		return 10000
	}
	return *c.MaxDisplayPoints
}

// GetMarkerMaxPoints returns the point count above which marker overlays are dropped.
func (c *RenderConfig) GetMarkerMaxPoints() int {
	if c.MarkerMaxPoints == nil {
		return 10000
	}
	return *c.MarkerMaxPoints
}

// GetZoomSensitivity returns the zoom factor change per scroll unit.
func (c *RenderConfig) GetZoomSensitivity() float64 {
	if c.ZoomSensitivity == nil {
		return 0.001
	}
	return *c.ZoomSensitivity
}

// GetRotateSensitivity returns radians of orbit per dragged pixel.
func (c *RenderConfig) GetRotateSensitivity() float64 {
	if c.RotateSensitivity == nil {
		return 0.005
	}
	return *c.RotateSensitivity
}

// GetHoverRadiusPx returns the tooltip pick radius in pixels.
func (c *RenderConfig) GetHoverRadiusPx() float64 {
	if c.HoverRadiusPx == nil {
		return 12
	}
	return *c.HoverRadiusPx
}

// GetAlignTolerance returns the default x tolerance for series alignment.
func (c *RenderConfig) GetAlignTolerance() float64 {
	if c.AlignTolerance == nil {
		return 1e-9
	}
	return *c.AlignTolerance
}

// GetGridLineWidth returns the grid stroke width in pixels.
func (c *RenderConfig) GetGridLineWidth() float64 {
	if c.GridLineWidth == nil {
		return 1
	}
	return *c.GridLineWidth
}

// GetDefaultLineWidth returns the stroke width given to new series.
func (c *RenderConfig) GetDefaultLineWidth() float64 {
	if c.DefaultLineWidth == nil {
		return 2
	}
	return *c.DefaultLineWidth
}

// GetTheme returns "dark" or "light".
func (c *RenderConfig) GetTheme() string {
	if c.Theme == nil || *c.Theme == "" {
		return "dark"
	}
	return *c.Theme
}

// GetSlowFrame parses and returns the SlowFrame threshold as a time.Duration.
func (c *RenderConfig) GetSlowFrame() time.Duration {
	if c.SlowFrame == nil || *c.SlowFrame == "" {
		return 16 * time.Millisecond
	}
	d, err := time.ParseDuration(*c.SlowFrame)
	if err != nil {
		return 16 * time.Millisecond
	}
	return d
}
