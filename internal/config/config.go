// Package config loads InkBoard settings from a TOML file.
package config

import (
	"errors"
	"fmt"

	"InkBoard/internal/gesture"
	"InkBoard/internal/state"
	"InkBoard/internal/stroke"
	"InkBoard/internal/tool"

	"github.com/BurntSushi/toml"
)

var ErrInvalid = errors.New("invalid config")

type Stroke struct {
	MinWidth          float64 `toml:"min_width"`
	MaxWidth          float64 `toml:"max_width"`
	MinDistance       float64 `toml:"min_distance"`
	DotPressure       float64 `toml:"dot_pressure"`
	DotMinSize        float64 `toml:"dot_min_size"`
	SimplifyTolerance float64 `toml:"simplify_tolerance"`
}

type History struct {
	MaxStates int `toml:"max_states"`
}

type Gesture struct {
	ZoomNoise        float64 `toml:"zoom_noise"`
	MinZoom          float64 `toml:"min_zoom"`
	MaxZoom          float64 `toml:"max_zoom"`
	WheelStep        float64 `toml:"wheel_step"`
	SingleContactPan bool    `toml:"single_contact_pan"`
}

type Tools struct {
	EraserRadius    float64 `toml:"eraser_radius"`
	NodeTolerance   float64 `toml:"node_tolerance"`
	SelectTolerance float64 `toml:"select_tolerance"`
	ShapeMinSize    float64 `toml:"shape_min_size"`
	LineMinLength   float64 `toml:"line_min_length"`
	StrokeWidth     float64 `toml:"stroke_width"`
	Color           string  `toml:"color"`
}

type Server struct {
	Addr      string `toml:"addr"`
	Advertise bool   `toml:"advertise"`
	Service   string `toml:"service"`
}

type Config struct {
	LogLevel string  `toml:"log_level"`
	Stroke   Stroke  `toml:"stroke"`
	History  History `toml:"history"`
	Gesture  Gesture `toml:"gesture"`
	Tools    Tools   `toml:"tools"`
	Server   Server  `toml:"server"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Stroke: Stroke{
			MinWidth:          1,
			MaxWidth:          15,
			MinDistance:       1,
			DotPressure:       0.1,
			DotMinSize:        0.1,
			SimplifyTolerance: 1,
		},
		History: History{MaxStates: 50},
		Gesture: Gesture{
			ZoomNoise:        0.5,
			MinZoom:          0.1,
			MaxZoom:          20,
			WheelStep:        1.2,
			SingleContactPan: true,
		},
		Tools: Tools{
			EraserRadius:    10,
			NodeTolerance:   8,
			SelectTolerance: 5,
			ShapeMinSize:    2,
			LineMinLength:   2,
			StrokeWidth:     2,
			Color:           "black",
		},
		Server: Server{
			Addr:      ":8888",
			Advertise: true,
			Service:   "_inkboard._tcp",
		},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key %s", ErrInvalid, undec[0])
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults.
func Parse(text string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key %s", ErrInvalid, undec[0])
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
	}
	s := c.Stroke
	switch {
	case s.MinWidth <= 0:
		return invalid("stroke.min_width must be positive")
	case s.MaxWidth < s.MinWidth:
		return invalid("stroke.max_width %v below min_width %v", s.MaxWidth, s.MinWidth)
	case s.MinDistance < 0:
		return invalid("stroke.min_distance must not be negative")
	case s.SimplifyTolerance <= 0:
		return invalid("stroke.simplify_tolerance must be positive")
	}
	if c.History.MaxStates <= 0 {
		return invalid("history.max_states must be positive")
	}
	g := c.Gesture
	switch {
	case g.MinZoom <= 0:
		return invalid("gesture.min_zoom must be positive")
	case g.MaxZoom < g.MinZoom:
		return invalid("gesture.max_zoom %v below min_zoom %v", g.MaxZoom, g.MinZoom)
	case g.WheelStep <= 1:
		return invalid("gesture.wheel_step must be greater than 1")
	case g.ZoomNoise < 0:
		return invalid("gesture.zoom_noise must not be negative")
	}
	t := c.Tools
	switch {
	case t.EraserRadius <= 0, t.NodeTolerance <= 0, t.SelectTolerance <= 0:
		return invalid("tool tolerances must be positive")
	case t.StrokeWidth <= 0:
		return invalid("tools.stroke_width must be positive")
	}
	if _, err := state.ParseColor(t.Color); err != nil {
		return invalid("tools.color: %v", err)
	}
	return nil
}

// StrokeOptions converts the [stroke] section.
func (c Config) StrokeOptions() stroke.Options {
	return stroke.Options{
		MinWidth:          c.Stroke.MinWidth,
		MaxWidth:          c.Stroke.MaxWidth,
		MinDistance:       c.Stroke.MinDistance,
		DotPressure:       c.Stroke.DotPressure,
		DotMinSize:        c.Stroke.DotMinSize,
		SimplifyTolerance: c.Stroke.SimplifyTolerance,
	}
}

// ToolConfig converts the [tools] and [stroke] sections.
func (c Config) ToolConfig() tool.Config {
	return tool.Config{
		Stroke:          c.StrokeOptions(),
		EraserRadius:    c.Tools.EraserRadius,
		NodeTolerance:   c.Tools.NodeTolerance,
		SelectTolerance: c.Tools.SelectTolerance,
		ShapeMinSize:    c.Tools.ShapeMinSize,
		LineMinLength:   c.Tools.LineMinLength,
	}
}

// GestureConfig converts the [gesture] section.
func (c Config) GestureConfig() gesture.Config {
	return gesture.Config{
		ZoomNoise:        c.Gesture.ZoomNoise,
		WheelStep:        c.Gesture.WheelStep,
		SingleContactPan: c.Gesture.SingleContactPan,
	}
}
