package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
)

const (
	WindowWidth  = 1280
	WindowHeight = 720
	WindowTitle  = "Aurora - T: theme, M: remake preview, O: open config, Space: hello, Esc/Q: quit"

	// PointerSmoothing is the fraction of the remaining distance the
	// smoothed pointer covers on every update.
	PointerSmoothing = 0.06
	// TimeScale converts elapsed milliseconds into shader seconds.
	TimeScale = 0.001

	ToastLifetime = 5 * time.Second
	MaxToasts     = 1

	StopCount = 3
)

// DefaultColorStops is the purple/green/purple ramp used when no stops are given.
var DefaultColorStops = []string{"#5227FF", "#7cff67", "#5227FF"}

var (
	ErrInvalidColor = errors.New("invalid color")
	ErrStopCount    = errors.New("wrong number of color stops")
)

// RenderConfig holds the parameters of the aurora shader. Treat it as a
// value: it is copied into the controller and never changed afterwards.
type RenderConfig struct {
	ColorStops []string `toml:"color_stops"`
	Amplitude  float64  `toml:"amplitude"`
	Blend      float64  `toml:"blend"`
	Speed      float64  `toml:"speed"`
}

func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		ColorStops: append([]string(nil), DefaultColorStops...),
		Amplitude:  1.0,
		Blend:      0.5,
		Speed:      1.0,
	}
}

// Overrides carries caller-supplied values. Nil or empty fields keep
// whatever the base config has.
type Overrides struct {
	ColorStops []string
	Amplitude  *float64
	Blend      *float64
	Speed      *float64
}

// Apply returns a copy of c with the non-empty overrides applied.
func (c RenderConfig) Apply(o Overrides) RenderConfig {
	out := c.Clone()
	if len(o.ColorStops) > 0 {
		out.ColorStops = append([]string(nil), o.ColorStops...)
	}
	if o.Amplitude != nil {
		out.Amplitude = *o.Amplitude
	}
	if o.Blend != nil {
		out.Blend = *o.Blend
	}
	if o.Speed != nil {
		out.Speed = *o.Speed
	}
	return out
}

func (c RenderConfig) Clone() RenderConfig {
	c.ColorStops = append([]string(nil), c.ColorStops...)
	return c
}

func (c RenderConfig) Validate() error {
	if len(c.ColorStops) != StopCount {
		return fmt.Errorf("color_stops: %w: got %d, want %d", ErrStopCount, len(c.ColorStops), StopCount)
	}
	for i, s := range c.ColorStops {
		if _, err := ParseColor(s); err != nil {
			return fmt.Errorf("color_stops[%d]: %w", i, err)
		}
	}
	if !finite(c.Amplitude) {
		return fmt.Errorf("amplitude: not a finite number: %v", c.Amplitude)
	}
	// smoothstep is undefined for equal edges
	if !finite(c.Blend) || c.Blend <= 0 {
		return fmt.Errorf("blend: must be a positive number, got %v", c.Blend)
	}
	if !finite(c.Speed) || c.Speed < 0 {
		return fmt.Errorf("speed: must be a non-negative number, got %v", c.Speed)
	}
	return nil
}

// ParseColor converts a "#rrggbb" or "#rgb" string into normalized RGB.
func ParseColor(hex string) ([3]float32, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return [3]float32{}, fmt.Errorf("%w %q: %v", ErrInvalidColor, hex, err)
	}
	c = c.Clamped()
	return [3]float32{float32(c.R), float32(c.G), float32(c.B)}, nil
}

// Load reads a TOML render config from path. Keys missing from the file
// keep their default values.
func Load(path string) (RenderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RenderConfig{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (RenderConfig, error) {
	cfg := DefaultRenderConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return RenderConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return RenderConfig{}, err
	}
	return cfg, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
