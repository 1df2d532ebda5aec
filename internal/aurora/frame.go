package aurora

import "github.com/iburimskiy/aurora/internal/config"

// FrameState is the per-frame mutable state of a controller. Only the
// controller's own step, resize and pointer handlers touch it.
type FrameState struct {
	Time     float64    // seconds, already scaled by speed
	Pointer  [2]float64 // smoothed
	Target   [2]float64 // raw input position
	Viewport [2]int
}

// follow moves the smoothed pointer a fixed fraction toward the target.
func (s *FrameState) follow(factor float64) {
	s.Pointer[0] += (s.Target[0] - s.Pointer[0]) * factor
	s.Pointer[1] += (s.Target[1] - s.Pointer[1]) * factor
}

// advance sets the time for t, never letting it run backwards.
func (s *FrameState) advance(t float64) {
	if t > s.Time {
		s.Time = t
	}
}

// Palette is the normalized RGB form of a config's color stops.
type Palette [config.StopCount][3]float32

func NewPalette(stops []string) (Palette, error) {
	var p Palette
	if len(stops) != config.StopCount {
		return p, config.ErrStopCount
	}
	for i, s := range stops {
		rgb, err := config.ParseColor(s)
		if err != nil {
			return p, err
		}
		p[i] = rgb
	}
	return p, nil
}

// Uniforms is what one draw call feeds the shader.
type Uniforms struct {
	Time       float32
	Amplitude  float32
	Blend      float32
	Resolution [2]float32
	Mouse      [2]float32
	ColorStops Palette
}

// Map returns the uniforms keyed by the shader's variable names.
func (u Uniforms) Map() map[string]any {
	stops := make([]float32, 0, len(u.ColorStops)*3)
	for _, c := range u.ColorStops {
		stops = append(stops, c[:]...)
	}
	return map[string]any{
		"Time":       u.Time,
		"Amplitude":  u.Amplitude,
		"Blend":      u.Blend,
		"Resolution": u.Resolution[:],
		"Mouse":      u.Mouse[:],
		"ColorStops": stops,
	}
}
