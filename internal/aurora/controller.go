// Package aurora drives the animated aurora background: it owns the shader
// program, feeds it time, pointer and viewport uniforms once per frame and
// can be started and stopped explicitly.
package aurora

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/aurora/internal/config"
)

var ErrAlreadyStarted = errors.New("aurora: controller already started")

type Option func(*Controller)

// WithProgram replaces the compiled Kage shader, mostly for tests.
func WithProgram(p Program) Option {
	return func(c *Controller) { c.program = p }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller is one background instance. Create it with New, then Start
// it; Stop ends the frame loop. Several controllers are independent of
// each other.
type Controller struct {
	cfg     config.RenderConfig
	palette Palette
	program Program
	now     func() time.Time
	logger  *slog.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	startedAt time.Time
	degraded  bool

	frame FrameState
}

func New(cfg config.RenderConfig, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("aurora: %w", err)
	}
	palette, err := NewPalette(cfg.ColorStops)
	if err != nil {
		return nil, fmt.Errorf("aurora: %w", err)
	}
	c := &Controller{
		cfg:     cfg.Clone(),
		palette: palette,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Start compiles the shader (unless one was injected) and starts the
// frame loop. The loop ends when Stop is called or ctx is done.
func (c *Controller) Start(ctx context.Context) error {
	if c.ctx != nil {
		return ErrAlreadyStarted
	}
	if c.program == nil {
		p, err := NewShaderProgram()
		if err != nil {
			c.degraded = true
			c.logger.Warn("aurora disabled", "err", err)
			return err
		}
		c.program = p
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.startedAt = c.now()
	c.logger.Debug("aurora started",
		"stops", c.cfg.ColorStops,
		"amplitude", c.cfg.Amplitude,
		"blend", c.cfg.Blend,
		"speed", c.cfg.Speed)
	return nil
}

// Stop cancels the frame loop. It is idempotent and may be called from
// any goroutine once Start has returned.
func (c *Controller) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Controller) Running() bool {
	return c.ctx != nil && c.ctx.Err() == nil && !c.degraded
}

func (c *Controller) Degraded() bool { return c.degraded }

func (c *Controller) Config() config.RenderConfig { return c.cfg.Clone() }

// Resize records a new viewport. The resolution uniform follows at once.
func (c *Controller) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.frame.Viewport = [2]int{width, height}
}

// PointerMove sets the raw pointer target. The uniform only moves toward
// it on the following steps.
func (c *Controller) PointerMove(x, y float64) {
	c.frame.Target = [2]float64{x, y}
}

// Step runs one frame update. It reports false once the controller has
// been stopped, in which case nothing is updated.
func (c *Controller) Step() bool {
	if !c.Running() {
		return false
	}
	elapsed := c.now().Sub(c.startedAt)
	ms := float64(elapsed) / float64(time.Millisecond)
	c.frame.advance(ms * config.TimeScale * c.cfg.Speed)
	c.frame.follow(config.PointerSmoothing)
	return true
}

// Draw submits one draw of the current uniforms to dst. A failing program
// disables the controller instead of taking the host down.
func (c *Controller) Draw(dst *ebiten.Image) {
	if !c.Running() || c.frame.Viewport[0] == 0 {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.degraded = true
			c.logger.Error("aurora draw failed, background disabled", "panic", r)
		}
	}()
	c.program.Draw(dst, c.Uniforms())
}

func (c *Controller) Frame() FrameState { return c.frame }

func (c *Controller) Uniforms() Uniforms {
	return Uniforms{
		Time:       float32(c.frame.Time),
		Amplitude:  float32(c.cfg.Amplitude),
		Blend:      float32(c.cfg.Blend),
		Resolution: [2]float32{float32(c.frame.Viewport[0]), float32(c.frame.Viewport[1])},
		Mouse:      [2]float32{float32(c.frame.Pointer[0]), float32(c.frame.Pointer[1])},
		ColorStops: c.palette,
	}
}
