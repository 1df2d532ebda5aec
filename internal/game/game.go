// Package game hosts the aurora background in an ebiten window together
// with the page overlay: theme backdrop, remake badge, toasts and status.
package game

import (
	"context"
	"image/color"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/aurora/internal/aurora"
	"github.com/iburimskiy/aurora/internal/config"
	"github.com/iburimskiy/aurora/internal/prefs"
	"github.com/iburimskiy/aurora/internal/toast"
)

var (
	darkBackdrop  = color.RGBA{R: 10, G: 12, B: 20, A: 255}
	lightBackdrop = color.RGBA{R: 236, G: 239, B: 246, A: 255}
)

type Options struct {
	Logger *slog.Logger
	Prefs  *prefs.Store
	// Aurora options are passed to every background controller.
	Aurora []aurora.Option
	Now    func() time.Time
}

type Game struct {
	ctx        context.Context
	logger     *slog.Logger
	prefs      *prefs.Store
	auroraOpts []aurora.Option
	now        func() time.Time

	bg      *aurora.Controller
	cfg     config.RenderConfig
	reloads chan config.RenderConfig

	toastMu sync.Mutex
	toasts  *toast.Queue

	// viewport
	width, height int
	cursor        [2]int

	startedAt  time.Time
	dialogOpen atomic.Bool
	lastErr    error
}

// New creates the game and starts the background with cfg. A background
// that cannot start is logged and left out; the window still runs.
func New(ctx context.Context, cfg config.RenderConfig, opts Options) *Game {
	g := &Game{
		ctx:        ctx,
		logger:     opts.Logger,
		prefs:      opts.Prefs,
		auroraOpts: opts.Aurora,
		now:        opts.Now,
		reloads:    make(chan config.RenderConfig, 1),
		toasts:     toast.NewQueue(config.ToastLifetime, config.MaxToasts),
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	if g.now == nil {
		g.now = time.Now
	}
	g.startedAt = g.now()
	g.startBackground(cfg)
	return g
}

// Reload queues cfg to replace the running background on the next update.
// Only the latest queued config is kept. Safe from any goroutine.
func (g *Game) Reload(cfg config.RenderConfig) {
	for {
		select {
		case g.reloads <- cfg:
			return
		default:
		}
		select {
		case <-g.reloads:
		default:
		}
	}
}

func (g *Game) Background() *aurora.Controller { return g.bg }

func (g *Game) Update() error {
	x, y := ebiten.CursorPosition()
	if x != g.cursor[0] || y != g.cursor[1] {
		g.cursor = [2]int{x, y}
		if g.bg != nil {
			g.bg.PointerMove(float64(x), float64(y))
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dismissToastAt(x, y)
	}

	if err := g.handleKeys(inpututil.IsKeyJustPressed); err != nil {
		return err
	}
	return g.tick()
}

// handleKeys runs the action of every key pressed this frame.
func (g *Game) handleKeys(pressed func(ebiten.Key) bool) error {
	if pressed(ebiten.KeyEscape) || pressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if pressed(ebiten.KeyT) {
		g.toggleTheme()
	}
	if pressed(ebiten.KeyM) {
		g.toggleRemake()
	}
	if pressed(ebiten.KeyO) {
		g.openConfigDialog()
	}
	if pressed(ebiten.KeySpace) {
		g.notify(toast.Success, "Welcome to the Hyggshi OS project center")
	}
	return nil
}

// tick is the input-independent part of Update.
func (g *Game) tick() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	select {
	case cfg := <-g.reloads:
		g.stopBackground()
		g.startBackground(cfg)
		if g.bg != nil {
			g.notify(toast.Info, "Aurora config reloaded")
		}
	default:
	}
	if g.bg != nil {
		g.bg.Step()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.theme() == prefs.Light {
		screen.Fill(lightBackdrop)
	} else {
		screen.Fill(darkBackdrop)
	}
	if g.bg != nil {
		g.bg.Draw(screen)
	}
	g.drawOverlay(screen)
}

// Layout follows the window size so the background always covers it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return config.WindowWidth, config.WindowHeight
	}
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		if g.bg != nil {
			g.bg.Resize(g.width, g.height)
		}
	}
	return outsideWidth, outsideHeight
}

// Close stops the background.
func (g *Game) Close() {
	g.stopBackground()
}

func (g *Game) startBackground(cfg config.RenderConfig) {
	bg, err := aurora.New(cfg, append([]aurora.Option{aurora.WithLogger(g.logger)}, g.auroraOpts...)...)
	if err == nil {
		err = bg.Start(g.ctx)
	}
	if err != nil {
		g.lastErr = err
		g.logger.Warn("background not started", "err", err)
		g.notify(toast.Error, "Background unavailable")
		return
	}
	g.bg = bg
	g.cfg = cfg.Clone()
	g.lastErr = nil
	if g.width > 0 && g.height > 0 {
		bg.Resize(g.width, g.height)
	}
	bg.PointerMove(float64(g.cursor[0]), float64(g.cursor[1]))
}

func (g *Game) stopBackground() {
	if g.bg == nil {
		return
	}
	g.bg.Stop()
	g.bg = nil
}

func (g *Game) theme() string {
	if g.prefs == nil {
		return prefs.Dark
	}
	return g.prefs.Theme()
}

func (g *Game) remake() bool {
	return g.prefs != nil && g.prefs.Remake()
}

func (g *Game) toggleTheme() {
	if g.prefs == nil {
		return
	}
	theme, err := g.prefs.ToggleTheme()
	if err != nil {
		g.lastErr = err
		g.logger.Warn("save theme", "err", err)
		g.notify(toast.Warning, "Theme not saved")
		return
	}
	g.logger.Debug("theme changed", "theme", theme)
}

func (g *Game) toggleRemake() {
	if g.prefs == nil {
		return
	}
	on := !g.prefs.Remake()
	if err := g.prefs.SetRemake(on); err != nil {
		g.lastErr = err
		g.logger.Warn("save remake flag", "err", err)
		g.notify(toast.Warning, "Remake preview not saved")
		return
	}
	if on {
		g.notify(toast.Info, "Remake preview on")
	} else {
		g.notify(toast.Info, "Remake preview off")
	}
}

func (g *Game) notify(kind toast.Kind, msg string) {
	g.toastMu.Lock()
	defer g.toastMu.Unlock()
	g.toasts.Push(g.now(), kind, msg)
}

// dismissToastAt closes the toast under (x, y), like its close button.
func (g *Game) dismissToastAt(x, y int) bool {
	g.toastMu.Lock()
	defer g.toastMu.Unlock()
	for i, t := range g.toasts.Active(g.now()) {
		if g.toastRect(i, t).contains(x, y) {
			g.toasts.Dismiss(i)
			return true
		}
	}
	return false
}

func (g *Game) activeToasts() []toast.Toast {
	g.toastMu.Lock()
	defer g.toastMu.Unlock()
	return g.toasts.Active(g.now())
}
