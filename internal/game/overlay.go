package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/aurora/internal/toast"
)

const (
	charWidth   = 6 // debug font
	toastHeight = 24
	badgeHeight = 22
	closeMark   = "  x"
	toastMargin = 12
	fadeWindow  = 0.15 // fraction of a toast's life spent fading out
)

func (g *Game) drawOverlay(screen *ebiten.Image) {
	if g.remake() {
		g.drawBadge(screen)
	}
	g.drawToasts(screen)

	status := fmt.Sprintf("aurora %s | theme %s", formatDuration(g.now().Sub(g.startedAt)), g.theme())
	switch {
	case g.bg == nil:
		status += " | background off"
	case g.bg.Degraded():
		status += " | background disabled"
	default:
		status += fmt.Sprintf(" | speed %.2f amplitude %.2f blend %.2f", g.cfg.Speed, g.cfg.Amplitude, g.cfg.Blend)
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

func (g *Game) drawBadge(screen *ebiten.Image) {
	text := "Remake Preview ON"
	w := len(text)*charWidth + 16
	x := g.width - w - toastMargin
	y := toastMargin

	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), badgeHeight, color.RGBA{R: 82, G: 39, B: 255, A: 210}, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), badgeHeight, 1, color.RGBA{R: 124, G: 255, B: 103, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, text, x+8, y+4)
}

type rect struct{ x, y, w, h int }

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// toastRect places the i-th toast in the top right corner, below the badge.
func (g *Game) toastRect(i int, t toast.Toast) rect {
	w := len(t.Message+closeMark)*charWidth + 20
	y := toastMargin + badgeHeight + 8 + i*(toastHeight+6)
	return rect{x: g.width - w - toastMargin, y: y, w: w, h: toastHeight}
}

func (g *Game) drawToasts(screen *ebiten.Image) {
	now := g.now()
	for i, t := range g.activeToasts() {
		alpha := clamp01(t.Remaining(now) / fadeWindow)
		r := g.toastRect(i, t)

		bg := toastColor(t.Kind)
		bg.A = uint8(float64(bg.A) * alpha)

		vector.DrawFilledRect(screen, float32(r.x), float32(r.y), float32(r.w), float32(r.h), bg, false)
		vector.StrokeRect(screen, float32(r.x), float32(r.y), float32(r.w), float32(r.h), 1, color.RGBA{R: 255, G: 255, B: 255, A: uint8(120 * alpha)}, false)
		ebitenutil.DebugPrintAt(screen, t.Message+closeMark, r.x+10, r.y+5)
	}
}

func toastColor(k toast.Kind) color.RGBA {
	switch k {
	case toast.Success:
		return color.RGBA{R: 30, G: 120, B: 60, A: 220}
	case toast.Warning:
		return color.RGBA{R: 170, G: 100, B: 20, A: 220}
	case toast.Error:
		return color.RGBA{R: 150, G: 40, B: 40, A: 220}
	default:
		return color.RGBA{R: 40, G: 60, B: 120, A: 220}
	}
}
