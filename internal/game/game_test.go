package game

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/aurora/internal/aurora"
	"github.com/iburimskiy/aurora/internal/config"
	"github.com/iburimskiy/aurora/internal/prefs"
	"github.com/iburimskiy/aurora/internal/toast"
)

type nopProgram struct{ draws int }

func (p *nopProgram) Draw(*ebiten.Image, aurora.Uniforms) { p.draws++ }

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func newTestGame(t *testing.T, ctx context.Context, cfg config.RenderConfig) (*Game, *testClock) {
	t.Helper()
	store, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.toml"))
	require.NoError(t, err)
	clock := &testClock{t: time.Unix(1700000000, 0)}
	g := New(ctx, cfg, Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Prefs:  store,
		Now:    clock.now,
		Aurora: []aurora.Option{aurora.WithProgram(&nopProgram{}), aurora.WithClock(clock.now)},
	})
	t.Cleanup(g.Close)
	return g, clock
}

func TestLayoutResizesBackground(t *testing.T) {
	g, _ := newTestGame(t, context.Background(), config.DefaultRenderConfig())
	require.NotNil(t, g.Background())

	w, h := g.Layout(800, 600)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Equal(t, [2]float32{800, 600}, g.Background().Uniforms().Resolution)

	g.Layout(1920, 1080)
	assert.Equal(t, [2]float32{1920, 1080}, g.Background().Uniforms().Resolution)
}

func TestTickAdvancesTime(t *testing.T) {
	g, clock := newTestGame(t, context.Background(), config.DefaultRenderConfig())
	clock.t = clock.t.Add(2 * time.Second)
	require.NoError(t, g.tick())
	assert.InDelta(t, 2.0, g.Background().Uniforms().Time, 1e-6)
}

func TestReloadSwapsController(t *testing.T) {
	g, _ := newTestGame(t, context.Background(), config.DefaultRenderConfig())
	g.Layout(1024, 768)
	old := g.Background()

	speed := 3.0
	g.Reload(config.DefaultRenderConfig().Apply(config.Overrides{Speed: &speed}))
	// only the latest queued config is applied
	speed = 4.0
	g.Reload(config.DefaultRenderConfig().Apply(config.Overrides{Speed: &speed}))
	require.NoError(t, g.tick())

	assert.False(t, old.Running())
	bg := g.Background()
	require.NotNil(t, bg)
	assert.NotSame(t, old, bg)
	assert.True(t, bg.Running())
	assert.Equal(t, 4.0, bg.Config().Speed)
	assert.Equal(t, [2]float32{1024, 768}, bg.Uniforms().Resolution)

	active := g.activeToasts()
	require.NotEmpty(t, active)
	assert.Equal(t, "Aurora config reloaded", active[len(active)-1].Message)
}

func TestInvalidConfigLeavesPageRunning(t *testing.T) {
	cfg := config.DefaultRenderConfig().Apply(config.Overrides{ColorStops: []string{"#fff"}})
	g, _ := newTestGame(t, context.Background(), cfg)

	assert.Nil(t, g.Background())
	assert.Error(t, g.lastErr)
	assert.NoError(t, g.tick())
	w, h := g.Layout(640, 480)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)

	g.Reload(config.DefaultRenderConfig())
	require.NoError(t, g.tick())
	assert.NotNil(t, g.Background())
	assert.NoError(t, g.lastErr)
}

func TestCancelledContextTerminates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g, _ := newTestGame(t, ctx, config.DefaultRenderConfig())
	cancel()
	assert.ErrorIs(t, g.tick(), ebiten.Termination)
	assert.False(t, g.Background().Running())
}

func TestCloseStopsBackground(t *testing.T) {
	g, _ := newTestGame(t, context.Background(), config.DefaultRenderConfig())
	bg := g.Background()
	g.Close()
	assert.False(t, bg.Running())
	assert.Nil(t, g.Background())
}

func TestThemeAndRemakeToggles(t *testing.T) {
	g, _ := newTestGame(t, context.Background(), config.DefaultRenderConfig())
	assert.Equal(t, prefs.Dark, g.theme())

	g.toggleTheme()
	assert.Equal(t, prefs.Light, g.theme())

	g.toggleRemake()
	assert.True(t, g.remake())
	g.toggleRemake()
	assert.False(t, g.remake())
}

func TestLoadConfigFile(t *testing.T) {
	g, _ := newTestGame(t, context.Background(), config.DefaultRenderConfig())

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte(`speed = -1.0`), 0o644))
	g.loadConfigFile(bad)
	active := g.activeToasts()
	require.NotEmpty(t, active)
	assert.Equal(t, toast.Error, active[len(active)-1].Kind)

	good := filepath.Join(t.TempDir(), "good.toml")
	require.NoError(t, os.WriteFile(good, []byte("blend = 0.3\n"), 0o644))
	g.loadConfigFile(good)
	require.NoError(t, g.tick())
	assert.Equal(t, 0.3, g.Background().Config().Blend)
}

func TestToastsExpire(t *testing.T) {
	g, clock := newTestGame(t, context.Background(), config.DefaultRenderConfig())
	g.notify(toast.Success, "hello")
	assert.Len(t, g.activeToasts(), 1)
	clock.t = clock.t.Add(4 * time.Second)
	assert.Len(t, g.activeToasts(), 1)
	clock.t = clock.t.Add(time.Second)
	assert.Empty(t, g.activeToasts())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00", formatDuration(0))
	assert.Equal(t, "01:05", formatDuration(65*time.Second))
	assert.Equal(t, 0.0, clamp01(-2))
	assert.Equal(t, 1.0, clamp01(3))
}

func TestNewToastReplacesOld(t *testing.T) {
	g, _ := newTestGame(t, context.Background(), config.DefaultRenderConfig())
	g.notify(toast.Success, "Welcome")
	g.notify(toast.Info, "Discover the features below")

	active := g.activeToasts()
	require.Len(t, active, 1)
	assert.Equal(t, "Discover the features below", active[0].Message)
}

func TestClickDismissesToast(t *testing.T) {
	g, _ := newTestGame(t, context.Background(), config.DefaultRenderConfig())
	g.Layout(800, 600)
	g.notify(toast.Info, "hello")

	active := g.activeToasts()
	require.Len(t, active, 1)
	r := g.toastRect(0, active[0])

	assert.False(t, g.dismissToastAt(r.x-1, r.y))
	assert.Len(t, g.activeToasts(), 1)

	assert.True(t, g.dismissToastAt(r.x+r.w/2, r.y+r.h/2))
	assert.Empty(t, g.activeToasts())
	assert.False(t, g.dismissToastAt(r.x+r.w/2, r.y+r.h/2))
}

func TestKeysPressedInSameFrame(t *testing.T) {
	g, _ := newTestGame(t, context.Background(), config.DefaultRenderConfig())
	pressed := func(k ebiten.Key) bool { return k == ebiten.KeyT || k == ebiten.KeyM || k == ebiten.KeySpace }

	require.NoError(t, g.handleKeys(pressed))
	assert.Equal(t, prefs.Light, g.theme())
	assert.True(t, g.remake())
	active := g.activeToasts()
	require.Len(t, active, 1)
	assert.Equal(t, "Welcome to the Hyggshi OS project center", active[0].Message)

	quit := func(k ebiten.Key) bool { return k == ebiten.KeyQ || k == ebiten.KeyT }
	assert.ErrorIs(t, g.handleKeys(quit), ebiten.Termination)
	assert.Equal(t, prefs.Light, g.theme())
}
