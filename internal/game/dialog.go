package game

import (
	"errors"

	"github.com/ncruces/zenity"

	"github.com/iburimskiy/aurora/internal/config"
	"github.com/iburimskiy/aurora/internal/toast"
)

// openConfigDialog asks for a TOML config and queues it as a reload. The
// dialog runs off the game loop so the background keeps animating.
func (g *Game) openConfigDialog() {
	if !g.dialogOpen.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer g.dialogOpen.Store(false)

		filename, err := zenity.SelectFile(
			zenity.Title("Open Aurora Config"),
			zenity.FileFilters{{
				Name:     "Aurora config",
				Patterns: []string{"*.toml"},
			}},
		)
		if err != nil {
			if errors.Is(err, zenity.ErrCanceled) {
				return
			}
			g.logger.Warn("config dialog", "err", err)
			return
		}
		g.loadConfigFile(filename)
	}()
}

func (g *Game) loadConfigFile(filename string) {
	cfg, err := config.Load(filename)
	if err != nil {
		g.logger.Warn("load config", "path", filename, "err", err)
		g.notify(toast.Error, "Invalid config: "+err.Error())
		return
	}
	g.logger.Info("config selected", "path", filename)
	g.Reload(cfg)
}
