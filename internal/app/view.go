package app

import (
	"log/slog"
	"sync/atomic"
)

// consoleView is the catalog screen of the CLI. Output is printed by the
// command once loading settles, so the view only traces presenter events.
type consoleView struct {
	logger  *slog.Logger
	reloads atomic.Int64
	loading atomic.Bool
}

func newConsoleView(logger *slog.Logger) *consoleView {
	return &consoleView{logger: logger}
}

func (v *consoleView) ReloadData() {
	v.reloads.Add(1)
	v.logger.Debug("catalog view reloaded")
}

func (v *consoleView) LoadingAnimation(enabled bool) {
	v.loading.Store(enabled)
	v.logger.Debug("catalog loading", slog.Bool("enabled", enabled))
}

func (v *consoleView) BasketChanged(index, quantity int) {
	v.logger.Debug("basket changed",
		slog.Int("index", index),
		slog.Int("quantity", quantity),
	)
}
