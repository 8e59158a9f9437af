package app

import (
	"log/slog"

	"github.com/dsrosen6/nvdisplay/internal/recovery"
)

// Fix runs the recovery routine. It never fails; outcomes go to the console
// and the event log.
func (a *App) Fix() []recovery.Attempt {
	a.mu.Lock()
	defer a.mu.Unlock()

	slog.Info("running display fix", "log", a.Events.Path())
	return a.newFixer().Run()
}
