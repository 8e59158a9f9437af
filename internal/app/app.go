// Package app ties the display service, config, event log and recovery
// routine together for the command line.
package app

import (
	"io"
	"os"
	"sync"

	"github.com/dsrosen6/nvdisplay/internal/config"
	"github.com/dsrosen6/nvdisplay/internal/display"
	"github.com/dsrosen6/nvdisplay/internal/eventlog"
	"github.com/dsrosen6/nvdisplay/internal/nvapi"
	"github.com/dsrosen6/nvdisplay/internal/recovery"
)

type App struct {
	Cfg     *config.Config
	Driver  nvapi.Driver
	Display *display.Service
	Events  *eventlog.Log
	Out     io.Writer

	// mu serializes driver work. A query and the apply built on it run under
	// one lock, so watch's display poller never interleaves with an apply.
	mu       sync.Mutex
	newFixer func() *recovery.Fixer
}

func NewApp(cfg *config.Config, drv nvapi.Driver) *App {
	a := &App{
		Cfg:     cfg,
		Driver:  drv,
		Display: display.NewService(drv),
		Events:  eventlog.New(cfg.LogPath()),
		Out:     os.Stdout,
	}
	a.newFixer = a.defaultFixer
	return a
}

func (a *App) defaultFixer() *recovery.Fixer {
	f := recovery.NewFixer(a.Driver, a.Display, a.Events)
	f.Out = a.Out
	return f
}
