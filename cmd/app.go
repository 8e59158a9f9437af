package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/dsrosen6/nvdisplay/internal/app"
	"github.com/dsrosen6/nvdisplay/internal/config"
	"github.com/dsrosen6/nvdisplay/internal/listener"
	"github.com/dsrosen6/nvdisplay/internal/nvapi"
	"github.com/dsrosen6/nvdisplay/internal/output"
)

const (
	version = "0.1.0"
)

// openDriver loads the vendor library. The returned func releases it.
var openDriver = func() (nvapi.Driver, func() error, error) {
	lib, err := nvapi.Open()
	if err != nil {
		return nil, nil, err
	}
	return lib, lib.Close, nil
}

// Run is the primary entry point of nvdisplay.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if os.Getenv("DEBUG") == "true" {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		return handleCommands(ctx, args, stdout, stderr)
	}

	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	return withApp(opts.cfgFile, stdout, func(a *app.App) error {
		switch {
		case opts.list:
			return a.List(opts.format)
		case opts.fix:
			a.Fix()
			return nil
		default:
			return a.Adjust(opts.selector, opts.adj)
		}
	})
}

// handleCommands dispatches the named commands.
func handleCommands(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	switch args[0] {
	case "version":
		fmt.Fprintln(stdout, version)
		return nil
	case "pick":
		cfgFile, err := parseConfigFlag(args[0], args[1:], stderr)
		if err != nil {
			return err
		}
		return withApp(cfgFile, stdout, func(a *app.App) error {
			return handlePick(a, stdout)
		})
	case "save-profile", "apply-profile", "watch":
		cfgFile, name, err := parseNameFlags(args[0], args[1:], stderr)
		if err != nil {
			return err
		}
		return withApp(cfgFile, stdout, func(a *app.App) error {
			return handleProfileCommand(ctx, a, args[0], name, stdout)
		})
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
}

func handleProfileCommand(ctx context.Context, a *app.App, cmd, name string, stdout io.Writer) error {
	switch cmd {
	case "save-profile":
		if err := a.SaveProfile(name); err != nil {
			return err
		}
		output.Success(stdout, "Profile %q saved to %s", name, a.Cfg.Path())
		return nil

	case "apply-profile":
		return a.ApplyProfile(name)

	default:
		slog.Info("watching for config and display changes", "profile", name, "config", a.Cfg.Path())
		err := a.Watch(ctx, name, listener.DefaultPollInterval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
}

// withApp reads the config and opens the driver around fn.
func withApp(cfgFile string, stdout io.Writer, fn func(a *app.App) error) error {
	cfg, err := config.InitConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	slog.Debug("initiated config", "path", cfg.Path())

	drv, closeDriver, err := openDriver()
	if err != nil {
		return fmt.Errorf("opening driver: %w", err)
	}
	defer func() {
		if err := closeDriver(); err != nil {
			slog.Error("closing driver", "error", err)
		}
	}()

	a := app.NewApp(cfg, drv)
	a.Out = stdout
	return fn(a)
}
