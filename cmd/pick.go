package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/dsrosen6/nvdisplay/internal/app"
)

var errNotTerminal = errors.New("pick needs an interactive terminal")

func handlePick(a *app.App, stdout io.Writer) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	targets, err := a.Targets()
	if err != nil {
		return err
	}

	id, err := pickDisplay(targets)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}

	fmt.Fprintln(stdout, formatID(id))
	return nil
}

func pickDisplay(targets []app.TargetInfo) (uint32, error) {
	if len(targets) == 0 {
		return 0, errors.New("no displays connected")
	}

	opts := make([]huh.Option[uint32], 0, len(targets))
	for _, t := range targets {
		opts = append(opts, huh.NewOption(t.String(), t.DisplayID))
	}

	var sel uint32
	grp := huh.NewGroup(
		huh.NewSelect[uint32]().
			Title("Select a display").
			Options(opts...).
			Value(&sel),
	)

	f := form(grp)
	if err := f.Run(); err != nil {
		return 0, fmt.Errorf("running display selection form: %w", err)
	}
	return sel, nil
}

func form(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).
		WithTheme(huh.ThemeBase())
}
