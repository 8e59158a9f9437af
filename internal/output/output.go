// Package output renders display snapshots and status lines for the console.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/dsrosen6/nvdisplay/internal/display"
)

// Format selects how a snapshot is rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	sourceStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	targetStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: text, json, yaml)", s)
	}
}

type (
	sourceView struct {
		Source  int          `json:"source" yaml:"source"`
		Primary bool         `json:"primary" yaml:"primary"`
		Width   uint32       `json:"width" yaml:"width"`
		Height  uint32       `json:"height" yaml:"height"`
		X       int32        `json:"x" yaml:"x"`
		Y       int32        `json:"y" yaml:"y"`
		Targets []targetView `json:"targets" yaml:"targets"`
	}

	targetView struct {
		DisplayID     uint32 `json:"display_id" yaml:"display_id"`
		TargetID      uint32 `json:"target_id" yaml:"target_id"`
		RefreshHz     uint32 `json:"refresh_hz" yaml:"refresh_hz"`
		RefreshRate1K uint32 `json:"refresh_mhz" yaml:"refresh_mhz"`
		Scaling       string `json:"scaling" yaml:"scaling"`
		Rotation      int    `json:"rotation" yaml:"rotation"`
	}
)

func views(paths []display.Path) []sourceView {
	out := make([]sourceView, 0, len(paths))
	for i, p := range paths {
		sv := sourceView{
			Source:  i + 1,
			Primary: p.Source.Primary,
			Width:   p.Source.Width,
			Height:  p.Source.Height,
			X:       p.Source.X,
			Y:       p.Source.Y,
			Targets: make([]targetView, 0, len(p.Targets)),
		}
		for _, t := range p.Targets {
			sv.Targets = append(sv.Targets, targetView{
				DisplayID:     t.DisplayID,
				TargetID:      t.TargetID,
				RefreshHz:     t.Details.RefreshHz(),
				RefreshRate1K: t.Details.RefreshRate1K,
				Scaling:       t.Details.Scaling.String(),
				Rotation:      t.Details.Rotation.Degrees(),
			})
		}
		out = append(out, sv)
	}
	return out
}

// WriteSnapshot renders paths to w in the requested format.
func WriteSnapshot(w io.Writer, paths []display.Path, f Format) error {
	v := views(paths)
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("closing yaml encoder: %w", err)
		}
		return nil

	default:
		return writeText(w, v)
	}
}

func writeText(w io.Writer, v []sourceView) error {
	var b strings.Builder
	for i, s := range v {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s\n", sourceStyle.Render(fmt.Sprintf("Source %d", s.Source)))
		fmt.Fprintf(&b, "Primary: %t\n", s.Primary)
		fmt.Fprintf(&b, "Resolution: %dx%d\n", s.Width, s.Height)
		fmt.Fprintf(&b, "Position: (%d,%d)\n", s.X, s.Y)
		for j, t := range s.Targets {
			fmt.Fprintf(&b, "%s\n", targetStyle.Render(fmt.Sprintf("Target %d", j+1)))
			fmt.Fprintf(&b, "ID: %d\n", t.DisplayID)
			fmt.Fprintf(&b, "Refresh rate: %d Hz\n", t.RefreshHz)
			fmt.Fprintf(&b, "Scaling: %s\n", t.Scaling)
			fmt.Fprintf(&b, "Rotation: %d°\n", t.Rotation)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Success prints a green status line.
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf(format, args...)))
}

// Failure prints a red status line.
func Failure(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, failureStyle.Render(fmt.Sprintf(format, args...)))
}
