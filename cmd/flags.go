package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dsrosen6/nvdisplay/internal/display"
	"github.com/dsrosen6/nvdisplay/internal/output"
)

// ErrUsage marks bad or missing arguments; the usage text has already been
// printed.
var ErrUsage = errors.New("invalid usage")

type options struct {
	cfgFile string
	list    bool
	fix     bool
	format  output.Format

	selector display.Selector
	adj      display.Adjustment
}

// parseFlags parses the top-level flags. -list and -fix win over everything
// else, so the adjustment flags are only validated without them.
func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("nvdisplay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(fs, stderr) }

	var (
		o        options
		format   string
		id       uint64
		width    uint64
		height   uint64
		x, y     int64
		scaling  string
		refresh  uint64
		rotation string
	)
	fs.StringVar(&o.cfgFile, "c", "", "specify a config file")
	fs.BoolVar(&o.list, "list", false, "print the current display configuration")
	fs.BoolVar(&o.fix, "fix", false, "run the display recovery routine")
	fs.StringVar(&format, "format", "text", "output format for -list: text, json or yaml")
	fs.Uint64Var(&id, "display", 0, "display id to change (default: primary)")
	fs.Uint64Var(&width, "width", 0, "horizontal resolution")
	fs.Uint64Var(&height, "height", 0, "vertical resolution")
	fs.Int64Var(&x, "x", 0, "desktop x position")
	fs.Int64Var(&y, "y", 0, "desktop y position")
	fs.StringVar(&scaling, "scaling", "", "scaling mode")
	fs.Uint64Var(&refresh, "refresh", 0, "refresh rate in Hz")
	fs.StringVar(&rotation, "rotation", "", "rotation in degrees: 0, 90, 180 or 270")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, ErrUsage
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}

	f, err := output.ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	o.format = f

	if o.list || o.fix {
		return &o, nil
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	o.selector = display.Primary()
	if set["display"] {
		if id > math.MaxUint32 {
			return nil, fmt.Errorf("%w: display id %d out of range", ErrUsage, id)
		}
		o.selector = display.ByDisplayID(uint32(id))
	}

	for name, v := range map[string]uint64{"width": width, "height": height} {
		if set[name] && v > math.MaxUint32 {
			return nil, fmt.Errorf("%w: -%s %d out of range", ErrUsage, name, v)
		}
	}
	for name, v := range map[string]int64{"x": x, "y": y} {
		if set[name] && (v < math.MinInt32 || v > math.MaxInt32) {
			return nil, fmt.Errorf("%w: -%s %d out of range", ErrUsage, name, v)
		}
	}
	if set["refresh"] && refresh > display.MaxRefreshHz {
		return nil, fmt.Errorf("%w: -refresh %d out of range (max %d)", ErrUsage, refresh, display.MaxRefreshHz)
	}

	if set["width"] {
		v := uint32(width)
		o.adj.Width = &v
	}
	if set["height"] {
		v := uint32(height)
		o.adj.Height = &v
	}
	if set["x"] {
		v := int32(x)
		o.adj.X = &v
	}
	if set["y"] {
		v := int32(y)
		o.adj.Y = &v
	}
	if set["refresh"] {
		v := uint32(refresh)
		o.adj.RefreshHz = &v
	}
	if set["scaling"] {
		s, err := display.ParseScaling(scaling)
		if err != nil {
			return nil, err
		}
		o.adj.Scaling = &s
	}
	if set["rotation"] {
		r, err := display.ParseRotation(rotation)
		if err != nil {
			return nil, err
		}
		o.adj.Rotation = &r
	}

	if o.adj.Empty() {
		fs.Usage()
		return nil, ErrUsage
	}
	return &o, nil
}

// parseNameFlags parses the flags shared by the profile commands.
func parseNameFlags(cmd string, args []string, stderr io.Writer) (cfgFile, name string, err error) {
	return parseCommandFlags(cmd, args, stderr, true)
}

// parseConfigFlag parses a command that only takes -c.
func parseConfigFlag(cmd string, args []string, stderr io.Writer) (string, error) {
	cfgFile, _, err := parseCommandFlags(cmd, args, stderr, false)
	return cfgFile, err
}

func parseCommandFlags(cmd string, args []string, stderr io.Writer, withName bool) (cfgFile, name string, err error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfgFile, "c", "", "specify a config file")
	if withName {
		fs.StringVar(&name, "name", "", "profile name")
	}

	if err := fs.Parse(args); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return "", "", fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	if withName && name == "" {
		fs.Usage()
		return "", "", fmt.Errorf("%w: %s requires -name", ErrUsage, cmd)
	}
	return cfgFile, name, nil
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  nvdisplay -list [-format text|json|yaml]\n")
	fmt.Fprintf(w, "  nvdisplay -fix\n")
	fmt.Fprintf(w, "  nvdisplay [-display id] [-width w] [-height h] [-x x] [-y y] [-refresh hz] [-scaling mode] [-rotation deg]\n")
	fmt.Fprintf(w, "  nvdisplay version | pick [-c file] | save-profile -name n | apply-profile -name n | watch -name n\n\n")
	fmt.Fprintf(w, "Scaling modes: %s\n\nFlags:\n", strings.Join(display.ScalingNames(), ", "))
	fs.PrintDefaults()
}

func formatID(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}
