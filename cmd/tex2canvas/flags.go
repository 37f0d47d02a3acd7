package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrInvalidFlag wraps flag parsing failures.
var ErrInvalidFlag = errors.New("invalid flag")

// maxWidthUnset detects if --max-figure-width was given.
// 0 is meaningful (no limit), so an out-of-range value marks "not set".
const maxWidthUnset = -1

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// figureFlags holds TikZ rendering flags.
type figureFlags struct {
	disabled bool
	timeout  string
	maxWidth int
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common       commonFlags
	output       string
	style        string
	imageBaseURL string
	strict       bool
	figures      figureFlags
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only log errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log figure cache and render details")
}

func addFigureFlags(fs *flag.FlagSet, f *figureFlags) {
	fs.BoolVar(&f.disabled, "no-figures", false, "keep TikZ figures as source")
	fs.StringVar(&f.timeout, "figure-timeout", "", "per-figure render timeout (e.g. 30s)")
	fs.IntVar(&f.maxWidth, "max-figure-width", maxWidthUnset, "downscale figures wider than this (pixels, 0 = no limit)")
}

// parseConvertFlags parses convert flags and returns the positional inputs.
// flag.ErrHelp is returned unwrapped for -h/--help.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	addCommonFlags(fs, &f.common)
	addFigureFlags(fs, &f.figures)
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVar(&f.style, "style", "", "style name or CSS file path")
	fs.StringVar(&f.imageBaseURL, "image-base-url", "", "prefix for relative image sources")
	fs.BoolVar(&f.strict, "strict", false, "fail on unclosed environments")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFlag, err)
	}
	if f.common.quiet && f.common.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrInvalidFlag)
	}
	return f, fs.Args(), nil
}

// parseDoctorFlags parses doctor flags.
func parseDoctorFlags(args []string) (jsonOutput bool, err error) {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&jsonOutput, "json", false, "print the report as JSON")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return false, err
		}
		return false, fmt.Errorf("%w: %v", ErrInvalidFlag, err)
	}
	return jsonOutput, nil
}
