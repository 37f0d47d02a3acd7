package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	tex2canvas "github.com/alnah/go-tex2canvas"
	"github.com/alnah/go-tex2canvas/internal/config"
	"github.com/alnah/go-tex2canvas/internal/fileutil"
	"github.com/alnah/go-tex2canvas/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadSource         = errors.New("failed to read LaTeX file")
	ErrWriteHTML          = errors.New("failed to write HTML file")
	ErrInvalidExtension   = errors.New("file must have a .tex extension")
	ErrUnsupportedCommand = errors.New("unknown command")
)

const texExtension = ".tex"

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// runConvertCmd parses flags, converts and returns an exit code.
func runConvertCmd(args []string, env *Environment) int {
	flags, inputs, err := parseConvertFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printConvertUsage(env.Stdout)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, inputs, flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvert converts each input to <output>/<stem>.html. All inputs share
// one Converter, so the toolchain is probed once and figures rendered for
// one file are reused by the next. A failing input does not stop the others.
func runConvert(ctx context.Context, inputs []string, flags *convertFlags, env *Environment) error {
	log := newLogger(env.Stderr, flags.common)

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(log)

	configName := flags.common.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	cfg, err := loadConfig(configName)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if len(inputs) == 0 {
		return ErrNoInput
	}
	for _, in := range inputs {
		if err := validateTexExtension(in); err != nil {
			return err
		}
	}

	conv, err := newConverter(cfg, log, env)
	if err != nil {
		return err
	}

	var errs []error
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		start := time.Now()
		out, err := convertFile(ctx, conv, in, cfg.Output.DefaultDir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		log.WithFields(logrus.Fields{"input": in, "duration": time.Since(start)}).Debug("converted")
		fmt.Fprintf(env.Stdout, "Wrote %s\n", out)
	}

	if len(errs) > 1 {
		return fmt.Errorf("%d of %d conversion(s) failed: %w", len(errs), len(inputs), errors.Join(errs...))
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return nil
}

// loadConfig loads a named or path config, or defaults when name is empty.
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags applies CLI flags on top of config. Only flags that were
// given override.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.output != "" {
		cfg.Output.DefaultDir = flags.output
	}
	if flags.style != "" {
		cfg.Style = flags.style
	}
	if flags.imageBaseURL != "" {
		cfg.Images.BaseURL = flags.imageBaseURL
	}
	if flags.strict {
		cfg.Strict = true
	}
	if flags.figures.disabled {
		disabled := false
		cfg.Figures.Enabled = &disabled
	}
	if flags.figures.timeout != "" {
		cfg.Figures.Timeout = flags.figures.timeout
	}
	if flags.figures.maxWidth != maxWidthUnset {
		cfg.Figures.MaxWidth = flags.figures.maxWidth
	}
}

// newConverter maps a validated config onto converter options.
func newConverter(cfg *config.Config, log logrus.FieldLogger, env *Environment) (*tex2canvas.Converter, error) {
	timeout, err := cfg.FigureTimeout()
	if err != nil {
		return nil, err
	}

	opts := []tex2canvas.Option{
		tex2canvas.WithLogger(log),
		tex2canvas.WithStyle(cfg.Style),
		tex2canvas.WithAssetPath(cfg.Assets.BasePath),
		tex2canvas.WithImageBaseURL(cfg.Images.BaseURL),
		tex2canvas.WithDateHeader(cfg.Document.ShowDate),
		tex2canvas.WithDateFormat(cfg.Document.DateFormat),
		tex2canvas.WithStrict(cfg.Strict),
		tex2canvas.WithFigureTimeout(timeout),
		tex2canvas.WithMaxFigureWidth(cfg.Figures.MaxWidth),
		tex2canvas.WithFigureDensity(cfg.Figures.Density),
	}
	if env.Now != nil {
		opts = append(opts, tex2canvas.WithNow(env.Now))
	}
	if env.LookPath != nil {
		opts = append(opts, tex2canvas.WithLookPath(env.LookPath))
	}
	if env.Runner != nil {
		opts = append(opts, tex2canvas.WithCommandRunner(env.Runner))
	}
	if !cfg.FiguresEnabled() {
		opts = append(opts, tex2canvas.WithoutFigures())
	}

	return tex2canvas.NewConverter(opts...)
}

// convertFile converts one input and writes the page. outputDir empty
// means next to the input. Returns the written path.
func convertFile(ctx context.Context, conv *tex2canvas.Converter, inputPath, outputDir string) (string, error) {
	data, err := os.ReadFile(inputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrReadSource, inputPath, err)
	}

	sourceDir := filepath.Dir(inputPath)
	if outputDir == "" {
		outputDir = sourceDir
	}
	if err := os.MkdirAll(outputDir, dirPermissions); err != nil {
		return "", fmt.Errorf("%w: creating %s: %w%s", ErrWriteHTML, outputDir, err, hints.ForOutputDirectory())
	}

	result, err := conv.Convert(ctx, tex2canvas.Input{
		Source:    string(data),
		Name:      filepath.Base(inputPath),
		SourceDir: sourceDir,
		OutputDir: outputDir,
	})
	if err != nil {
		return "", fmt.Errorf("converting %s: %w", inputPath, err)
	}

	outputPath := filepath.Join(outputDir, fileutil.Stem(inputPath)+".html")
	if err := os.WriteFile(outputPath, result.HTML, filePermissions); err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrWriteHTML, outputPath, err)
	}
	return outputPath, nil
}

// validateTexExtension rejects inputs that are not .tex files.
func validateTexExtension(path string) error {
	if !strings.EqualFold(filepath.Ext(path), texExtension) {
		return fmt.Errorf("%w: %s", ErrInvalidExtension, path)
	}
	return nil
}
