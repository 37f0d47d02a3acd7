package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tex2canvas <command> [flags] [args]")
	fmt.Fprintln(w, "       tex2canvas <file.tex>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert LaTeX files to Canvas HTML")
	fmt.Fprintln(w, "  doctor     Check the TikZ figure toolchain")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'tex2canvas help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tex2canvas convert <file.tex>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert LaTeX files to HTML for the Canvas rich content editor.")
	fmt.Fprintln(w, "Each input is written as <output>/<name>.html, figures next to it.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>          Output directory (default: next to each input)")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path")
	fmt.Fprintln(w, "      --strict                Fail on a missing \\end{...}")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Figures:")
	fmt.Fprintln(w, "      --no-figures            Keep TikZ figures as source")
	fmt.Fprintln(w, "      --figure-timeout <d>    Per-figure timeout, e.g. 30s (default: none)")
	fmt.Fprintln(w, "      --max-figure-width <n>  Downscale wider figures (pixels, 0 = no limit)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <name|path>     Built-in style (canvas, plain) or CSS file")
	fmt.Fprintln(w, "      --image-base-url <url>  Prefix for relative image sources")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                 Only log errors")
	fmt.Fprintln(w, "  -v, --verbose               Log figure cache and render details")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  TEX2CANVAS_CONFIG, TEX2CANVAS_OUTPUT_DIR, TEX2CANVAS_STYLE,")
	fmt.Fprintln(w, "  TEX2CANVAS_FIGURE_TIMEOUT, TEX2CANVAS_IMAGE_BASE_URL")
}

func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tex2canvas doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Report which of pdflatex, pdftocairo and magick are installed")
	fmt.Fprintln(w, "and whether TikZ figures can be rendered.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: tex2canvas version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: tex2canvas help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
