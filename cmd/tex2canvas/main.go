package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches to a command and returns the process exit code.
// A first argument ending in .tex is shorthand for "convert".
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd := args[1]
	switch cmd {
	case "convert":
		return runConvertCmd(args[2:], env)
	case "doctor":
		return runDoctorCmd(args[2:], env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "tex2canvas %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(args[2:], env)
		return ExitSuccess
	}

	if strings.EqualFold(filepath.Ext(cmd), texExtension) {
		return runConvertCmd(args[1:], env)
	}

	fmt.Fprintf(env.Stderr, "%v: %s\n\n", ErrUnsupportedCommand, cmd)
	printUsage(env.Stderr)
	return exitCodeFor(ErrUnsupportedCommand)
}
