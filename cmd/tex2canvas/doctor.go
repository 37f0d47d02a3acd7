package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-tex2canvas/internal/figure"
	"github.com/alnah/go-tex2canvas/internal/hints"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Figures  figuresInfo `json:"figures"`
	Env      envInfo     `json:"environment"`
	System   systemInfo  `json:"system"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
	Hint     string      `json:"hint,omitempty"`
}

// figuresInfo reports the TikZ rendering toolchain.
type figuresInfo struct {
	Available bool       `json:"available"`
	Path      string     `json:"path"` // e.g. "pdflatex + pdftocairo"
	Tools     []toolInfo `json:"tools"`
}

type toolInfo struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

type envInfo struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Container bool   `json:"container"`
	CI        bool   `json:"ci"`
}

type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// A missing toolchain is a warning: conversion still works, figures stay
// as source. Exit 1 only for errors.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput, err := parseDoctorFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printDoctorUsage(env.Stdout)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	lookPath := env.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	result := runDoctor(lookPath)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(lookPath figure.LookPathFunc) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env:    envInfo{OS: runtime.GOOS, Arch: runtime.GOARCH},
	}

	checkFigures(result, lookPath)
	checkEnvironment(result)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

func checkFigures(result *doctorResult, lookPath figure.LookPathFunc) {
	tc := figure.Probe(lookPath)

	for _, name := range []string{figure.ToolCompiler, figure.ToolCairo, figure.ToolMagick} {
		p, ok := tc.Paths[name]
		result.Figures.Tools = append(result.Figures.Tools, toolInfo{Name: name, Found: ok, Path: p})
	}
	result.Figures.Available = tc.Available()
	result.Figures.Path = tc.String()

	if !tc.Available() {
		result.Warnings = append(result.Warnings,
			"TikZ figures cannot be rendered, missing "+strings.Join(tc.Missing(), ", "))
		result.Hint = strings.TrimPrefix(strings.TrimSpace(hints.ForFigureToolchain(tc.Missing())), "hint: ")
	}
}

func checkEnvironment(result *doctorResult) {
	result.Env.Container = hints.IsInContainer() || os.Getenv("container") != ""

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// checkSystem verifies figures can get a scratch directory.
func checkSystem(result *doctorResult) {
	dir, err := os.MkdirTemp("", "tex2canvas-doctor-")
	if err == nil {
		err = os.WriteFile(filepath.Join(dir, "probe.tex"), []byte("probe"), 0o600)
		_ = os.RemoveAll(dir)
	}
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
		return
	}
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "tex2canvas doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Figures")
	for _, t := range r.Figures.Tools {
		if t.Found {
			fmt.Fprintf(w, "  [OK] %s: %s\n", t.Name, t.Path)
		} else {
			fmt.Fprintf(w, "  [--] %s: not found\n", t.Name)
		}
	}
	if r.Figures.Available {
		fmt.Fprintf(w, "  [OK] Rendering: %s\n", r.Figures.Path)
	} else {
		fmt.Fprintln(w, "  [WARN] Rendering: unavailable, figures are kept as source")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		if r.Hint != "" {
			fmt.Fprintf(w, "  hint: %s\n", r.Hint)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
