package main

import (
	"io"
	"os"
	"os/exec"
	"time"

	tex2canvas "github.com/alnah/go-tex2canvas"
)

// Environment holds injectable dependencies for testability.
// LookPath and Runner reach the external TeX tools; nil Runner means the
// converter runs real processes.
type Environment struct {
	Now      func() time.Time
	Stdout   io.Writer
	Stderr   io.Writer
	LookPath func(file string) (string, error)
	Runner   tex2canvas.CommandRunner
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:      time.Now,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		LookPath: exec.LookPath,
	}
}
