package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-md2cards"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	// NewPool builds the converter pool for one run.
	NewPool func(size int, opts ...md2cards.Option) Pool

	// WatchInterval is how often --watch polls the input file.
	WatchInterval time.Duration
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:           time.Now,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		NewPool:       newConverterPool,
		WatchInterval: defaultWatchInterval,
	}
}
