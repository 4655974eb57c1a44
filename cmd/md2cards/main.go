package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUnknownCommand is returned for an unrecognized first argument.
var ErrUnknownCommand = errors.New("unknown command")

func main() {
	env := DefaultEnv()

	// maxprocs.Set only fails on an invalid GOMAXPROCS value, in which case
	// the runtime default applies.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	os.Exit(runMain(os.Args, env))
}

// runMain dispatches a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]

	// "md2cards post.md" is shorthand for "md2cards convert post.md".
	if !isCommand(cmd) && (looksLikeMarkdown(cmd) || isFlag(cmd)) {
		cmd, rest = "convert", args[1:]
	}

	switch cmd {
	case "convert":
		ctx, stop := notifyContext(context.Background())
		defer stop()
		return reportError(env, runConvertCmd(ctx, rest, env))
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "md2cards %s\n", Version)
		return ExitSuccess
	case "help", "--help", "-h":
		runHelp(rest, env)
		return ExitSuccess
	case "completion":
		return reportError(env, runCompletion(rest, env))
	case "doctor":
		return runDoctorCmd(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "%v: %s\n\n", ErrUnknownCommand, cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// reportError prints err with its hints and maps it to an exit code.
func reportError(env *Environment, err error) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}

// isCommand reports whether s names a subcommand.
func isCommand(s string) bool {
	switch s {
	case "convert", "version", "help", "completion", "doctor":
		return true
	}
	return false
}

// looksLikeMarkdown reports whether s has a markdown file extension.
func looksLikeMarkdown(s string) bool {
	ext := filepath.Ext(s)
	return ext == ".md" || ext == ".markdown"
}

func isFlag(s string) bool {
	return len(s) > 1 && s[0] == '-' && s != "--version" && s != "--help" && s != "-h"
}
