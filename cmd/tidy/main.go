// Command tidy cleans, profiles and explores tabular files and renders HTML
// snippets for report visuals.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/wdm0006/tidykit/internal/config"
	"github.com/wdm0006/tidykit/internal/logging"
)

var version = "0.1.0-dev"

// errUsage marks bad invocations; they exit with status 2.
var errUsage = errors.New("usage")

type env struct {
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
}

type command struct {
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commands = map[string]command{
	"clean":   {"run a recipe or flag-built cleaning pipeline", runClean},
	"profile": {"describe columns, gaps, non-ASCII text and duplicates", runProfile},
	"explore": {"filter rows, list values, aggregate and plot", runExplore},
	"match":   {"flag values found in a reference file", runMatch},
	"snippet": {"render an HTML snippet and its measure", runSnippet},
	"serve":   {"serve the HTTP API", runServe},
	"version": {"print the version", runVersion},
}

var commandOrder = []string{"clean", "profile", "explore", "match", "snippet", "serve", "version"}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: tidy [-log-level level] [-log-format json|console] <command> [flags]")
	fmt.Fprintln(w, "\ncommands:")
	for _, name := range commandOrder {
		fmt.Fprintf(w, "  %-8s %s\n", name, commands[name].summary)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := flag.NewFlagSet("tidy", flag.ContinueOnError)
	root.SetOutput(stderr)
	root.Usage = func() { usage(stderr) }
	level := root.String("log-level", "warn", "log level: debug, info, warn or error")
	format := root.String("log-format", "console", "log format: json or console")
	if err := root.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if root.NArg() == 0 {
		usage(stderr)
		return 2
	}
	name := root.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", name)
		usage(stderr)
		return 2
	}
	logger, err := logging.New(config.LoggingConfig{Level: *level, Format: *format})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	e := &env{stdout: stdout, stderr: stderr, logger: logger}
	if err := cmd.run(ctx, e, root.Args()[1:]); err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			return 0
		case errors.Is(err, errUsage):
			fmt.Fprintln(stderr, err)
			return 2
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// newFlagSet returns a subcommand flag set that reports parse errors as
// usage errors.
func newFlagSet(e *env, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}

func usagef(format string, a ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, a...))
}

func runVersion(_ context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "version")
	if err := parse(fs, args); err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, "tidy", version)
	return nil
}
