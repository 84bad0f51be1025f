// Package emulator sets up a VM session for the front end commands: it
// loads the configuration, creates the logger and the debugger and loads
// the program.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"

	"github.com/mnafees/chip8vm/internal"
	"github.com/mnafees/chip8vm/internal/cli"
	"github.com/mnafees/chip8vm/internal/config"
	"github.com/mnafees/chip8vm/internal/debug"
	"github.com/mnafees/chip8vm/pkg/host"
)

// Emulator is a loaded VM together with its session settings.
type Emulator struct {
	VM      *internal.C8VM
	Logger  *log.Logger
	Display config.Display
	Debug   *debug.Set
}

// New sets up a session for the parsed command line. Log output goes to
// output, or to stdout if it is nil.
func New(opts cli.Options, output io.Writer) (*Emulator, error) {
	file, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}
	level, err := config.ParseLevel(file.Log.Level)
	if err != nil {
		return nil, err
	}
	if opts.Trace {
		level = log.TraceLevel
	}
	logger := config.NewLogger(level, opts.Debug, opts.Quiet, output)

	display := file.Display
	if opts.Scale > 0 {
		display.Scale = opts.Scale
	}

	set, err := debug.NewSet(logger, opts.Breakpoints(), opts.Watches())
	if err != nil {
		return nil, err
	}

	vm := internal.NewC8VM(internal.WithLogger(logger))
	if err := vm.LoadProgram(opts.ROM); err != nil {
		return nil, err
	}

	return &Emulator{
		VM:      vm,
		Logger:  logger,
		Display: display,
		Debug:   set,
	}, nil
}

// Runner returns a runner for the session VM and the given front end.
func (e *Emulator) Runner(frontend host.Frontend) *host.Runner {
	return host.NewRunner(e.VM, frontend,
		host.WithLogger(e.Logger),
		host.WithDebug(e.Debug))
}

// Report logs the result of a run and returns the process exit code.
func (e *Emulator) Report(err error) int {
	var hit *debug.Hit

	switch {
	case err == nil:
		return 0

	case errors.Is(err, context.Canceled):
		e.Logger.Info("Operation cancelled")
		return 0

	case errors.As(err, &hit):
		fields := append([]log.Field{log.String("expr", hit.Expr)}, hit.State.Fields()...)
		e.Logger.Info("Breakpoint hit", fields...)
		return 0

	default:
		e.Logger.Error("Emulation failed", log.Err(err))
		return 1
	}
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, quiet bool, name, version, commit, date string) {
	if quiet {
		return
	}

	if len(commit) > 7 {
		commit = commit[:7]
	}
	if strings.Contains(date, "unknown") {
		date = ""
	}
	logger.Info(name, log.String("version", buildinfo.Version(version, commit, date)))
}

// HandleFlagError reports a command line parsing error and returns the
// process exit code.
func HandleFlagError(err error, logger *log.Logger) int {
	if errors.Is(err, cli.ErrHelpRequested) {
		return 0
	}

	var usageErr *cli.UsageError
	if errors.As(err, &usageErr) {
		fmt.Println(usageErr.Error())
		fmt.Println()
		usageErr.ShowUsage()
		return 1
	}
	logger.Error("Parsing command line failed", log.Err(err))
	return 1
}
