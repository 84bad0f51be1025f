// Package cli handles command line interface logic
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/cli"
)

// ErrHelpRequested is returned when the usage was requested with -h and has
// already been printed.
var ErrHelpRequested = cli.ErrHelpRequested

// Options are the command line options of the emulator front ends.
type Options struct {
	Logging
	Display
	Debugger

	ROM string `arg:"positional" usage:"CHIP-8 program file to run" required:"true"`
}

// Logging options shared by all commands.
type Logging struct {
	Debug bool `flag:"debug" usage:"enable debugging options for extended logging"`
	Trace bool `flag:"trace" usage:"log every executed instruction"`
	Quiet bool `flag:"q,quiet" usage:"only log errors"`
}

// Display options.
type Display struct {
	Config string `flag:"c,config" usage:"configuration file with display and log settings"`
	Scale  int    `flag:"scale" usage:"host pixels per CHIP-8 pixel, overrides the configuration file"`
}

// Debugger options.
type Debugger struct {
	Break string `flag:"break" usage:"semicolon separated breakpoint expressions, for example 'pc == 0x2a0'"`
	Watch string `flag:"watch" usage:"semicolon separated watch expressions that log the VM state when true"`
}

// Breakpoints returns the individual breakpoint expressions.
func (d Debugger) Breakpoints() []string {
	return splitExpressions(d.Break)
}

// Watches returns the individual watch expressions.
func (d Debugger) Watches() []string {
	return splitExpressions(d.Watch)
}

func splitExpressions(s string) []string {
	var exprs []string
	for _, expr := range strings.Split(s, ";") {
		if expr = strings.TrimSpace(expr); expr != "" {
			exprs = append(exprs, expr)
		}
	}
	return exprs
}

// DisasmOptions are the command line options of the disassembler.
type DisasmOptions struct {
	Logging

	Output string `flag:"o,output" usage:"name of the output file, printed on console if no name given"`
	ROM    string `arg:"positional" usage:"CHIP-8 program file to disassemble" required:"true"`
}

// ParseFlags parses the emulator command line, without the program name.
func ParseFlags(name string, args []string) (Options, error) {
	var opts Options

	flags := cli.NewFlagSet(name)
	flags.AddSection("Logging", &opts.Logging)
	flags.AddSection("Display", &opts.Display)
	flags.AddSection("Debugger", &opts.Debugger)
	flags.AddPositional(&opts)

	if err := parse(flags, args); err != nil {
		return opts, err
	}
	if opts.Scale < 0 {
		return opts, &UsageError{flags: flags, err: fmt.Errorf("invalid scale %d", opts.Scale)}
	}
	return opts, nil
}

// ParseDisasmFlags parses the disassembler command line, without the
// program name.
func ParseDisasmFlags(name string, args []string) (DisasmOptions, error) {
	var opts DisasmOptions

	flags := cli.NewFlagSet(name)
	flags.AddSection("Logging", &opts.Logging)
	flags.AddSection("Output", &opts)
	flags.AddPositional(&opts)

	return opts, parse(flags, args)
}

func parse(flags *cli.FlagSet, args []string) error {
	remaining, err := flags.Parse(args)
	if err != nil {
		var missing *cli.MissingArgsError
		if errors.As(err, &missing) {
			return &UsageError{flags: flags, err: err}
		}
		return err
	}
	if len(remaining) > 0 {
		return &UsageError{
			flags: flags,
			err:   fmt.Errorf("unexpected argument %s, please pass the program file as last argument", remaining[0]),
		}
	}
	return nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *cli.FlagSet
	err   error
}

func (e *UsageError) Error() string {
	return e.err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.err
}

// ShowUsage prints the usage of the command.
func (e *UsageError) ShowUsage() {
	e.flags.ShowUsage()
}
