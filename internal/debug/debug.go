// Package debug evaluates breakpoint and watch conditions against the VM
// state. Conditions are Starlark expressions over the names pc, i, dt, st,
// sp, v, stack, opcode, waiting and cycles.
package debug

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/mnafees/chip8vm/internal"
)

// maxSteps bounds the work of a single evaluation.
const maxSteps = 10000

// ErrCondition is returned for conditions that cannot be compiled or evaluated.
var ErrCondition = errors.New("invalid condition")

var names = []string{"pc", "i", "dt", "st", "sp", "v", "stack", "opcode", "waiting", "cycles"}

func isPredeclared(name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Condition is a compiled boolean expression.
type Condition struct {
	Expr string
	prog *starlark.Program
}

// Compile parses and resolves a condition expression.
func Compile(expr string) (*Condition, error) {
	opts := syntax.FileOptions{}

	// Parse on its own first so that statements can not be smuggled in.
	if _, err := opts.ParseExpr("condition", expr, 0); err != nil {
		return nil, fmt.Errorf("%w '%s': %w", ErrCondition, expr, err)
	}
	_, prog, err := starlark.SourceProgramOptions(&opts, "condition", "rc = "+expr+"\n", isPredeclared)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %w", ErrCondition, expr, err)
	}
	return &Condition{Expr: expr, prog: prog}, nil
}

// Eval reports whether the condition holds for the given state.
func (c *Condition) Eval(state internal.State) (bool, error) {
	thread := starlark.Thread{Name: c.Expr}
	thread.SetMaxExecutionSteps(maxSteps)

	globals, err := c.prog.Init(&thread, predeclared(state))
	if err != nil {
		return false, fmt.Errorf("%w '%s': %w", ErrCondition, c.Expr, err)
	}
	rc, ok := globals["rc"]
	if !ok {
		return false, fmt.Errorf("%w '%s': no result", ErrCondition, c.Expr)
	}
	return bool(rc.Truth()), nil
}

func predeclared(state internal.State) starlark.StringDict {
	v := make(starlark.Tuple, len(state.V))
	for r, val := range state.V {
		v[r] = starlark.MakeInt(int(val))
	}
	stack := make(starlark.Tuple, len(state.Stack))
	for n, addr := range state.Stack {
		stack[n] = starlark.MakeInt(int(addr))
	}

	return starlark.StringDict{
		"pc":      starlark.MakeInt(int(state.PC)),
		"i":       starlark.MakeInt(int(state.I)),
		"dt":      starlark.MakeInt(int(state.DelayTimer)),
		"st":      starlark.MakeInt(int(state.SoundTimer)),
		"sp":      starlark.MakeInt(len(state.Stack)),
		"v":       v,
		"stack":   stack,
		"opcode":  starlark.MakeInt(int(state.Opcode)),
		"waiting": starlark.Bool(state.Waiting),
		"cycles":  starlark.MakeUint64(state.Cycles),
	}
}

// Hit is returned by Check when a breakpoint condition holds.
type Hit struct {
	Expr  string
	State internal.State
}

func (h *Hit) Error() string {
	return fmt.Sprintf("breakpoint '%s' hit at %04X", h.Expr, h.State.PC)
}

// watch is a condition that logs the state when it becomes true.
type watch struct {
	*Condition
	active bool
}

// Set holds the breakpoints and watches of a debugging session.
type Set struct {
	logger      *log.Logger
	breakpoints []*Condition
	watches     []*watch
}

// NewSet compiles the given breakpoint and watch expressions.
func NewSet(logger *log.Logger, breakpoints, watches []string) (*Set, error) {
	s := &Set{logger: logger}
	for _, expr := range breakpoints {
		c, err := Compile(expr)
		if err != nil {
			return nil, err
		}
		s.breakpoints = append(s.breakpoints, c)
	}
	for _, expr := range watches {
		c, err := Compile(expr)
		if err != nil {
			return nil, err
		}
		s.watches = append(s.watches, &watch{Condition: c})
	}
	return s, nil
}

// Empty returns whether the set has no conditions.
func (s *Set) Empty() bool {
	return s == nil || len(s.breakpoints)+len(s.watches) == 0
}

// Check evaluates all conditions against the state. Watches log the state
// on the check where their condition turns true. The first breakpoint that
// holds is returned as a *Hit.
func (s *Set) Check(state internal.State) error {
	if s.Empty() {
		return nil
	}

	for _, w := range s.watches {
		ok, err := w.Eval(state)
		if err != nil {
			return err
		}
		if ok && !w.active {
			fields := append([]log.Field{log.String("expr", w.Expr)}, state.Fields()...)
			s.logger.Info("Watch triggered", fields...)
		}
		w.active = ok
	}

	for _, b := range s.breakpoints {
		ok, err := b.Eval(state)
		if err != nil {
			return err
		}
		if ok {
			return &Hit{Expr: b.Expr, State: state}
		}
	}
	return nil
}
