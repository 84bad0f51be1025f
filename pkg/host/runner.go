// Package host drives a CHIP-8 VM from a host front end.
package host

import (
	"context"
	"errors"
	"time"

	"github.com/retroenv/retrogolib/log"

	"github.com/mnafees/chip8vm/internal"
	"github.com/mnafees/chip8vm/internal/debug"
)

// CyclesPerFrame is the number of instructions executed per 60 Hz frame.
const CyclesPerFrame = 10

// ErrQuit is returned by Frame when the front end asked to exit.
var ErrQuit = errors.New("quit requested")

// Frontend is the input/output abstraction layer for the VM.
type Frontend interface {
	// Poll processes pending host events. It returns the keypad state and
	// whether the user asked to quit.
	Poll() (keys internal.Keys, quit bool)
	// Render presents a changed framebuffer.
	Render(fb internal.Framebuffer)
	// Beep plays the tone for a sound timer that reached zero.
	Beep()
}

// Runner executes a VM at a fixed frame rate against a front end.
type Runner struct {
	vm       *internal.C8VM
	frontend Frontend
	debug    *debug.Set
	logger   *log.Logger
	frames   uint64
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithDebug sets the breakpoints and watches checked before every instruction.
func WithDebug(set *debug.Set) Option {
	return func(r *Runner) {
		r.debug = set
	}
}

// NewRunner returns a runner for the given VM and front end.
func NewRunner(vm *internal.C8VM, frontend Frontend, opts ...Option) *Runner {
	r := &Runner{
		vm:       vm,
		frontend: frontend,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.NewNop()
	}
	return r
}

// Frame runs one 60 Hz frame: it polls the front end, executes up to
// CyclesPerFrame instructions, ticks the timers and renders a changed
// screen. It returns ErrQuit when the user asked to exit, a *debug.Hit when
// a breakpoint holds and the VM fault when execution failed.
func (r *Runner) Frame() error {
	keys, quit := r.frontend.Poll()
	if quit {
		return ErrQuit
	}
	r.vm.SetKeys(keys)

	for range CyclesPerFrame {
		if !r.debug.Empty() {
			if err := r.debug.Check(r.vm.State()); err != nil {
				return err
			}
		}
		if err := r.vm.Cycle(); err != nil {
			r.logger.Error("VM halted", append([]log.Field{log.Err(err)}, r.vm.State().Fields()...)...)
			return err
		}
		if r.vm.Waiting() {
			// Keys are only sampled once per frame.
			break
		}
	}

	if r.vm.TickTimers() {
		r.logger.Debug("Beep", log.Uint64("frame", r.frames))
		r.frontend.Beep()
	}
	if fb, ok := r.vm.Draw(); ok {
		r.frontend.Render(fb)
	}
	r.frames++
	return nil
}

// Frames returns the number of completed frames.
func (r *Runner) Frames() uint64 {
	return r.frames
}

// Run calls Frame at internal.TimerFrequency until the context is cancelled,
// the user quits or an error occurs. Quitting returns nil.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(internal.TimerInterval)
	defer ticker.Stop()

	r.logger.Debug("Running",
		log.Int("cycles_per_frame", CyclesPerFrame),
		log.Int("frequency", internal.TimerFrequency))
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			r.stopped(start)
			return ctx.Err()

		case <-ticker.C:
			if err := r.Frame(); err != nil {
				r.stopped(start)
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}
		}
	}
}

func (r *Runner) stopped(start time.Time) {
	r.logger.Debug("Stopped",
		log.Uint64("frames", r.frames),
		log.Uint64("cycles", r.vm.Cycles()),
		log.Duration("elapsed", time.Since(start)))
}
