// Package term runs the VM in a terminal using termbox. The 64x32 screen is
// drawn with half block characters, two pixels per cell.
package term

import (
	"io"
	"os"
	"time"

	"github.com/nsf/termbox-go"
	"github.com/retroenv/retrogolib/log"

	"github.com/mnafees/chip8vm/internal"
	"github.com/mnafees/chip8vm/internal/config"
	"github.com/mnafees/chip8vm/pkg/host"
)

// HoldTime is how long a key counts as pressed after the terminal reported
// it. Terminals send no key release events, so autorepeat keeps a held key
// pressed.
const HoldTime = 150 * time.Millisecond

const upperHalfBlock = '▀'

// IO is the input/output abstraction layer for the VM
type IO struct {
	events  chan termbox.Event
	pressed [internal.NumKeys]time.Time
	now     func() time.Time
	bell    io.Writer

	fg, bg termbox.Attribute
	logger *log.Logger
}

// NewIO returns a new I/O instance for the terminal frontend
func NewIO(display config.Display, logger *log.Logger) *IO {
	return &IO{
		events: make(chan termbox.Event, 64),
		now:    time.Now,
		bell:   os.Stdout,
		fg:     attribute(display.Foreground),
		bg:     attribute(display.Background),
		logger: logger,
	}
}

// Setup takes over the terminal and starts reading events.
func (io *IO) Setup() error {
	if err := termbox.Init(); err != nil {
		return err
	}
	termbox.SetOutputMode(termbox.OutputRGB)
	termbox.HideCursor()
	if err := termbox.Clear(io.bg, io.bg); err != nil {
		return err
	}

	go io.readEvents()
	return nil
}

func (io *IO) readEvents() {
	for {
		ev := termbox.PollEvent()
		if ev.Type == termbox.EventInterrupt {
			return
		}
		io.events <- ev
	}
}

// Destroy restores the terminal.
func (io *IO) Destroy() {
	termbox.Interrupt()
	termbox.Close()
}

// Poll handles pending terminal events. Escape or Ctrl+C quits.
func (io *IO) Poll() (internal.Keys, bool) {
	quit := false
	for {
		select {
		case ev := <-io.events:
			if io.handleEvent(ev) {
				quit = true
			}
		default:
			return io.keys(), quit
		}
	}
}

// handleEvent records a key press and returns whether the event requests
// to quit.
func (io *IO) handleEvent(ev termbox.Event) bool {
	switch ev.Type {
	case termbox.EventKey:
		if ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC {
			return true
		}
		if key, ok := host.KeyForRune(ev.Ch); ok {
			io.pressed[key] = io.now()
		}
	case termbox.EventError:
		io.logger.Error("Terminal error", log.Err(ev.Err))
		return true
	}
	return false
}

func (io *IO) keys() internal.Keys {
	var keys internal.Keys
	now := io.now()
	for k, t := range io.pressed {
		keys[k] = !t.IsZero() && now.Sub(t) < HoldTime
	}
	return keys
}

// Render draws the framebuffer.
func (io *IO) Render(fb internal.Framebuffer) {
	for y := 0; y < internal.ScreenHeight/2; y++ {
		for x := 0; x < internal.ScreenWidth; x++ {
			termbox.SetCell(x, y, upperHalfBlock, io.color(fb.At(x, 2*y)), io.color(fb.At(x, 2*y+1)))
		}
	}
	if err := termbox.Flush(); err != nil {
		io.logger.Error("Flushing terminal failed", log.Err(err))
	}
}

// Beep rings the terminal bell.
func (io *IO) Beep() {
	_, _ = io.bell.Write([]byte{'\a'})
}

func (io *IO) color(on bool) termbox.Attribute {
	if on {
		return io.fg
	}
	return io.bg
}

func attribute(rgb int) termbox.Attribute {
	return termbox.RGBToAttribute(uint8(rgb>>16), uint8(rgb>>8), uint8(rgb))
}
