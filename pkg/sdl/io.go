package sdl

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/mnafees/chip8vm/internal"
	"github.com/mnafees/chip8vm/internal/config"
	"github.com/mnafees/chip8vm/pkg/host"
)

const sampleRate = 44100

// scancodes holds the physical keys of host.Layout in the same order.
var scancodes = [len(host.Layout)]sdl.Scancode{
	sdl.SCANCODE_1, sdl.SCANCODE_2, sdl.SCANCODE_3, sdl.SCANCODE_4,
	sdl.SCANCODE_Q, sdl.SCANCODE_W, sdl.SCANCODE_E, sdl.SCANCODE_R,
	sdl.SCANCODE_A, sdl.SCANCODE_S, sdl.SCANCODE_D, sdl.SCANCODE_F,
	sdl.SCANCODE_Z, sdl.SCANCODE_X, sdl.SCANCODE_C, sdl.SCANCODE_V,
}

// IO is the input/output abstraction layer for the VM
type IO struct {
	window  *sdl.Window
	surface *sdl.Surface
	audio   sdl.AudioDeviceID // 0 when no audio device could be opened
	beep    []byte

	display config.Display
	keys    internal.Keys
	logger  *log.Logger
}

// NewIO returns a new I/O instance for the SDL frontend
func NewIO(display config.Display, logger *log.Logger) *IO {
	return &IO{
		display: display,
		logger:  logger,
	}
}

// SetupWindow initialises and sets up the main SDL window and the beep
// audio device. A missing audio device only disables the beep.
func (io *IO) SetupWindow(title string) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("initialising SDL: %w", err)
	}

	scale := int32(io.display.Scale)
	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		internal.ScreenWidth*scale, internal.ScreenHeight*scale, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	io.window = window
	io.surface, err = window.GetSurface()
	if err != nil {
		return fmt.Errorf("getting window surface: %w", err)
	}
	if err := io.surface.FillRect(nil, io.color(io.display.Background)); err != nil {
		return fmt.Errorf("clearing window surface: %w", err)
	}
	if err := io.window.UpdateSurface(); err != nil {
		return fmt.Errorf("updating window surface: %w", err)
	}

	if err := io.openAudio(); err != nil {
		io.logger.Warn("Beep disabled", log.Err(err))
	}
	return nil
}

func (io *IO) openAudio() error {
	desired := &sdl.AudioSpec{
		Freq:     sampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}
	dev, err := sdl.OpenAudioDevice("", false, desired, nil, 0)
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}

	samples := host.BeepSamples(sampleRate)
	io.beep = make([]byte, len(samples))
	for i, s := range samples {
		io.beep[i] = byte(int(s) + 128)
	}
	io.audio = dev
	sdl.PauseAudioDevice(dev, false)
	return nil
}

// Destroy should be called before quitting the application
func (io *IO) Destroy() {
	if io.audio != 0 {
		sdl.CloseAudioDevice(io.audio)
	}
	if io.window != nil {
		_ = io.window.Destroy()
	}
	sdl.Quit()
}

// Poll drains the SDL event queue. Escape or closing the window quits.
func (io *IO) Poll() (internal.Keys, bool) {
	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			code := t.Keysym.Scancode
			if code == sdl.SCANCODE_ESCAPE {
				quit = true
				continue
			}
			key, ok := keymap(code)
			if !ok {
				continue
			}
			switch t.GetType() {
			case sdl.KEYDOWN:
				io.keys[key] = true
			case sdl.KEYUP:
				io.keys[key] = false
			}
		case *sdl.QuitEvent:
			quit = true
		}
	}
	return io.keys, quit
}

// Render draws the framebuffer on the window surface.
func (io *IO) Render(fb internal.Framebuffer) {
	scale := int32(io.display.Scale)
	_ = io.surface.FillRect(nil, io.color(io.display.Background))

	var rects []sdl.Rect
	for y := int32(0); y < internal.ScreenHeight; y++ {
		for x := int32(0); x < internal.ScreenWidth; x++ {
			if fb.At(int(x), int(y)) {
				rects = append(rects, sdl.Rect{X: x * scale, Y: y * scale, W: scale, H: scale})
			}
		}
	}
	if len(rects) > 0 {
		_ = io.surface.FillRects(rects, io.color(io.display.Foreground))
	}
	if err := io.window.UpdateSurface(); err != nil {
		io.logger.Error("Updating window surface failed", log.Err(err))
	}
}

// Beep queues the beep tone on the audio device.
func (io *IO) Beep() {
	if io.audio == 0 {
		return
	}
	sdl.ClearQueuedAudio(io.audio)
	if err := sdl.QueueAudio(io.audio, io.beep); err != nil {
		io.logger.Error("Queueing beep failed", log.Err(err))
	}
}

func (io *IO) color(rgb int) uint32 {
	return sdl.MapRGB(io.surface.Format, uint8(rgb>>16), uint8(rgb>>8), uint8(rgb))
}

// keymap maps a physical key of the left hand QWERTY block to the CHIP-8
// keypad, see host.Layout.
func keymap(code sdl.Scancode) (uint8, bool) {
	for i, sc := range scancodes {
		if sc == code {
			return host.Keypad[i], true
		}
	}
	return 0, false
}
