// Package ebiten runs the VM in an Ebitengine window.
package ebiten

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/retroenv/retrogolib/log"

	"github.com/mnafees/chip8vm/internal"
	"github.com/mnafees/chip8vm/internal/config"
	"github.com/mnafees/chip8vm/pkg/host"
)

const sampleRate = 48000

// keys holds the keys of host.Layout in the same order.
var keys = [len(host.Layout)]ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyQ, ebiten.KeyW, ebiten.KeyE, ebiten.KeyR,
	ebiten.KeyA, ebiten.KeyS, ebiten.KeyD, ebiten.KeyF,
	ebiten.KeyZ, ebiten.KeyX, ebiten.KeyC, ebiten.KeyV,
}

// Game is an ebiten.Game that drives a host.Runner once per tick.
type Game struct {
	ctx     context.Context
	runner  *host.Runner
	display config.Display
	logger  *log.Logger

	canvas *ebiten.Image // 64x32 framebuffer image
	pixels []byte        // RGBA backing data of canvas
	player *audio.Player
}

// NewGame returns a game rendering with the given display settings.
func NewGame(display config.Display, logger *log.Logger) *Game {
	g := &Game{
		display: display,
		logger:  logger,
		pixels:  make([]byte, internal.ScreenWidth*internal.ScreenHeight*4),
	}
	var blank internal.Framebuffer
	fillRGBA(g.pixels, &blank, display.Foreground, display.Background)

	audioCtx := audio.NewContext(sampleRate)
	g.player = audioCtx.NewPlayerFromBytes(stereoPCM(host.BeepSamples(sampleRate)))
	return g
}

// SetRunner sets the runner driven by Update. It must be called before Run.
func (g *Game) SetRunner(runner *host.Runner) {
	g.runner = runner
}

// Run opens the window and blocks until it is closed or the context is
// cancelled.
func (g *Game) Run(ctx context.Context, title string) error {
	g.ctx = ctx
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(internal.ScreenWidth*g.display.Scale, internal.ScreenHeight*g.display.Scale)
	ebiten.SetTPS(internal.TimerFrequency)
	return ebiten.RunGame(g)
}

// Poll reads the keyboard state. Escape quits.
func (g *Game) Poll() (internal.Keys, bool) {
	var state internal.Keys
	for i, k := range keys {
		if ebiten.IsKeyPressed(k) {
			state[host.Keypad[i]] = true
		}
	}
	return state, ebiten.IsKeyPressed(ebiten.KeyEscape)
}

// Render updates the framebuffer image.
func (g *Game) Render(fb internal.Framebuffer) {
	fillRGBA(g.pixels, &fb, g.display.Foreground, g.display.Background)
	if g.canvas != nil {
		g.canvas.WritePixels(g.pixels)
	}
}

// Beep restarts the beep tone.
func (g *Game) Beep() {
	if err := g.player.Rewind(); err != nil {
		g.logger.Error("Rewinding beep failed", log.Err(err))
		return
	}
	g.player.Play()
}

// Update runs one VM frame.
func (g *Game) Update() error {
	if err := g.ctx.Err(); err != nil {
		return err
	}
	err := g.runner.Frame()
	if errors.Is(err, host.ErrQuit) {
		return ebiten.Termination
	}
	return err
}

// Draw scales the framebuffer image onto the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.canvas == nil {
		g.canvas = ebiten.NewImage(internal.ScreenWidth, internal.ScreenHeight)
		g.canvas.WritePixels(g.pixels)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.display.Scale), float64(g.display.Scale))
	screen.DrawImage(g.canvas, op)
}

// Layout returns the fixed logical screen size.
func (g *Game) Layout(_, _ int) (int, int) {
	return internal.ScreenWidth * g.display.Scale, internal.ScreenHeight * g.display.Scale
}

// fillRGBA writes the framebuffer as RGBA pixels into dst.
func fillRGBA(dst []byte, fb *internal.Framebuffer, foreground, background int) {
	for i, on := range fb {
		c := background
		if on {
			c = foreground
		}
		dst[i*4] = byte(c >> 16)
		dst[i*4+1] = byte(c >> 8)
		dst[i*4+2] = byte(c)
		dst[i*4+3] = 0xFF
	}
}

// stereoPCM converts signed 8-bit mono samples to the 16-bit little endian
// stereo format of the audio package.
func stereoPCM(samples []int8) []byte {
	out := make([]byte, 0, len(samples)*4)
	for _, s := range samples {
		v := int16(s) << 8
		lo, hi := byte(v), byte(uint16(v)>>8)
		out = append(out, lo, hi, lo, hi)
	}
	return out
}
