package internal

import "strings"

// Display dimensions
const (
	ScreenWidth  = 64
	ScreenHeight = 32
)

// Framebuffer is the 64 px x 32 px monochrome display, stored row-major
// (index = x + y*ScreenWidth).
type Framebuffer [ScreenWidth * ScreenHeight]bool

// At reports whether the pixel at x, y is set. Coordinates wrap per axis.
func (fb *Framebuffer) At(x, y int) bool {
	return fb[index(x, y)]
}

// Set sets the pixel at x, y to the given state. Coordinates wrap per axis.
func (fb *Framebuffer) Set(x, y int, on bool) {
	fb[index(x, y)] = on
}

// Clear resets all pixels.
func (fb *Framebuffer) Clear() {
	*fb = Framebuffer{}
}

// Count returns the number of set pixels.
func (fb *Framebuffer) Count() int {
	n := 0
	for _, px := range fb {
		if px {
			n++
		}
	}
	return n
}

// String renders the framebuffer as rows of '#' and '.'.
func (fb *Framebuffer) String() string {
	var sb strings.Builder
	sb.Grow((ScreenWidth + 1) * ScreenHeight)
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			if fb[x+y*ScreenWidth] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// xorRow blits the 8 pixel sprite row at x, y and reports whether any set
// pixel was cleared.
func (fb *Framebuffer) xorRow(x, y int, row byte) bool {
	collision := false
	for bit := 0; bit < 8; bit++ {
		if row&(0x80>>bit) == 0 {
			continue
		}
		idx := index(x+bit, y)
		if fb[idx] {
			collision = true
		}
		fb[idx] = !fb[idx]
	}
	return collision
}

func index(x, y int) int {
	x %= ScreenWidth
	if x < 0 {
		x += ScreenWidth
	}
	y %= ScreenHeight
	if y < 0 {
		y += ScreenHeight
	}
	return x + y*ScreenWidth
}
