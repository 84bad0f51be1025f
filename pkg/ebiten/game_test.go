package ebiten

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mnafees/chip8vm/internal"
)

func TestFillRGBA(t *testing.T) {
	var fb internal.Framebuffer
	fb.Set(1, 0, true)

	dst := make([]byte, len(fb)*4)
	fillRGBA(dst, &fb, 0x9FA8DA, 0x1A237E)

	assert.Equal(t, []byte{0x1A, 0x23, 0x7E, 0xFF}, dst[0:4])
	assert.Equal(t, []byte{0x9F, 0xA8, 0xDA, 0xFF}, dst[4:8])
}

func TestStereoPCM(t *testing.T) {
	out := stereoPCM([]int8{1, -1})
	assert.Equal(t, []byte{0x00, 0x01, 0x00, 0x01, 0x00, 0xFF, 0x00, 0xFF}, out)
}
