package internal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddImmediate_Wraps(t *testing.T) {
	for _, a := range []uint16{0x00, 0x01, 0x7F, 0x80, 0xFE, 0xFF} {
		for _, b := range []uint16{0x00, 0x01, 0x80, 0xFF} {
			vm := newTestVM(t, 0x6F01, 0x6200|a, 0x7200|b)
			run(t, vm, 3)

			assert.Equal(t, uint8((a+b)%256), reg(t, vm, 2), "%02X + %02X", a, b)
			assert.Equal(t, uint8(1), reg(t, vm, 0xF), "7XNN leaves VF alone")
		}
	}
}

func TestALU(t *testing.T) {
	tests := []struct {
		name   string
		op     uint16 // 8XYN with x=1, y=2
		vx, vy uint16
		result uint8
		flag   uint8
	}{
		{"ld", 0x8120, 0x11, 0x22, 0x22, 0},
		{"or", 0x8121, 0xF0, 0x0F, 0xFF, 0},
		{"and", 0x8122, 0xF3, 0x3F, 0x33, 0},
		{"xor", 0x8123, 0xFF, 0x0F, 0xF0, 0},
		{"add", 0x8124, 0x10, 0x20, 0x30, 0},
		{"add carry", 0x8124, 0xFF, 0x02, 0x01, 1},
		{"sub", 0x8125, 0x30, 0x10, 0x20, 1},
		{"sub equal", 0x8125, 0x10, 0x10, 0x00, 1},
		{"sub borrow", 0x8125, 0x10, 0x30, 0xE0, 0},
		{"shr odd", 0x8126, 0x05, 0x00, 0x02, 1},
		{"shr even", 0x8126, 0x04, 0xFF, 0x02, 0},
		{"subn", 0x8127, 0x10, 0x30, 0x20, 1},
		{"subn equal", 0x8127, 0x10, 0x10, 0x00, 1},
		{"subn borrow", 0x8127, 0x30, 0x10, 0xE0, 0},
		{"shl high", 0x812E, 0x81, 0x00, 0x02, 1},
		{"shl low", 0x812E, 0x41, 0xFF, 0x82, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t, 0x6F07, 0x6100|tt.vx, 0x6200|tt.vy, tt.op)
			run(t, vm, 4)

			assert.Equal(t, tt.result, reg(t, vm, 1))
			assert.Equal(t, uint8(tt.vy), reg(t, vm, 2), "Vy unchanged")
			if tt.op&0x000F >= 0x4 {
				assert.Equal(t, tt.flag, reg(t, vm, 0xF))
			} else {
				assert.Equal(t, uint8(7), reg(t, vm, 0xF), "logic ops leave VF alone")
			}
		})
	}
}

func TestALU_FlagRegisterTarget(t *testing.T) {
	// With VF as the target the flag overwrites the result.
	vm := newTestVM(t, 0x6FFF, 0x6101, 0x8F14)
	run(t, vm, 3)
	assert.Equal(t, uint8(1), reg(t, vm, 0xF))

	vm = newTestVM(t, 0x6F02, 0x8F06)
	run(t, vm, 2)
	assert.Equal(t, uint8(0), reg(t, vm, 0xF))
}

func TestSkip(t *testing.T) {
	tests := []struct {
		name string
		op   uint16
		skip bool
	}{
		{"se equal", 0x3142, true},
		{"se differ", 0x3143, false},
		{"sne equal", 0x4142, false},
		{"sne differ", 0x4143, true},
		{"se reg equal", 0x5130, true},
		{"se reg differ", 0x5120, false},
		{"sne reg equal", 0x9130, false},
		{"sne reg differ", 0x9120, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// V1 = V3 = 0x42, V2 = 0x00
			vm := newTestVM(t, 0x6142, 0x6342, tt.op)
			run(t, vm, 2)

			pc := vm.PC()
			run(t, vm, 1)
			if tt.skip {
				assert.Equal(t, pc+4, vm.PC())
			} else {
				assert.Equal(t, pc+2, vm.PC())
			}
		})
	}
}

func TestSkipKey(t *testing.T) {
	tests := []struct {
		op      uint16
		vx      uint16
		pressed int
		skip    bool
	}{
		{0xE19E, 0x05, 5, true},
		{0xE19E, 0x05, 6, false},
		{0xE1A1, 0x05, 5, false},
		{0xE1A1, 0x05, 6, true},
		// Only the low nibble selects the key.
		{0xE19E, 0x15, 5, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%04X_%02X_%d", tt.op, tt.vx, tt.pressed), func(t *testing.T) {
			vm := newTestVM(t, 0x6100|tt.vx, tt.op)
			var keys Keys
			keys[tt.pressed] = true
			vm.SetKeys(keys)
			run(t, vm, 2)

			if tt.skip {
				assert.Equal(t, uint16(0x206), vm.PC())
			} else {
				assert.Equal(t, uint16(0x204), vm.PC())
			}
		})
	}
}

func TestJump(t *testing.T) {
	vm := newTestVM(t, 0x1234)
	run(t, vm, 1)
	assert.Equal(t, uint16(0x234), vm.PC())

	vm = newTestVM(t, 0x6010, 0xB300)
	run(t, vm, 2)
	assert.Equal(t, uint16(0x310), vm.PC())
}

func TestCallReturn_LIFO(t *testing.T) {
	require := require.New(t)

	// Routine k lives at 0x300 + k*0x10 and calls routine k+1 before
	// returning. The last routine returns immediately.
	const depth = StackLimit
	routine := func(k int) uint16 { return uint16(0x300 + k*0x10) }

	vm := newTestVM(t, 0x2000|routine(0), 0x1202)
	for k := 0; k < depth-1; k++ {
		poke(t, vm, routine(k), 0x2000|routine(k+1), 0x00EE)
	}
	poke(t, vm, routine(depth-1), 0x00EE)

	run(t, vm, depth)
	require.Equal(routine(depth-1), vm.PC())
	require.Len(vm.State().Stack, depth)

	for k := depth - 2; k >= 0; k-- {
		run(t, vm, 1)
		require.Equal(routine(k)+2, vm.PC())
	}
	run(t, vm, 1)
	require.Equal(uint16(0x202), vm.PC())
	require.Empty(vm.State().Stack)
}

func TestCall_Overflow(t *testing.T) {
	vm := newTestVM(t, 0x2200)
	run(t, vm, StackLimit)

	err := vm.Cycle()
	assert.ErrorIs(t, err, ErrStackOverflow)
	assert.True(t, vm.Halted())
}

func TestReturn_Underflow(t *testing.T) {
	vm := newTestVM(t, 0x00EE)

	err := vm.Cycle()
	assert.ErrorIs(t, err, ErrStackUnderflow)
	assert.Equal(t, uint16(0x200), vm.PC())
}

func TestDraw_Involution(t *testing.T) {
	assert := assert.New(t)

	// Glyph 8 at (10, 5), drawn twice.
	vm := newTestVM(t, 0xA078, 0x600A, 0x6105, 0xD015, 0xD015)
	run(t, vm, 4)

	assert.Equal(uint8(0), reg(t, vm, 0xF))
	first := vm.Pixels()
	assert.Positive(first.Count())
	assert.True(first.At(10, 5))

	run(t, vm, 1)
	assert.Equal(uint8(1), reg(t, vm, 0xF))
	second := vm.Pixels()
	assert.Equal(0, second.Count())
}

func TestDraw_EmptySprite(t *testing.T) {
	// Memory below the font is zero, so nothing is lit and nothing collides.
	vm := newTestVM(t, 0x6F01, 0xA000, 0xD005, 0xD005)
	run(t, vm, 4)

	assert.Equal(t, uint8(0), reg(t, vm, 0xF))
	fb := vm.Pixels()
	assert.Equal(t, 0, fb.Count())
}

func TestDraw_ZeroRows(t *testing.T) {
	vm := newTestVM(t, 0x6F01, 0xD000)
	run(t, vm, 2)

	assert.Equal(t, uint8(0), reg(t, vm, 0xF))
	_, dirty := vm.Draw()
	assert.True(t, dirty)
}

func TestDraw_Wrap(t *testing.T) {
	assert := assert.New(t)

	// Glyph 0 rows are F0 90 90 90 F0. At (62, 30) the sprite wraps on
	// both axes.
	vm := newTestVM(t, 0xA050, 0x603E, 0x611E, 0xD015)
	run(t, vm, 4)

	fb := vm.Pixels()
	assert.True(fb.At(62, 30))
	assert.True(fb.At(63, 30))
	assert.True(fb.At(0, 30))
	assert.True(fb.At(1, 30))
	assert.True(fb.At(62, 31))
	assert.False(fb.At(63, 31))
	assert.True(fb.At(62, 0), "row 2 wraps to the top")
	assert.True(fb.At(1, 2), "last row wraps to row 2")
	assert.Equal(4+2+2+2+4, fb.Count())
}

func TestDraw_WrapStart(t *testing.T) {
	// Start coordinates beyond the screen wrap too.
	vm := newTestVM(t, 0xA050, 0x6048, 0x6124, 0xD011)
	run(t, vm, 4)

	fb := vm.Pixels()
	assert.True(t, fb.At(8, 4))
}

func TestDraw_OutOfMemory(t *testing.T) {
	vm := newTestVM(t, 0xAFFE, 0xD003)
	run(t, vm, 1)

	err := vm.Cycle()
	assert.ErrorIs(t, err, ErrAddress)
	assert.Equal(t, uint16(0x202), vm.PC())
}

func TestBCD(t *testing.T) {
	tests := []struct {
		value    uint16
		expected [3]byte
	}{
		{0, [3]byte{0, 0, 0}},
		{7, [3]byte{0, 0, 7}},
		{42, [3]byte{0, 4, 2}},
		{156, [3]byte{1, 5, 6}},
		{255, [3]byte{2, 5, 5}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.value), func(t *testing.T) {
			vm := newTestVM(t, 0x6500|tt.value, 0xA300, 0xF533)
			run(t, vm, 3)

			got, err := vm.Memory().Slice(0x300, 3)
			require.NoError(t, err)
			assert.Equal(t, tt.expected[:], got)
			assert.Equal(t, uint16(0x300), vm.I(), "I unchanged")
		})
	}
}

func TestBCD_OutOfMemory(t *testing.T) {
	vm := newTestVM(t, 0xAFFE, 0xF033)
	run(t, vm, 1)

	assert.ErrorIs(t, vm.Cycle(), ErrAddress)
}

func TestStoreLoadRegisters(t *testing.T) {
	require := require.New(t)

	vm := newTestVM(t,
		0x6011, 0x6122, 0x6233, 0x6344,
		0xA400, 0xF255, // store V0..V2
		0x6000, 0x6100, 0x6200,
		0xF165, // load V0..V1
	)
	run(t, vm, 10)

	stored, err := vm.Memory().Slice(0x400, 4)
	require.NoError(err)
	require.Equal([]byte{0x11, 0x22, 0x33, 0x00}, stored)

	require.Equal(uint8(0x11), reg(t, vm, 0))
	require.Equal(uint8(0x22), reg(t, vm, 1))
	require.Equal(uint8(0x00), reg(t, vm, 2))
	require.Equal(uint8(0x44), reg(t, vm, 3))
	require.Equal(uint16(0x400), vm.I(), "I unchanged")
}

func TestStoreRegisters_OutOfMemory(t *testing.T) {
	vm := newTestVM(t, 0xAFFC, 0xFF55)
	run(t, vm, 1)

	assert.ErrorIs(t, vm.Cycle(), ErrAddress)

	// Four registers fit exactly below the end of memory.
	vm = newTestVM(t, 0xAFFC, 0xF365)
	run(t, vm, 2)
}

func TestAddIndex(t *testing.T) {
	vm := newTestVM(t, 0xAFFF, 0x6002, 0xF01E)
	run(t, vm, 3)

	// I may point past memory; it is checked when used.
	assert.Equal(t, uint16(0x1001), vm.I())
}

func TestFontGlyph_MasksNibble(t *testing.T) {
	vm := newTestVM(t, 0x61AB, 0xF129)
	run(t, vm, 2)

	assert.Equal(t, uint16(0x50+0xB*5), vm.I())
}

func TestRandom(t *testing.T) {
	for i := 0; i < 32; i++ {
		vm := newTestVM(t, 0xC10F, 0xC200)
		vm.rnd.Seed(int64(i))
		run(t, vm, 2)

		assert.LessOrEqual(t, reg(t, vm, 1), uint8(0x0F))
		assert.Equal(t, uint8(0), reg(t, vm, 2))
	}
}

func TestTimerRegisters(t *testing.T) {
	vm := newTestVM(t, 0x6009, 0xF015, 0xF107)
	run(t, vm, 3)
	assert.Equal(t, uint8(9), reg(t, vm, 1))

	vm.TickTimers()
	poke(t, vm, vm.PC(), 0xF207)
	run(t, vm, 1)
	assert.Equal(t, uint8(8), reg(t, vm, 2))
}
