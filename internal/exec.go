package internal

import (
	"github.com/mnafees/chip8vm/internal/memory"
)

// execute applies a decoded instruction. Instructions only touch PC after all
// fallible memory and stack accesses succeeded.
func (vm *C8VM) execute(ins Instruction) error {
	x := ins.X()
	y := ins.Y()
	kk := ins.NN()
	nnn := ins.NNN()

	switch ins.Kind {
	case Kind00E0: // CLS
		vm.pixels.Clear()
		vm.drawFlag = true
		vm.pc += 2
	case Kind00EE: // RET
		addr, err := vm.stack.Pop()
		if err != nil {
			return err
		}
		vm.pc = addr
	case Kind1NNN: // JP nnn
		vm.pc = nnn
	case Kind2NNN: // CALL nnn
		if err := vm.stack.Push(vm.pc + 2); err != nil {
			return err
		}
		vm.pc = nnn
	case Kind3XNN: // SE Vx, kk
		vm.skipIf(vm.regV[x] == kk)
	case Kind4XNN: // SNE Vx, kk
		vm.skipIf(vm.regV[x] != kk)
	case Kind5XY0: // SE Vx, Vy
		vm.skipIf(vm.regV[x] == vm.regV[y])
	case Kind6XNN: // LD Vx, kk
		vm.regV[x] = kk
		vm.pc += 2
	case Kind7XNN: // ADD Vx, kk
		vm.regV[x] += kk
		vm.pc += 2
	case Kind8XY0, Kind8XY1, Kind8XY2, Kind8XY3, Kind8XY4, Kind8XY5, Kind8XY6, Kind8XY7, Kind8XYE:
		vm.alu(ins.Kind, x, y)
		vm.pc += 2
	case Kind9XY0: // SNE Vx, Vy
		vm.skipIf(vm.regV[x] != vm.regV[y])
	case KindANNN: // LD I, nnn
		vm.regI = nnn
		vm.pc += 2
	case KindBNNN: // JP V0, nnn
		vm.pc = nnn + uint16(vm.regV[0])
	case KindCXNN: // RND Vx, kk
		vm.regV[x] = uint8(vm.rnd.Intn(256)) & kk
		vm.pc += 2
	case KindDXYN: // DRW Vx, Vy, n
		if err := vm.drawSprite(vm.regV[x], vm.regV[y], ins.N()); err != nil {
			return err
		}
		vm.pc += 2
	case KindEX9E: // SKP Vx
		vm.skipIf(vm.keyDown(vm.regV[x]))
	case KindEXA1: // SKNP Vx
		vm.skipIf(!vm.keyDown(vm.regV[x]))
	case KindFX07: // LD Vx, DT
		vm.regV[x] = vm.delayTimer
		vm.pc += 2
	case KindFX0A: // LD Vx, K
		vm.waiting = true
		vm.waitReg = x
		vm.waitKeys = vm.keys
	case KindFX15: // LD DT, Vx
		vm.delayTimer = vm.regV[x]
		vm.pc += 2
	case KindFX18: // LD ST, Vx
		vm.soundTimer = vm.regV[x]
		vm.pc += 2
	case KindFX1E: // ADD I, Vx
		vm.regI += uint16(vm.regV[x])
		vm.pc += 2
	case KindFX29: // LD F, Vx
		vm.regI = memory.Glyph(vm.regV[x])
		vm.pc += 2
	case KindFX33: // LD B, Vx
		dst, err := vm.memory.Slice(vm.regI, 3)
		if err != nil {
			return err
		}
		dst[0] = vm.regV[x] / 100
		dst[1] = (vm.regV[x] / 10) % 10
		dst[2] = vm.regV[x] % 10
		vm.pc += 2
	case KindFX55: // LD [I], Vx
		dst, err := vm.memory.Slice(vm.regI, int(x)+1)
		if err != nil {
			return err
		}
		copy(dst, vm.regV[:x+1])
		vm.pc += 2
	case KindFX65: // LD Vx, [I]
		src, err := vm.memory.Slice(vm.regI, int(x)+1)
		if err != nil {
			return err
		}
		copy(vm.regV[:x+1], src)
		vm.pc += 2
	default:
		return ErrUnknownOpcode
	}
	return nil
}

// skipIf advances past the next instruction when cond holds.
func (vm *C8VM) skipIf(cond bool) {
	if cond {
		vm.pc += 4
		return
	}
	vm.pc += 2
}

// alu executes the 8XYN register-register instructions. VF is written after
// the result, so the flag wins when x is 0xF.
func (vm *C8VM) alu(kind Kind, x, y uint8) {
	vx, vy := vm.regV[x], vm.regV[y]
	var flag uint8

	switch kind {
	case Kind8XY0: // LD Vx, Vy
		vm.regV[x] = vy
		return
	case Kind8XY1: // OR Vx, Vy
		vm.regV[x] = vx | vy
		return
	case Kind8XY2: // AND Vx, Vy
		vm.regV[x] = vx & vy
		return
	case Kind8XY3: // XOR Vx, Vy
		vm.regV[x] = vx ^ vy
		return
	case Kind8XY4: // ADD Vx, Vy
		sum := uint16(vx) + uint16(vy)
		if sum > 0xFF {
			flag = 1
		}
		vm.regV[x] = uint8(sum)
	case Kind8XY5: // SUB Vx, Vy
		if vx >= vy {
			flag = 1
		}
		vm.regV[x] = vx - vy
	case Kind8XY6: // SHR Vx {, Vy}
		flag = vx & 0x01
		vm.regV[x] = vx >> 1
	case Kind8XY7: // SUBN Vx, Vy
		if vy >= vx {
			flag = 1
		}
		vm.regV[x] = vy - vx
	case Kind8XYE: // SHL Vx {, Vy}
		flag = vx >> 7
		vm.regV[x] = vx << 1
	}
	vm.regV[0xF] = flag
}

// drawSprite XORs the n byte sprite at I onto the framebuffer at x, y.
// Coordinates wrap per axis.
func (vm *C8VM) drawSprite(x, y, n uint8) error {
	sprite, err := vm.memory.Slice(vm.regI, int(n))
	if err != nil {
		return err
	}

	vm.regV[0xF] = 0
	for row, bits := range sprite {
		if vm.pixels.xorRow(int(x), int(y)+row, bits) {
			vm.regV[0xF] = 1
		}
	}
	vm.drawFlag = true
	return nil
}

func (vm *C8VM) keyDown(key uint8) bool {
	return vm.keys[key&0x0F]
}
