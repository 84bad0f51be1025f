package internal

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/retroenv/retrogolib/log"

	"github.com/mnafees/chip8vm/internal/memory"
)

// CHIP-8 VM constants
const (
	pcStartAddr = memory.ProgramStart
	NumKeys     = 16
	NumRegs     = 16

	// TimerFrequency is the rate in Hz at which the host should call TickTimers.
	TimerFrequency = 60
	// TimerInterval is the wall-clock period between two timer ticks.
	TimerInterval = time.Second / TimerFrequency
)

// Keys is the state of the 16-key hexadecimal keypad, indexed by key value.
type Keys [NumKeys]bool

// C8VM is an emulated CHIP-8 VM
type C8VM struct {
	opcode     Opcode         // 16-bit opcode of the current instruction
	regV       [NumRegs]uint8 // 16 general purpose 8-bit registers
	regI       uint16         // 16-bit register that is generally used to store memory addresses
	delayTimer uint8          // Delay timer
	soundTimer uint8          // Sound timer
	pc         uint16         // Program counter
	stack      Stack          // Return addresses of active subroutine calls
	memory     *memory.Memory // 4 KB global memory

	// Set by FX0A until a key goes down. waitKeys holds the keypad state
	// seen on the previous stalled cycle.
	waiting  bool
	waitReg  uint8
	waitKeys Keys

	drawFlag bool // Framebuffer changed since the last Draw
	keys     Keys // Keypad latch written by the host between cycles

	// 64 px x 32 px display
	pixels Framebuffer

	fault  error  // First fatal error, returned by every later Cycle
	cycles uint64 // Executed instructions

	rnd    *rand.Rand
	logger *log.Logger
}

// Option configures a VM created by NewC8VM.
type Option func(*C8VM)

// WithLogger sets the logger used for instruction tracing.
func WithLogger(logger *log.Logger) Option {
	return func(vm *C8VM) {
		vm.logger = logger
	}
}

// WithRandSource sets the source used by the RND instruction.
func WithRandSource(src rand.Source) Option {
	return func(vm *C8VM) {
		vm.rnd = rand.New(src)
	}
}

// NewC8VM creates a new instance of an emulated CHIP-8 VM
func NewC8VM(opts ...Option) *C8VM {
	vm := &C8VM{
		pc:     pcStartAddr,
		memory: memory.New(),
	}
	for _, opt := range opts {
		opt(vm)
	}
	if vm.logger == nil {
		vm.logger = log.NewNop()
	}
	if vm.rnd == nil {
		vm.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return vm
}

// LoadProgram loads a given CHIP-8 program into the VM's memory
func (vm *C8VM) LoadProgram(filename string) error {
	n, err := vm.memory.LoadFile(filename)
	if err != nil {
		return err
	}
	vm.logger.Debug("Program loaded",
		log.String("file", filename),
		log.Int("size", n))
	return nil
}

// LoadROM loads a program image held in memory.
func (vm *C8VM) LoadROM(data []byte) error {
	if _, err := vm.memory.Load(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	return nil
}

// Memory returns the VM's memory store.
func (vm *C8VM) Memory() *memory.Memory {
	return vm.memory
}

// Cycle performs one fetch-decode-execute step. While the VM waits for a key
// press the cycle is a no-op that leaves PC on the waiting instruction.
// After a fatal error the VM is halted and every call returns that error.
func (vm *C8VM) Cycle() error {
	if vm.fault != nil {
		return vm.fault
	}
	if vm.waiting {
		vm.pollKey()
		return nil
	}

	word, err := vm.memory.ReadWord(vm.pc)
	if err != nil {
		return vm.halt(0, err)
	}
	ins, err := Decode(word)
	vm.opcode = ins.Opcode
	if err != nil {
		return vm.halt(word, err)
	}

	if vm.logger.Enabled(context.Background(), log.TraceLevel) {
		vm.logger.Trace("Executing",
			log.Hex("pc", vm.pc),
			log.Hex("opcode", word),
			log.StringFunc("asm", func() string { return Disassemble(word) }))
	}

	if err := vm.execute(ins); err != nil {
		return vm.halt(word, err)
	}
	vm.cycles++
	return nil
}

func (vm *C8VM) halt(word uint16, err error) error {
	vm.fault = &OpcodeError{PC: vm.pc, Word: word, Err: err}
	return vm.fault
}

// Fault returns the error that halted the VM, if any.
func (vm *C8VM) Fault() error {
	return vm.fault
}

// Halted returns whether a fatal error stopped the VM.
func (vm *C8VM) Halted() bool {
	return vm.fault != nil
}

// Waiting returns whether the VM is stalled on a key wait instruction.
func (vm *C8VM) Waiting() bool {
	return vm.waiting
}

// pollKey resolves a pending key wait once a key goes from released to pressed.
func (vm *C8VM) pollKey() {
	for k := uint8(0); k < NumKeys; k++ {
		if vm.keys[k] && !vm.waitKeys[k] {
			vm.regV[vm.waitReg] = k
			vm.waiting = false
			vm.pc += 2
			vm.logger.Debug("Key wait resolved",
				log.Hex("key", k),
				log.Uint8("register", vm.waitReg))
			return
		}
	}
	vm.waitKeys = vm.keys
}

// SetKeys overwrites the keypad latch.
func (vm *C8VM) SetKeys(keys Keys) {
	vm.keys = keys
}

// Keys returns the keypad latch.
func (vm *C8VM) Keys() Keys {
	return vm.keys
}

// TickTimers decrements the delay and sound timers toward zero. It should be
// called at TimerFrequency. It returns true when the sound timer went from
// 1 to 0, which is the beep signal.
func (vm *C8VM) TickTimers() bool {
	if vm.delayTimer > 0 {
		vm.delayTimer--
	}
	if vm.soundTimer > 0 {
		vm.soundTimer--
		return vm.soundTimer == 0
	}
	return false
}

// Draw returns a snapshot of the framebuffer if it changed since the last
// call, clearing the dirty flag.
func (vm *C8VM) Draw() (Framebuffer, bool) {
	if !vm.drawFlag {
		return Framebuffer{}, false
	}
	vm.drawFlag = false
	return vm.pixels, true
}

// Pixels returns the current framebuffer without touching the dirty flag.
func (vm *C8VM) Pixels() Framebuffer {
	return vm.pixels
}

// DelayTimer returns the value of DT
func (vm *C8VM) DelayTimer() uint8 {
	return vm.delayTimer
}

// SoundTimer returns the value of ST
func (vm *C8VM) SoundTimer() uint8 {
	return vm.soundTimer
}

// PC returns the program counter.
func (vm *C8VM) PC() uint16 {
	return vm.pc
}

// I returns the index register.
func (vm *C8VM) I() uint16 {
	return vm.regI
}

// Register returns the value of Vr.
func (vm *C8VM) Register(r int) (uint8, error) {
	if r < 0 || r >= NumRegs {
		return 0, fmt.Errorf("V%d: %w", r, ErrRegister)
	}
	return vm.regV[r], nil
}

// Cycles returns the number of executed instructions.
func (vm *C8VM) Cycles() uint64 {
	return vm.cycles
}

// State is a snapshot of the VM registers.
type State struct {
	PC         uint16
	I          uint16
	V          [NumRegs]uint8
	DelayTimer uint8
	SoundTimer uint8
	Stack      []uint16
	Opcode     uint16
	Waiting    bool
	Cycles     uint64
}

// State returns a snapshot of the VM registers.
func (vm *C8VM) State() State {
	return State{
		PC:         vm.pc,
		I:          vm.regI,
		V:          vm.regV,
		DelayTimer: vm.delayTimer,
		SoundTimer: vm.soundTimer,
		Stack:      vm.stack.Addresses(),
		Opcode:     uint16(vm.opcode),
		Waiting:    vm.waiting,
		Cycles:     vm.cycles,
	}
}

// Fields returns the state as structured log fields.
func (s State) Fields() []log.Field {
	fields := []log.Field{
		log.Hex("pc", s.PC),
		log.Hex("i", s.I),
		log.Hex("opcode", s.Opcode),
		log.Uint8("dt", s.DelayTimer),
		log.Uint8("st", s.SoundTimer),
		log.Int("sp", len(s.Stack)),
	}
	for r, v := range s.V {
		fields = append(fields, log.Hex(fmt.Sprintf("v%X", r), v))
	}
	return fields
}
