package internal

import (
	"errors"

	"github.com/mnafees/chip8vm/internal/memory"
	"github.com/mnafees/chip8vm/internal/translate"
)

var f = translate.From

var (
	// VM errors
	ErrUnknownOpcode  = errors.New(f("unknown opcode"))
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))
	ErrRegister       = errors.New(f("register out of range"))
	ErrAddress        = memory.ErrAddress
)

// OpcodeError reports a fatal error raised while executing the instruction at PC.
type OpcodeError struct {
	PC   uint16
	Word uint16
	Err  error
}

func (err *OpcodeError) Error() string {
	return f("%04X: opcode %04X: %v", err.PC, err.Word, err.Err)
}

func (err *OpcodeError) Unwrap() error {
	return err.Err
}
