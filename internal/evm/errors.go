package evm

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/core/vm"
)

var (
	ErrUnknownOpcode   = errors.New("opcode is not tracked")
	ErrStackUnderflow  = errors.New("stack underflow")
	ErrOperandOverflow = errors.New("memory operand exceeds 64 bits")
	ErrUnalignedMemory = errors.New("active memory size is not word aligned")
	ErrMemoryShrink    = errors.New("active memory shrank within a call frame")
	ErrReturnExpansion = errors.New("return expanded memory at a call frame boundary")
)

// TraceError reports a malformed or inconsistent step in a transaction trace.
type TraceError struct {
	Index int
	Op    vm.OpCode
	Depth uint32
	Err   error
}

func (e *TraceError) Error() string {
	return fmt.Sprintf("step %d (%s, depth %d): %v", e.Index, e.Op, e.Depth, e.Err)
}

func (e *TraceError) Unwrap() error {
	return e.Err
}
