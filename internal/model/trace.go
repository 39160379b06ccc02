package model

import (
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/holiman/uint256"
)

// WordSize is the EVM memory granularity in bytes.
const WordSize = 32

// Step is one memory-relevant instruction reported by the node.
type Step struct {
	Op    vm.OpCode
	Depth uint32
	// Stack holds the operands the instruction consumes, top of stack first.
	Stack      []uint256.Int
	GasCost    uint64
	MemorySize uint64
}

// TraceResult is the filtered execution trace of one transaction.
type TraceResult struct {
	Failed bool
	Steps  []Step
}
