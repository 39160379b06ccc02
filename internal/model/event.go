package model

import "github.com/ethereum/go-ethereum/core/vm"

// Instruction is the normalized category of a memory instruction.
type Instruction string

const (
	InstructionRead           Instruction = "read"
	InstructionWriteWord      Instruction = "write-word"
	InstructionWriteByte      Instruction = "write-byte"
	InstructionCopyCalldata   Instruction = "copy-calldata"
	InstructionCopyCode       Instruction = "copy-code"
	InstructionCopyExtcode    Instruction = "copy-extcode"
	InstructionCopyReturndata Instruction = "copy-returndata"
	InstructionCopyMemory     Instruction = "copy-memory"
	InstructionHash           Instruction = "hash"
	InstructionLog            Instruction = "log"
	InstructionCreate         Instruction = "create"
	InstructionReturn         Instruction = "return"
	InstructionRevert         Instruction = "revert"
	InstructionCall           Instruction = "call"
	InstructionStop           Instruction = "stop"
)

// Region is a contiguous memory range touched by an instruction.
type Region struct {
	Offset uint64
	Size   uint64
}

// End returns the first byte past the region.
func (r Region) End() uint64 {
	return r.Offset + r.Size
}

// MemoryEvent is a reconstructed memory access attributed to a transaction.
type MemoryEvent struct {
	TransactionID   uint64
	CallDepth       uint32
	Instruction     Instruction
	Opcode          vm.OpCode
	Regions         []Region
	GasCost         uint64
	PreMemorySize   uint64
	PostMemorySize  uint64
	MemoryExpansion uint64
}
