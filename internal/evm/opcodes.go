// Package evm reconstructs per-frame memory events from filtered EVM execution traces.
package evm

import (
	"slices"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/goodnatureofminers/memtrace/internal/model"
)

// Kind classifies how an instruction participates in reconstruction.
type Kind uint8

const (
	// KindContent instructions touch memory regions derived from their operands.
	KindContent Kind = iota
	// KindReturn instructions read memory on the way out of a frame and must never expand it at a boundary.
	KindReturn
	// KindInert instructions only mark call-frame boundaries and are never emitted.
	KindInert
)

func (k Kind) String() string {
	switch k {
	case KindContent:
		return "content"
	case KindReturn:
		return "return"
	case KindInert:
		return "inert"
	default:
		return "unknown"
	}
}

// Operand locates one memory region on the stack. Positions count from the top (0).
// A negative SizePos means the region has the descriptor's fixed size.
type Operand struct {
	OffsetPos int
	SizePos   int
}

// Descriptor is the static sizing rule for one opcode.
type Descriptor struct {
	Instruction model.Instruction
	Kind        Kind
	FixedSize   uint64
	Operands    []Operand
}

// StackDepth returns how many stack words, counted from the top, the descriptor reads.
func (d Descriptor) StackDepth() int {
	depth := 0
	for _, op := range d.Operands {
		depth = max(depth, op.OffsetPos+1, op.SizePos+1)
	}
	return depth
}

func fixed(instruction model.Instruction, size uint64) Descriptor {
	return Descriptor{
		Instruction: instruction,
		Kind:        KindContent,
		FixedSize:   size,
		Operands:    []Operand{{OffsetPos: 0, SizePos: -1}},
	}
}

func sized(instruction model.Instruction, kind Kind, operands ...Operand) Descriptor {
	return Descriptor{
		Instruction: instruction,
		Kind:        kind,
		Operands:    operands,
	}
}

var descriptors = map[vm.OpCode]Descriptor{
	vm.MLOAD:   fixed(model.InstructionRead, model.WordSize),
	vm.MSTORE:  fixed(model.InstructionWriteWord, model.WordSize),
	vm.MSTORE8: fixed(model.InstructionWriteByte, 1),

	vm.KECCAK256:      sized(model.InstructionHash, KindContent, Operand{0, 1}),
	vm.CALLDATACOPY:   sized(model.InstructionCopyCalldata, KindContent, Operand{0, 2}),
	vm.CODECOPY:       sized(model.InstructionCopyCode, KindContent, Operand{0, 2}),
	vm.EXTCODECOPY:    sized(model.InstructionCopyExtcode, KindContent, Operand{1, 3}),
	vm.RETURNDATACOPY: sized(model.InstructionCopyReturndata, KindContent, Operand{0, 2}),
	// destination first, then source
	vm.MCOPY: sized(model.InstructionCopyMemory, KindContent, Operand{0, 2}, Operand{1, 2}),

	vm.LOG0: sized(model.InstructionLog, KindContent, Operand{0, 1}),
	vm.LOG1: sized(model.InstructionLog, KindContent, Operand{0, 1}),
	vm.LOG2: sized(model.InstructionLog, KindContent, Operand{0, 1}),
	vm.LOG3: sized(model.InstructionLog, KindContent, Operand{0, 1}),
	vm.LOG4: sized(model.InstructionLog, KindContent, Operand{0, 1}),

	vm.CREATE:  sized(model.InstructionCreate, KindContent, Operand{1, 2}),
	vm.CREATE2: sized(model.InstructionCreate, KindContent, Operand{1, 2}),

	vm.RETURN: sized(model.InstructionReturn, KindReturn, Operand{0, 1}),
	vm.REVERT: sized(model.InstructionRevert, KindReturn, Operand{0, 1}),

	// input region, then output region
	vm.CALL:         sized(model.InstructionCall, KindInert, Operand{3, 4}, Operand{5, 6}),
	vm.CALLCODE:     sized(model.InstructionCall, KindInert, Operand{3, 4}, Operand{5, 6}),
	vm.DELEGATECALL: sized(model.InstructionCall, KindInert, Operand{2, 3}, Operand{4, 5}),
	vm.STATICCALL:   sized(model.InstructionCall, KindInert, Operand{2, 3}, Operand{4, 5}),
	vm.STOP:         {Instruction: model.InstructionStop, Kind: KindInert},
}

// Lookup returns the descriptor for op.
func Lookup(op vm.OpCode) (Descriptor, bool) {
	d, ok := descriptors[op]
	return d, ok
}

// Tracked reports whether op belongs in a filtered memory trace.
func Tracked(op vm.OpCode) bool {
	_, ok := descriptors[op]
	return ok
}

// Opcodes returns every tracked opcode in ascending order.
func Opcodes() []vm.OpCode {
	ops := make([]vm.OpCode, 0, len(descriptors))
	for op := range descriptors {
		ops = append(ops, op)
	}
	slices.Sort(ops)
	return ops
}
