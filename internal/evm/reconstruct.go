package evm

import (
	"math"

	"github.com/goodnatureofminers/memtrace/internal/model"
	"github.com/goodnatureofminers/memtrace/pkg/safe"
	"github.com/holiman/uint256"
)

// Reconstruct turns the filtered steps of one transaction into memory events.
//
// Memory expansion is scoped to a call frame: when the following step runs at
// the same depth its pre-execution memory size is the post size of the current
// step, and the final step pairs with itself so its memory is unchanged. At a
// depth transition the post size is derived from the instruction itself: inert
// markers and returns leave memory untouched, content instructions grow it to
// cover every region they access.
//
// A failed trace yields no events. Inert steps are never emitted.
func Reconstruct(txID uint64, trace model.TraceResult) ([]model.MemoryEvent, error) {
	if trace.Failed || len(trace.Steps) == 0 {
		return nil, nil
	}

	steps := trace.Steps
	last := len(steps) - 1
	events := make([]model.MemoryEvent, 0, len(steps))

	for i, step := range steps {
		desc, ok := Lookup(step.Op)
		if !ok {
			return nil, stepError(i, step, ErrUnknownOpcode)
		}
		if step.MemorySize%model.WordSize != 0 {
			return nil, stepError(i, step, ErrUnalignedMemory)
		}
		if desc.Kind == KindInert {
			continue
		}

		regions, err := desc.Regions(step.Stack)
		if err != nil {
			return nil, stepError(i, step, err)
		}

		next := steps[min(i+1, last)]
		post, err := postMemorySize(next.Depth == step.Depth, step, next, desc, regions)
		if err != nil {
			return nil, stepError(i, step, err)
		}

		events = append(events, model.MemoryEvent{
			TransactionID:   txID,
			CallDepth:       step.Depth,
			Instruction:     desc.Instruction,
			Opcode:          step.Op,
			Regions:         regions,
			GasCost:         step.GasCost,
			PreMemorySize:   step.MemorySize,
			PostMemorySize:  post,
			MemoryExpansion: post - step.MemorySize,
		})
	}

	return events, nil
}

func postMemorySize(sameFrame bool, step, next model.Step, desc Descriptor, regions []model.Region) (uint64, error) {
	pre := step.MemorySize
	if sameFrame {
		if next.MemorySize < pre {
			return 0, ErrMemoryShrink
		}
		return next.MemorySize, nil
	}

	required, err := ActiveMemorySize(pre, regions)
	if err != nil {
		return 0, err
	}

	switch desc.Kind {
	case KindReturn:
		// RETURN and REVERT have no static gas, so any reported cost is expansion.
		if step.GasCost > 0 || required > pre {
			return 0, ErrReturnExpansion
		}
		return pre, nil
	default:
		return required, nil
	}
}

// ActiveMemorySize returns the word-aligned memory size after accessing regions,
// never less than pre. Zero-sized regions do not touch memory.
func ActiveMemorySize(pre uint64, regions []model.Region) (uint64, error) {
	size := pre
	for _, r := range regions {
		if r.Size == 0 {
			continue
		}
		end, ok := safe.AlignUp(r.End(), model.WordSize)
		if !ok {
			return 0, ErrOperandOverflow
		}
		size = max(size, end)
	}
	return size, nil
}

// Regions resolves the memory regions the descriptor reads from stack (top first).
func (d Descriptor) Regions(stack []uint256.Int) ([]model.Region, error) {
	if len(d.Operands) == 0 {
		return nil, nil
	}
	if len(stack) < d.StackDepth() {
		return nil, ErrStackUnderflow
	}

	regions := make([]model.Region, 0, len(d.Operands))
	for _, op := range d.Operands {
		size := d.FixedSize
		if op.SizePos >= 0 {
			word := &stack[op.SizePos]
			if !word.IsUint64() {
				return nil, ErrOperandOverflow
			}
			size = word.Uint64()
		}

		offset := &stack[op.OffsetPos]
		if size == 0 && !offset.IsUint64() {
			// the EVM ignores the offset of an empty access
			regions = append(regions, model.Region{Offset: math.MaxUint64})
			continue
		}
		if !offset.IsUint64() {
			return nil, ErrOperandOverflow
		}
		if _, ok := safe.Add(offset.Uint64(), size); !ok {
			return nil, ErrOperandOverflow
		}
		regions = append(regions, model.Region{Offset: offset.Uint64(), Size: size})
	}
	return regions, nil
}

func stepError(index int, step model.Step, err error) *TraceError {
	return &TraceError{
		Index: index,
		Op:    step.Op,
		Depth: step.Depth,
		Err:   err,
	}
}
