package node

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/goodnatureofminers/memtrace/internal/evm"
	"github.com/goodnatureofminers/memtrace/internal/model"
	"github.com/goodnatureofminers/memtrace/pkg/safe"
	"github.com/holiman/uint256"
)

type rpcBlock struct {
	Number       *hexutil.Uint64  `json:"number"`
	Transactions []rpcTransaction `json:"transactions"`
}

type rpcTransaction struct {
	Hash string          `json:"hash"`
	To   *string         `json:"to"`
	Gas  *hexutil.Uint64 `json:"gas"`
}

// tracerResult is the shape returned by the JavaScript tracer. It is also the cache encoding.
type tracerResult struct {
	Error bool         `json:"error"`
	Data  []tracerStep `json:"data"`
}

type tracerStep struct {
	Op      *uint8   `json:"op"`
	Depth   uint64   `json:"depth"`
	GasCost uint64   `json:"gasCost"`
	MemSize uint64   `json:"memSize"`
	Stack   []string `json:"stack"`
}

type structLogResult struct {
	Failed     bool        `json:"failed"`
	StructLogs []structLog `json:"structLogs"`
}

type structLog struct {
	Op      string   `json:"op"`
	Depth   uint64   `json:"depth"`
	GasCost uint64   `json:"gasCost"`
	Stack   []string `json:"stack"`
	Memory  []string `json:"memory"`
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func decodeBlock(number uint64, raw json.RawMessage) (*model.Block, error) {
	if isNull(raw) {
		return nil, ErrBlockNotFound
	}
	var src rpcBlock
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, malformed("block: %v", err)
	}
	if src.Number != nil && uint64(*src.Number) != number {
		return nil, malformed("block number %d does not match requested %d", uint64(*src.Number), number)
	}

	block := &model.Block{
		Number:       number,
		Transactions: make([]model.BlockTransaction, 0, len(src.Transactions)),
	}
	for i, tx := range src.Transactions {
		if tx.Hash == "" {
			return nil, malformed("transaction %d has no hash", i)
		}
		if tx.Gas == nil {
			return nil, malformed("transaction %s has no gas", tx.Hash)
		}
		block.Transactions = append(block.Transactions, model.BlockTransaction{
			Hash: tx.Hash,
			To:   tx.To,
			Gas:  uint64(*tx.Gas),
		})
	}
	return block, nil
}

func decodeTracerResult(raw json.RawMessage) (*model.TraceResult, error) {
	if isNull(raw) {
		return nil, malformed("empty trace")
	}
	var src tracerResult
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, malformed("trace: %v", err)
	}
	if src.Error {
		return &model.TraceResult{Failed: true}, nil
	}

	steps := make([]model.Step, 0, len(src.Data))
	for i, s := range src.Data {
		if s.Op == nil {
			return nil, malformed("step %d has no opcode", i)
		}
		depth, err := safe.Uint32(s.Depth)
		if err != nil {
			return nil, malformed("step %d depth: %v", i, err)
		}
		stack, err := parseWords(s.Stack)
		if err != nil {
			return nil, malformed("step %d stack: %v", i, err)
		}
		steps = append(steps, model.Step{
			Op:         vm.OpCode(*s.Op),
			Depth:      depth,
			Stack:      stack,
			GasCost:    s.GasCost,
			MemorySize: s.MemSize,
		})
	}
	return &model.TraceResult{Steps: steps}, nil
}

// decodeStructLog filters a raw struct log down to tracked opcodes as soon as it is received.
func decodeStructLog(raw json.RawMessage) (*model.TraceResult, error) {
	if isNull(raw) {
		return nil, malformed("empty trace")
	}
	var src structLogResult
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, malformed("struct log: %v", err)
	}
	if src.Failed {
		return &model.TraceResult{Failed: true}, nil
	}

	steps := make([]model.Step, 0)
	for i, l := range src.StructLogs {
		op := vm.StringToOp(l.Op)
		if op == vm.STOP && l.Op != vm.STOP.String() {
			continue
		}
		desc, ok := evm.Lookup(op)
		if !ok {
			continue
		}
		depth, err := safe.Uint32(l.Depth)
		if err != nil {
			return nil, malformed("step %d depth: %v", i, err)
		}

		n := 0
		if desc.Kind != evm.KindInert {
			n = min(desc.StackDepth(), len(l.Stack))
		}
		// struct log stacks are bottom first
		top := slices.Clone(l.Stack[len(l.Stack)-n:])
		slices.Reverse(top)
		stack, err := parseWords(top)
		if err != nil {
			return nil, malformed("step %d stack: %v", i, err)
		}

		steps = append(steps, model.Step{
			Op:         op,
			Depth:      depth,
			Stack:      stack,
			GasCost:    l.GasCost,
			MemorySize: uint64(len(l.Memory)) * model.WordSize,
		})
	}
	return &model.TraceResult{Steps: steps}, nil
}

func encodeTracerResult(trace *model.TraceResult) ([]byte, error) {
	out := tracerResult{Error: trace.Failed, Data: make([]tracerStep, 0, len(trace.Steps))}
	for _, s := range trace.Steps {
		op := uint8(s.Op)
		stack := make([]string, len(s.Stack))
		for i := range s.Stack {
			stack[i] = s.Stack[i].Hex()
		}
		out.Data = append(out.Data, tracerStep{
			Op:      &op,
			Depth:   uint64(s.Depth),
			GasCost: s.GasCost,
			MemSize: s.MemorySize,
			Stack:   stack,
		})
	}
	return json.Marshal(out)
}

func parseWords(values []string) ([]uint256.Int, error) {
	if len(values) == 0 {
		return nil, nil
	}
	words := make([]uint256.Int, len(values))
	for i, v := range values {
		if err := parseWord(&words[i], v); err != nil {
			return nil, err
		}
	}
	return words, nil
}

// parseWord accepts both 0x-prefixed quantities and zero-padded hex words.
func parseWord(dst *uint256.Int, value string) error {
	digits := strings.TrimLeft(strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X"), "0")
	if digits == "" {
		dst.Clear()
		return nil
	}
	if err := dst.SetFromHex("0x" + digits); err != nil {
		return fmt.Errorf("word %q: %w", value, err)
	}
	return nil
}
