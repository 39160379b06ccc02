package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/goodnatureofminers/memtrace/internal/model"
	"github.com/goodnatureofminers/memtrace/pkg/safe"
	"github.com/klauspost/compress/gzip"
)

// ReadTransactions lazily reads the transaction stream at path in write order.
// Iteration stops after the first error.
func ReadTransactions(path string) iter.Seq2[model.Transaction, error] {
	return func(yield func(model.Transaction, error) bool) {
		for row, err := range readRows(path, transactionHeader) {
			if err != nil {
				yield(model.Transaction{}, err)
				return
			}
			tx, err := parseTransaction(row)
			if err != nil {
				yield(model.Transaction{}, fmt.Errorf("%s: %w", path, err))
				return
			}
			if !yield(tx, nil) {
				return
			}
		}
	}
}

// ReadEvents lazily reads the memory event stream at path in write order.
// Iteration stops after the first error.
func ReadEvents(path string) iter.Seq2[model.MemoryEvent, error] {
	return func(yield func(model.MemoryEvent, error) bool) {
		for row, err := range readRows(path, eventHeader) {
			if err != nil {
				yield(model.MemoryEvent{}, err)
				return
			}
			ev, err := parseEvent(row)
			if err != nil {
				yield(model.MemoryEvent{}, fmt.Errorf("%s: %w", path, err))
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
	}
}

func readRows(path string, header []string) iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		file, err := os.Open(path)
		if err != nil {
			yield(nil, fmt.Errorf("open %s: %w", path, err))
			return
		}
		defer file.Close()

		gz, err := gzip.NewReader(file)
		if err != nil {
			yield(nil, fmt.Errorf("open %s: %w", path, err))
			return
		}
		defer gz.Close()

		r := csv.NewReader(gz)
		r.FieldsPerRecord = len(header)
		r.ReuseRecord = true

		got, err := r.Read()
		if err != nil {
			yield(nil, fmt.Errorf("read header of %s: %w", path, err))
			return
		}
		if !slices.Equal(got, header) {
			yield(nil, fmt.Errorf("%s: unexpected header %v", path, got))
			return
		}

		for {
			row, err := r.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("read %s: %w", path, err))
				return
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

func parseTransaction(row []string) (model.Transaction, error) {
	var (
		tx  model.Transaction
		err error
	)
	if tx.ID, err = parseUint("id", row[0]); err != nil {
		return tx, err
	}
	if tx.Block, err = parseUint("block", row[1]); err != nil {
		return tx, err
	}
	tx.Hash = row[2]
	if tx.Gas, err = parseUint("tx_gas", row[3]); err != nil {
		return tx, err
	}
	if row[4] != "" {
		to := row[4]
		tx.To = &to
	}
	return tx, nil
}

func parseEvent(row []string) (model.MemoryEvent, error) {
	var (
		ev  model.MemoryEvent
		err error
	)
	if ev.TransactionID, err = parseUint("transaction_id", row[0]); err != nil {
		return ev, err
	}
	depth, err := parseUint("call_depth", row[1])
	if err != nil {
		return ev, err
	}
	if ev.CallDepth, err = safe.Uint32(depth); err != nil {
		return ev, fmt.Errorf("call_depth: %w", err)
	}
	ev.Opcode = vm.StringToOp(row[2])
	if ev.Opcode == vm.STOP && row[2] != vm.STOP.String() {
		return ev, fmt.Errorf("opcode: unknown %q", row[2])
	}
	ev.Instruction = model.Instruction(row[3])
	if ev.Regions, err = parseRegions(row[6]); err != nil {
		return ev, err
	}
	if ev.GasCost, err = parseUint("opcode_gas_cost", row[7]); err != nil {
		return ev, err
	}
	if ev.PreMemorySize, err = parseUint("pre_active_memory_size", row[8]); err != nil {
		return ev, err
	}
	if ev.PostMemorySize, err = parseUint("post_active_memory_size", row[9]); err != nil {
		return ev, err
	}
	if ev.MemoryExpansion, err = parseUint("memory_expansion", row[10]); err != nil {
		return ev, err
	}
	return ev, nil
}

func parseRegions(value string) ([]model.Region, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ";")
	regions := make([]model.Region, 0, len(parts))
	for _, part := range parts {
		offset, size, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("memory_access_regions: malformed region %q", part)
		}
		var (
			r   model.Region
			err error
		)
		if r.Offset, err = parseUint("region offset", offset); err != nil {
			return nil, err
		}
		if r.Size, err = parseUint("region size", size); err != nil {
			return nil, err
		}
		regions = append(regions, r)
	}
	return regions, nil
}

func parseUint(field, value string) (uint64, error) {
	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return v, nil
}
