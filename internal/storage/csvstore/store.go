// Package csvstore persists the transaction and memory event streams as gzip-compressed CSV files.
package csvstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goodnatureofminers/memtrace/internal/model"
)

const (
	TransactionsFile = "transactions.csv.gz"
	EventsFile       = "memory_events.csv.gz"
)

var (
	transactionHeader = []string{"id", "block", "tx_hash", "tx_gas", "to"}
	eventHeader       = []string{
		"transaction_id",
		"call_depth",
		"opcode",
		"instruction",
		"memory_access_offset",
		"memory_access_size",
		"memory_access_regions",
		"opcode_gas_cost",
		"pre_active_memory_size",
		"post_active_memory_size",
		"memory_expansion",
	}
)

// Store is the output directory of one run over a block range.
type Store struct {
	dir string
}

// Open creates <root>/<start>_to_<end> and returns a Store rooted there.
func Open(root string, start, end uint64) (*Store, error) {
	run := model.BlockRange{Start: start, End: end}
	if err := run.Validate(); err != nil {
		return nil, err
	}
	dir := filepath.Join(root, run.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the run directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) TransactionsPath() string {
	return filepath.Join(s.dir, TransactionsFile)
}

func (s *Store) EventsPath() string {
	return filepath.Join(s.dir, EventsFile)
}

// CreateTransactionWriter truncates and opens the transaction stream.
func (s *Store) CreateTransactionWriter() (*TransactionWriter, error) {
	w, err := newWriter(s.TransactionsPath(), transactionHeader)
	if err != nil {
		return nil, err
	}
	return &TransactionWriter{w: w}, nil
}

// CreateEventWriter truncates and opens the memory event stream.
func (s *Store) CreateEventWriter() (*EventWriter, error) {
	w, err := newWriter(s.EventsPath(), eventHeader)
	if err != nil {
		return nil, err
	}
	return &EventWriter{w: w}, nil
}
