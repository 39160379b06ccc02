package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/goodnatureofminers/memtrace/internal/model"
	"github.com/klauspost/compress/gzip"
)

var errClosed = errors.New("writer is closed")

type writer struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	gz     *gzip.Writer
	csv    *csv.Writer
	closed bool
}

func newWriter(path string, header []string) (*writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	gz := gzip.NewWriter(file)
	w := &writer{path: path, file: file, gz: gz, csv: csv.NewWriter(gz)}
	if err := w.write([][]string{header}); err != nil {
		_ = file.Close()
		return nil, err
	}
	return w, nil
}

// write appends rows as one unit; concurrent calls never interleave.
func (w *writer) write(rows [][]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errClosed
	}
	for _, row := range rows {
		if err := w.csv.Write(row); err != nil {
			return fmt.Errorf("write %s: %w", w.path, err)
		}
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	return nil
}

func (w *writer) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	w.csv.Flush()
	return errors.Join(w.csv.Error(), w.gz.Close(), w.file.Close())
}

// TransactionWriter appends to the transaction stream. It is safe for concurrent use.
type TransactionWriter struct {
	w *writer
}

func (t *TransactionWriter) Write(ctx context.Context, txs ...model.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, []string{
			strconv.FormatUint(tx.ID, 10),
			strconv.FormatUint(tx.Block, 10),
			tx.Hash,
			strconv.FormatUint(tx.Gas, 10),
			tx.Recipient(),
		})
	}
	return t.w.write(rows)
}

// Close flushes buffered records and closes the file.
func (t *TransactionWriter) Close() error {
	return t.w.close()
}

// EventWriter appends to the memory event stream. It is safe for concurrent use.
type EventWriter struct {
	w *writer
}

func (e *EventWriter) Write(ctx context.Context, events ...model.MemoryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		var offset, size string
		if len(ev.Regions) > 0 {
			offset = strconv.FormatUint(ev.Regions[0].Offset, 10)
			size = strconv.FormatUint(ev.Regions[0].Size, 10)
		}
		rows = append(rows, []string{
			strconv.FormatUint(ev.TransactionID, 10),
			strconv.FormatUint(uint64(ev.CallDepth), 10),
			ev.Opcode.String(),
			string(ev.Instruction),
			offset,
			size,
			formatRegions(ev.Regions),
			strconv.FormatUint(ev.GasCost, 10),
			strconv.FormatUint(ev.PreMemorySize, 10),
			strconv.FormatUint(ev.PostMemorySize, 10),
			strconv.FormatUint(ev.MemoryExpansion, 10),
		})
	}
	return e.w.write(rows)
}

// Close flushes buffered records and closes the file.
func (e *EventWriter) Close() error {
	return e.w.close()
}

func formatRegions(regions []model.Region) string {
	parts := make([]string, len(regions))
	for i, r := range regions {
		parts[i] = strconv.FormatUint(r.Offset, 10) + ":" + strconv.FormatUint(r.Size, 10)
	}
	return strings.Join(parts, ";")
}
