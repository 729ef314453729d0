// Package tradelog implements the append-only trade log sink as
// newline-delimited JSON. One record per line, flushed on every append so the
// record is durable before the ledger commit is considered final.
package tradelog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/brennershearn-bot/Arb-Bot/internal/domain"
)

// Writer appends trade records to a JSONL file. Safe for concurrent use.
type Writer struct {
	mu   sync.Mutex
	path string
	file *os.File
	w    *bufio.Writer
}

// NewWriter returns a Writer that appends to path. The file is opened lazily
// on the first append.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

func (w *Writer) ensureOpenLocked() error {
	if w.file != nil {
		return nil
	}
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	w.file = f
	w.w = bufio.NewWriter(f)
	return nil
}

// Append writes rec as a single JSON object followed by '\n' and flushes, so
// the record is visible to tailers and survives the buffer.
func (w *Writer) Append(rec domain.TradeRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.ensureOpenLocked(); err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes buffered data and closes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var firstErr error
	if w.w != nil {
		if err := w.w.Flush(); err != nil {
			firstErr = err
		}
	}
	if w.file != nil {
		if err := w.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	w.w = nil
	w.file = nil
	return firstErr
}
