// Package flatfile stores the ledger as a comma-delimited text file with one
// expense per line.
package flatfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/storage"
)

// DefaultPath is used when no path is configured.
const DefaultPath = "expenses.txt"

// Lines longer than this are skipped as malformed.
const maxLineBytes = 1 << 20

type Store struct {
	path   string
	logger *slog.Logger
}

var _ storage.Store = (*Store)(nil)

func New(path string, logger *slog.Logger) *Store {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load reads every well-formed line of the file. A missing or unreadable file
// yields an empty ledger; malformed lines are skipped.
func (s *Store) Load(ctx context.Context) []core.Expense {
	records, skipped, err := s.read()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.DebugContext(ctx, "Ledger file not found, starting empty", log.FieldPath, s.path)
		} else {
			s.logger.WarnContext(ctx, "Failed to load ledger file, starting empty",
				log.FieldOperation, log.OpLoad, log.FieldPath, s.path, log.FieldError, err)
		}
		return []core.Expense{}
	}
	if skipped > 0 {
		s.logger.DebugContext(ctx, "Skipped malformed ledger lines", log.FieldPath, s.path, "skipped_lines", skipped)
	}
	s.logger.DebugContext(ctx, "Ledger loaded", log.FieldPath, s.path, log.FieldRecords, len(records))
	return records
}

func (s *Store) read() ([]core.Expense, int, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, 0, &storage.IOError{Op: "open", Path: s.path, Err: err}
	}
	defer f.Close()

	records := []core.Expense{}
	skipped := 0
	r := bufio.NewReaderSize(f, 64*1024)
	line := make([]byte, 0, 256)
	tooLong := false
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, 0, &storage.IOError{Op: "read", Path: s.path, Err: err}
		}
		if !tooLong {
			line = append(line, chunk...)
			if len(line) > maxLineBytes {
				tooLong = true
				line = line[:0]
			}
		}
		if isPrefix {
			continue
		}

		if e, ok := DecodeLine(string(line)); ok && !tooLong {
			records = append(records, e)
		} else {
			skipped++
		}
		line = line[:0]
		tooLong = false
	}
	return records, skipped, nil
}

// Save overwrites the file with records in order. The write is not atomic: a
// crash mid-write can leave a truncated file.
func (s *Store) Save(ctx context.Context, records []core.Expense) error {
	if err := s.write(records); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save ledger file",
			log.FieldOperation, log.OpSave, log.FieldPath, s.path, log.FieldRecords, len(records), log.FieldError, err)
		return err
	}
	s.logger.DebugContext(ctx, "Ledger saved", log.FieldPath, s.path, log.FieldRecords, len(records))
	return nil
}

func (s *Store) write(records []core.Expense) (err error) {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &storage.IOError{Op: "mkdir", Path: dir, Err: err}
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return &storage.IOError{Op: "create", Path: s.path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &storage.IOError{Op: "close", Path: s.path, Err: cerr}
		}
	}()

	w := bufio.NewWriter(f)
	for _, e := range records {
		if _, err := fmt.Fprintln(w, EncodeLine(e)); err != nil {
			return &storage.IOError{Op: "write", Path: s.path, Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		return &storage.IOError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}
