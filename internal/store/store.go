// Package store persists score history as an append-only JSON-lines file.
package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/verte-zerg/bunbuntype/internal/model"
)

const maxLineBytes = 1 << 20

var errLineTooLong = fmt.Errorf("line exceeds %d bytes", maxLineBytes)

// LoadPolicy decides what LoadAll does with a line that fails to decode.
type LoadPolicy int

const (
	// SkipInvalid drops bad lines and reports them as ParseErrors.
	SkipInvalid LoadPolicy = iota
	// AbortOnInvalid stops at the first bad line.
	AbortOnInvalid
)

// ParseError reports a history line that could not be decoded.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("history line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Store reads and appends score records in a single history file.
type Store struct {
	path   string
	schema *jsonschema.Schema
}

// Open prepares a store for path, creating its directory if needed.
// The file itself is created on first append.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	schema, err := compileRecordSchema()
	if err != nil {
		return nil, err
	}
	return &Store{path: path, schema: schema}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Append writes rec as one line at the end of the file and syncs it to disk
// before returning. A file whose last line was cut short gets its newline
// first, so the new record never merges into it.
func (s *Store) Append(rec model.ScoreRecord) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	line = append(line, '\n')

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	terminated, err := endsWithNewline(file)
	if err != nil {
		_ = file.Close()
		return err
	}
	if !terminated {
		line = append([]byte{'\n'}, line...)
	}
	if _, err := file.Write(line); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// endsWithNewline reports whether file is empty or ends in a newline.
func endsWithNewline(file *os.File) (bool, error) {
	info, err := file.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return true, nil
	}
	last := make([]byte, 1)
	if _, err := file.ReadAt(last, info.Size()-1); err != nil {
		return false, fmt.Errorf("failed to read history tail: %w", err)
	}
	return last[0] == '\n', nil
}

// LoadAll reads every record in file order. Blank lines are skipped. A
// missing file yields no records. Under SkipInvalid the bad lines come back
// as ParseErrors next to the decoded records; under AbortOnInvalid the first
// bad line is returned as the error.
func (s *Store) LoadAll(policy LoadPolicy) ([]model.ScoreRecord, []*ParseError, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only history.
			_ = cerr
		}
	}()

	var (
		records []model.ScoreRecord
		bad     []*ParseError
	)
	reader := bufio.NewReader(file)
	lineNo := 0
	for {
		raw, tooLong, err := readLine(reader)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read history: %w", err)
		}
		lineNo++
		var rec model.ScoreRecord
		switch {
		case tooLong:
			err = errLineTooLong
		case len(bytes.TrimSpace(raw)) == 0:
			continue
		default:
			rec, err = s.decode(bytes.TrimSpace(raw))
		}
		if err != nil {
			perr := &ParseError{Line: lineNo, Err: err}
			if policy == AbortOnInvalid {
				return nil, nil, perr
			}
			bad = append(bad, perr)
			continue
		}
		records = append(records, rec)
	}
	return records, bad, nil
}

// readLine returns the next line without its terminator. A line longer than
// maxLineBytes is consumed and reported as tooLong with no content. io.EOF is
// returned only when no line remains.
func readLine(r *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		chunk, isPrefix, rerr := r.ReadLine()
		if rerr != nil {
			if errors.Is(rerr, io.EOF) && (len(line) > 0 || tooLong) {
				return line, tooLong, nil
			}
			return nil, false, rerr
		}
		if !tooLong {
			if len(line)+len(chunk) > maxLineBytes {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if !isPrefix {
			return line, tooLong, nil
		}
	}
}

func (s *Store) decode(raw []byte) (model.ScoreRecord, error) {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return model.ScoreRecord{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := s.schema.Validate(parsed); err != nil {
		return model.ScoreRecord{}, fmt.Errorf("schema validation failed: %w", err)
	}
	var rec model.ScoreRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.ScoreRecord{}, err
	}
	return rec, nil
}
