package ndjson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/golang/snappy"
)

// maxLine bounds a single record.
const maxLine = 4 * 1024 * 1024

// Reader iterates over the records of a stream. Blank lines are skipped.
type Reader struct {
	scanner *bufio.Scanner
	name    string
	line    int
	raw     []byte
}

// NewReader reads from r, decompressing a snappy framed stream when
// compressed is set. name is used in error messages.
func NewReader(r io.Reader, compressed bool, name string) *Reader {
	if compressed {
		r = snappy.NewReader(r)
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &Reader{scanner: sc, name: name}
}

// Next advances to the next non-blank line. It returns false at the end of
// the stream or on a read error; check Err.
func (r *Reader) Next() bool {
	for r.scanner.Scan() {
		r.line++
		b := bytes.TrimSpace(r.scanner.Bytes())
		if len(b) == 0 {
			continue
		}
		r.raw = b
		return true
	}
	r.raw = nil
	return false
}

// Raw returns the current line. It is only valid until the next call to Next.
func (r *Reader) Raw() []byte {
	return r.raw
}

// Line returns the 1-based line number of the current record.
func (r *Reader) Line() int {
	return r.line
}

// Decode unmarshals the current line into v.
func (r *Reader) Decode(v any) error {
	if err := json.Unmarshal(r.raw, v); err != nil {
		return fmt.Errorf("%s:%d: %w", r.name, r.line, err)
	}
	return nil
}

// Err returns the first read error, if any.
func (r *Reader) Err() error {
	if err := r.scanner.Err(); err != nil {
		return fmt.Errorf("%s: %w", r.name, err)
	}
	return nil
}

// ReadAll decodes every record of the file at path into values of type T.
func ReadAll[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Decode[T](NewReader(f, IsCompressed(path), path))
}

// Decode drains r into values of type T.
func Decode[T any](r *Reader) ([]T, error) {
	var out []T
	for r.Next() {
		var v T
		if err := r.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RawLines returns copies of the non-blank lines of r, validating that each
// one is JSON.
func RawLines(r *Reader) ([]json.RawMessage, error) {
	var out []json.RawMessage
	for r.Next() {
		if !json.Valid(r.Raw()) {
			return nil, fmt.Errorf("%s:%d: invalid JSON", r.name, r.line)
		}
		out = append(out, append(json.RawMessage(nil), r.Raw()...))
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
