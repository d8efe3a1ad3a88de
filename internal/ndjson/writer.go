// Package ndjson reads and writes newline-delimited JSON records, optionally
// inside a snappy framed stream.
package ndjson

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
)

// CompressedExt marks files holding a snappy framed stream.
const CompressedExt = ".sz"

// IsCompressed reports whether path names a snappy framed file.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, CompressedExt)
}

// Writer encodes one JSON value per line.
type Writer struct {
	buf    *bufio.Writer
	enc    *json.Encoder
	sz     *snappy.Writer
	closer io.Closer
	count  int
	closed bool
}

// NewWriter wraps w. When compress is set the lines are written through a
// snappy framed stream. Close does not close w.
func NewWriter(w io.Writer, compress bool) *Writer {
	out := &Writer{}
	if compress {
		out.sz = snappy.NewBufferedWriter(w)
		w = out.sz
	}
	out.buf = bufio.NewWriterSize(w, 64*1024)
	out.enc = json.NewEncoder(out.buf)
	out.enc.SetEscapeHTML(false)
	return out
}

// Create creates path and returns a writer that closes the file on Close.
// Paths ending in CompressedExt are snappy compressed.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	w := NewWriter(f, IsCompressed(path))
	w.closer = f
	return w, nil
}

// Write encodes v as one line.
func (w *Writer) Write(v any) error {
	if w.closed {
		return fmt.Errorf("write to closed ndjson writer")
	}
	if err := w.enc.Encode(v); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns the number of records written successfully.
func (w *Writer) Count() int {
	return w.count
}

// Close flushes buffered lines and closes the underlying file, if any. It is
// safe to call more than once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var firstErr error
	if err := w.buf.Flush(); err != nil {
		firstErr = err
	}
	if w.sz != nil {
		if err := w.sz.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if w.closer != nil {
		if err := w.closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
