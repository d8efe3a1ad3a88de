package ndjson

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

func TestWriterPlain(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, false)
	require.NoError(t, w.Write(record{ID: "a", Value: 1}))
	require.NoError(t, w.Write(record{ID: "b<c>", Value: 2}))
	assert.Equal(t, 2, w.Count())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	assert.Equal(t, "{\"id\":\"a\",\"value\":1}\n{\"id\":\"b<c>\",\"value\":2}\n", buf.String())
	assert.Error(t, w.Write(record{}))
}

func TestWriterBuffersUntilClose(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, false)
	require.NoError(t, w.Write(record{ID: "a"}))
	assert.Zero(t, buf.Len())
	require.NoError(t, w.Close())
	assert.NotZero(t, buf.Len())
}

func TestCompressedRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)
	for i := 0; i < 1000; i++ {
		require.NoError(t, w.Write(record{ID: "asset", Value: i}))
	}
	require.NoError(t, w.Close())
	assert.False(t, bytes.HasPrefix(buf.Bytes(), []byte("{")))

	got, err := Decode[record](NewReader(&buf, true, "mem"))
	require.NoError(t, err)
	require.Len(t, got, 1000)
	assert.Equal(t, 999, got[999].Value)
}

func TestCreateAndReadAll(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"plain.ndjson", "packed.ndjson" + CompressedExt} {
		path := filepath.Join(dir, name)
		w, err := Create(path)
		require.NoError(t, err)
		require.NoError(t, w.Write(record{ID: "x", Value: 7}))
		require.NoError(t, w.Close())

		got, err := ReadAll[record](path)
		require.NoError(t, err, name)
		assert.Equal(t, []record{{ID: "x", Value: 7}}, got, name)
	}
}

func TestCreateFailsForMissingDirectory(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "missing", "out.ndjson"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReaderSkipsBlankLines(t *testing.T) {
	in := "{\"id\":\"a\",\"value\":1}\n\n   \r\n{\"id\":\"b\",\"value\":2}\r\n"
	r := NewReader(strings.NewReader(in), false, "events")

	got, err := Decode[record](r)
	require.NoError(t, err)
	assert.Equal(t, []record{{ID: "a", Value: 1}, {ID: "b", Value: 2}}, got)
}

func TestReaderReportsLine(t *testing.T) {
	in := "{\"id\":\"a\"}\n\n{broken\n"

	_, err := Decode[record](NewReader(strings.NewReader(in), false, "events"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "events:3")

	_, err = RawLines(NewReader(strings.NewReader(in), false, "events"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "events:3")
}

func TestRawLinesCopies(t *testing.T) {
	in := "{\"a\":1}\n{\"b\":2}\n"
	lines, err := RawLines(NewReader(strings.NewReader(in), false, "x"))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"a":1}`, string(lines[0]))
	assert.JSONEq(t, `{"b":2}`, string(lines[1]))
}

func TestIsCompressed(t *testing.T) {
	assert.True(t, IsCompressed("input.ndjson.sz"))
	assert.False(t, IsCompressed("input.ndjson"))
}
