// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/dphans/mediadex/internal/provider"
)

// QueryCall records the arguments of one [provider.Source] query.
type QueryCall struct {
	Collection string
	Filter     string
	Args       []any
	Sort       string
}

// FakeSource is a scripted [provider.Source]. Respond maps a collection
// name to a factory invoked per query; the factory sees the full call so
// membership queries can key their rows on the bound arguments. Queries
// against unregistered collections return (nil, nil), the no-result-set
// signal.
type FakeSource struct {
	Respond map[string]func(call QueryCall) (provider.Cursor, error)
	Calls   []QueryCall
}

func (s *FakeSource) Query(collection, filter string, args []any, sort string) (provider.Cursor, error) {
	call := QueryCall{Collection: collection, Filter: filter, Args: args, Sort: sort}
	s.Calls = append(s.Calls, call)

	fn, ok := s.Respond[collection]
	if !ok {
		return nil, nil
	}
	return fn(call)
}

// FakeCursor is a scripted [provider.Cursor] over in-memory rows. Cells
// hold string, int64 or nil values; the typed getters coerce like a real
// source. Closes counts Close calls so tests can assert release
// discipline.
type FakeCursor struct {
	Columns  []string
	Rows     [][]any
	CloseErr error
	Closes   int

	pos int
}

func NewFakeCursor(columns []string, rows [][]any) *FakeCursor {
	return &FakeCursor{Columns: columns, Rows: rows}
}

func (c *FakeCursor) Next() bool {
	if c.pos >= len(c.Rows) {
		return false
	}
	c.pos++
	return true
}

func (c *FakeCursor) ColumnIndex(name string) int {
	for i, col := range c.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

func (c *FakeCursor) Text(i int) string {
	switch v := c.cell(i).(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

func (c *FakeCursor) Int(i int) int64 {
	switch v := c.cell(i).(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}

func (c *FakeCursor) Close() error {
	c.Closes++
	return c.CloseErr
}

func (c *FakeCursor) cell(i int) any {
	if c.pos == 0 || c.pos > len(c.Rows) || i < 0 || i >= len(c.Columns) {
		return nil
	}
	row := c.Rows[c.pos-1]
	if i >= len(row) {
		return nil
	}
	return row[i]
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// MustWriteFile writes a fixture file, creating parent directories.
func MustWriteFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
