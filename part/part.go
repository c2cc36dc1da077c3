// Package part holds decoded multipart fields.
//
// A Part is either in memory or backed by a temporary file that the Part owns
// exclusively. Parts are scoped resources: decode, consume, then Close once.
// Closing an in-memory part does nothing. Closing a disk-backed part deletes
// its file; every later Close returns an *fs.PathError wrapping fs.ErrClosed.
package part

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"sync/atomic"
)

// ErrNotInMemory is returned by Bytes for disk-backed parts.
var ErrNotInMemory = errors.New("part is not in memory")

// MetaData describes a multipart field.
type MetaData struct {
	FieldName   string
	FormField   bool
	ContentType string
	FileName    string
	Headers     map[string]string
}

type storage int

const (
	inMemory storage = iota
	diskBacked
)

// Part is a decoded multipart field.
type Part struct {
	MetaData

	kind   storage
	length int64
	data   []byte
	path   string
	closed atomic.Bool
}

// NewInMemory returns a part that owns data.
func NewInMemory(meta MetaData, data []byte) *Part {
	return &Part{MetaData: meta, kind: inMemory, data: data, length: int64(len(data))}
}

// NewDiskBacked returns a part that takes ownership of the file at path.
func NewDiskBacked(meta MetaData, path string) (*Part, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &Part{MetaData: meta, kind: diskBacked, path: path, length: info.Size()}, nil
}

// InMemory reports whether the content is held in memory.
func (p *Part) InMemory() bool { return p.kind == inMemory }

// Len returns the content length in bytes.
func (p *Part) Len() int64 { return p.length }

// Bytes returns the in-memory content. Disk-backed parts return
// ErrNotInMemory; use Open.
func (p *Part) Bytes() ([]byte, error) {
	if p.kind != inMemory {
		return nil, ErrNotInMemory
	}
	return p.data, nil
}

// Open returns a reader over the content.
func (p *Part) Open() (io.ReadCloser, error) {
	if p.kind == inMemory {
		return io.NopCloser(bytes.NewReader(p.data)), nil
	}
	if p.closed.Load() {
		return nil, &fs.PathError{Op: "open", Path: p.path, Err: fs.ErrClosed}
	}
	return os.Open(p.path)
}

// Text returns the content as a string, whichever storage backs it.
func (p *Part) Text() (string, error) {
	if p.kind == inMemory {
		return string(p.data), nil
	}
	rc, err := p.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	return string(b), err
}

// Close releases the part. For a disk-backed part the first call deletes the
// file and returns any deletion error; later calls return an *fs.PathError
// wrapping fs.ErrClosed.
func (p *Part) Close() error {
	if p.kind == inMemory {
		return nil
	}
	if !p.closed.CompareAndSwap(false, true) {
		return &fs.PathError{Op: "remove", Path: p.path, Err: fs.ErrClosed}
	}
	return os.Remove(p.path)
}

// CloseAll closes every part and joins the errors.
func CloseAll(parts []*Part) error {
	var errs []error
	for _, p := range parts {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
