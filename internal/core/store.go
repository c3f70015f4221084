package core

import (
	"fmt"
	"io"
	"sync"

	"github.com/spf13/afero"

	"pydoxy/internal/rewrite"
)

// OutputStore abstracts where filtered output goes, for testability.
type OutputStore interface {
	Save(*Result) error
}

// NewOutputStore writes to path on fs when path is set, and to w otherwise.
func NewOutputStore(fs afero.Fs, path string, w io.Writer) OutputStore {
	if path != "" {
		return NewFileStore(fs, path)
	}
	return &WriterStore{W: w}
}

// WriterStore implements OutputStore on a stream such as stdout.
type WriterStore struct {
	W io.Writer
}

func (ws *WriterStore) Save(res *Result) error {
	if _, err := res.Buffer.WriteTo(ws.W); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// FileStore implements OutputStore using a file.
type FileStore struct {
	Fs   afero.Fs
	File string
}

func NewFileStore(fs afero.Fs, file string) *FileStore {
	return &FileStore{Fs: fs, File: file}
}

func (fs *FileStore) Save(res *Result) error {
	return rewrite.Save(fs.Fs, fs.File, res.Buffer)
}

// InMemoryStore implements OutputStore for testing (no disk I/O).
type InMemoryStore struct {
	mu      sync.Mutex
	outputs []string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (ms *InMemoryStore) Save(res *Result) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.outputs = append(ms.outputs, res.Output())
	return nil
}

// Outputs returns a copy of everything saved so far.
func (ms *InMemoryStore) Outputs() []string {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	cpy := make([]string, len(ms.outputs))
	copy(cpy, ms.outputs)
	return cpy
}
