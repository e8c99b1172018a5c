package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/bowerhall/regen/internal/gateway"
)

// Source produces one image and holds whatever device or file backs it
// until Close. A camera stream is a Source.
type Source interface {
	Capture(ctx context.Context) (gateway.Image, error)
	io.Closer
}

var errSourceClosed = errors.New("capture source closed")

// FileSource reads an image from disk.
type FileSource struct {
	mu       sync.Mutex
	f        *os.File
	maxBytes int64
}

func OpenFile(path string, maxBytes int64) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return &FileSource{f: f, maxBytes: maxBytes}, nil
}

func (s *FileSource) Capture(ctx context.Context) (gateway.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return gateway.Image{}, errSourceClosed
	}
	if err := ctx.Err(); err != nil {
		return gateway.Image{}, err
	}

	limit := s.maxBytes
	if limit <= 0 {
		limit = 64 << 20
	}

	// read one byte past the ceiling so oversize files are detected, not truncated
	data, err := io.ReadAll(io.LimitReader(s.f, limit+1))
	if err != nil {
		return gateway.Image{}, err
	}

	return gateway.Image{Name: filepath.Base(s.f.Name()), Data: data}, nil
}

func (s *FileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return nil
	}

	err := s.f.Close()
	s.f = nil
	return err
}

// Holder owns at most one open Source. Replacing or releasing it closes the
// previous one, so a capture view never leaks its device.
type Holder struct {
	mu  sync.Mutex
	src Source
}

// Replace installs src, closing any source already held.
func (h *Holder) Replace(src Source) error {
	h.mu.Lock()
	old := h.src
	h.src = src
	h.mu.Unlock()

	if old != nil {
		return old.Close()
	}
	return nil
}

// Take hands the held source to the caller, who becomes responsible for closing it.
func (h *Holder) Take() Source {
	h.mu.Lock()
	defer h.mu.Unlock()

	src := h.src
	h.src = nil
	return src
}

func (h *Holder) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.src != nil
}

// Release closes the held source, if any.
func (h *Holder) Release() error {
	return h.Replace(nil)
}
