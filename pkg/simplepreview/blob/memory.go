// Package blob provides allocators that wrap converted artifacts into
// releasable resource handles. A handle is the engine-side analogue of a
// browser object URL: it stays valid until released and releasing it more
// than once is a no-op.
package blob

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/simple-preview/pkg/simplepreview"
)

// MemoryAllocator keeps artifact bytes in process memory.
type MemoryAllocator struct{}

// NewMemoryAllocator creates a new in-memory handle allocator
func NewMemoryAllocator() *MemoryAllocator {
	return &MemoryAllocator{}
}

// Allocate wraps data into a handle addressed by a fresh id.
func (a *MemoryAllocator) Allocate(fileName string, contentType string, data []byte) (simplepreview.ResourceHandle, error) {
	return &memoryHandle{
		id:          uuid.New(),
		fileName:    fileName,
		contentType: contentType,
		data:        data,
	}, nil
}

type memoryHandle struct {
	id          uuid.UUID
	fileName    string
	contentType string

	mu      sync.Mutex
	data    []byte
	release sync.Once
}

func (h *memoryHandle) URL() string {
	return fmt.Sprintf("blob:%s", h.id)
}

func (h *memoryHandle) Open() (io.ReadCloser, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.data == nil {
		return nil, simplepreview.ErrHandleReleased
	}
	return io.NopCloser(bytes.NewReader(h.data)), nil
}

func (h *memoryHandle) Release() {
	h.release.Do(func() {
		h.mu.Lock()
		h.data = nil
		h.mu.Unlock()
	})
}
