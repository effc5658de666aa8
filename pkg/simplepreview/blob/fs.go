package blob

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/simple-preview/pkg/simplepreview"
)

// FSAllocator spools artifacts to files under a scratch directory. The file
// is deleted when the handle is released, so nothing survives the preview
// that created it.
type FSAllocator struct {
	baseDir   string
	urlPrefix string
}

// FSConfig options for the filesystem allocator
type FSConfig struct {
	BaseDir   string // Scratch directory for spooled artifacts
	URLPrefix string // Optional URL prefix; defaults to file:// addresses
}

// NewFSAllocator creates a new filesystem-backed handle allocator
func NewFSAllocator(config FSConfig) (*FSAllocator, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &FSAllocator{
		baseDir:   config.BaseDir,
		urlPrefix: config.URLPrefix,
	}, nil
}

// Allocate writes data to a scratch file and returns a handle owning it.
func (a *FSAllocator) Allocate(fileName string, contentType string, data []byte) (simplepreview.ResourceHandle, error) {
	name := fmt.Sprintf("%s%s", uuid.New(), filepath.Ext(fileName))
	path := filepath.Join(a.baseDir, name)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to spool artifact: %w", err)
	}

	url := "file://" + path
	if a.urlPrefix != "" {
		url = a.urlPrefix + "/" + name
	}

	return &fsHandle{path: path, url: url}, nil
}

type fsHandle struct {
	path string
	url  string

	mu       sync.Mutex
	released bool
	release  sync.Once
}

func (h *fsHandle) URL() string {
	return h.url
}

func (h *fsHandle) Open() (io.ReadCloser, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return nil, simplepreview.ErrHandleReleased
	}
	return os.Open(h.path)
}

func (h *fsHandle) Release() {
	h.release.Do(func() {
		h.mu.Lock()
		h.released = true
		h.mu.Unlock()
		os.Remove(h.path)
	})
}
