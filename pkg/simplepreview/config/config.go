// Package config assembles a preview engine from declarative configuration.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tendant/simple-preview/pkg/simplepreview"
	"github.com/tendant/simple-preview/pkg/simplepreview/blob"
	"github.com/tendant/simple-preview/pkg/simplepreview/convert"
	"github.com/tendant/simple-preview/pkg/simplepreview/urlstrategy"
)

// Option applies configuration to an EngineConfig instance.
type Option func(*EngineConfig) error

// Load constructs an EngineConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*EngineConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() EngineConfig {
	return EngineConfig{
		AllocatorType:        "memory",
		ConversionTimeout:    simplepreview.DefaultConversionTimeout,
		CacheBustContentURLs: true,
		EnableEventLogging:   false,
	}
}

// EngineConfig represents configuration for the preview engine
type EngineConfig struct {
	// APIBaseURL is the base address of the content/conversion collaborator,
	// e.g. "http://localhost:8000/api".
	APIBaseURL string

	// Allocator configuration
	AllocatorType string // "memory", "fs"
	FSBaseDir     string // Scratch directory when AllocatorType is "fs"
	FSURLPrefix   string // Optional serving prefix for fs-spooled artifacts

	// Conversion options
	ConversionTimeout    time.Duration
	CacheBustContentURLs bool

	// Engine options
	EnableEventLogging bool
}

// WithAPIBaseURL sets the collaborator base address.
func WithAPIBaseURL(baseURL string) Option {
	return func(c *EngineConfig) error {
		c.APIBaseURL = baseURL
		return nil
	}
}

// WithAllocator selects the artifact allocator backend.
func WithAllocator(allocatorType, fsBaseDir, fsURLPrefix string) Option {
	return func(c *EngineConfig) error {
		c.AllocatorType = allocatorType
		c.FSBaseDir = fsBaseDir
		c.FSURLPrefix = fsURLPrefix
		return nil
	}
}

// WithConversionTimeout bounds the conversion round trip.
func WithConversionTimeout(d time.Duration) Option {
	return func(c *EngineConfig) error {
		if d <= 0 {
			return errors.New("conversion timeout must be positive")
		}
		c.ConversionTimeout = d
		return nil
	}
}

// WithCacheBust toggles the timestamp query parameter on content URLs.
func WithCacheBust(enabled bool) Option {
	return func(c *EngineConfig) error {
		c.CacheBustContentURLs = enabled
		return nil
	}
}

// WithEventLogging toggles the slog-backed event sink.
func WithEventLogging(enabled bool) Option {
	return func(c *EngineConfig) error {
		c.EnableEventLogging = enabled
		return nil
	}
}

// Validate validates the engine configuration
func (c *EngineConfig) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("api base url is required")
	}

	if c.AllocatorType != "memory" && c.AllocatorType != "fs" {
		return errors.New("allocator_type must be 'memory' or 'fs'")
	}

	if c.AllocatorType == "fs" && c.FSBaseDir == "" {
		return errors.New("fs_base_dir is required when using the fs allocator")
	}

	if c.ConversionTimeout <= 0 {
		return errors.New("conversion timeout must be positive")
	}

	return nil
}

// BuildEngine creates an Engine instance from the configuration
func (c *EngineConfig) BuildEngine() (simplepreview.Engine, error) {
	resolver := urlstrategy.NewContentBasedStrategy(c.APIBaseURL)
	resolver.CacheBust = c.CacheBustContentURLs

	allocator, err := c.buildAllocator()
	if err != nil {
		return nil, fmt.Errorf("failed to build allocator: %w", err)
	}

	options := []simplepreview.Option{
		simplepreview.WithURLResolver(resolver),
		simplepreview.WithConverter(convert.NewHTTPClient(resolver, http.DefaultClient)),
		simplepreview.WithAllocator(allocator),
		simplepreview.WithConversionTimeout(c.ConversionTimeout),
	}

	if c.EnableEventLogging {
		options = append(options, simplepreview.WithEventSink(simplepreview.NewSlogEventSink(nil)))
	}

	return simplepreview.New(options...)
}

func (c *EngineConfig) buildAllocator() (simplepreview.Allocator, error) {
	switch c.AllocatorType {
	case "fs":
		return blob.NewFSAllocator(blob.FSConfig{
			BaseDir:   c.FSBaseDir,
			URLPrefix: c.FSURLPrefix,
		})
	default:
		return blob.NewMemoryAllocator(), nil
	}
}
