// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vtex

import (
	"log/slog"

	"github.com/gogpu/vtex/gputex"
)

// TextureFactory creates a GPU texture on device from a descriptor. The
// default, installed by Init unless overridden, produces
// gputex.NullTexture so the pipeline runs headless in tests and CLI
// diagnostics; a host application supplies a factory backed by its real
// device, using the DeviceHandle a VirtualTexture was constructed with
// (WithDeviceHandle) rather than a factory-global device.
type TextureFactory func(device gputex.DeviceHandle, desc gputex.TextureDescriptor) gputex.Texture

func defaultTextureFactory(_ gputex.DeviceHandle, desc gputex.TextureDescriptor) gputex.Texture {
	return gputex.NewNullTexture(desc)
}

// config holds library-wide state set by Init. Grounded on the
// teacher's functional-options pattern (options.go's ContextOption),
// adapted from per-Context configuration to one process-wide
// configuration step, since indirection format is immutable for the
// process per spec.md §6.
type config struct {
	indirectionFormat      IndirectionFormat
	maxOutstandingRequests int
	textureFactory         TextureFactory
}

var globalConfig = config{
	indirectionFormat:      IndirectionRgba8888,
	maxOutstandingRequests: DefaultMaxOutstandingPageRequests,
	textureFactory:         defaultTextureFactory,
}

// InitOption configures library-wide state passed to Init.
type InitOption func(*config)

// WithIndirectionFormat selects Rgba8888 (default) or Rgb565 for every
// indirection table constructed after Init returns. Each table keeps the
// format it was built with; a later Init call changes the format only
// for tables constructed after it.
func WithIndirectionFormat(format IndirectionFormat) InitOption {
	return func(c *config) { c.indirectionFormat = format }
}

// WithLogger installs l as the package-wide logger; nil restores the
// default split stdout/stderr handler.
func WithLogger(l *slog.Logger) InitOption {
	return func(c *config) { SetLogger(l) }
}

// WithMaxOutstandingRequests overrides DefaultMaxOutstandingPageRequests
// for every PageProvider constructed after Init.
func WithMaxOutstandingRequests(n int) InitOption {
	return func(c *config) {
		if n > 0 {
			c.maxOutstandingRequests = n
		}
	}
}

// WithTextureFactory installs the factory VirtualTexture construction
// uses to create page-table and indirection GPU textures.
func WithTextureFactory(f TextureFactory) InitOption {
	return func(c *config) {
		if f != nil {
			c.textureFactory = f
		}
	}
}

// Init applies library-wide options. Call once before constructing any
// VirtualTexture; later calls reset globalConfig from defaults before
// applying opts, matching spec.md §7 class 1's "library init" fatal-if-
// misconfigured framing (Init itself cannot fail: there is nothing here
// that requires a GPU context or file IO yet).
func Init(opts ...InitOption) {
	globalConfig = config{
		indirectionFormat:      IndirectionRgba8888,
		maxOutstandingRequests: DefaultMaxOutstandingPageRequests,
		textureFactory:         defaultTextureFactory,
	}
	for _, opt := range opts {
		opt(&globalConfig)
	}
}

// vtConfig holds per-VirtualTexture construction options.
type vtConfig struct {
	pageFiles            []PageFile
	indirection          *PageIndirectionTable
	debugOverlay         DebugOverlayConfig
	device               gputex.DeviceHandle
}

// VTOption configures one NewVirtualTexture call.
type VTOption func(*vtConfig)

// WithPageFiles supplies the 1..N PageFile instances backing the
// texture's sub-textures (diffuse/normal/specular, ...). All must
// report identical per-level dimensions (spec.md §4.8).
func WithPageFiles(files ...PageFile) VTOption {
	return func(c *vtConfig) { c.pageFiles = files }
}

// WithIndirectionTable shares an existing indirection table with a
// sibling VirtualTexture of identical dimensions, instead of
// constructing a new one.
func WithIndirectionTable(t *PageIndirectionTable) VTOption {
	return func(c *vtConfig) { c.indirection = t }
}

// WithDebugOverlay enables the (level,x,y) text label and border every
// loaded page receives before upload.
func WithDebugOverlay(cfg DebugOverlayConfig) VTOption {
	return func(c *vtConfig) { c.debugOverlay = cfg }
}

// WithDeviceHandle supplies the GPU device used to create this
// texture's page tables; defaults to gputex.NullDeviceHandle.
func WithDeviceHandle(d gputex.DeviceHandle) VTOption {
	return func(c *vtConfig) { c.device = d }
}
