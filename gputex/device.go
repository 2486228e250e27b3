// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gputex is the seam between the virtual-texturing core and an
// actual GPU context. The core never creates or owns a device: it
// receives one through DeviceHandle and uploads page tables and
// indirection textures through the Texture/TextureView it returns. This
// keeps "texture upload primitives" an external collaborator, as
// spec.md §1 requires, while still giving VirtualTexture and
// PageIndirectionTable a concrete, testable upload path (NullDeviceHandle
// for CPU-only tests).
package gputex

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle is an alias for gpucontext.DeviceProvider. The host
// application passes its existing GPU device to vtex.NewVirtualTexture
// through a DeviceHandle instead of vtex opening one itself.
type DeviceHandle = gpucontext.DeviceProvider

// TextureDescriptor describes a page table or indirection texture to
// create. Page tables are always RGBA8Unorm, 2 mip levels, sized
// CacheGridSize*pageSize per side; each indirection texture holds one
// mip level, is sized to that level's virtual page grid, and is
// RGBA8Unorm whichever IndirectionFormat the library is configured with.
type TextureDescriptor struct {
	Label         string
	Width         uint32
	Height        uint32
	MipLevelCount uint32
	Format        gputypes.TextureFormat
	Usage         TextureUsage
}

// TextureUsage specifies how a texture may be used; flags combine with
// bitwise OR.
type TextureUsage uint32

const (
	TextureUsageCopySrc TextureUsage = 1 << iota
	TextureUsageCopyDst
	TextureUsageTextureBinding
	TextureUsageStorageBinding
	TextureUsageRenderAttachment
)

// Texture is a GPU texture resource: a page table or an indirection
// table.
type Texture interface {
	Width() uint32
	Height() uint32
	Format() gputypes.TextureFormat
	CreateView() TextureView
	// UploadRegion writes pixels (tightly packed, bytesPerPixel*width*height
	// bytes) into the texture at (x, y, mipLevel). vtex calls this once
	// per accommodated page (level 0) and once per box-filtered downsample
	// (level 1), and once per full-table rebuild for indirection textures.
	UploadRegion(mipLevel int, x, y, width, height uint32, pixels []byte)
	Destroy()
}

// TextureView is a view into a Texture, bound to shader stages by the
// host renderer.
type TextureView interface {
	Destroy()
}

// DefaultPageTableDescriptor describes the physical page-table texture:
// RGBA8, 2 mip levels, sized to hold CacheGridSize x CacheGridSize pages
// of pageSize pixels each (spec.md §3, a 2048x2048 surface at the
// library defaults).
func DefaultPageTableDescriptor(sideInPages, pageSize int) TextureDescriptor {
	side := uint32(sideInPages * pageSize)
	return TextureDescriptor{
		Width:         side,
		Height:        side,
		MipLevelCount: 2,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         TextureUsageTextureBinding | TextureUsageCopyDst,
	}
}

// DefaultIndirectionTableDescriptor describes one mip level's
// indirection texture, widthPages x heightPages in the given GPU format
// (vtex passes RGBA8Unorm for both indirection packings).
func DefaultIndirectionTableDescriptor(widthPages, heightPages int, format gputypes.TextureFormat) TextureDescriptor {
	return TextureDescriptor{
		Width:         uint32(widthPages),
		Height:        uint32(heightPages),
		MipLevelCount: 1,
		Format:        format,
		Usage:         TextureUsageTextureBinding | TextureUsageCopyDst,
	}
}

// NullDeviceHandle provides nil GPU resources. vtex uses it when no
// renderer is attached (headless soak tests, the offline builder's
// diagnostics) so PageTable/PageIndirectionTable can still run their
// CPU-side bookkeeping without a real GPU context.
type NullDeviceHandle struct{}

func (NullDeviceHandle) Device() gpucontext.Device   { return nil }
func (NullDeviceHandle) Queue() gpucontext.Queue     { return nil }
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

var _ DeviceHandle = NullDeviceHandle{}

// NullTexture discards every upload; CreateView returns a NullTextureView.
type NullTexture struct {
	desc TextureDescriptor
}

func NewNullTexture(desc TextureDescriptor) *NullTexture { return &NullTexture{desc: desc} }

func (t *NullTexture) Width() uint32                     { return t.desc.Width }
func (t *NullTexture) Height() uint32                    { return t.desc.Height }
func (t *NullTexture) Format() gputypes.TextureFormat    { return t.desc.Format }
func (t *NullTexture) CreateView() TextureView           { return NullTextureView{} }
func (t *NullTexture) Destroy()                          {}
func (t *NullTexture) UploadRegion(int, uint32, uint32, uint32, uint32, []byte) {}

// NullTextureView is a no-op TextureView.
type NullTextureView struct{}

func (NullTextureView) Destroy() {}

var (
	_ Texture     = (*NullTexture)(nil)
	_ TextureView = NullTextureView{}
)
