// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vtex

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vtex/gputex"
)

// recordingTexture is a local gputex.Texture fake that remembers every
// UploadRegion call, since gputex.NullTexture discards pixel data and
// frameUpdate's behavior can only be verified by inspecting what was
// actually uploaded.
type recordingTexture struct {
	desc    gputex.TextureDescriptor
	uploads []recordedUpload
}

type recordedUpload struct {
	mipLevel    int
	x, y, w, h  uint32
	pixels      []byte
}

func (t *recordingTexture) Width() uint32                  { return t.desc.Width }
func (t *recordingTexture) Height() uint32                 { return t.desc.Height }
func (t *recordingTexture) Format() gputypes.TextureFormat { return t.desc.Format }
func (t *recordingTexture) CreateView() gputex.TextureView { return gputex.NullTextureView{} }
func (t *recordingTexture) Destroy()                       {}
func (t *recordingTexture) UploadRegion(mipLevel int, x, y, w, h uint32, pixels []byte) {
	t.uploads = append(t.uploads, recordedUpload{
		mipLevel: mipLevel, x: x, y: y, w: w, h: h,
		pixels: append([]byte(nil), pixels...),
	})
}

var _ gputex.Texture = (*recordingTexture)(nil)

// newTestVT builds a VirtualTexture by direct struct literal, bypassing
// NewVirtualTexture's provider/resolver registration (frameUpdate and
// purgeCache need none of it), with one recordingTexture per PageFile's
// PageTable and one behind the indirection table, so uploaded bytes can
// be inspected directly.
func newTestVT(t *testing.T, numFiles int) (*VirtualTexture, []*recordingTexture, *recordingTexture) {
	t.Helper()
	dims := testDims()
	files := make([]PageFile, numFiles)
	for i := range files {
		files[i] = testPageFile(dims, 8)
	}

	vt := &VirtualTexture{
		pageFiles: files,
		levelDims: dims,
		cache:     NewPageCacheMgr(NewCachePageTree(dims)),
	}

	textures := make([]*recordingTexture, numFiles)
	vt.pageTables = make([]*PageTable, numFiles)
	for i := range files {
		rt := &recordingTexture{}
		textures[i] = rt
		vt.pageTables[i] = NewPageTable(rt, CacheGridSize, 8)
	}

	var indirectionTex *recordingTexture
	vt.indirection = NewPageIndirectionTable(IndirectionRgba8888, dims, gputex.NullDeviceHandle{},
		func(_ gputex.DeviceHandle, desc gputex.TextureDescriptor) gputex.Texture {
			indirectionTex = &recordingTexture{desc: desc}
			return indirectionTex
		})

	return vt, textures, indirectionTex
}

func payloadBytes(n int, fill byte) *PagePayload {
	p := NewPagePayload(n)
	for i := range p.Data() {
		p.Data()[i] = fill
	}
	return p
}

// TestVirtualTextureFrameUpdateColdStart covers spec.md §8 scenario 1: a
// page looked up as Unavailable, then completed, is accommodated into a
// cache slot and uploaded to page table 0 (plus its mip-1 downsample).
func TestVirtualTextureFrameUpdateColdStart(t *testing.T) {
	vt, textures, _ := newTestVT(t, 1)

	id := MakePageId(1, 1, 0, 0)
	res, sanitized := vt.cache.lookupPage(id)
	if res != Unavailable {
		t.Fatalf("lookupPage = %v, want Unavailable", res)
	}

	packet := PageRequestDataPacket{
		PageId:              sanitized,
		FileIdWithinTexture: 0,
		Payload:             payloadBytes(8, 0x42),
	}
	vt.frameUpdate([]PageRequestDataPacket{packet}, false)

	if len(textures[0].uploads) != 2 {
		t.Fatalf("got %d uploads, want 2 (level 0 + level 1 downsample)", len(textures[0].uploads))
	}
	if textures[0].uploads[0].mipLevel != 0 {
		t.Errorf("first upload mip = %d, want 0", textures[0].uploads[0].mipLevel)
	}
	for _, b := range textures[0].uploads[0].pixels {
		if b != 0x42 {
			t.Fatalf("level-0 upload not verbatim payload bytes")
		}
	}

	res, _ = vt.cache.lookupPage(id)
	if res != Cached {
		t.Errorf("lookupPage after frameUpdate = %v, want Cached", res)
	}
}

// TestVirtualTextureFrameUpdateStaleCompletion covers spec.md §8 scenario
// 3: a completion packet whose page was never marked InFlight (e.g. the
// cache was purged in the meantime) must not be uploaded.
func TestVirtualTextureFrameUpdateStaleCompletion(t *testing.T) {
	vt, textures, _ := newTestVT(t, 1)

	id := MakePageId(2, 2, 0, 0)
	packet := PageRequestDataPacket{
		PageId:              id,
		FileIdWithinTexture: 0,
		Payload:             payloadBytes(8, 0x99),
	}
	vt.frameUpdate([]PageRequestDataPacket{packet}, false)

	if len(textures[0].uploads) != 0 {
		t.Fatalf("stale completion produced %d uploads, want 0", len(textures[0].uploads))
	}
	res, _ := vt.cache.lookupPage(id)
	if res != Unavailable {
		t.Errorf("lookupPage after dropped stale completion = %v, want Unavailable", res)
	}
}

// TestVirtualTextureFrameUpdateMultiSubtextureCoherence covers spec.md §8
// scenario 4: a diffuse/normal/specular (fileId 0..N) group of completion
// packets for the same PageId must land in the same accommodated coord
// across every sub-texture's PageTable.
func TestVirtualTextureFrameUpdateMultiSubtextureCoherence(t *testing.T) {
	vt, textures, _ := newTestVT(t, 3)

	id := MakePageId(4, 4, 0, 0)
	_, sanitized := vt.cache.lookupPage(id)

	queue := []PageRequestDataPacket{
		{PageId: sanitized, FileIdWithinTexture: 0, Payload: payloadBytes(8, 0x10)},
		{PageId: sanitized, FileIdWithinTexture: 1, Payload: payloadBytes(8, 0x20)},
		{PageId: sanitized, FileIdWithinTexture: 2, Payload: payloadBytes(8, 0x30)},
	}
	vt.frameUpdate(queue, false)

	for i, want := range []byte{0x10, 0x20, 0x30} {
		if len(textures[i].uploads) == 0 {
			t.Fatalf("file %d: no uploads", i)
		}
		for _, b := range textures[i].uploads[0].pixels {
			if b != want {
				t.Fatalf("file %d: level-0 pixel = 0x%x, want 0x%x", i, b, want)
			}
		}
	}

	coord0 := textures[0].uploads[0]
	for i := 1; i < 3; i++ {
		got := textures[i].uploads[0]
		if got.x != coord0.x || got.y != coord0.y {
			t.Errorf("file %d uploaded at (%d,%d), want same coord as file 0 (%d,%d)", i, got.x, got.y, coord0.x, coord0.y)
		}
	}
}

// TestVirtualTextureFrameUpdateUpdatesIndirection covers spec.md §8
// scenario 5: when updateIndirectionFlag is set, the indirection texture
// is rebuilt and re-uploaded after the completions are accommodated.
func TestVirtualTextureFrameUpdateUpdatesIndirection(t *testing.T) {
	vt, _, indirectionTex := newTestVT(t, 1)

	id := MakePageId(0, 0, 0, 0)
	_, sanitized := vt.cache.lookupPage(id)
	packet := PageRequestDataPacket{PageId: sanitized, FileIdWithinTexture: 0, Payload: payloadBytes(8, 0x11)}

	vt.frameUpdate([]PageRequestDataPacket{packet}, true)

	if len(indirectionTex.uploads) == 0 {
		t.Fatal("updateIndirectionFlag=true produced no indirection texture upload")
	}
}

func TestVirtualTexturePurgeCacheClearsResidency(t *testing.T) {
	vt, _, _ := newTestVT(t, 1)

	id := MakePageId(3, 3, 0, 0)
	_, sanitized := vt.cache.lookupPage(id)
	vt.frameUpdate([]PageRequestDataPacket{{PageId: sanitized, FileIdWithinTexture: 0, Payload: payloadBytes(8, 0x55)}}, false)

	if res, _ := vt.cache.lookupPage(id); res != Cached {
		t.Fatal("setup: page not cached before purge")
	}

	vt.purgeCache(false)

	if res, _ := vt.cache.lookupPage(id); res != Unavailable {
		t.Errorf("lookupPage after purgeCache = %v, want Unavailable", res)
	}
}
