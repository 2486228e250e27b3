// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vtex

import (
	"sort"

	"github.com/gogpu/vtex/gputex"
)

// DefaultFeedbackWidth and DefaultFeedbackHeight size the offscreen
// page-id feedback attachment (spec.md §4.6).
const (
	DefaultFeedbackWidth  = 256
	DefaultFeedbackHeight = 128
)

// feedbackEntry is one unique page id seen in a frame's feedback buffer
// plus how many pixels requested it, used only for the sort in
// analyzeFeedback.
type feedbackEntry struct {
	id    PageId
	count int
}

// PageResolver is the per-frame pipeline tying the renderer to the
// provider: it owns the feedback-pass render target, runs feedback-
// buffer analysis, and fans sorted requests out to each texture's cache
// and the provider (spec.md §4.6).
type PageResolver struct {
	feedback gputex.RenderTarget

	maxNewRequestsPerFrame int
	provider               *PageProvider

	textures []*VirtualTexture

	prevTarget gputex.RenderTarget

	visiblePages            int
	maxPageRequestsPerFrame int

	framesSinceOverload int
}

// maxOverloadBias bounds OverloadBias's decay: a frame immediately after
// an overload reports bias 0, then it climbs back to maxOverloadBias over
// that many frames of headroom.
const maxOverloadBias = 60

// NewPageResolver allocates a resolver with a feedback attachment of
// the given size (spec.md default 256x128) and a per-frame new-request
// bound equal to the feedback buffer's pixel count by default.
func NewPageResolver(provider *PageProvider, width, height int) *PageResolver {
	if width <= 0 {
		width = DefaultFeedbackWidth
	}
	if height <= 0 {
		height = DefaultFeedbackHeight
	}
	return &PageResolver{
		feedback:               gputex.NewPixmapTarget(width, height),
		maxNewRequestsPerFrame: width * height,
		provider:                provider,
	}
}

// Feedback returns the offscreen feedback render target, so a host
// renderer can bind it as the destination of the page-id pass.
func (r *PageResolver) Feedback() gputex.RenderTarget { return r.feedback }

// VisiblePages and MaxPageRequestsPerFrame expose the last frame's
// diagnostics, per spec.md §4.6.
func (r *PageResolver) VisiblePages() int            { return r.visiblePages }
func (r *PageResolver) MaxPageRequestsPerFrame() int { return r.maxPageRequestsPerFrame }

// OverloadBias reports a decaying hint, 0..maxOverloadBias, derived from
// how recently analyzeFeedback had to clamp maxPageRequestsPerFrame to
// CachePoolSize: 0 the frame an overload is detected, climbing back to
// maxOverloadBias over the following maxOverloadBias frames once the
// feedback buffer's visible-page count drops back below CachePoolSize.
// spec.md §9 calls a mipmap sample bias "advisory and not required"; vtex
// tracks it anyway so an embedding renderer may wire it to a shader
// uniform that biases sampling toward coarser, already-resident mips
// while the cache is under pressure.
func (r *PageResolver) OverloadBias() int {
	if r.framesSinceOverload > maxOverloadBias {
		return maxOverloadBias
	}
	return r.framesSinceOverload
}

// register adds vt to the resolver's registered-texture list at the
// given stable textureIndex, growing the slice as needed. VirtualTexture
// construction calls this with the same index PageProvider.register
// returned, so both lists agree.
func (r *PageResolver) register(vt *VirtualTexture, textureIndex int) {
	for len(r.textures) <= textureIndex {
		r.textures = append(r.textures, nil)
	}
	r.textures[textureIndex] = vt
}

// beginPageIdPass is a placeholder hand-off point: a real renderer binds
// r.Feedback() as its render target and issues the page-id draw calls.
// This package never performs that draw itself (spec.md §1's rendering
// layer is an external collaborator); beginPageIdPass exists so host
// code has a single, named point to wrap with a renderer's own
// save/restore of the active render target.
func (r *PageResolver) beginPageIdPass(prev gputex.RenderTarget) {
	r.prevTarget = prev
}

// endPageIdPass reads back the feedback surface and runs feedback-
// buffer analysis, then returns the previously active render target so
// the caller can restore it.
func (r *PageResolver) endPageIdPass() gputex.RenderTarget {
	r.analyzeFeedback()
	prev := r.prevTarget
	r.prevTarget = nil
	return prev
}

// analyzeFeedback implements spec.md §4.6's feedback-buffer analysis:
// reset every registered texture's per-frame cache counters, build a
// frequency map (skipping the sentinel), sort by mipLevel descending then
// frequency descending, compute the overload-adjusted per-frame cap, then
// route up to that many ids through their texture's cache and the
// provider.
func (r *PageResolver) analyzeFeedback() {
	for _, vt := range r.textures {
		if vt == nil {
			continue
		}
		vt.cache.ResetFrameStats()
	}

	pixels := r.feedback.Pixels()
	stride := r.feedback.Stride()
	width, height := r.feedback.Width(), r.feedback.Height()

	freq := make(map[PageId]int)
	for y := 0; y < height; y++ {
		row := pixels[y*stride:]
		for x := 0; x < width; x++ {
			i := x * 4
			if i+3 >= len(row) {
				break
			}
			id := PageId(uint32(row[i]) | uint32(row[i+1])<<8 | uint32(row[i+2])<<16 | uint32(row[i+3])<<24)
			if id.IsNone() {
				continue
			}
			freq[id]++
		}
	}

	entries := make([]feedbackEntry, 0, len(freq))
	for id, count := range freq {
		entries = append(entries, feedbackEntry{id: id, count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].id.MipLevel() != entries[j].id.MipLevel() {
			return entries[i].id.MipLevel() > entries[j].id.MipLevel()
		}
		return entries[i].count > entries[j].count
	})

	r.visiblePages = len(entries)
	r.maxPageRequestsPerFrame = r.maxNewRequestsPerFrame
	if r.visiblePages >= CachePoolSize {
		r.maxPageRequestsPerFrame = CachePoolSize
		r.framesSinceOverload = 0
	} else if r.framesSinceOverload < maxOverloadBias {
		r.framesSinceOverload++
	}

	limit := r.maxPageRequestsPerFrame
	if limit > len(entries) {
		limit = len(entries)
	}
	for _, e := range entries[:limit] {
		r.resolveOne(e.id)
	}
}

// resolveOne routes id through its texture's cache and, on
// Unavailable, attempts to dispatch a load. If the provider refuses,
// the cache's InFlight marker is cleared so the page can be retried
// later (spec.md §4.6 step 4, §7 class 4).
func (r *PageResolver) resolveOne(id PageId) {
	vt := r.textureFor(id.TextureIndex())
	if vt == nil {
		return
	}
	result, sanitized := vt.cache.lookupPage(id)
	if result != Unavailable {
		return
	}
	if !r.provider.addPageRequest(sanitized) {
		vt.cache.notifyDroppedRequest(sanitized)
	}
}

func (r *PageResolver) textureFor(index int) *VirtualTexture {
	if index < 0 || index >= len(r.textures) {
		return nil
	}
	return r.textures[index]
}

// addDefaultRequests requests the coarsest mip of every registered
// texture, keeping the guaranteed low-resolution fallback always
// resident. Call this once at registration time, per spec.md §9's
// documented limitation that it is not re-run every frame.
func (r *PageResolver) addDefaultRequests() {
	for _, vt := range r.textures {
		if vt == nil {
			continue
		}
		coarsest := vt.cache.tree.NumLevels() - 1
		id := MakePageId(0, 0, coarsest, vt.textureIndex)
		result, sanitized := vt.cache.lookupPage(id)
		if result != Unavailable {
			continue
		}
		if !r.provider.addPageRequest(sanitized) {
			vt.cache.notifyDroppedRequest(sanitized)
		}
	}
}
