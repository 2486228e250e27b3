// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vtex

import (
	"sync"
	"sync/atomic"
)

// DefaultMaxOutstandingPageRequests bounds in-flight page loads
// regardless of how many textures or files are registered (spec.md
// §4.5).
const DefaultMaxOutstandingPageRequests = 256

// PageProvider dispatches page loads and collects completions into a
// thread-safe FulfilledPageRequestQueue. It holds weak references to
// registered VirtualTextures in the sense that it does not own their
// lifetime (spec.md §4.5) — Go's GC means there is no dangling-pointer
// hazard to guard against, so registration is a plain slice of
// pointers, not a wrapped weak-reference type.
type PageProvider struct {
	maxOutstanding int64
	outstanding    atomic.Int64
	async          atomic.Bool
	executor       TaskExecutor

	dispatched atomic.Uint64
	completed  atomic.Uint64
	refused    atomic.Uint64

	mu    sync.Mutex
	ready []PageRequestDataPacket

	texturesMu sync.Mutex
	textures   []*VirtualTexture
}

// PageProviderStats snapshots the provider's lifetime counters: the
// PageProvider counterpart to PageCacheMgr.Stats(), since the provider's
// refuse-the-whole-request overload path (spec.md §4.5) is otherwise
// invisible outside the bool addPageRequest returns.
type PageProviderStats struct {
	Dispatched  uint64
	Completed   uint64
	Refused     uint64
	Outstanding int64
}

// Stats returns a snapshot of Dispatched/Completed/Refused/Outstanding.
func (p *PageProvider) Stats() PageProviderStats {
	return PageProviderStats{
		Dispatched:  p.dispatched.Load(),
		Completed:   p.completed.Load(),
		Refused:     p.refused.Load(),
		Outstanding: p.outstanding.Load(),
	}
}

// NewPageProvider returns a provider in async mode, dispatching through
// DefaultTaskExecutor, with its outstanding-request bound taken from
// globalConfig (DefaultMaxOutstandingPageRequests unless overridden by
// WithMaxOutstandingRequests at Init).
func NewPageProvider() *PageProvider {
	p := &PageProvider{
		maxOutstanding: int64(globalConfig.maxOutstandingRequests),
		executor:       DefaultTaskExecutor,
	}
	p.async.Store(true)
	return p
}

// SetMaxOutstanding overrides the default 256 bound; used by tests that
// exercise the overload path without 256 real requests.
func (p *PageProvider) SetMaxOutstanding(n int) { p.maxOutstanding = int64(n) }

// SetAsync switches the provider between async (background task per
// dispatch) and synchronous (inline on the calling goroutine) mode,
// mutable at runtime per spec.md §6.
func (p *PageProvider) SetAsync(async bool) { p.async.Store(async) }

// IsAsync reports the current dispatch mode.
func (p *PageProvider) IsAsync() bool { return p.async.Load() }

// Outstanding returns the current outstandingRequests counter.
func (p *PageProvider) Outstanding() int64 { return p.outstanding.Load() }

// register assigns vt a stable textureIndex and returns it.
func (p *PageProvider) register(vt *VirtualTexture) int {
	p.texturesMu.Lock()
	defer p.texturesMu.Unlock()
	idx := len(p.textures)
	p.textures = append(p.textures, vt)
	return idx
}

// addPageRequest dispatches one load per PageFile bound to id's texture.
// If dispatching would push outstandingRequests past maxOutstanding, it
// refuses the whole request (no partial dispatch) and returns false;
// the caller must then tell the cache to drop its InFlight marker
// (spec.md §4.5, §7 class 4).
func (p *PageProvider) addPageRequest(id PageId) bool {
	p.texturesMu.Lock()
	vt := p.textureFor(id.TextureIndex())
	p.texturesMu.Unlock()
	if vt == nil {
		return false
	}
	files := vt.pageFiles

	need := int64(len(files))
	if p.outstanding.Load()+need > p.maxOutstanding {
		p.refused.Add(1)
		return false
	}

	async := p.async.Load()
	for fileID, pf := range files {
		p.outstanding.Add(1)
		p.dispatched.Add(1)
		fileID := fileID
		pf := pf
		task := func() {
			packet := PageRequestDataPacket{
				PageId:              id,
				FileIdWithinTexture: fileID,
				Payload:             NewPagePayload(pf.PageSize()),
			}
			pf.LoadPage(id, &packet)
			p.outstanding.Add(-1)
			p.completed.Add(1)
			p.mu.Lock()
			p.ready = append(p.ready, packet)
			p.mu.Unlock()
		}
		if async {
			p.executor.Go(task)
		} else {
			task()
		}
	}
	return true
}

func (p *PageProvider) textureFor(index int) *VirtualTexture {
	if index < 0 || index >= len(p.textures) {
		return nil
	}
	return p.textures[index]
}

// getReadyQueue atomically swaps the internal ready queue with an empty
// one and returns the swapped-out contents, so workers may keep
// enqueuing completions while the main thread drains this frame's batch
// (spec.md §4.5).
func (p *PageProvider) getReadyQueue() []PageRequestDataPacket {
	p.mu.Lock()
	out := p.ready
	p.ready = nil
	p.mu.Unlock()
	return out
}
