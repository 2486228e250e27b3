// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resample

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/vtex/internal/cache"
)

// weightKey identifies one axis's resampling weight table: a kernel name
// resizing a source run of length srcLen to a destination run of dstLen.
// cmd/vtffbuild builds a full mip chain by halving the same page-grid
// dimensions over and over, so the same (name, srcLen, dstLen) triple
// recurs across mip levels and across the X/Y axes of square textures.
type weightKey struct {
	name           Named
	srcLen, dstLen int
}

// axisWeight is one destination sample's convolution: coeffs[i] is the
// normalized weight of source index left+i.
type axisWeight struct {
	left   int
	coeffs []float64
}

// weightCache memoizes computeWeights results across an entire vtffbuild
// run. 256 entries comfortably covers every (filter, axis-length) pair a
// single mip chain can produce.
var weightCache = cache.New[weightKey, []axisWeight](256)

func weightsFor(name Named, k draw.Kernel, srcLen, dstLen int) []axisWeight {
	return weightCache.GetOrCreate(weightKey{name, srcLen, dstLen}, func() []axisWeight {
		return computeWeights(k, srcLen, dstLen)
	})
}

// computeWeights builds one destination-indexed weight table for a 1-D
// separable resize from srcLen to dstLen using k's support and At
// function, normalizing each row so its coefficients sum to 1.
func computeWeights(k draw.Kernel, srcLen, dstLen int) []axisWeight {
	scale := float64(srcLen) / float64(dstLen)
	out := make([]axisWeight, dstLen)
	for i := range out {
		center := (float64(i)+0.5)*scale - 0.5
		left := int(math.Floor(center - k.Support))
		right := int(math.Ceil(center + k.Support))
		if left < 0 {
			left = 0
		}
		if right > srcLen-1 {
			right = srcLen - 1
		}
		if right < left {
			right = left
		}

		coeffs := make([]float64, right-left+1)
		sum := 0.0
		for j := left; j <= right; j++ {
			w := k.At(center - float64(j))
			coeffs[j-left] = w
			sum += w
		}
		if sum != 0 {
			for idx := range coeffs {
				coeffs[idx] /= sum
			}
		}
		out[i] = axisWeight{left: left, coeffs: coeffs}
	}
	return out
}

// Scale resizes src into dst with name's cached weight tables, doing the
// horizontal and vertical convolution passes separably. It is the
// cache-backed counterpart to calling k.Scale directly (what ByName's
// draw.Interpolator result does for Tri/Cubic); callers pick between the
// two via KernelOf's ok return.
func Scale(dst *image.RGBA, name Named, k draw.Kernel, src image.Image) {
	sb := src.Bounds()
	db := dst.Bounds()
	srcW, srcH := sb.Dx(), sb.Dy()
	dstW, dstH := db.Dx(), db.Dy()
	if srcW == 0 || srcH == 0 || dstW == 0 || dstH == 0 {
		return
	}

	wx := weightsFor(name, k, srcW, dstW)
	wy := weightsFor(name, k, srcH, dstH)

	type pix struct{ r, g, b, a float64 }
	at := func(x, y int) pix {
		r, g, b, a := src.At(sb.Min.X+x, sb.Min.Y+y).RGBA()
		return pix{float64(r >> 8), float64(g >> 8), float64(b >> 8), float64(a >> 8)}
	}

	// Horizontal pass: srcH rows, each resampled from srcW to dstW columns.
	mid := make([]pix, dstW*srcH)
	for y := 0; y < srcH; y++ {
		for x := 0; x < dstW; x++ {
			w := wx[x]
			var p pix
			for j, c := range w.coeffs {
				s := at(w.left+j, y)
				p.r += s.r * c
				p.g += s.g * c
				p.b += s.b * c
				p.a += s.a * c
			}
			mid[y*dstW+x] = p
		}
	}

	// Vertical pass: dstW columns, each resampled from srcH to dstH rows.
	for y := 0; y < dstH; y++ {
		w := wy[y]
		for x := 0; x < dstW; x++ {
			var p pix
			for j, c := range w.coeffs {
				s := mid[(w.left+j)*dstW+x]
				p.r += s.r * c
				p.g += s.g * c
				p.b += s.b * c
				p.a += s.a * c
			}
			dst.SetRGBA(db.Min.X+x, db.Min.Y+y, color.RGBA{
				R: clamp8(p.r), G: clamp8(p.g), B: clamp8(p.b), A: clamp8(p.a),
			})
		}
	}
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
