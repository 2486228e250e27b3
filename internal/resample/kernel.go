// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package resample supplies the nine minification filters cmd/vtffbuild
// selects with --filter when building a mip chain from a source image.
// Two of them (tri, cubic) delegate straight to golang.org/x/image/draw's
// built-in kernels; the rest are hand-rolled draw.Kernel values using the
// same Support/At convolution shape, grounded on the teacher's own use of
// xdraw.CatmullRom.Scale in text/draw_emoji.go.
package resample

import (
	"fmt"
	"math"

	"golang.org/x/image/draw"
)

// Named is one of the nine --filter choices spec.md §6 lists.
type Named string

const (
	Box      Named = "box"
	Tri      Named = "tri"
	Quad     Named = "quad"
	Cubic    Named = "cubic"
	BSpline  Named = "bspline"
	Mitchell Named = "mitchell"
	Lanczos  Named = "lanczos"
	Sinc     Named = "sinc"
	Kaiser   Named = "kaiser"
)

// lanczosLobes is the support radius, in source-pixel lobes, used by
// both the Lanczos and plain Sinc kernels below.
const lanczosLobes = 3

// ByName resolves one of the nine filter names to a draw.Interpolator.
// Unknown names are an error (spec.md §6 treats bad flag values as a
// CLI diagnostic, not a silent fallback).
func ByName(name Named) (draw.Interpolator, error) {
	switch name {
	case Box, "":
		return &boxKernel, nil
	case Tri:
		return draw.ApproxBiLinear, nil
	case Quad:
		return &quadKernel, nil
	case Cubic:
		return draw.CatmullRom, nil
	case BSpline:
		return &bSplineKernel, nil
	case Mitchell:
		return &mitchellKernel, nil
	case Lanczos:
		return &lanczosKernel, nil
	case Sinc:
		return &sincKernel, nil
	case Kaiser:
		return &kaiserKernel, nil
	default:
		return &draw.Kernel{}, fmt.Errorf("resample: unknown filter %q", name)
	}
}

// KernelOf returns the underlying draw.Kernel for names whose weights are
// worth caching by Scale (everything but Tri/Cubic, which scale through
// x/image/draw's own ApproxBiLinear/CatmullRom and own their own weight
// computation). ok is false for Tri, Cubic, and unknown names.
func KernelOf(name Named) (draw.Kernel, bool) {
	switch name {
	case Box, "":
		return boxKernel, true
	case Quad:
		return quadKernel, true
	case BSpline:
		return bSplineKernel, true
	case Mitchell:
		return mitchellKernel, true
	case Lanczos:
		return lanczosKernel, true
	case Sinc:
		return sincKernel, true
	case Kaiser:
		return kaiserKernel, true
	default:
		return draw.Kernel{}, false
	}
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// boxKernel is a 1-pixel-wide flat average, the simplest minification
// filter and the CLI's default.
var boxKernel = draw.Kernel{
	Support: 0.5,
	At: func(t float64) float64 {
		if t < 0 {
			t = -t
		}
		if t <= 0.5 {
			return 1
		}
		return 0
	},
}

// quadKernel is the quadratic (order-2) uniform B-spline.
var quadKernel = draw.Kernel{
	Support: 1.5,
	At: func(t float64) float64 {
		if t < 0 {
			t = -t
		}
		switch {
		case t < 0.5:
			return 0.75 - t*t
		case t < 1.5:
			d := 1.5 - t
			return 0.5 * d * d
		default:
			return 0
		}
	},
}

// bSplineKernel is the cubic (order-3) uniform B-spline, maximally smooth
// at the cost of more blur than Cubic/CatmullRom.
var bSplineKernel = draw.Kernel{
	Support: 2,
	At: func(t float64) float64 {
		if t < 0 {
			t = -t
		}
		switch {
		case t < 1:
			return (4 + t*t*(3*t-6)) / 6
		case t < 2:
			d := 2 - t
			return d * d * d / 6
		default:
			return 0
		}
	},
}

// mitchellKernel is the Mitchell-Netravali filter with the canonical
// B=1/3, C=1/3 parameterization, a common middle ground between
// ringing (Catmull-Rom) and blur (B-spline).
var mitchellKernel = draw.Kernel{
	Support: 2,
	At:      mitchellNetravali(1.0/3, 1.0/3),
}

func mitchellNetravali(b, c float64) func(float64) float64 {
	p0 := (6 - 2*b) / 6
	p2 := (-18 + 12*b + 6*c) / 6
	p3 := (12 - 9*b - 6*c) / 6
	q0 := (8*b + 24*c) / 6
	q1 := (-12*b - 48*c) / 6
	q2 := (6*b + 30*c) / 6
	q3 := (-b - 6*c) / 6
	return func(t float64) float64 {
		if t < 0 {
			t = -t
		}
		switch {
		case t < 1:
			return p0 + t*t*(p2+t*p3)
		case t < 2:
			return q0 + t*(q1+t*(q2+t*q3))
		default:
			return 0
		}
	}
}

// lanczosKernel is a 3-lobe Lanczos-windowed sinc: sharper than Cubic,
// with mild ringing at high-contrast edges.
var lanczosKernel = draw.Kernel{
	Support: lanczosLobes,
	At: func(t float64) float64 {
		if t < 0 {
			t = -t
		}
		if t >= lanczosLobes {
			return 0
		}
		return sinc(t) * sinc(t/lanczosLobes)
	},
}

// sincKernel is the unwindowed sinc, truncated at the same support as
// lanczosKernel for a fair ringing-vs-sharpness comparison between the
// two in the CLI's --filter list.
var sincKernel = draw.Kernel{
	Support: lanczosLobes,
	At: func(t float64) float64 {
		if t < 0 {
			t = -t
		}
		if t >= lanczosLobes {
			return 0
		}
		return sinc(t)
	},
}

// kaiserBeta is the Kaiser window's shape parameter; higher values
// suppress sidelobes further at the cost of a wider transition band.
const kaiserBeta = 6.0

// kaiserKernel is a Kaiser-windowed sinc, an alternative to Lanczos's
// cosine-lobe window with a more tunable stopband.
var kaiserKernel = draw.Kernel{
	Support: lanczosLobes,
	At: func(t float64) float64 {
		if t < 0 {
			t = -t
		}
		if t >= lanczosLobes {
			return 0
		}
		x := t / lanczosLobes
		window := besselI0(kaiserBeta*math.Sqrt(1-x*x)) / besselI0(kaiserBeta)
		return sinc(t) * window
	},
}

// besselI0 is the zeroth-order modified Bessel function of the first
// kind, evaluated by its power series; used only to build the Kaiser
// window above, where a handful of terms gives ample precision for an
// image filter (no caller needs more than float32-grade accuracy).
func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0
	halfX := x / 2
	for k := 1; k < 25; k++ {
		term *= (halfX / float64(k)) * (halfX / float64(k))
		sum += term
		if term < 1e-16*sum {
			break
		}
	}
	return sum
}
