// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resample

import "testing"

func TestByNameKnownFilters(t *testing.T) {
	names := []Named{Box, Tri, Quad, Cubic, BSpline, Mitchell, Lanczos, Sinc, Kaiser, ""}
	for _, n := range names {
		if _, err := ByName(n); err != nil {
			t.Errorf("ByName(%q): %v", n, err)
		}
	}
}

func TestByNameUnknownFilter(t *testing.T) {
	if _, err := ByName("not-a-filter"); err == nil {
		t.Error("expected error for unknown filter name")
	}
}

func TestKernelsPeakAtOrigin(t *testing.T) {
	kernels := map[Named]func() float64{
		Box:      func() float64 { return boxKernel.At(0) },
		Quad:     func() float64 { return quadKernel.At(0) },
		BSpline:  func() float64 { return bSplineKernel.At(0) },
		Mitchell: func() float64 { return mitchellKernel.At(0) },
		Lanczos:  func() float64 { return lanczosKernel.At(0) },
		Sinc:     func() float64 { return sincKernel.At(0) },
		Kaiser:   func() float64 { return kaiserKernel.At(0) },
	}
	for name, at := range kernels {
		if v := at(); v <= 0 {
			t.Errorf("%s kernel at t=0 = %v, want > 0", name, v)
		}
	}
}

func TestKernelsVanishBeyondSupport(t *testing.T) {
	kernels := []struct {
		name Named
		k    func(float64) float64
		sup  float64
	}{
		{Box, boxKernel.At, boxKernel.Support},
		{Quad, quadKernel.At, quadKernel.Support},
		{BSpline, bSplineKernel.At, bSplineKernel.Support},
		{Mitchell, mitchellKernel.At, mitchellKernel.Support},
		{Lanczos, lanczosKernel.At, lanczosKernel.Support},
		{Sinc, sincKernel.At, sincKernel.Support},
		{Kaiser, kaiserKernel.At, kaiserKernel.Support},
	}
	for _, tc := range kernels {
		if v := tc.k(tc.sup + 0.25); v != 0 {
			t.Errorf("%s kernel beyond support = %v, want 0", tc.name, v)
		}
	}
}

func TestSincAtZeroIsOne(t *testing.T) {
	if v := sinc(0); v != 1 {
		t.Errorf("sinc(0) = %v, want 1", v)
	}
}

func TestBesselI0AtZeroIsOne(t *testing.T) {
	if v := besselI0(0); v < 0.999 || v > 1.001 {
		t.Errorf("besselI0(0) = %v, want ~1", v)
	}
}
