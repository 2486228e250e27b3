// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command vtffbuild is the offline mip/tile builder: it reads a source
// image and writes a VTFF file the vtex runtime can stream pages from
// (spec.md §6). It is the one piece of tooling spec.md specifies at the
// file-format boundary only; everything about decoding arbitrary source
// image formats and resampling filters lives here, not in the runtime
// package.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/gogpu/vtex"
	"github.com/gogpu/vtex/internal/resample"
)

// flexBool is a flag.Value accepting the boolean spellings spec.md §6's
// CLI flags use: "true|yes|1|\"\"" for true, "false|no|0" for false.
// A bare "--verbose" (no "=value") works because IsBoolFlag makes the
// flag package call Set("true"); an explicit "--verbose=" passes the
// empty string, which also means true.
type flexBool bool

func (b *flexBool) String() string {
	if *b {
		return "true"
	}
	return "false"
}

func (b *flexBool) Set(s string) error {
	switch s {
	case "true", "yes", "1", "":
		*b = true
	case "false", "no", "0":
		*b = false
	default:
		return fmt.Errorf("invalid boolean value %q", s)
	}
	return nil
}

func (b *flexBool) IsBoolFlag() bool { return true }

func main() {
	var (
		filterName  = flag.String("filter", string(resample.Box), "resampling filter: box, tri, quad, cubic, bspline, mitchell, lanczos, sinc, kaiser")
		pageSize    = flag.Int("page_size", vtex.DefaultPageSize, "page side length in pixels, including border")
		contentSize = flag.Int("content_size", vtex.DefaultPageContentSize, "page content side length in pixels, excluding border")
		borderSize  = flag.Int("border_size", vtex.DefaultBorderSize, "page border width in pixels")
		maxLevels   = flag.Int("max_levels", 16, "maximum number of mip levels to generate")

		flipVSrc     flexBool
		flipVTiles   flexBool
		stopOn1Mip   flexBool
		addDebugInfo flexBool
		dumpImages   flexBool
		verbose      flexBool
	)
	flag.Var(&flipVSrc, "flip_v_src", "flip the source image vertically before building the mip chain")
	flag.Var(&flipVTiles, "flip_v_tiles", "flip each tiled page vertically before writing")
	flag.Var(&stopOn1Mip, "stop_on_1_mip", "stop generating mips once either axis reaches 1 page, instead of continuing until both do")
	flag.Var(&addDebugInfo, "add_debug_info", "stamp a (level,x,y) label and border onto every page")
	flag.Var(&dumpImages, "dump_images", "also write each mip level's full-resolution canvas as a PNG next to the output file")
	flag.Var(&verbose, "verbose", "log progress for each mip level as it is built")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: vtffbuild [flags] <inputImage> <outputVTFF>\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	if *contentSize != *pageSize-2*(*borderSize) {
		fmt.Fprintf(os.Stderr, "vtffbuild: --content_size (%d) must equal --page_size (%d) - 2*--border_size (%d)\n", *contentSize, *pageSize, *borderSize)
		os.Exit(1)
	}
	if *maxLevels < 1 || *maxLevels > 16 {
		fmt.Fprintf(os.Stderr, "vtffbuild: --max_levels must be in [1, 16], got %d\n", *maxLevels)
		os.Exit(1)
	}

	cfg := Config{
		InputPath:    flag.Arg(0),
		OutputPath:   flag.Arg(1),
		Filter:       resample.Named(*filterName),
		PageSize:     *pageSize,
		ContentSize:  *contentSize,
		BorderSize:   *borderSize,
		MaxLevels:    *maxLevels,
		FlipVSrc:     bool(flipVSrc),
		FlipVTiles:   bool(flipVTiles),
		StopOn1Mip:   bool(stopOn1Mip),
		AddDebugInfo: bool(addDebugInfo),
		DumpImages:   bool(dumpImages),
		Verbose:      bool(verbose),
	}

	if cfg.Verbose {
		vtex.Logger().Info("building VTFF", "input", cfg.InputPath, "output", cfg.OutputPath, "filter", cfg.Filter)
	}

	if err := Run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "vtffbuild: %v\n", err)
		os.Exit(1)
	}
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}
