// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vtex

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// pagePayloadImage adapts a *PagePayload to draw.Image so the
// golang.org/x/image/font drawer can render straight into page pixels,
// without a round trip through *image.RGBA. This is the replacement for
// the teacher's text-shaping stack (go-text/typesetting) in the one
// place this domain draws text at all: an ASCII (level,x,y) debug label.
type pagePayloadImage struct {
	p *PagePayload
}

func (im pagePayloadImage) ColorModel() color.Model { return color.RGBAModel }

func (im pagePayloadImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, im.p.PageSize(), im.p.PageSize())
}

func (im pagePayloadImage) At(x, y int) color.Color {
	r, g, b, a := im.p.GetPixel(x, y)
	return color.RGBA{R: r, G: g, B: b, A: a}
}

func (im pagePayloadImage) Set(x, y int, c color.Color) {
	r, g, b, a := color.RGBAModel.Convert(c).(color.RGBA).R,
		color.RGBAModel.Convert(c).(color.RGBA).G,
		color.RGBAModel.Convert(c).(color.RGBA).B,
		color.RGBAModel.Convert(c).(color.RGBA).A
	im.p.SetPixel(x, y, r, g, b, a)
}

// drawCoordLabel writes "L<level> <x>,<y>" into payload's content area
// starting just inside border, using the 7x13 bitmap font so the label
// is legible at page resolution without shipping a shaping engine.
func drawCoordLabel(payload *PagePayload, border, x, y, level int) {
	label := fmt.Sprintf("L%d %d,%d", level, x, y)
	d := font.Drawer{
		Dst:  pagePayloadImage{p: payload},
		Src:  image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: basicfont.Face7x13,
		Dot: fixed.Point26_6{
			X: fixed.I(border + 1),
			Y: fixed.I(border + 12),
		},
	}
	d.DrawString(label)
}
