// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package miniqr

import (
	"image"
	"image/color"
)

// A Style describes how a Code is rendered.
type Style struct {
	Scale   int  // number of image pixels per QR pixel
	Border  int  // width of the quiet zone in QR pixels
	Reverse bool // swap black and white
}

// DefaultStyle renders 8 image pixels per QR pixel with the standard
// quiet zone of 4 pixels.
var DefaultStyle = Style{Scale: 8, Border: 4}

// maxSide is the maximum side of a rendered image in pixels.
const maxSide = 1 << 16

// valid reports whether s can render a code of siz pixels on a side.
func (s Style) valid(siz int) bool {
	return s.Scale >= 1 && s.Border >= 0 && s.Border <= maxSide &&
		s.Scale <= maxSide/(siz+s.Border*2)
}

// side returns the number of image pixels on a side.
func (s Style) side(siz int) int {
	return (siz + s.Border*2) * s.Scale
}

// Image returns an Image displaying the code in style s,
// quiet zone included, or ErrArgs if s is invalid.
func (c *Code) Image(s Style) (image.Image, error) {
	if !s.valid(c.size) {
		return nil, ErrArgs
	}
	return &codeImage{c, s}, nil
}

// codeImage implements image.Image
type codeImage struct {
	*Code
	s Style
}

var (
	whiteColor color.Color = color.Gray{0xFF}
	blackColor color.Color = color.Gray{0x00}
)

func (c *codeImage) Bounds() image.Rectangle {
	d := c.s.side(c.size)
	return image.Rect(0, 0, d, d)
}

func (c *codeImage) At(x, y int) color.Color {
	if c.black(x, y) {
		return blackColor
	}
	return whiteColor
}

// black reports whether the image pixel at (x,y) is black.
func (c *codeImage) black(x, y int) bool {
	if x < 0 || y < 0 {
		return c.s.Reverse
	}
	return c.Black(x/c.s.Scale-c.s.Border, y/c.s.Scale-c.s.Border) !=
		c.s.Reverse
}

func (c *codeImage) ColorModel() color.Model {
	return color.GrayModel
}
