// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package miniqr

import (
	"bufio"
	"io"
)

// Text renderers ignore s.Scale: every QR pixel is one character
// cell wide.

// maxTextSide is the maximum side of rendered text in QR pixels.
const maxTextSide = 1 << 11

// validText reports whether s can render a code of siz pixels on a
// side as text.
func (s Style) validText(siz int) bool {
	return s.Border >= 0 && s.Border <= maxTextSide &&
		siz+s.Border*2 <= maxTextSide
}

// styled reports whether the pixel at (x,y), which may be in the
// quiet zone, is rendered black in style s.
func (c *Code) styled(s Style, x, y int) bool {
	return c.Black(x, y) != s.Reverse
}

// EncodeUTF8 writes the code to w as text using Unicode block
// elements, two rows of pixels per line.
func (c *Code) EncodeUTF8(w io.Writer, s Style) error {
	if !s.validText(c.size) {
		return ErrArgs
	}
	b := bufio.NewWriter(w)
	blocks := [4]string{" ", "▄", "▀", "█"}
	bord := s.Border
	for y := -bord; y < c.size+bord; y += 2 {
		for x := -bord; x < c.size+bord; x++ {
			n := 0
			if c.styled(s, x, y) {
				n = 2
			}
			if y+1 < c.size+bord && c.styled(s, x, y+1) {
				n++
			}
			b.WriteString(blocks[n])
		}
		b.WriteByte('\n')
	}
	return b.Flush()
}

// EncodeASCII writes the code to w as text, two characters per
// pixel, "##" for black and spaces for white.
func (c *Code) EncodeASCII(w io.Writer, s Style) error {
	if !s.validText(c.size) {
		return ErrArgs
	}
	bord := s.Border
	pix := c.size + 2*bord
	b := make([]byte, (pix*2+1)*pix)
	i := 0
	for y := -bord; y < c.size+bord; y++ {
		for x := -bord; x < c.size+bord; x++ {
			var p byte = ' '
			if c.styled(s, x, y) {
				p = '#'
			}
			_ = b[i+1]
			b[i], b[i+1] = p, p
			i += 2
		}
		b[i] = '\n'
		i++
	}
	_, err := w.Write(b)
	return err
}
