// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package miniqr

import (
	"bufio"
	"io"
	"strconv"
)

// EncodePBM writes a Portable Bit Map image displaying the code in
// style s to w, for use with netpbm.
func (c *Code) EncodePBM(w io.Writer, s Style) error {
	if !s.valid(c.size) {
		return ErrArgs
	}
	b := bufio.NewWriter(w)
	siz, scale, bord := c.size, s.Scale, s.Border
	length := s.side(siz)
	ls := strconv.Itoa(length)
	if _, err := b.WriteString("P4\n" + ls + " " + ls + "\n"); err != nil {
		return err
	}
	// In PBM 1 is black.
	row := make([]byte, (length+7)/8)
	var quiet byte
	if s.Reverse {
		quiet = 0xff
	}
	fill := func() {
		for i := range row {
			row[i] = quiet
		}
		if n := length & 7; n != 0 {
			row[len(row)-1] &= ^byte(0) << (8 - n)
		}
	}
	fill()
	for i := 0; i < scale*bord; i++ {
		if _, err := b.Write(row); err != nil {
			return err
		}
	}
	for y := 0; y < siz; y++ {
		pbmRow(row, c, y, scale, scale*bord, s.Reverse)
		for i := 0; i < scale; i++ {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
	}
	if bord != 0 {
		fill()
		for i := 0; i < scale*bord; i++ {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
	}
	return b.Flush()
}

// pbmRow sets the image pixels of QR row y in row, scaled, starting
// at image pixel x0.  Pixels outside the code are left untouched.
func pbmRow(row []byte, c *Code, y, scale, x0 int, rev bool) {
	x := x0
	for qx := 0; qx < c.size; qx++ {
		black := c.Black(qx, y) != rev
		for i := 0; i < scale; i++ {
			bit := byte(0x80) >> uint(x&7)
			if black {
				row[x>>3] |= bit
			} else {
				row[x>>3] &^= bit
			}
			x++
		}
	}
}
