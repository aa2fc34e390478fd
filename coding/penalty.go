// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Penalty points.
const (
	MinRun  = 5  // N1: minimum run length
	RunPP   = 3  // N1: points for a run of MinRun pixels
	BoxPP   = 3  // N2: points per 2x2 box
	FindPP  = 40 // N3: points per finder-like pattern
	BalPP   = 10 // N4: points per 5% deviation from 50% black
	findLen = 11

	// finder-like patterns, 11 pixels, most significant pixel first
	findA = 0b1011101_0000 // light pixels after
	findB = 0b0000_1011101 // light pixels before
)

// Penalty returns the total penalty value for c.
// The value is used for choosing the mask.
//
//   - N1: for each row or column run of n >= 5 pixels of the same
//     colour -> n-2
//   - N2: for each, possibly overlapping, 2x2 box of the same
//     colour -> 3
//   - N3: for each row or column window of 11 pixels matching
//     10111010000 or 00001011101 -> 40
//   - N4: for every full 5% the black pixels deviate from 50% -> 10
func (c *Code) Penalty() int {
	return N1(c) + N2(c) + N3(c) + N4(c)
}

// line calls f for each pixel of row or column i of c, in order.
// A row is scanned if vertical is false, a column otherwise.
func (c *Code) line(i int, vertical bool, f func(black bool)) {
	for j := 0; j < c.Size; j++ {
		if vertical {
			f(c.Black(i, j))
		} else {
			f(c.Black(j, i))
		}
	}
}

// N1 returns the penalty for runs of same-colour pixels in rows and
// columns of c.
func N1(c *Code) int {
	p := 0
	for _, vertical := range []bool{false, true} {
		for i := 0; i < c.Size; i++ {
			r, last := 0, false
			c.line(i, vertical, func(black bool) {
				if r > 0 && black == last {
					r++
					return
				}
				if r >= MinRun {
					p += RunPP + r - MinRun
				}
				r, last = 1, black
			})
			if r >= MinRun {
				p += RunPP + r - MinRun
			}
		}
	}
	return p
}

// N2 returns the penalty for 2x2 boxes of same-colour pixels in c.
func N2(c *Code) int {
	p := 0
	for y := 0; y < c.Size-1; y++ {
		for x := 0; x < c.Size-1; x++ {
			b := c.Black(x, y)
			if c.Black(x+1, y) == b && c.Black(x, y+1) == b &&
				c.Black(x+1, y+1) == b {
				p += BoxPP
			}
		}
	}
	return p
}

// N3 returns the penalty for finder-like patterns in rows and
// columns of c.  Only windows lying entirely within c are counted.
func N3(c *Code) int {
	p := 0
	for _, vertical := range []bool{false, true} {
		for i := 0; i < c.Size; i++ {
			var pat uint16
			n := 0
			c.line(i, vertical, func(black bool) {
				pat = (pat << 1) & (1<<findLen - 1)
				if black {
					pat |= 1
				}
				if n++; n >= findLen && (pat == findA || pat == findB) {
					p += FindPP
				}
			})
		}
	}
	return p
}

// N4 returns the penalty for the imbalance of black and white
// pixels in c.
func N4(c *Code) int {
	dark := 0
	for _, b := range c.Bitmap {
		for ; b != 0; b &= b - 1 {
			dark++
		}
	}
	total := c.Size * c.Size
	d := dark*20 - total*10
	if d < 0 {
		d = -d
	}
	return d / total * BalPP
}
