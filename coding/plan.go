// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "sync"

// A Plan describes how to construct a QR code
// with a specific version and level.
type Plan struct {
	Version Version // QR code version
	Level   Level   // QR error correction Level

	DataBits int // number of data bits
	Size     int // number of pixels on a side
	Stride   int // number of bytes per bitmap row

	Map     []byte    // pixel map: 0 is data or checksum, 1 is other
	Pattern [8][]byte // position and alignment boxes, timing, format, mask
}

// NewPlan returns a Plan for a QR code with the given version and level.
// The returned Plan is a copy and may be modified by the caller.
func NewPlan(version Version, level Level) (*Plan, error) {
	pp, err := makePlan(version, level)
	if err != nil {
		return nil, err
	}
	p := *pp
	p.Map = append([]byte(nil), pp.Map...)
	for i, v := range pp.Pattern {
		p.Pattern[i] = append([]byte(nil), v...)
	}
	return &p, nil
}

// Pre-allocated Plans.  A Plan is created the first time a
// combination of version and level is used, and is shared
// read-only afterwards.
var plans [MaxVersion + 1][H + 1]struct {
	once sync.Once
	p    *Plan
}

// makePlan returns plans[version][level].
// If it doesn't exist, it is created.
func makePlan(version Version, level Level) (*Plan, error) {
	if err := version.Valid(); err != nil {
		return nil, err
	}
	if err := level.Valid(); err != nil {
		return nil, err
	}
	p := &plans[version][level]
	p.once.Do(func() {
		pp := vplan(version, level)
		for mask := range pp.Pattern {
			fplan(FormatBits(level, Mask(mask)), pp.Pattern[mask], pp)
			mplan(Mask(mask), pp)
		}
		p.p = pp
	})
	return p.p, nil
}

// Function reports whether the pixel at (x,y) belongs to a function
// pattern or format or version information rather than to data.
func (p *Plan) Function(x, y int) bool {
	return p.Map[y*p.Stride+x>>3]&(0x80>>uint(x&7)) != 0
}

// set sets the pixel at (x,y) in bitmap bm with the given stride.
func set(bm []byte, stride, x, y int) {
	bm[y*stride+x>>3] |= 0x80 >> uint(x&7)
}

// reserve marks the pixel at (x,y) as function and paints it black
// in pat if black is true.
func (p *Plan) reserve(pat []byte, x, y int, black bool) {
	set(p.Map, p.Stride, x, y)
	if black {
		set(pat, p.Stride, x, y)
	}
}

// vplan creates a Plan for the given version with the function
// patterns common to all masks.  Pattern[0] holds the function
// pattern colours; the other patterns are copies of it.
func vplan(v Version, l Level) *Plan {
	info := &vtab[v]
	siz := v.Size()
	stride := (siz + 7) >> 3
	p := &Plan{
		Version:  v,
		Level:    l,
		DataBits: v.DataBits(l),
		Size:     siz,
		Stride:   stride,
		Map:      make([]byte, siz*stride),
	}
	pat := make([]byte, siz*stride)

	// Timing patterns, partly overwritten by the boxes.
	for i := 0; i < siz; i++ {
		p.reserve(pat, i, 6, i%2 == 0)
		p.reserve(pat, 6, i, i%2 == 0)
	}

	// Position boxes with their white separators.
	for _, c := range [][2]int{{0, 0}, {siz - 7, 0}, {0, siz - 7}} {
		for dy := -1; dy <= 7; dy++ {
			for dx := -1; dx <= 7; dx++ {
				x, y := c[0]+dx, c[1]+dy
				if x < 0 || x >= siz || y < 0 || y >= siz {
					continue
				}
				d := max(abs(dx-3), abs(dy-3))
				p.reserve(pat, x, y, d != 2 && d <= 3)
			}
		}
	}

	// Alignment boxes, except where they would overlap the
	// position boxes.
	last := len(info.apos) - 1
	for i, cx := range info.apos {
		for j, cy := range info.apos {
			if i == 0 && j == 0 || i == 0 && j == last || i == last && j == 0 {
				continue
			}
			for dy := -2; dy <= 2; dy++ {
				for dx := -2; dx <= 2; dx++ {
					p.reserve(pat, cx+dx, cy+dy, max(abs(dx), abs(dy)) != 1)
				}
			}
		}
	}

	// Format information, filled in by fplan.
	for i := 0; i < 9; i++ {
		p.reserve(pat, 8, i, false)
		p.reserve(pat, i, 8, false)
	}
	for i := 0; i < 8; i++ {
		p.reserve(pat, siz-1-i, 8, false)
		p.reserve(pat, 8, siz-1-i, false)
	}

	// One lonely black pixel.
	p.reserve(pat, 8, siz-8, true)

	// Version information: 6x3 pixels at (siz-11, 0)
	// and 3x6 pixels at (0, siz-11).
	if vi := info.pattern; vi != 0 {
		for i := 0; i < 18; i++ {
			black := vi>>uint(i)&1 != 0
			a, b := siz-11+i%3, i/3
			p.reserve(pat, a, b, black)
			p.reserve(pat, b, a, black)
		}
	}

	n := 0
	for _, b := range p.Map {
		for b = ^b; b != 0; b &= b - 1 {
			n++
		}
	}
	// Subtract the unused bits at the end of each row.
	if n -= (stride*8 - siz) * siz; n != info.bytes*8+info.rem {
		panic("qr: internal error: data region size")
	}

	p.Pattern[0] = pat
	for i := 1; i < len(p.Pattern); i++ {
		p.Pattern[i] = append([]byte(nil), pat...)
	}
	return p
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// FormatBits returns the 15 bit format information word for the
// given level and mask: 5 data bits, 10 BCH check bits, masked
// with 0x5412.
func FormatBits(l Level, m Mask) uint16 {
	data := l.indicator()<<3 | uint16(m)
	rem := data
	for i := 0; i < 10; i++ {
		rem = rem<<1 ^ (rem>>9)*0x537
	}
	return (data<<10 | rem&0x3ff) ^ 0x5412
}

// fplan sets the format bits fb in pattern b, twice.
func fplan(fb uint16, b []byte, p *Plan) {
	siz := p.Size
	for i := 0; i < 15; i++ {
		if fb>>uint(i)&1 == 0 {
			continue
		}
		// first copy around the top left position box
		switch {
		case i < 6:
			set(b, p.Stride, 8, i)
		case i < 8:
			set(b, p.Stride, 8, i+1)
		case i == 8:
			set(b, p.Stride, 7, 8)
		default:
			set(b, p.Stride, 14-i, 8)
		}
		// second copy split between the other two
		if i < 8 {
			set(b, p.Stride, siz-1-i, 8)
		} else {
			set(b, p.Stride, 8, siz-15+i)
		}
	}
}

// Mask patterns, indexed by mask.  A data pixel at row y, column x
// is inverted if the function returns true.
//
//	0: ▄▀▄▀▄▀▄▀▄▀▄▀  1: ▄▄▄▄▄▄▄▄▄▄▄▄  2:  ██ ██ ██ ██  3: ▄█▀▄█▀▄█▀▄█▀
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     ▀▄█▀▄█▀▄█▀▄█
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     █▀▄█▀▄█▀▄█▀▄
//
//	4:    ███   ███  5:  ▄▄▄▄▄ ▄▄▄▄▄  6:    ▄▄▄   ▄▄▄  7: ▄█▄▀ ▀▄█▄▀ ▀
//	   ███   ███         █▀▄▀█ █▀▄▀█      ▄▀▄ █ ▄▀▄ █     ▄▀█▀▄ ▄▀█▀▄
//	      ███   ███      ██▄██ ██▄██      █▄▄▀  █▄▄▀      ▄  ▀██▄  ▀██
var maskFunc = [8]func(y, x int) bool{
	func(y, x int) bool { return (y+x)%2 == 0 },
	func(y, x int) bool { return y%2 == 0 },
	func(y, x int) bool { return x%3 == 0 },
	func(y, x int) bool { return (y+x)%3 == 0 },
	func(y, x int) bool { return (y/2+x/3)%2 == 0 },
	func(y, x int) bool { return y*x%2+y*x%3 == 0 },
	func(y, x int) bool { return (y*x%2+y*x%3)%2 == 0 },
	func(y, x int) bool { return ((y+x)%2+y*x%3)%2 == 0 },
}

// MaskBit reports whether mask m inverts the pixel at (x,y).
func MaskBit(m Mask, x, y int) bool {
	return maskFunc[m](y, x)
}

// mplan adds the mask to the data region of Pattern[mask].
func mplan(mask Mask, p *Plan) {
	b, f := p.Pattern[mask], maskFunc[mask]
	for y := 0; y < p.Size; y++ {
		for x := 0; x < p.Size; x++ {
			if !p.Function(x, y) && f(y, x) {
				set(b, p.Stride, x, y)
			}
		}
	}
}

// A BitStream reads bits from a byte slice, most significant first.
type BitStream struct {
	b   []byte
	pos int
}

// NewBitStream returns a BitStream reading from b.
func NewBitStream(b []byte) BitStream { return BitStream{b: b} }

// Next returns the next bit from s as 0 or 1.
// Past end of buffer Next returns 0.
func (s *BitStream) Next() byte {
	var b byte
	if i := s.pos >> 3; i < len(s.b) {
		b = s.b[i] >> (7 &^ s.pos) & 1
		s.pos++
	}
	return b
}

// Serialise writes the codewords in data to the data region of c in
// zigzag scan order: two columns at a time from the right, moving
// up and down alternately and skipping the vertical timing pattern.
// Pixels left over after the last codeword stay white.
func (p *Plan) Serialise(data []byte, c *Code) {
	if c.Size != p.Size || len(data) != vtab[p.Version].bytes {
		panic("qr: internal error: data does not match plan")
	}
	s := NewBitStream(data)
	siz := p.Size
	up := true
	for right := siz - 1; right >= 1; right -= 2 {
		if right == 6 { // vertical timing strip
			right = 5
		}
		for k := 0; k < siz; k++ {
			y := k
			if up {
				y = siz - 1 - k
			}
			for x := right; x >= right-1; x-- {
				if !p.Function(x, y) && s.Next() != 0 {
					c.Set(x, y, true)
				}
			}
		}
		up = !up
	}
}
