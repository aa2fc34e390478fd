// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details for byte mode
// QR codes of versions 1 to 9.
package coding // import "github.com/unixdj/miniqr/coding"

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/unixdj/miniqr/gf256"
)

var (
	// ErrInvalidParameter is the kind of errors reporting a version,
	// level or mask out of range.
	ErrInvalidParameter = errors.New("qr: invalid parameter")

	// ErrCapacityExceeded is the kind of errors reporting data too
	// long for the chosen version and level.
	ErrCapacityExceeded = errors.New("qr: capacity exceeded")
)

// ParamError represents an invalid version, level or mask.
type ParamError struct {
	Param string // "version", "level" or "mask"
	Value int
}

func (e ParamError) Error() string {
	return fmt.Sprintf("qr: invalid %s %d", e.Param, e.Value)
}

func (e ParamError) Unwrap() error { return ErrInvalidParameter }

// CapacityError represents data too long for a QR code.
type CapacityError struct {
	Version Version // largest version tried
	Level   Level
	Bits    int // encoded data length in bits
	Max     int // data capacity of Version in bits
}

func (e CapacityError) Error() string {
	return fmt.Sprintf("qr: cannot encode %d bits into %d-bit code %d-%s",
		e.Bits, e.Max, e.Version, e.Level)
}

func (e CapacityError) Unwrap() error { return ErrCapacityExceeded }

// Field is the field for QR error correction.
var Field = gf256.NewField(0x11d, 2)

// A Version represents a QR version.
// The version specifies the size of the QR code:
// a QR code with version v has 4v+17 pixels on a side.
// Versions run from 1 to 9: the larger the version, the more
// information the code can store.
type Version int

const (
	MinVersion Version = 1 // Minimum QR version
	MaxVersion Version = 9 // Maximum QR version
)

func (v Version) String() string {
	return strconv.Itoa(int(v))
}

// Valid returns a ParamError if v is out of range.
func (v Version) Valid() error {
	if v < MinVersion || v > MaxVersion {
		return ParamError{"version", int(v)}
	}
	return nil
}

// Size returns the number of pixels on a side.
func (v Version) Size() int {
	return int(v)*4 + 17
}

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

func (l Level) String() string {
	if L <= l && l <= H {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

// Valid returns a ParamError if l is out of range.
func (l Level) Valid() error {
	if l < L || l > H {
		return ParamError{"level", int(l)}
	}
	return nil
}

// indicator returns the 2 bit error correction level indicator of
// the format information.
func (l Level) indicator() uint16 {
	switch l {
	case L:
		return 0b01
	case M:
		return 0b00
	case Q:
		return 0b11
	case H:
		return 0b10
	}
	panic("qr: invalid level " + l.String())
}

// A Mask is a QR data mask pattern, 0 to 7.
type Mask int

// AutoMask requests the mask with the lowest penalty.
const AutoMask Mask = -1

func (m Mask) String() string {
	if m == AutoMask {
		return "auto"
	}
	return strconv.Itoa(int(m))
}

// Valid returns a ParamError if m is neither AutoMask nor 0 to 7.
func (m Mask) Valid() error {
	if m < AutoMask || m > 7 {
		return ParamError{"mask", int(m)}
	}
	return nil
}

// A Capacity describes the codewords of a QR code with a specific
// version and level.
type Capacity struct {
	Bytes     int // byte mode data capacity in bytes
	Codewords int // total number of codewords
	Data      int // number of data codewords
	Check     int // number of check codewords per block
	Blocks    int // number of blocks
}

// Capacity returns the codeword layout of a QR code with the given
// version and level.  Both must be valid.
func (v Version) Capacity(l Level) Capacity {
	vt := &vtab[v]
	lev := vt.level[l]
	return Capacity{
		Bytes:     lev.cap,
		Codewords: vt.bytes,
		Data:      vt.bytes - lev.nblock*lev.check,
		Check:     lev.check,
		Blocks:    lev.nblock,
	}
}

// DataBits returns the number of data bits that can be
// stored in a QR code with the given version and level.
func (v Version) DataBits(l Level) int {
	return v.Capacity(l).Data * 8
}

// Byte mode segment header.
const (
	byteMode   = 0b0100 // mode indicator
	countBits  = 8      // character count indicator length, versions 1-9
	headerBits = 4 + countBits
)

// ByteModeBits returns the length in bits of n bytes encoded as a
// byte mode segment, including the header.
func ByteModeBits(n int) int {
	return headerBits + n*8
}

// Check returns a CapacityError if n bytes don't fit in a QR code
// with version v and level l.
func (v Version) Check(n int, l Level) error {
	if err := v.Valid(); err != nil {
		return err
	}
	if err := l.Valid(); err != nil {
		return err
	}
	if nb, max := ByteModeBits(n), v.DataBits(l); nb > max {
		return CapacityError{v, l, nb, max}
	}
	return nil
}

// Fit returns the smallest version that can hold n bytes at level l.
func Fit(n int, l Level) (Version, error) {
	if err := l.Valid(); err != nil {
		return 0, err
	}
	nb := ByteModeBits(n)
	for v := MinVersion; v <= MaxVersion; v++ {
		if nb <= v.DataBits(l) {
			return v, nil
		}
	}
	return 0, CapacityError{MaxVersion, l, nb, MaxVersion.DataBits(l)}
}

// Bits is an append-only bit buffer.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with enough capacity for a QR code of the
// given version and level.
func NewBits(v Version, l Level) *Bits {
	return &Bits{b: make([]byte, 0, vtab[v].bytes)}
}

// Bits returns the number of bits in b.
func (b *Bits) Bits() int {
	return b.nbit
}

// Bytes returns the underlying data.  It panics unless b holds
// a whole number of bytes.
func (b *Bits) Bytes() []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	return b.b
}

// Write appends the low nbit bits of v to b, most significant first.
func (b *Bits) Write(v uint32, nbit int) {
	if nbit == 0 {
		return
	}
	v <<= 32 - nbit
	if rem := -b.nbit & 7; rem != 0 {
		// fill the last byte
		b.b[len(b.b)-1] |= byte(v >> (32 - rem))
		if rem >= nbit {
			b.nbit += nbit
			return
		}
		b.nbit += rem
		nbit -= rem
		v <<= rem
	}
	for n := nbit; n > 0; n -= 8 {
		b.b = append(b.b, byte(v>>24))
		v <<= 8
	}
	b.nbit += nbit
}

// WriteBytes appends p to b, 8 bits per byte.
func (b *Bits) WriteBytes(p []byte) {
	if b.nbit%8 == 0 {
		b.b = append(b.b, p...)
		b.nbit += len(p) * 8
		return
	}
	for _, c := range p {
		b.Write(uint32(c), 8)
	}
}

// EncodeBytes appends a byte mode segment holding p to b.
func (b *Bits) EncodeBytes(p []byte) {
	if len(p) >= 1<<countBits {
		panic("qr: byte mode segment too long")
	}
	b.Write(byteMode, 4)
	b.Write(uint32(len(p)), countBits)
	b.WriteBytes(p)
}

// Pad appends a terminator of up to 4 zero bits, zero bits up to the
// byte boundary and alternating 0xec and 0x11 pad bytes to fill b to
// exactly n bits.  n must be a multiple of 8 not less than b.Bits().
func (b *Bits) Pad(n int) {
	if b.nbit > n || n%8 != 0 {
		panic("qr: too much data")
	}
	// The terminator and bit padding are zeros already present in
	// the last byte or in the bytes appended below.
	b.nbit = min(b.nbit+4, n)
	for len(b.b)*8 < b.nbit {
		b.b = append(b.b, 0)
	}
	for pad := byte(0xec); len(b.b)*8 < n; pad ^= 0xec ^ 0x11 {
		b.b = append(b.b, pad)
	}
	b.nbit = n
}

// AddCheckBytes pads b to the data capacity of the given version and
// level and appends the check bytes of each block.  The result is
// data blocks followed by check blocks, not interleaved.
func (b *Bits) AddCheckBytes(v Version, l Level) {
	c := v.Capacity(l)
	b.Pad(c.Data * 8)

	dat := b.Bytes()
	chk := make([]byte, c.Blocks*c.Check)
	rs := gf256.NewRSEncoder(Field, c.Check)
	for i, db := range blockSizes(c) {
		rs.ECC(dat[:db], chk[i*c.Check:(i+1)*c.Check])
		dat = dat[db:]
	}
	b.WriteBytes(chk)

	if len(b.Bytes()) != c.Codewords {
		panic("qr: internal error")
	}
}

// blockSizes returns the number of data bytes in each block.
// Blocks differ in length by at most one, shorter blocks first.
func blockSizes(c Capacity) []int {
	sizes := make([]int, c.Blocks)
	db := c.Data / c.Blocks
	normal := (db+1)*c.Blocks - c.Data
	for i := range sizes {
		sizes[i] = db
		if i >= normal {
			sizes[i]++
		}
	}
	return sizes
}

// interleave interleaves the blocks of src into dst, taking one byte
// from each block in turn.  Blocks are laid out in src back to back
// with the given sizes; dst must be as long as src.
func interleave(dst, src []byte, sizes []int) {
	start := make([]int, len(sizes))
	off := 0
	for i, n := range sizes {
		start[i] = off
		off += n
	}
	j := 0
	for k := 0; j < len(dst); k++ {
		for i, n := range sizes {
			if k < n {
				dst[j] = src[start[i]+k]
				j++
			}
		}
	}
}

// Permute returns the codewords in b with blocks interleaved for the
// given QR code version and level: data bytes from all blocks, then
// check bytes from all blocks.
func (b *Bits) Permute(v Version, l Level) []byte {
	c := v.Capacity(l)
	src := b.Bytes()
	if len(src) != c.Codewords {
		panic("qr: wrong data length")
	}
	if c.Blocks == 1 {
		return src
	}
	dst := make([]byte, len(src))
	checks := make([]int, c.Blocks)
	for i := range checks {
		checks[i] = c.Check
	}
	interleave(dst[:c.Data], src[:c.Data], blockSizes(c))
	interleave(dst[c.Data:], src[c.Data:], checks)
	return dst
}

// A Code is a square pixel grid.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Size   int    // number of pixels on a side
	Stride int    // number of bytes per row
}

// NewCode returns an all white Code with the given size.
func NewCode(siz int) *Code {
	stride := (siz + 7) >> 3
	return &Code{Bitmap: make([]byte, siz*stride), Size: siz, Stride: stride}
}

// Black returns true if the pixel at (x,y) is black.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x>>3]&(0x80>>uint(x&7)) != 0
}

// Set sets the pixel at (x,y) to black or white.
func (c *Code) Set(x, y int, black bool) {
	off, bit := y*c.Stride+x>>3, byte(0x80)>>uint(x&7)
	if black {
		c.Bitmap[off] |= bit
	} else {
		c.Bitmap[off] &^= bit
	}
}

// xor xors a and b into dst.  a and b may not be shorter than dst.
func xor(dst, a, b []byte) {
	a = a[:len(dst)]
	b = b[:len(dst)]
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}

// Encoder encodes a QR code with a fixed version and level.
type Encoder struct {
	p *Plan
	b *Bits
}

// NewEncoder returns an Encoder for the given version and level.
func NewEncoder(version Version, level Level) (*Encoder, error) {
	p, err := makePlan(version, level)
	if err != nil {
		return nil, err
	}
	return &Encoder{p: p, b: NewBits(version, level)}, nil
}

// Write adds a byte mode segment holding data to e.
func (e *Encoder) Write(data []byte) error {
	if nb := e.b.Bits() + ByteModeBits(len(data)); nb > e.p.DataBits {
		return CapacityError{e.p.Version, e.p.Level, nb, e.p.DataBits}
	}
	e.b.EncodeBytes(data)
	return nil
}

// Code returns a QR code containing data written to e, masked with
// mask, or with the mask of the lowest penalty if mask is AutoMask,
// and the mask used.  Code may be called only once.
func (e *Encoder) Code(mask Mask) (*Code, Mask, error) {
	if err := mask.Valid(); err != nil {
		return nil, 0, err
	}
	e.b.AddCheckBytes(e.p.Version, e.p.Level)
	data := NewCode(e.p.Size)
	e.p.Serialise(e.b.Permute(e.p.Version, e.p.Level), data)

	// Apply masks to the bitmap to construct the actual codes.
	// Choose the code with the smallest penalty; on a tie the
	// lower mask wins.
	c := NewCode(e.p.Size)
	if mask != AutoMask {
		xor(c.Bitmap, data.Bitmap, e.p.Pattern[mask])
		return c, mask, nil
	}
	best := NewCode(e.p.Size)
	pen := -1
	for m, pat := range e.p.Pattern {
		xor(c.Bitmap, data.Bitmap, pat)
		if p := c.Penalty(); pen < 0 || p < pen {
			best, c = c, best
			pen, mask = p, Mask(m)
		}
	}
	return best, mask, nil
}

// Encode encodes data as a single byte mode segment in a QR code
// with the given version, level and mask.
func Encode(version Version, level Level, mask Mask, data []byte) (*Code, Mask, error) {
	e, err := NewEncoder(version, level)
	if err != nil {
		return nil, 0, err
	}
	if err := e.Write(data); err != nil {
		return nil, 0, err
	}
	return e.Code(mask)
}
