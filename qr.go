// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package miniqr encodes QR codes of versions 1 to 9 in byte mode.

An Encoder accumulates data and builds an immutable Code:

	e, err := miniqr.New(miniqr.AutoVersion, miniqr.M)
	if err != nil {
		return err
	}
	e.WriteString("https://www.adafruit.com")
	c, err := e.Build(miniqr.AutoMask)

The version is the smallest one that fits the data unless given,
and the mask is the one with the lowest penalty unless given.
Text is encoded in ISO 8859-1 (Latin-1), the default character set
of QR byte mode.
*/
package miniqr // import "github.com/unixdj/miniqr"

import (
	"bytes"
	"fmt"
	"strconv"

	"golang.org/x/text/encoding/charmap"

	"github.com/unixdj/miniqr/coding"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

func (l Level) String() string { return coding.Level(l).String() }

// A Version is a QR version from 1 to 9, or AutoVersion.
// A QR code with version v has 4v+17 pixels on a side.
type Version int

// AutoVersion selects the smallest version that fits the data.
const AutoVersion Version = 0

func (v Version) String() string {
	if v == AutoVersion {
		return "auto"
	}
	return strconv.Itoa(int(v))
}

// A Mask is a QR data mask pattern from 0 to 7, or AutoMask.
type Mask int

// AutoMask selects the mask with the lowest penalty.
const AutoMask = Mask(coding.AutoMask)

func (m Mask) String() string { return coding.Mask(m).String() }

var (
	// ErrInvalidParameter is the kind of errors reporting invalid
	// versions, levels, masks, text and styles.
	ErrInvalidParameter = coding.ErrInvalidParameter

	// ErrCapacityExceeded is the kind of errors reporting data
	// too long to encode.
	ErrCapacityExceeded = coding.ErrCapacityExceeded

	// ErrArgs reports an invalid rendering Style.
	ErrArgs = fmt.Errorf("%w: style", ErrInvalidParameter)
)

type (
	// ParamError represents an invalid version, level or mask.
	ParamError = coding.ParamError

	// CapacityError represents data too long for a QR code.
	CapacityError = coding.CapacityError
)

// TextError represents text that cannot be encoded in Latin-1.
type TextError struct {
	Offset int  // byte offset of the rune in the text
	Rune   rune // U+FFFD for invalid UTF-8
}

func (e TextError) Error() string {
	return fmt.Sprintf("qr: cannot encode %q at offset %d in Latin-1",
		e.Rune, e.Offset)
}

func (e TextError) Unwrap() error { return ErrInvalidParameter }

// An Encoder accumulates data for a QR code.  The zero value is not
// usable; use New.  An Encoder must not be used concurrently, but
// Codes built by it are independent.
type Encoder struct {
	version Version
	level   Level
	data    []byte
}

// New returns an Encoder for codes with the given version and level.
func New(version Version, level Level) (*Encoder, error) {
	if version != AutoVersion {
		if err := coding.Version(version).Valid(); err != nil {
			return nil, err
		}
	}
	if err := coding.Level(level).Valid(); err != nil {
		return nil, err
	}
	return &Encoder{version: version, level: level}, nil
}

// Version returns the version e was created with.
func (e *Encoder) Version() Version { return e.version }

// Level returns the error correction level of e.
func (e *Encoder) Level() Level { return e.level }

// Write appends p to the data.  It always returns len(p), nil;
// capacity is checked by Build.
func (e *Encoder) Write(p []byte) (int, error) {
	e.data = append(e.data, p...)
	return len(p), nil
}

// WriteString appends s converted to Latin-1 to the data.  If s
// contains a rune that Latin-1 cannot represent, or invalid UTF-8,
// nothing is appended and the error is a TextError.
func (e *Encoder) WriteString(s string) (int, error) {
	b, err := latin1(s)
	if err != nil {
		return 0, err
	}
	e.data = append(e.data, b...)
	return len(s), nil
}

// latin1 converts s from UTF-8 to Latin-1.
func latin1(s string) ([]byte, error) {
	b := make([]byte, 0, len(s))
	for i, r := range s {
		c, ok := charmap.ISO8859_1.EncodeRune(r)
		if !ok {
			return nil, TextError{i, r}
		}
		b = append(b, c)
	}
	return b, nil
}

// Len returns the number of bytes of data in e.
func (e *Encoder) Len() int { return len(e.data) }

// Reset discards the data in e, keeping the version and level.
func (e *Encoder) Reset() { e.data = e.data[:0] }

// Build returns a QR code containing the data written to e, masked
// with mask, or with the mask of the lowest penalty if mask is
// AutoMask.  Build leaves the data in e intact: building again
// returns an identical Code.
func (e *Encoder) Build(mask Mask) (*Code, error) {
	l := coding.Level(e.level)
	v := coding.Version(e.version)
	var err error
	if e.version == AutoVersion {
		v, err = coding.Fit(len(e.data), l)
	} else {
		err = v.Check(len(e.data), l)
	}
	if err != nil {
		return nil, err
	}
	cc, m, err := coding.Encode(v, l, coding.Mask(mask), e.data)
	if err != nil {
		return nil, err
	}
	return &Code{
		bitmap:  cc.Bitmap,
		size:    cc.Size,
		stride:  cc.Stride,
		version: Version(v),
		level:   e.level,
		mask:    Mask(m),
		penalty: cc.Penalty(),
	}, nil
}

// Encode returns a QR code of the smallest version holding data at
// the given error correction level, with automatic mask selection.
func Encode(data []byte, level Level) (*Code, error) {
	e, err := New(AutoVersion, level)
	if err != nil {
		return nil, err
	}
	e.Write(data)
	return e.Build(AutoMask)
}

// EncodeText is like Encode, but converts text to Latin-1.
func EncodeText(text string, level Level) (*Code, error) {
	e, err := New(AutoVersion, level)
	if err != nil {
		return nil, err
	}
	if _, err := e.WriteString(text); err != nil {
		return nil, err
	}
	return e.Build(AutoMask)
}

// A Code is an immutable square pixel grid.
type Code struct {
	bitmap  []byte // 1 is black, 0 is white
	size    int    // number of pixels on a side
	stride  int    // number of bytes per row
	version Version
	level   Level
	mask    Mask
	penalty int
}

// Size returns the number of pixels on a side.
func (c *Code) Size() int { return c.size }

// Width returns the number of pixels in a row, equal to Size.
func (c *Code) Width() int { return c.size }

// Height returns the number of rows, equal to Size.
func (c *Code) Height() int { return c.size }

// Stride returns the number of bytes per row in Bitmap.
func (c *Code) Stride() int { return c.stride }

// Version returns the version of the code.
func (c *Code) Version() Version { return c.version }

// Level returns the error correction level of the code.
func (c *Code) Level() Level { return c.level }

// Mask returns the mask applied to the code.
func (c *Code) Mask() Mask { return c.mask }

// Penalty returns the penalty score of the code.
func (c *Code) Penalty() int { return c.penalty }

// Black returns true if the pixel at (x,y) is black.
// Pixels outside the code are white.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.size && 0 <= y && y < c.size &&
		c.bitmap[y*c.stride+x/8]&(1<<uint(7-x&7)) != 0
}

// Bitmap returns a copy of the pixels, row by row, Stride bytes per
// row, most significant bit first; 1 is black.
func (c *Code) Bitmap() []byte {
	return bytes.Clone(c.bitmap)
}

// Equal reports whether c and d have the same pixels.
func (c *Code) Equal(d *Code) bool {
	return c.size == d.size && bytes.Equal(c.bitmap, d.bitmap)
}

// String returns the pixels as text, one line per row, with
// "#" for black and "." for white.
func (c *Code) String() string {
	b := make([]byte, 0, (c.size+1)*c.size)
	for y := 0; y < c.size; y++ {
		for x := 0; x < c.size; x++ {
			if c.Black(x, y) {
				b = append(b, '#')
			} else {
				b = append(b, '.')
			}
		}
		b = append(b, '\n')
	}
	return string(b)
}
