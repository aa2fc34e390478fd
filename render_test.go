// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package miniqr_test

import (
	"bytes"
	"image/color"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/liyue201/goqr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unixdj/miniqr"
)

func TestImage(t *testing.T) {
	c := build(t, 1, miniqr.L, 0, "abc")
	img, err := c.Image(miniqr.DefaultStyle)
	require.NoError(t, err)
	assert.Equal(t, (21+8)*8, img.Bounds().Dx())
	assert.Equal(t, (21+8)*8, img.Bounds().Dy())
	assert.Equal(t, color.GrayModel, img.ColorModel())
	assert.Equal(t, color.Gray{0xff}, img.At(0, 0))
	assert.Equal(t, color.Gray{0}, img.At(32, 32))
	assert.Equal(t, color.Gray{0}, img.At(39, 39))
	assert.Equal(t, color.Gray{0xff}, img.At(40, 40))

	rev, err := c.Image(miniqr.Style{Scale: 1, Reverse: true})
	require.NoError(t, err)
	assert.Equal(t, 21, rev.Bounds().Dx())
	for y := 0; y < 21; y++ {
		for x := 0; x < 21; x++ {
			want := color.Gray{0}
			if c.Black(x, y) {
				want = color.Gray{0xff}
			}
			require.Equal(t, want, rev.At(x, y), "(%d,%d)", x, y)
		}
	}
}

func TestStyleInvalid(t *testing.T) {
	c := build(t, 1, miniqr.L, 0, "abc")
	for _, s := range []miniqr.Style{
		{Scale: 0, Border: 4},
		{Scale: 1, Border: -1},
		{Scale: 1 << 20, Border: 4},
	} {
		_, err := c.Image(s)
		assert.ErrorIs(t, err, miniqr.ErrArgs, "%+v", s)
		assert.ErrorIs(t, err, miniqr.ErrInvalidParameter)
		assert.ErrorIs(t, c.EncodePBM(&bytes.Buffer{}, s), miniqr.ErrArgs)
	}
	assert.ErrorIs(t, c.EncodeUTF8(&bytes.Buffer{}, miniqr.Style{Border: -1}), miniqr.ErrArgs)
	assert.ErrorIs(t, c.EncodeASCII(&bytes.Buffer{}, miniqr.Style{Border: -1}), miniqr.ErrArgs)

	// Text is limited to 2048 pixels on a side, whatever the scale.
	wide := miniqr.Style{Scale: 1, Border: 1014}
	assert.ErrorIs(t, c.EncodeUTF8(&bytes.Buffer{}, wide), miniqr.ErrArgs)
	assert.ErrorIs(t, c.EncodeASCII(&bytes.Buffer{}, wide), miniqr.ErrArgs)
	wide.Border = 1 << 16
	assert.ErrorIs(t, c.EncodeUTF8(&bytes.Buffer{}, wide), miniqr.ErrArgs)
	var b bytes.Buffer
	require.NoError(t, c.EncodeUTF8(&b, miniqr.Style{Scale: 1 << 20, Border: 100}))
	assert.Equal(t, 221/2+1, strings.Count(b.String(), "\n"))
}

// TestRecognize decodes rendered codes with an independent reader.
func TestRecognize(t *testing.T) {
	// format information level indicators
	ecc := map[miniqr.Level]int{miniqr.L: 1, miniqr.M: 0, miniqr.Q: 3, miniqr.H: 2}
	tests := []struct {
		v    miniqr.Version
		l    miniqr.Level
		m    miniqr.Mask
		text string
	}{
		{miniqr.AutoVersion, miniqr.L, miniqr.AutoMask, "https://www.adafruit.com"},
		{1, miniqr.H, 6, "abc"},
		{3, miniqr.Q, 2, "Reed-Solomon"},
		{5, miniqr.M, miniqr.AutoMask, longString[:84]},
		{7, miniqr.H, 1, longString[:64]},
		{9, miniqr.L, miniqr.AutoMask, longString[:230]},
	}
	for _, tt := range tests {
		c := build(t, tt.v, tt.l, tt.m, tt.text)
		img, err := c.Image(miniqr.Style{Scale: 4, Border: 4})
		require.NoError(t, err)
		codes, err := goqr.Recognize(img)
		require.NoError(t, err, "%s", tt.text)
		require.Len(t, codes, 1)
		assert.Equal(t, tt.text, string(codes[0].Payload))
		assert.Equal(t, int(c.Version()), codes[0].Version)
		assert.Equal(t, int(c.Mask()), codes[0].Mask)
		assert.Equal(t, ecc[tt.l], codes[0].EccLevel)
	}
}

func TestEncodePBM(t *testing.T) {
	c := build(t, 1, miniqr.L, 0, "abc")
	var b bytes.Buffer
	require.NoError(t, c.EncodePBM(&b, miniqr.Style{Scale: 1, Border: 1}))
	header := "P4\n23 23\n"
	require.True(t, strings.HasPrefix(b.String(), header))
	pix := b.Bytes()[len(header):]
	require.Len(t, pix, 23*3)
	assert.Equal(t, []byte{0, 0, 0}, pix[:3], "quiet zone")
	for y := 0; y < 21; y++ {
		for x := 0; x < 21; x++ {
			px := x + 1
			bit := pix[(y+1)*3+px/8] & (0x80 >> (px & 7))
			assert.Equal(t, c.Black(x, y), bit != 0, "(%d,%d)", x, y)
		}
	}

	b.Reset()
	require.NoError(t, c.EncodePBM(&b, miniqr.Style{Scale: 3, Border: 2, Reverse: true}))
	header = "P4\n75 75\n"
	require.True(t, strings.HasPrefix(b.String(), header))
	pix = b.Bytes()[len(header):]
	require.Len(t, pix, 75*10)
	assert.Equal(t, byte(0xff), pix[0], "reversed quiet zone")
	assert.Equal(t, byte(0xe0), pix[9], "row padding is clear")
	// (0,0) is black, reversed at image pixels 6-8
	row := pix[6*10:]
	assert.Equal(t, byte(0xfc), row[0])
	assert.Equal(t, byte(0), row[1])
}

func TestEncodeText(t *testing.T) {
	c := build(t, 1, miniqr.L, 0, "abc")
	var b bytes.Buffer
	require.NoError(t, c.EncodeASCII(&b, miniqr.Style{}))
	r := strings.NewReplacer("#", "##", ".", "  ")
	assert.Equal(t, r.Replace(c.String()), b.String())

	b.Reset()
	require.NoError(t, c.EncodeASCII(&b, miniqr.Style{Border: 1, Reverse: true}))
	lines := strings.Split(b.String(), "\n")
	require.Len(t, lines, 24)
	assert.Equal(t, strings.Repeat("#", 46), lines[0])
	assert.Equal(t, "##  ", lines[1][:4])

	b.Reset()
	require.NoError(t, c.EncodeUTF8(&b, miniqr.Style{Border: 1}))
	lines = strings.Split(b.String(), "\n")
	require.Len(t, lines, 13)
	for _, l := range lines[:12] {
		assert.Equal(t, 23, utf8.RuneCountInString(l))
	}
	// top quiet zone over the first row of the finder pattern
	assert.Equal(t, " ▄▄▄▄▄▄▄ ", string([]rune(lines[0])[:9]))
	// bottom two rows of the finder pattern
	assert.Equal(t, " █▄▄▄▄▄█ ", string([]rune(lines[10])[:9]))
	// the bottom quiet zone row alone
	assert.Equal(t, strings.Repeat(" ", 23), lines[11])
}
