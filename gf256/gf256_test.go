// Copyright 2010 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gf256_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unixdj/miniqr/gf256"
)

var field = gf256.NewField(0x11d, 2)

func TestFieldTables(t *testing.T) {
	seen := make(map[byte]bool)
	for e := 0; e < 255; e++ {
		x := field.Exp(e)
		require.NotZero(t, x)
		require.False(t, seen[x], "α^%d repeats", e)
		seen[x] = true
		assert.Equal(t, e, field.Log(x))
	}
	assert.Equal(t, byte(1), field.Exp(255), "α^255 wraps to 1")
	assert.Equal(t, byte(0), field.Exp(-1))
	assert.Equal(t, -1, field.Log(0))
	assert.Equal(t, byte(0x1d), field.Exp(8), "x^8 reduces by 0x11d")
}

func TestMul(t *testing.T) {
	for x := 0; x < 256; x++ {
		assert.Zero(t, field.Mul(byte(x), 0))
		assert.Zero(t, field.Mul(0, byte(x)))
		assert.Equal(t, byte(x), field.Mul(byte(x), 1))
		if x != 0 {
			assert.Equal(t, byte(1), field.Mul(byte(x), field.Inv(byte(x))),
				"x=%#x", x)
		}
	}
	assert.Equal(t, byte(0x8f), field.Mul(0x53, 0xca))
	assert.Equal(t, byte(0x53^0xca), field.Add(0x53, 0xca))
	assert.Zero(t, field.Inv(0))
}

func TestGen(t *testing.T) {
	// Exponents of α for the coefficients of the degree 7
	// generator, as printed in the QR code standard.
	want := []int{0, 87, 229, 146, 149, 238, 102, 21}
	gen := field.Gen(7)
	require.Len(t, gen, len(want))
	for i, c := range gen {
		assert.Equal(t, want[i], field.Log(c), "coefficient %d", i)
	}

	// Every α^i for i < n is a root.
	for _, n := range []int{7, 10, 17, 22, 30} {
		g := field.Gen(n)
		for i := 0; i < n; i++ {
			var y byte
			a := field.Exp(i)
			for _, c := range g {
				y = field.Mul(y, a) ^ c
			}
			assert.Zero(t, y, "degree %d root α^%d", n, i)
		}
	}
}

func TestECC(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		check []byte
	}{
		{
			name: "HELLO WORLD 1-M",
			data: []byte{
				32, 91, 11, 120, 209, 114, 220, 77,
				67, 64, 236, 17, 236, 17, 236, 17,
			},
			check: []byte{196, 35, 39, 119, 235, 215, 231, 226, 93, 23},
		},
		{
			name:  "zeros",
			data:  make([]byte, 19),
			check: make([]byte, 7),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := gf256.NewRSEncoder(field, len(tt.check))
			check := make([]byte, len(tt.check))
			rs.ECC(tt.data, check)
			assert.Equal(t, tt.check, check)

			// The encoder is reusable.
			clear(check)
			rs.ECC(tt.data, check)
			assert.Equal(t, tt.check, check)
		})
	}
}

// TestECCCodeword checks that data followed by its check bytes is
// divisible by the generator, i.e. evaluates to 0 at every root.
func TestECCCodeword(t *testing.T) {
	data := []byte("https://www.adafruit.com")
	for _, c := range []int{7, 13, 26, 30} {
		rs := gf256.NewRSEncoder(field, c)
		msg := append(append([]byte(nil), data...), make([]byte, c)...)
		rs.ECC(data, msg[len(data):])
		for i := 0; i < c; i++ {
			var y byte
			a := field.Exp(i)
			for _, v := range msg {
				y = field.Mul(y, a) ^ v
			}
			assert.Zero(t, y, "c=%d root α^%d", c, i)
		}
		assert.Equal(t, field.Gen(c), rs.Gen())
	}
}

func TestInvalid(t *testing.T) {
	assert.Panics(t, func() { gf256.NewField(0x100, 2) }, "reducible")
	assert.Panics(t, func() { gf256.NewField(0x11b, 2) }, "2 is not primitive for 0x11b")
	assert.Panics(t, func() { gf256.NewRSEncoder(field, 0) })
	assert.Panics(t, func() {
		gf256.NewRSEncoder(field, 7).ECC([]byte{1}, make([]byte, 6))
	})
}

func BenchmarkECC(b *testing.B) {
	data := make([]byte, 116)
	for i := range data {
		data[i] = byte(i)
	}
	rs := gf256.NewRSEncoder(field, 30)
	check := make([]byte, 30)
	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		rs.ECC(data, check)
	}
}
