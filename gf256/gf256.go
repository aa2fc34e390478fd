// Copyright 2010 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gf256 implements arithmetic over the Galois Field GF(256)
// and Reed-Solomon encoding over it.
package gf256 // import "github.com/unixdj/miniqr/gf256"

import "strconv"

// A Field represents an instance of GF(256) defined by a specific
// polynomial.  A Field is immutable after NewField returns.
type Field struct {
	log [256]byte // log[0] is unused
	exp [510]byte // exp[i] == exp[i+255], so sums of logs need no reduction
}

// NewField returns a new field corresponding to the polynomial poly
// and generator α.  The Reed-Solomon encoding in QR codes uses
// polynomial 0x11d with generator 2.
//
// The choice of generator α only matters for the Exp and Log
// operations.
func NewField(poly, α int) *Field {
	if poly < 0x100 || poly >= 0x200 || reducible(poly) {
		panic("gf256: invalid polynomial: " + strconv.Itoa(poly))
	}

	var f Field
	x := 1
	for i := 0; i < 255; i++ {
		if x == 1 && i != 0 {
			panic("gf256: invalid generator " + strconv.Itoa(α) +
				" for polynomial " + strconv.Itoa(poly))
		}
		f.exp[i] = byte(x)
		f.exp[i+255] = byte(x)
		f.log[x] = byte(i)
		x = mul(x, α, poly)
	}
	f.log[0] = 255
	return &f
}

// reducible reports whether p is reducible over GF(2).
func reducible(p int) bool {
	// Multiplying n by all the numbers < n is enough to catch
	// any factor of degree 4 or less.
	np := nbit(p)
	for q := 2; q < 1<<uint(np/2+1); q++ {
		if polyDiv(p, q) == 0 {
			return true
		}
	}
	return false
}

// nbit returns the number of significant bits in p.
func nbit(p int) int {
	n := 0
	for ; p > 0; p >>= 1 {
		n++
	}
	return n
}

// polyDiv returns the remainder of p divided by q over GF(2).
func polyDiv(p, q int) int {
	np, nq := nbit(p), nbit(q)
	for ; np >= nq; np-- {
		if p&(1<<uint(np-1)) != 0 {
			p ^= q << uint(np-nq)
		}
	}
	return p
}

// mul returns the product x*y mod poly, a GF(256) multiplication
// without tables.
func mul(x, y, poly int) int {
	z := 0
	for x > 0 {
		if x&1 != 0 {
			z ^= y
		}
		x >>= 1
		y <<= 1
		if y&0x100 != 0 {
			y ^= poly
		}
	}
	return z
}

// Add returns the sum of x and y in the field.
func (f *Field) Add(x, y byte) byte {
	return x ^ y
}

// Exp returns the base-α exponential of e in the field.
// If e < 0, Exp returns 0.
func (f *Field) Exp(e int) byte {
	if e < 0 {
		return 0
	}
	return f.exp[e%255]
}

// Log returns the base-α logarithm of x in the field.
// If x == 0, Log returns -1.
func (f *Field) Log(x byte) int {
	if x == 0 {
		return -1
	}
	return int(f.log[x])
}

// Inv returns the multiplicative inverse of x in the field.
// If x == 0, Inv returns 0.
func (f *Field) Inv(x byte) byte {
	if x == 0 {
		return 0
	}
	return f.exp[255-f.log[x]]
}

// Mul returns the product of x and y in the field.
func (f *Field) Mul(x, y byte) byte {
	if x == 0 || y == 0 {
		return 0
	}
	return f.exp[int(f.log[x])+int(f.log[y])]
}

// Gen returns the Reed-Solomon generator polynomial of degree n,
// the product of (x - α^i) for i in 0..n-1.  The n+1 coefficients
// are ordered from the highest degree term down; the first one is
// always 1.
func (f *Field) Gen(n int) []byte {
	p := make([]byte, n+1)
	p[0] = 1
	for i := 0; i < n; i++ {
		// p *= x + α^i; subtraction is addition in GF(2^8).
		c := f.Exp(i)
		for j := i + 1; j > 0; j-- {
			p[j] ^= f.Mul(p[j-1], c)
		}
	}
	return p
}

// An RSEncoder implements Reed-Solomon encoding over a given field
// using a given number of error correction bytes.  An RSEncoder
// keeps scratch space and must not be used concurrently.
type RSEncoder struct {
	f   *Field
	c   int
	gen []byte
	p   []byte
}

// NewRSEncoder returns a new Reed-Solomon encoder over the given
// field and number of error correction bytes.
func NewRSEncoder(f *Field, c int) *RSEncoder {
	if c < 1 || c > 254 {
		panic("gf256: invalid number of check bytes: " + strconv.Itoa(c))
	}
	return &RSEncoder{f: f, c: c, gen: f.Gen(c)}
}

// Gen returns the generator polynomial used by rs.
func (rs *RSEncoder) Gen() []byte {
	return append([]byte(nil), rs.gen...)
}

// ECC writes to check the error correcting code bytes
// for data using the given Reed-Solomon parameters.
// check must be exactly as long as the number of check bytes.
func (rs *RSEncoder) ECC(data []byte, check []byte) {
	if len(check) != rs.c {
		panic("gf256: invalid check byte length")
	}
	// The check bytes are the remainder after dividing
	// data padded with c zeros by the generator polynomial.
	// Long division keeps only the remainder, shifting it
	// one term left per data byte.
	p := rs.p[:0]
	if cap(p) < rs.c {
		p = make([]byte, 0, rs.c)
	}
	p = p[:rs.c]
	clear(p)
	gen := rs.gen[1:]
	for _, d := range data {
		k := d ^ p[0]
		copy(p, p[1:])
		p[rs.c-1] = 0
		if k == 0 {
			continue
		}
		for i, g := range gen {
			p[i] ^= rs.f.Mul(g, k)
		}
	}
	copy(check, p)
	rs.p = p
}
