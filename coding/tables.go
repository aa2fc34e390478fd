// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Tables from ISO/IEC 18004:2015, tables 1, 7, 9 and annexes D and E,
// limited to versions 1 to 9.

// A version describes metadata associated with a version.
type version struct {
	apos    []int    // alignment pattern centre coordinates
	bytes   int      // total number of codewords
	rem     int      // remainder bits after the last codeword
	pattern int      // version information, 18 bits, from version 7
	level   [4]level // indexed by Level
}

// A level describes the block structure of a version at a level.
type level struct {
	nblock int // number of blocks
	check  int // check bytes per block
	cap    int // byte mode capacity in bytes
}

var vtab = [MaxVersion + 1]version{
	{},
	{nil, 26, 0, 0, [4]level{
		{1, 7, 17}, {1, 10, 14}, {1, 13, 11}, {1, 17, 7},
	}},
	{[]int{6, 18}, 44, 7, 0, [4]level{
		{1, 10, 32}, {1, 16, 26}, {1, 22, 20}, {1, 28, 14},
	}},
	{[]int{6, 22}, 70, 7, 0, [4]level{
		{1, 15, 53}, {1, 26, 42}, {2, 18, 32}, {2, 22, 24},
	}},
	{[]int{6, 26}, 100, 7, 0, [4]level{
		{1, 20, 78}, {2, 18, 62}, {2, 26, 46}, {4, 16, 34},
	}},
	{[]int{6, 30}, 134, 7, 0, [4]level{
		{1, 26, 106}, {2, 24, 84}, {4, 18, 60}, {4, 22, 44},
	}},
	{[]int{6, 34}, 172, 7, 0, [4]level{
		{2, 18, 134}, {4, 16, 106}, {4, 24, 74}, {4, 28, 58},
	}},
	{[]int{6, 22, 38}, 196, 0, 0x07c94, [4]level{
		{2, 20, 154}, {4, 18, 122}, {6, 18, 86}, {5, 26, 64},
	}},
	{[]int{6, 24, 42}, 242, 0, 0x085bc, [4]level{
		{2, 24, 192}, {4, 22, 152}, {6, 22, 108}, {6, 26, 84},
	}},
	{[]int{6, 26, 46}, 292, 0, 0x09a99, [4]level{
		{2, 30, 230}, {5, 22, 180}, {8, 20, 130}, {8, 24, 98},
	}},
}
