// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package miniqr_test

import (
	"fmt"
	"log"

	"github.com/unixdj/miniqr"
)

func ExampleEncodeText() {
	c, err := miniqr.EncodeText("abc", miniqr.L)
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Print(c)
	// Output:
	// #######..#.##.#######
	// #.....#..###..#.....#
	// #.###.#.##.##.#.###.#
	// #.###.#..#.#..#.###.#
	// #.###.#...#.#.#.###.#
	// #.....#.....#.#.....#
	// #######.#.#.#.#######
	// ........##.##........
	// ###.########.##...#..
	// ####...#.##...#..#.##
	// ####.##..#..#...#..##
	// ..##....#.....#......
	// ###.#####...#.#.#...#
	// ........####.#.#.#.##
	// #######.#..#.###.#.##
	// #.....#.##.###.###..#
	// #.###.#.#.##.###..#.#
	// #.###.#..#....#...##.
	// #.###.#.#...#...#...#
	// #.....#.#.#...#...##.
	// #######.#.#.#.#.#.###
}

func ExampleNew() {
	e, err := miniqr.New(miniqr.AutoVersion, miniqr.M)
	if err != nil {
		log.Fatalln(err)
	}
	e.WriteString("HELLO WORLD")
	c, err := e.Build(miniqr.AutoMask)
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Printf("version %s-%s, %dx%d, mask %s\n",
		c.Version(), c.Level(), c.Width(), c.Height(), c.Mask())

	// Too much data for version 1-M.
	e, _ = miniqr.New(1, miniqr.M)
	e.WriteString("HELLO WORLD, HELLO")
	_, err = e.Build(miniqr.AutoMask)
	fmt.Println(err)
	// Output:
	// version 1-M, 21x21, mask 4
	// qr: cannot encode 156 bits into 128-bit code 1-M
}
