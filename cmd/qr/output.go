// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/image/bmp"

	"github.com/unixdj/miniqr"
)

// A format is an output file format.
type format struct {
	name   string
	text   bool // concatenable on standard output
	encode func(c *miniqr.Code, w io.Writer, s miniqr.Style) error
}

var formats = []format{
	{"png", false, func(c *miniqr.Code, w io.Writer, s miniqr.Style) error {
		img, err := c.Image(s)
		if err != nil {
			return err
		}
		return png.Encode(w, img)
	}},
	{"bmp", false, func(c *miniqr.Code, w io.Writer, s miniqr.Style) error {
		img, err := c.Image(s)
		if err != nil {
			return err
		}
		return bmp.Encode(w, img)
	}},
	{"pbm", false, (*miniqr.Code).EncodePBM},
	{"eps", true, eps},
	{"utf8", true, (*miniqr.Code).EncodeUTF8},
	{"ascii", true, (*miniqr.Code).EncodeASCII},
	{"dump", true, func(c *miniqr.Code, w io.Writer, _ miniqr.Style) error {
		_, err := io.WriteString(w, c.String())
		return err
	}},
}

// typeNames returns the names accepted by -t: each format, and each
// but dump with "i" appended for reversed colours.
func typeNames() []string {
	var names []string
	for _, f := range formats {
		names = append(names, f.name)
		if f.name != "dump" {
			names = append(names, f.name+"i")
		}
	}
	return names
}

// lookupType returns the format named by t and whether colours are
// reversed.
func lookupType(t string) (*format, bool, error) {
	for i := range formats {
		f := &formats[i]
		switch t {
		case f.name:
			return f, false, nil
		case f.name + "i":
			if f.name != "dump" {
				return f, true, nil
			}
		}
	}
	return nil, false, fmt.Errorf("qr: unknown output type %q", t)
}

// fileName returns the name of output file i of a batch, e.g.
// "code-01.png" for "code.png"; i < 0 returns fn itself.
func fileName(fn string, i int) string {
	if i < 0 {
		return fn
	}
	ext := path.Ext(fn)
	return fmt.Sprintf("%s-%02d%s", strings.TrimSuffix(fn, ext), i+1, ext)
}

// writeFile writes c to the named file in fsys.
func writeFile(fsys afero.Fs, fn string, f *format, c *miniqr.Code, s miniqr.Style) error {
	w, err := fsys.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return fmt.Errorf("qr: %w", err)
	}
	err = f.encode(c, w, s)
	if cerr := w.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("qr: %w", cerr)
	}
	return err
}

// eps writes an Encapsulated PostScript image of c, centred on a US
// Letter page, s.Scale points per pixel.
func eps(c *miniqr.Code, w io.Writer, s miniqr.Style) error {
	const midx, midy = 306, 396
	if s.Scale < 1 || s.Border < 0 {
		return miniqr.ErrArgs
	}
	siz := c.Size()
	scale := s.Scale
	bord := s.Border
	xorig := (midx*2 - (siz+2*bord)*scale) / 2
	yorig := (midy*2 - (siz+2*bord)*scale) / 2
	var b strings.Builder
	fmt.Fprintf(&b, `%%!PS-Adobe-2.0 EPSF-2.0
%%%%Creator: qr https://github.com/unixdj/miniqr
%%%%Title: QR Code %s-%s
%%%%BoundingBox: %d %d %d %d
%%%%EndComments
%%%%EndProlog
<< >> begin
gsave
%g %g translate
%d dup neg scale
/row 0 def
/p { 0 rmoveto 0 rlineto } def
/r { 0 row 1 add dup /row exch def moveto } def
`,
		c.Version(), c.Level(), xorig-1, yorig-1, midx*2-xorig, midy*2-yorig,
		midx-float64(siz*scale)/2, midy+float64((siz-1)*scale)/2-1,
		scale)
	if s.Reverse {
		// Paint the quiet zone and code black, then draw in white.
		fmt.Fprintf(&b, `gsave
newpath %d %d moveto
%d dup neg scale
1 0 rlineto stroke
grestore
1 setgray
`,
			-bord, siz/2, siz+2*bord)
	}
	b.WriteString("newpath 0 0 moveto\n")
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; {
			start := x
			for x < siz && !c.Black(x, y) {
				x++
			}
			if x == siz {
				break
			}
			run := x
			for x < siz && c.Black(x, y) {
				x++
			}
			fmt.Fprintf(&b, "%d %d p ", x-run, run-start)
		}
		b.WriteString("r\n")
	}
	b.WriteString("stroke grestore\nend\n%%Trailer\n")
	_, err := io.WriteString(w, b.String())
	return err
}
