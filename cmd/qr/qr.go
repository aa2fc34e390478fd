// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Qr generates QR codes.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/unixdj/miniqr"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Limits of -s and -m.
const (
	maxScale  = 1 << 16
	maxMargin = 1 << 9
)

// options holds the parsed command line.
type options struct {
	level    miniqr.Level
	version  miniqr.Version
	mask     miniqr.Mask
	style    miniqr.Style
	format   *format
	fn       string // output file; empty for standard output
	eightBit bool   // take input bytes verbatim
	batch    bool   // one code per input line
	log      *slog.Logger
}

// usageError is a bad command line.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func printUsage(w io.Writer, set *getopt.Set) {
	prog := set.Program()
	ul := make([]string, 1, 4)
	ul[0] = set.UsageLine() + " [string ...]"
	ml := max(70-len("Usage: ")-1-len(prog), 0)
	for i := 0; len(ul[i]) > ml; i++ {
		s := ul[i]
		n := ml - 1
		for n > 0 && (s[n] != ' ' || s[n+1] != '[') {
			n--
		}
		ul = append(ul, s[n+1:])
		ul[i] = s[:max(n, 0)]
		ml = 60
	}
	fmt.Fprint(w, "QR code generator (versions 1-9, byte mode)\nUsage: ",
		prog, " ", strings.Join(ul, "\n          "), `
If no string is given, data is read from standard input and the final
newline is stripped.  With -b, each argument or input line is encoded
as a separate code.  Defaults are read from QR_* environment
variables and the .env file.

`)
	var b bytes.Buffer
	set.PrintOptions(&b)
	bb := b.Bytes()
	if n := bytes.Index(bb, []byte(" [-1]")); n >= 0 {
		w.Write(bb[:n])
		bb = bb[n+len(" [-1]"):]
	}
	w.Write(bb)
}

func printVersion(w io.Writer) {
	fmt.Fprintln(w, `qr version 1.0.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2024 Vadim Vygonets`)
}

// parseFlags parses the command line in args, args[0] being the
// program name, with defaults from cfg, which must have passed check.  It returns nil options
// if the command has been fully handled by -h or -V.
func parseFlags(args []string, cfg config, stdout, stderr io.Writer) (*options, []string, error) {
	set := getopt.New()
	set.SetProgram("qr")
	var help, version, debug bool
	o := &options{}
	set.Flag(&help, 'h', "show this help")
	set.Flag(&version, 'V', "print version and copyright")
	set.Flag(&debug, 'd', "log debugging information")
	set.Flag(&o.eightBit, '8', "take input bytes verbatim; "+
		"by default input is UTF-8 converted to Latin-1")
	set.Flag(&o.batch, 'b', "batch mode: encode each string or input "+
		`line as a separate code; with -o, "-01", "-02" etc. is `+
		"appended to the filename before suffix")
	levs := set.Enum('l',
		[]string{"l", "m", "q", "h", "L", "M", "Q", "H"}, cfg.Level,
		"error correction level, lowest to highest", "l|m|q|h")
	ver := set.Signed('v', int64(cfg.Version),
		&getopt.SignedLimit{Base: 0, Bits: 8, Min: 0, Max: 9},
		"QR code version, 0 for the smallest that fits", "ver")
	mask := set.Signed('p', int64(cfg.Mask),
		&getopt.SignedLimit{Base: 0, Bits: 8, Min: -1, Max: 7},
		"mask pattern, by default chosen by lowest penalty", "mask")
	scale := set.Signed('s', int64(cfg.Scale),
		&getopt.SignedLimit{Base: 0, Bits: 28, Min: 1, Max: maxScale},
		`image pixels (type eps[i]: points) per QR module ("pixel"); `+
			`ignored for types utf8[i], ascii[i] and dump`, "scale")
	margin := set.Signed('m', int64(cfg.Margin),
		&getopt.SignedLimit{Base: 0, Bits: 28, Min: 0, Max: maxMargin},
		"quiet zone pixels", "margin")
	types := typeNames()
	typ := set.Enum('t', types, cfg.Type, `output format, one of: `+
		strings.Join(types, ", ")+
		`; types with "i" appended have colours inverted; `+
		`if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise png`, "type")
	fno := set.Flag(&o.fn, 'o', `output file, or "-" for standard output`,
		"file")

	if err := set.Getopt(args, nil); err != nil {
		printUsage(stderr, set)
		return nil, nil, usageError{err.Error()}
	}
	switch {
	case help:
		printUsage(stdout, set)
		return nil, nil, nil
	case version:
		printVersion(stdout)
		return nil, nil, nil
	}

	o.level = miniqr.Level(strings.Index("lmqhLMQH", *levs) & 3)
	o.version = miniqr.Version(*ver)
	o.mask = miniqr.Mask(*mask)
	o.style = miniqr.Style{Scale: int(*scale), Border: int(*margin)}
	if o.fn == "-" {
		o.fn = ""
	}
	if *typ == "" {
		*typ = "png"
		if !fno.Seen() && isTerminal(stdout) {
			*typ = "utf8"
		}
	}
	var err error
	if o.format, o.style.Reverse, err = lookupType(*typ); err != nil {
		return nil, nil, usageError{err.Error()}
	}
	if o.batch && o.fn == "" && !o.format.text {
		return nil, nil, usageError{fmt.Sprintf(
			"qr: -b with type %s requires -o", o.format.name)}
	}

	lvl := cfg.LogLevel
	if debug {
		lvl = slog.LevelDebug
	}
	o.log = slog.New(slog.NewTextHandler(stderr,
		&slog.HandlerOptions{Level: lvl}))
	return o, set.Args(), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// input returns the strings to encode: the arguments joined, or
// standard input with the final newline stripped.  In batch mode
// each argument or input line is a separate string.
func input(args []string, stdin io.Reader, batch bool) ([]string, error) {
	if len(args) != 0 {
		if batch {
			return args, nil
		}
		return []string{strings.Join(args, " ")}, nil
	}
	var b strings.Builder
	if _, err := io.Copy(&b, stdin); err != nil {
		return nil, fmt.Errorf("qr: %w", err)
	}
	s, _ := strings.CutSuffix(
		strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	if batch {
		if s == "" {
			return nil, nil
		}
		return strings.Split(s, "\n"), nil
	}
	return []string{s}, nil
}

// encode encodes s into a QR code.
func (o *options) encode(s string) (*miniqr.Code, error) {
	e, err := miniqr.New(o.version, o.level)
	if err != nil {
		return nil, err
	}
	if o.eightBit {
		e.Write([]byte(s))
	} else if _, err := e.WriteString(s); err != nil {
		return nil, err
	}
	c, err := e.Build(o.mask)
	if err != nil {
		return nil, err
	}
	o.log.Debug("encoded",
		"bytes", e.Len(),
		"version", int(c.Version()),
		"ecl", c.Level().String(),
		"mask", int(c.Mask()),
		"size", c.Size(),
		"penalty", c.Penalty())
	return c, nil
}

// generate encodes every string in data and writes the codes out.
func (o *options) generate(data []string, stdout io.Writer, fsys afero.Fs) error {
	codes := make([]*miniqr.Code, len(data))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, s := range data {
		i, s := i, s
		g.Go(func() error {
			c, err := o.encode(s)
			if err != nil {
				if o.batch {
					return fmt.Errorf("line %d: %w", i+1, err)
				}
				return err
			}
			codes[i] = c
			if o.fn == "" {
				return nil
			}
			n := -1
			if o.batch {
				n = i
			}
			fn := fileName(o.fn, n)
			if err := writeFile(fsys, fn, o.format, c, o.style); err != nil {
				return err
			}
			o.log.Debug("wrote", "file", fn)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if o.fn != "" {
		return nil
	}
	for _, c := range codes {
		if err := o.format.encode(c, stdout, o.style); err != nil {
			return err
		}
	}
	return nil
}

// run runs the command with the given arguments, streams, file
// system and environment, returning the exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, fsys afero.Fs, environ map[string]string) int {
	cfg, err := loadConfig(fsys, environ)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	o, args, err := parseFlags(args, cfg, stdout, stderr)
	var ue usageError
	switch {
	case errors.As(err, &ue):
		fmt.Fprintln(stderr, err)
		return exitUsage
	case o == nil:
		return exitOK
	}
	data, err := input(args, stdin, o.batch)
	if err == nil {
		o.log.Debug("input", "codes", len(data))
		err = o.generate(data, stdout, fsys)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	return exitOK
}

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr,
		afero.NewOsFs(), env.ToMap(os.Environ())))
}
