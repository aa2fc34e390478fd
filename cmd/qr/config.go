// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"github.com/unixdj/miniqr"
)

// dotEnv is the file with default settings, if present.
const dotEnv = ".env"

// config holds defaults for command line flags.
type config struct {
	Level    string     `env:"LEVEL" envDefault:"l"`
	Version  int        `env:"VERSION" envDefault:"0"`
	Mask     int        `env:"MASK" envDefault:"-1"`
	Scale    int        `env:"SCALE"`
	Margin   int        `env:"MARGIN"`
	Type     string     `env:"TYPE"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`
}

// loadConfig reads the configuration from QR_* variables in environ,
// falling back to those in the .env file in the current directory
// of fsys.  Values that no flag would accept are rejected.
func loadConfig(fsys afero.Fs, environ map[string]string) (config, error) {
	vars := make(map[string]string, len(environ))
	f, err := fsys.Open(dotEnv)
	switch {
	case err == nil:
		defer f.Close()
		if vars, err = godotenv.Parse(f); err != nil {
			return config{}, fmt.Errorf("qr: %s: %w", dotEnv, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return config{}, fmt.Errorf("qr: %w", err)
	}
	for k, v := range environ {
		vars[k] = v
	}

	cfg := config{
		Scale:  miniqr.DefaultStyle.Scale,
		Margin: miniqr.DefaultStyle.Border,
	}
	if err := env.ParseWithOptions(&cfg, env.Options{
		Environment: vars,
		Prefix:      "QR_",
	}); err != nil {
		return config{}, fmt.Errorf("qr: environment: %w", err)
	}
	if err := cfg.check(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

// check validates cfg against the ranges of the corresponding flags.
func (cfg config) check() error {
	switch {
	case len(cfg.Level) != 1 || !strings.Contains("lmqhLMQH", cfg.Level):
		return fmt.Errorf("qr: bad QR_LEVEL %q", cfg.Level)
	case cfg.Version < int(miniqr.AutoVersion) || cfg.Version > 9:
		return fmt.Errorf("qr: bad QR_VERSION %d", cfg.Version)
	case cfg.Mask < int(miniqr.AutoMask) || cfg.Mask > 7:
		return fmt.Errorf("qr: bad QR_MASK %d", cfg.Mask)
	case cfg.Scale < 1 || cfg.Scale > maxScale:
		return fmt.Errorf("qr: bad QR_SCALE %d", cfg.Scale)
	case cfg.Margin < 0 || cfg.Margin > maxMargin:
		return fmt.Errorf("qr: bad QR_MARGIN %d", cfg.Margin)
	}
	if cfg.Type != "" {
		if _, _, err := lookupType(cfg.Type); err != nil {
			return fmt.Errorf("qr: bad QR_TYPE %q", cfg.Type)
		}
	}
	return nil
}
