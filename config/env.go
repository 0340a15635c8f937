// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"os"
	"strings"

	"github.com/z5labs/httpadapter/config/key"
)

// EnvOption configures an [Env] source.
type EnvOption func(*Env)

// Prefix restricts the source to variables starting with p. The prefix is
// stripped from the resulting keys.
func Prefix(p string) EnvOption {
	return func(e *Env) {
		e.prefix = p
	}
}

// Separator splits variable names into nested keys,
// e.g. HTTPS__PORT becomes https.port with the separator "__".
func Separator(sep string) EnvOption {
	return func(e *Env) {
		e.sep = sep
	}
}

// Env represents a Source where its underlying values
// are extracted from environment variables. Keys are lower cased.
type Env struct {
	environ func() []string
	prefix  string
	sep     string
}

// FromEnv returns a Source which will apply its config
// from the environment variables available to the
// current process.
func FromEnv(opts ...EnvOption) Env {
	e := Env{
		environ: os.Environ,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Apply implements the Source interface.
func (src Env) Apply(store Store) error {
	for _, pair := range src.environ() {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		k, ok = strings.CutPrefix(k, src.prefix)
		if !ok || k == "" {
			continue
		}
		k = strings.ToLower(k)

		var keyer key.Keyer = key.Name(k)
		if src.sep != "" {
			keyer = key.Split(k, strings.ToLower(src.sep))
		}
		err := store.Set(keyer, v)
		if err != nil {
			return err
		}
	}
	return nil
}
