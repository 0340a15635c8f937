// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/z5labs/httpadapter/internal/try"
)

// UnsupportedFormatError is returned by [FromFile] sources whose path
// extension names no known format.
type UnsupportedFormatError struct {
	Path string
}

// Error implements the error interface.
func (e UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported config file format: %s", e.Path)
}

// FromFile returns a source which opens path when applied and decodes it
// by extension: .json as JSON, .yaml or .yml as YAML.
func FromFile(path string) Source {
	return file(path)
}

type file string

func (f file) Apply(store Store) error {
	path := string(f)

	var decode func(io.Reader) Source
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		decode = func(r io.Reader) Source { return FromJson(r) }
	case ".yaml", ".yml":
		decode = func(r io.Reader) Source { return FromYaml(r) }
	default:
		return UnsupportedFormatError{Path: path}
	}

	r, err := os.Open(path)
	if err != nil {
		return err
	}
	return decode(r).Apply(store)
}

// decoded applies the values unmarshalled from r. r is closed if it
// implements io.Closer.
func decoded(store Store, r io.Reader, unmarshal func([]byte, any) error, invalid func(error) error) (err error) {
	defer try.Close(&err, r)

	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	m := make(map[string]any)
	err = unmarshal(b, &m)
	if err != nil {
		return invalid(err)
	}
	return Map(m).Apply(store)
}
