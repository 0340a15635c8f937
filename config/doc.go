// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config reads listener options from YAML, JSON, maps and the
// environment and unmarshals them into Go values.
//
// Sources are applied in order and later sources override earlier ones:
//
//	m, err := config.Read(
//	    config.FromYaml(f),
//	    config.FromEnv(config.Prefix("HTTPADAPTER_")),
//	)
//	if err != nil {
//	    return err
//	}
//
//	var opts httpadapter.Options
//	err = m.Unmarshal(&opts)
//
// Struct fields are matched with the "config" tag. Strings are decoded into
// any type implementing [encoding.TextUnmarshaler] (e.g. netip.Addr) and into
// [time.Duration].
package config
