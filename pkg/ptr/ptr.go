// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package ptr provides helpers for optional values expressed as pointers.
package ptr

// Ref returns a reference of the given value.
func Ref[T any](t T) *T {
	return &t
}

// DerefOr returns *t, or def if t is nil.
func DerefOr[T any](t *T, def T) T {
	if t == nil {
		return def
	}
	return *t
}
