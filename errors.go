// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package httpadapter

import (
	"fmt"
)

// MissingOptionError is returned when a required TLS option is absent.
type MissingOptionError struct {
	Key string
}

// Error implements the [builtin.error] interface.
func (e MissingOptionError) Error() string {
	return fmt.Sprintf("missing required option: %s", e.Key)
}

// MissingOTPAppError is returned when a relative certificate path is given
// without an otp_app to resolve it against.
type MissingOTPAppError struct {
	Key  string
	Path string
}

// Error implements the [builtin.error] interface.
func (e MissingOTPAppError) Error() string {
	return fmt.Sprintf("option %s is the relative path %q but otp_app is not set", e.Key, e.Path)
}

// FileNotFoundError is returned when a resolved certificate path does not
// exist on disk.
type FileNotFoundError struct {
	Key   string
	Path  string
	Cause error
}

// Error implements the [builtin.error] interface.
func (e FileNotFoundError) Error() string {
	return fmt.Sprintf("option %s points to a file which does not exist: %s", e.Key, e.Path)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e FileNotFoundError) Unwrap() error {
	return e.Cause
}

// PrivDirError is returned when the private directory of an otp_app
// cannot be found.
type PrivDirError struct {
	App string
	Env string
}

// Error implements the [builtin.error] interface.
func (e PrivDirError) Error() string {
	return fmt.Sprintf("private directory for app %q is unknown, set %s", e.App, e.Env)
}

// InvalidOptionError
type InvalidOptionError struct {
	Key    string
	Value  any
	Reason string
}

// Error implements the [builtin.error] interface.
func (e InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid value for option %s: %v: %s", e.Key, e.Value, e.Reason)
}

// UnknownSchemeError
type UnknownSchemeError struct {
	Scheme Scheme
}

// Error implements the [builtin.error] interface.
func (e UnknownSchemeError) Error() string {
	return fmt.Sprintf("unknown scheme: %s", e.Scheme)
}

// InitError is returned when the application init hook fails.
type InitError struct {
	App   string
	Cause error
}

// Error implements the [builtin.error] interface.
func (e InitError) Error() string {
	return fmt.Sprintf("failed to init application %s: %s", e.App, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InitError) Unwrap() error {
	return e.Cause
}

// AddressInUseError is returned by the start operations when the listen
// address is already bound, whatever the scheme. Callers may retry on
// another port.
type AddressInUseError struct {
	Ref   string
	Addr  string
	Cause error
}

// Error implements the [builtin.error] interface.
func (e AddressInUseError) Error() string {
	return fmt.Sprintf("address already in use for listener %s: %s", e.Ref, e.Addr)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e AddressInUseError) Unwrap() error {
	return e.Cause
}
