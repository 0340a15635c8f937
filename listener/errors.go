// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package listener

import (
	"errors"
	"fmt"
)

// Stage names the step of a listener start that failed.
type Stage string

const (
	StageConfig   Stage = "config"
	StageTLS      Stage = "tls"
	StageListen   Stage = "listen"
	StageRegister Stage = "register"
)

// StartError is returned when a listener fails to start.
type StartError struct {
	Ref   string
	Stage Stage
	Cause error
}

// Error implements the [builtin.error] interface.
func (e StartError) Error() string {
	return fmt.Sprintf("failed to start listener %s during %s: %s", e.Ref, e.Stage, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e StartError) Unwrap() error {
	return e.Cause
}

// NotFoundError is returned when no listener is registered under Ref.
type NotFoundError struct {
	Ref string
}

// Error implements the [builtin.error] interface.
func (e NotFoundError) Error() string {
	return fmt.Sprintf("listener not found: %s", e.Ref)
}

// AlreadyStartedError is returned when Ref is already registered.
type AlreadyStartedError struct {
	Ref string
}

// Error implements the [builtin.error] interface.
func (e AlreadyStartedError) Error() string {
	return fmt.Sprintf("listener already started: %s", e.Ref)
}

// UnknownTransportError is returned for a Transport with no registered wrapper.
type UnknownTransportError struct {
	Transport Transport
}

// Error implements the [builtin.error] interface.
func (e UnknownTransportError) Error() string {
	return fmt.Sprintf("unknown transport: %s", e.Transport)
}

var (
	ErrNoDispatch         = errors.New("protocol options are missing a dispatch router")
	ErrNoAcceptors        = errors.New("acceptor pool size must be positive")
	ErrMissingTLS         = errors.New("tls transport requires tls options")
	ErrEncryptedKey       = errors.New("private key is encrypted but no password was given")
	ErrNoCertificates     = errors.New("no certificates found in ca cert file")
	ErrUnknownCipherSuite = errors.New("unknown cipher suite")
)
