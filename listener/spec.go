// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package listener

import (
	"context"
	"errors"

	"github.com/z5labs/httpadapter/internal/fixedpool"
)

// Spec describes a listener without starting it.
type Spec struct {
	Transport        Transport
	Ref              string
	Acceptors        int
	TransportOptions TransportOptions
	ProtocolOptions  ProtocolOptions

	// Registry defaults to [Default].
	Registry *Registry

	// MapStartError, when set, rewrites errors returned by Start.
	MapStartError func(error) error
}

func (s Spec) registry() *Registry {
	if s.Registry == nil {
		return Default
	}
	return s.Registry
}

// Start starts the described listener.
func (s Spec) Start() (*Listener, error) {
	l, err := s.registry().Start(s.Transport, s.Ref, s.Acceptors, s.TransportOptions, s.ProtocolOptions)
	if err != nil && s.MapStartError != nil {
		return nil, s.MapStartError(err)
	}
	return l, err
}

// Run starts the listener and blocks until ctx is cancelled or the listener
// fails. On cancellation the listener is drained and stopped.
func (s Spec) Run(ctx context.Context) error {
	l, err := s.Start()
	if err != nil {
		return err
	}

	err = fixedpool.Wait(
		ctx,
		func(ctx context.Context) error {
			return l.Wait()
		},
		func(ctx context.Context) error {
			select {
			case <-ctx.Done():
			case <-l.Done():
			}
			err := s.registry().Stop(context.Background(), s.Ref)
			var nf NotFoundError
			if errors.As(err, &nf) {
				return nil
			}
			return err
		},
	)
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
