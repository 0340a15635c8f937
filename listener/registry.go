// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package listener

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net"
	"sync"

	"github.com/z5labs/httpadapter/pkg/noop"
	"github.com/z5labs/httpadapter/pkg/slogfield"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/net/netutil"
)

// RegistryOption configures a [Registry].
type RegistryOption func(*Registry)

// LogHandler sets the slog.Handler used by the registry and its listeners.
func LogHandler(h slog.Handler) RegistryOption {
	return func(r *Registry) {
		r.log = slog.New(h)
	}
}

// Metrics registers connection metrics with reg. Registries sharing a
// Registerer share the collectors.
func Metrics(reg prometheus.Registerer) RegistryOption {
	return func(r *Registry) {
		r.metrics = newConnMetrics(reg)
	}
}

// Registry owns a set of listeners keyed by reference name.
type Registry struct {
	listen  func(network, addr string) (net.Listener, error)
	log     *slog.Logger
	metrics *connMetrics

	mu        sync.Mutex
	listeners map[string]*Listener
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		listen:    net.Listen,
		log:       noop.Logger(),
		listeners: make(map[string]*Listener),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Default is the process wide registry used by the package level functions.
var Default = NewRegistry()

// StartClear starts a plain HTTP listener on the [Default] registry.
func StartClear(ref string, acceptors int, t TransportOptions, p ProtocolOptions) (*Listener, error) {
	return Default.StartClear(ref, acceptors, t, p)
}

// StartTLS starts an HTTPS listener on the [Default] registry.
func StartTLS(ref string, acceptors int, t TransportOptions, p ProtocolOptions) (*Listener, error) {
	return Default.StartTLS(ref, acceptors, t, p)
}

// Stop stops the listener registered under ref on the [Default] registry.
func Stop(ctx context.Context, ref string) error {
	return Default.Stop(ctx, ref)
}

// StartClear starts a plain HTTP listener.
func (r *Registry) StartClear(ref string, acceptors int, t TransportOptions, p ProtocolOptions) (*Listener, error) {
	return r.Start(TCP, ref, acceptors, t, p)
}

// StartTLS starts an HTTPS listener.
func (r *Registry) StartTLS(ref string, acceptors int, t TransportOptions, p ProtocolOptions) (*Listener, error) {
	return r.Start(TLS, ref, acceptors, t, p)
}

type wrapFunc func(net.Listener, TransportOptions) (net.Listener, error)

var transports = map[Transport]wrapFunc{
	TCP: func(ln net.Listener, _ TransportOptions) (net.Listener, error) {
		return ln, nil
	},
	TLS: func(ln net.Listener, t TransportOptions) (net.Listener, error) {
		if t.TLS == nil {
			return nil, ErrMissingTLS
		}
		cfg := t.TLS.Loaded
		if cfg == nil {
			var err error
			cfg, err = t.TLS.Config()
			if err != nil {
				return nil, err
			}
		}
		return tls.NewListener(ln, cfg), nil
	},
}

// Start binds the socket described by t and starts serving p.Dispatch with
// a pool of acceptors goroutines. The socket is bound before the reference
// name is checked, so a port that is already taken always fails in
// StageListen.
func (r *Registry) Start(transport Transport, ref string, acceptors int, t TransportOptions, p ProtocolOptions) (*Listener, error) {
	fail := func(stage Stage, err error) (*Listener, error) {
		return nil, StartError{Ref: ref, Stage: stage, Cause: err}
	}

	wrap, ok := transports[transport]
	if !ok {
		return fail(StageConfig, UnknownTransportError{Transport: transport})
	}
	if acceptors <= 0 {
		return fail(StageConfig, ErrNoAcceptors)
	}
	if p.Dispatch == nil {
		return fail(StageConfig, ErrNoDispatch)
	}
	if transport == TLS && t.TLS == nil {
		return fail(StageTLS, ErrMissingTLS)
	}

	tcpLn, err := r.listen("tcp", t.Addr())
	if err != nil {
		return fail(StageListen, err)
	}

	ln := tcpLn
	if t.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, t.MaxConnections)
	}
	ln, err = wrap(ln, t)
	if err != nil {
		tcpLn.Close()
		return fail(StageTLS, err)
	}

	log := r.log.With(slogfield.Ref(ref), slogfield.String("transport", transport.String()))
	l := &Listener{
		ref:       ref,
		transport: transport,
		addr:      tcpLn.Addr(),
		drain:     p.DrainTimeout,
		srv:       newServer(ref, p, log, r.metrics),
		log:       log,
		pool:      newAcceptorPool(ln, acceptors),
		done:      make(chan struct{}),
	}

	r.mu.Lock()
	if _, exists := r.listeners[ref]; exists {
		r.mu.Unlock()
		l.pool.Close()
		l.pool.wait()
		return fail(StageRegister, AlreadyStartedError{Ref: ref})
	}
	r.listeners[ref] = l
	r.mu.Unlock()

	go l.serve()

	log.Debug("listener registered", slogfield.Int("acceptors", acceptors), slogfield.Any("transport_options", t))
	return l, nil
}

// Lookup returns the listener registered under ref.
func (r *Registry) Lookup(ref string) (*Listener, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listeners[ref]
	return l, ok
}

// Stop drains and stops the listener registered under ref and removes it
// from the registry. It returns a [NotFoundError] if ref is unknown.
func (r *Registry) Stop(ctx context.Context, ref string) error {
	r.mu.Lock()
	l, ok := r.listeners[ref]
	if !ok {
		r.mu.Unlock()
		return NotFoundError{Ref: ref}
	}
	delete(r.listeners, ref)
	r.mu.Unlock()

	return l.shutdown(ctx)
}
