// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package httpadapter

import (
	"context"
	"errors"
	"log/slog"
	"syscall"

	"github.com/z5labs/httpadapter/listener"
	"github.com/z5labs/httpadapter/pkg/noop"
	"github.com/z5labs/httpadapter/pkg/slogfield"
)

// Option configures an [Adapter].
type Option func(*Adapter)

// LogHandler sets the slog.Handler used by the adapter and the handlers
// it builds.
func LogHandler(h slog.Handler) Option {
	return func(a *Adapter) {
		a.log = slog.New(h)
	}
}

// Registry sets the listener registry. Defaults to [listener.Default].
func Registry(r *listener.Registry) Option {
	return func(a *Adapter) {
		a.registry = r
	}
}

// PrivDir sets how the private directory of an otp_app is found.
// Defaults to [EnvPrivDir].
func PrivDir(f PrivDirFunc) Option {
	return func(a *Adapter) {
		a.normalizer.PrivDir = f
	}
}

// Adapter starts and stops applications behind listeners.
type Adapter struct {
	log        *slog.Logger
	registry   *listener.Registry
	normalizer Normalizer
}

// New returns an Adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		log:      noop.Logger(),
		registry: listener.Default,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Default is used by the package level functions.
var Default = New()

// StartPlain starts app behind a plain HTTP listener on the [Default] adapter.
func StartPlain(ctx context.Context, app Application, initOpts any, opts Options) (*listener.Listener, error) {
	return Default.StartPlain(ctx, app, initOpts, opts)
}

// StartTLS starts app behind an HTTPS listener on the [Default] adapter.
func StartTLS(ctx context.Context, app Application, initOpts any, opts Options) (*listener.Listener, error) {
	return Default.StartTLS(ctx, app, initOpts, opts)
}

// Shutdown stops the listener registered under ref on the [Default] adapter.
func Shutdown(ctx context.Context, ref string) error {
	return Default.Shutdown(ctx, ref)
}

// ChildSpec describes a listener on the [Default] adapter without starting it.
func ChildSpec(ctx context.Context, scheme Scheme, app Application, initOpts any, opts Options) (listener.Spec, error) {
	return Default.ChildSpec(ctx, scheme, app, initOpts, opts)
}

// Args are the arguments handed to the listener registry.
type Args struct {
	Ref       string
	Acceptors int
	Transport listener.TransportOptions
	Protocol  listener.ProtocolOptions
}

// StartPlain starts app behind a plain HTTP listener. If the address is
// already bound it returns an [AddressInUseError].
func (a *Adapter) StartPlain(ctx context.Context, app Application, initOpts any, opts Options) (*listener.Listener, error) {
	return a.start(ctx, Plain, app, initOpts, opts)
}

// StartTLS starts app behind an HTTPS listener. The TLS material is loaded
// before the socket is bound. If the address is already bound it returns
// an [AddressInUseError].
func (a *Adapter) StartTLS(ctx context.Context, app Application, initOpts any, opts Options) (*listener.Listener, error) {
	return a.start(ctx, TLS, app, initOpts, opts)
}

func (a *Adapter) start(ctx context.Context, scheme Scheme, app Application, initOpts any, opts Options) (*listener.Listener, error) {
	args, err := a.buildArgs(ctx, scheme, app, initOpts, opts)
	if err != nil {
		return nil, err
	}
	if args.Transport.TLS != nil {
		cfg, err := args.Transport.TLS.Config()
		if err != nil {
			return nil, listener.StartError{Ref: args.Ref, Stage: listener.StageTLS, Cause: err}
		}
		loaded := *args.Transport.TLS
		loaded.Loaded = cfg
		args.Transport.TLS = &loaded
	}

	log := a.log.With(slogfield.Ref(args.Ref), slogfield.String("scheme", scheme.String()))
	log.InfoContext(ctx, "starting listener", slogfield.Any("transport_options", args.Transport))

	l, err := a.registry.Start(schemes[scheme].transport, args.Ref, args.Acceptors, args.Transport, args.Protocol)
	if err != nil {
		err = translateStartError(args, err)
		log.ErrorContext(ctx, "failed to start listener", slogfield.Error(err))
		return nil, err
	}
	return l, nil
}

// translateStartError maps the listen stage failure caused by EADDRINUSE
// to an AddressInUseError. Every other error is returned unchanged.
func translateStartError(args Args, err error) error {
	var serr listener.StartError
	if !errors.As(err, &serr) || serr.Stage != listener.StageListen {
		return err
	}
	if !errors.Is(serr.Cause, syscall.EADDRINUSE) {
		return err
	}
	return AddressInUseError{
		Ref:   args.Ref,
		Addr:  args.Transport.Addr(),
		Cause: err,
	}
}

// Shutdown stops the listener registered under ref. A
// [listener.NotFoundError] is returned if there is none.
func (a *Adapter) Shutdown(ctx context.Context, ref string) error {
	a.log.InfoContext(ctx, "shutting down listener", slogfield.Ref(ref))
	return a.registry.Stop(ctx, ref)
}

// ChildSpec returns a [listener.Spec] which can be run by a supervisor. The
// application init hook is called unless opts carries a Dispatch. Starting
// the spec on a bound address returns an [AddressInUseError].
func (a *Adapter) ChildSpec(ctx context.Context, scheme Scheme, app Application, initOpts any, opts Options) (listener.Spec, error) {
	args, err := a.buildArgs(ctx, scheme, app, initOpts, opts)
	if err != nil {
		return listener.Spec{}, err
	}
	spec := listener.Spec{
		Transport:        schemes[scheme].transport,
		Ref:              args.Ref,
		Acceptors:        args.Acceptors,
		TransportOptions: args.Transport,
		ProtocolOptions:  args.Protocol,
		Registry:         a.registry,
		MapStartError: func(err error) error {
			return translateStartError(args, err)
		},
	}
	return spec, nil
}

func (a *Adapter) buildArgs(ctx context.Context, scheme Scheme, app Application, initOpts any, opts Options) (Args, error) {
	if _, ok := schemes[scheme]; !ok {
		return Args{}, UnknownSchemeError{Scheme: scheme}
	}

	if opts.Ref == "" {
		opts.Ref = RefName(app, scheme)
	}
	if opts.Dispatch == nil {
		d, err := buildDispatch(ctx, app, initOpts, a.log)
		if err != nil {
			return Args{}, err
		}
		opts.Dispatch = d
	}

	norm, err := a.normalizer.Normalize(scheme, opts)
	if err != nil {
		return Args{}, err
	}

	router, err := listener.Compile(norm.Dispatch)
	if err != nil {
		return Args{}, err
	}

	args := Args{
		Ref:       norm.Ref,
		Acceptors: norm.Acceptors,
		Transport: transportOptions(scheme, norm),
		Protocol:  protocolOptions(norm, router),
	}
	return args, nil
}
