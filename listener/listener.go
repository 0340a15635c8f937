// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package listener

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/z5labs/httpadapter/pkg/slogfield"

	"github.com/klauspost/compress/gzhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Listener is a running listener registered under a reference name.
type Listener struct {
	ref       string
	transport Transport
	addr      net.Addr
	drain     time.Duration

	srv  *http.Server
	pool *acceptorPool
	log  *slog.Logger

	done chan struct{}
	err  error
}

// Ref returns the reference name the listener is registered under.
func (l *Listener) Ref() string {
	return l.ref
}

// Transport returns the transport the listener was started with.
func (l *Listener) Transport() Transport {
	return l.transport
}

// Addr returns the bound address. With port 0 it carries the port the
// operating system picked.
func (l *Listener) Addr() net.Addr {
	return l.addr
}

// Done is closed once the listener has stopped serving.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

// Healthy reports whether the listener is still serving. It implements
// the health.Metric interface.
func (l *Listener) Healthy(ctx context.Context) bool {
	select {
	case <-l.done:
		return false
	default:
		return true
	}
}

// Wait blocks until the listener stops serving. It returns nil when the
// listener was stopped with [Registry.Stop].
func (l *Listener) Wait() error {
	<-l.done
	return l.err
}

func newServer(ref string, p ProtocolOptions, log *slog.Logger, m *connMetrics) *http.Server {
	var h http.Handler = p.Dispatch
	if p.Compress {
		h = gzhttp.GzipHandler(h)
	}
	h = otelhttp.NewHandler(h, ref)

	return &http.Server{
		Handler:           h,
		ReadHeaderTimeout: orDefault(p.ReadHeaderTimeout, defaultReadHeaderTimeout),
		ReadTimeout:       p.ReadTimeout,
		WriteTimeout:      p.WriteTimeout,
		IdleTimeout:       orDefault(p.IdleTimeout, defaultIdleTimeout),
		MaxHeaderBytes:    orDefault(p.MaxHeaderBytes, defaultMaxHeaderBytes),
		ConnState:         m.connState(ref),
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
	}
}

func (l *Listener) serve() {
	defer close(l.done)

	l.log.Info("listener started", slogfield.String("addr", l.addr.String()))
	err := l.srv.Serve(l.pool)
	l.pool.Close()
	l.pool.wait()

	if errors.Is(err, http.ErrServerClosed) {
		l.log.Info("listener stopped")
		return
	}
	l.log.Error("listener stopped unexpectedly", slogfield.Error(err))
	l.err = err
}

func (l *Listener) shutdown(ctx context.Context) error {
	if l.drain > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.drain)
		defer cancel()
	}

	l.log.Info("draining listener")
	err := l.srv.Shutdown(ctx)
	if err != nil {
		l.log.Warn("drain did not complete, closing connections", slogfield.Error(err))
		err = errors.Join(err, l.srv.Close())
	}
	l.pool.Close()
	<-l.done
	return err
}
