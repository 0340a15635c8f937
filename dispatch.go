// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/z5labs/httpadapter/conn"
	"github.com/z5labs/httpadapter/internal/try"
	"github.com/z5labs/httpadapter/listener"
	"github.com/z5labs/httpadapter/pkg/noop"
	"github.com/z5labs/httpadapter/pkg/slogfield"

	"github.com/google/uuid"
)

// Application is driven by the listener once per request.
type Application interface {
	// Init is called once before the listener starts. The returned state
	// is passed to every Call.
	Init(ctx context.Context, opts any) (any, error)

	// Call serves a single request. Returning an error before a response
	// was sent replies with 500.
	Call(ctx context.Context, c conn.Conn, state any) error
}

// Namer can be implemented by an [Application] to choose the name used
// in its default reference name.
type Namer interface {
	Name() string
}

// AppName returns the name of app used in reference names.
func AppName(app Application) string {
	if n, ok := app.(Namer); ok {
		return n.Name()
	}
	t := reflect.TypeOf(app)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return "application"
	}
	return t.Name()
}

// RefName returns the default reference name of app under scheme.
func RefName(app Application, scheme Scheme) string {
	return AppName(app) + "." + schemes[scheme].suffix
}

// BuildDispatch calls the init hook of app once and returns a routing table
// sending every request on every host to app.
func BuildDispatch(ctx context.Context, app Application, initOpts any) (listener.Dispatch, error) {
	return buildDispatch(ctx, app, initOpts, noop.Logger())
}

func buildDispatch(ctx context.Context, app Application, initOpts any, log *slog.Logger) (listener.Dispatch, error) {
	state, err := app.Init(ctx, initOpts)
	if err != nil {
		return nil, InitError{App: AppName(app), Cause: err}
	}

	h := &handler{
		app:   app,
		state: state,
		log:   log.With(slogfield.String("app", AppName(app))),
	}
	d := listener.Dispatch{
		{
			Host: listener.AnyHost,
			Routes: []listener.Route{
				{Pattern: "/", Handler: h},
			},
		},
	}
	return d, nil
}

type handler struct {
	app   Application
	state any
	log   *slog.Logger
}

// ServeHTTP implements the [http.Handler] interface.
func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.log.With(
		slogfield.RequestID(uuid.NewString()),
		slogfield.String("method", r.Method),
		slogfield.String("path", r.URL.Path),
	)

	c := newHTTPConn(w, r)
	err := h.call(ctx, c)
	if err == nil {
		return
	}
	log.ErrorContext(ctx, "application failed to serve request", slogfield.Error(err))
	if c.Sent() {
		return
	}
	err = c.SendResponse(ctx, http.StatusInternalServerError, nil, nil)
	if err != nil {
		log.ErrorContext(ctx, "failed to send error response", slogfield.Error(err))
	}
}

func (h *handler) call(ctx context.Context, c conn.Conn) (err error) {
	defer try.Recover(&err)

	return h.app.Call(ctx, c, h.state)
}
