// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/z5labs/httpadapter/conn"
	"github.com/z5labs/httpadapter/listener"

	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, d listener.Dispatch, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	r, err := listener.Compile(d)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBuildDispatch(t *testing.T) {
	t.Run("will call init exactly once", func(t *testing.T) {
		app := &App{}

		d, err := BuildDispatch(context.Background(), app, "state")
		require.NoError(t, err)
		require.Equal(t, 1, app.inits)

		for _, path := range []string{"/", "/a", "/a/b/c"} {
			w := serve(t, d, httptest.NewRequest(http.MethodPost, path, strings.NewReader("body")))
			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, "body", w.Body.String())
			require.Equal(t, "state", w.Header().Get("X-State"))
		}
		require.Equal(t, 1, app.inits)
	})

	t.Run("will route every host to the application", func(t *testing.T) {
		d, err := BuildDispatch(context.Background(), &App{}, nil)
		require.NoError(t, err)
		require.Len(t, d, 1)
		require.Equal(t, listener.AnyHost, d[0].Host)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = "anything.example.com"
		w := serve(t, d, req)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("will return an InitError", func(t *testing.T) {
		initErr := errors.New("failed")
		app := &App{err: initErr}

		_, err := BuildDispatch(context.Background(), app, nil)

		var ierr InitError
		require.ErrorAs(t, err, &ierr)
		require.Equal(t, "App", ierr.App)
		require.ErrorIs(t, err, initErr)
	})
}

func TestHandler(t *testing.T) {
	t.Run("will respond 500", func(t *testing.T) {
		testCases := []struct {
			name string
			call appFunc
		}{
			{
				name: "if the application returns an error",
				call: func(ctx context.Context, c conn.Conn, state any) error {
					return errors.New("failed")
				},
			},
			{
				name: "if the application panics",
				call: func(ctx context.Context, c conn.Conn, state any) error {
					panic("boom")
				},
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				d, err := BuildDispatch(context.Background(), tc.call, nil)
				require.NoError(t, err)

				w := serve(t, d, httptest.NewRequest(http.MethodGet, "/", nil))
				require.Equal(t, http.StatusInternalServerError, w.Code)
			})
		}
	})

	t.Run("will log a distinct request id per request", func(t *testing.T) {
		var buf bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&buf, nil))

		app := appFunc(func(ctx context.Context, c conn.Conn, state any) error {
			return errors.New("failed")
		})
		d, err := buildDispatch(context.Background(), app, nil, log)
		require.NoError(t, err)

		r, err := listener.Compile(d)
		require.NoError(t, err)
		for i := 0; i < 2; i++ {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		}

		var ids []string
		dec := json.NewDecoder(&buf)
		for dec.More() {
			var record map[string]any
			require.NoError(t, dec.Decode(&record))
			if record["msg"] != "application failed to serve request" {
				continue
			}
			id, ok := record["request_id"].(string)
			require.True(t, ok)
			require.NotEmpty(t, id)
			ids = append(ids, id)
		}
		require.Len(t, ids, 2)
		require.NotEqual(t, ids[0], ids[1])
	})

	t.Run("will keep the response already sent", func(t *testing.T) {
		app := appFunc(func(ctx context.Context, c conn.Conn, state any) error {
			err := c.SendResponse(ctx, http.StatusAccepted, nil, []byte("ok"))
			if err != nil {
				return err
			}
			return errors.New("failed after responding")
		})

		d, err := BuildDispatch(context.Background(), app, nil)
		require.NoError(t, err)

		w := serve(t, d, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusAccepted, w.Code)
		require.Equal(t, "ok", w.Body.String())
	})
}

func TestRefName(t *testing.T) {
	testCases := []struct {
		name   string
		app    Application
		scheme Scheme
		ref    string
	}{
		{name: "pointer type plain", app: &App{}, scheme: Plain, ref: "App.HTTP"},
		{name: "pointer type tls", app: &App{}, scheme: TLS, ref: "App.HTTPS"},
		{name: "named type", app: appFunc(nil), scheme: Plain, ref: "appFunc.HTTP"},
		{name: "Namer", app: namedApp{name: "Echo"}, scheme: TLS, ref: "Echo.HTTPS"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.ref, RefName(tc.app, tc.scheme))
		})
	}
}
