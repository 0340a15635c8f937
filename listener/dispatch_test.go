// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package listener

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func textHandler(s string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, s)
	})
}

func TestCompile(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if a route has no handler", func(t *testing.T) {
			_, err := Compile(Dispatch{
				{Host: AnyHost, Routes: []Route{{Pattern: "/"}}},
			})

			var rerr RouteError
			require.ErrorAs(t, err, &rerr)
			require.Equal(t, "/", rerr.Pattern)
		})

		t.Run("if a pattern is registered twice", func(t *testing.T) {
			_, err := Compile(Dispatch{
				{Host: AnyHost, Routes: []Route{
					{Pattern: "/", Handler: textHandler("a")},
					{Pattern: "/", Handler: textHandler("b")},
				}},
			})
			require.ErrorAs(t, err, &RouteError{})
		})
	})
}

func TestRouter_ServeHTTP(t *testing.T) {
	r, err := Compile(Dispatch{
		{Host: "api.example.com", Routes: []Route{
			{Pattern: "/", Handler: textHandler("api")},
		}},
		{Host: AnyHost, Routes: []Route{
			{Pattern: "/static/", Handler: textHandler("static")},
			{Pattern: "/", Handler: textHandler("catch-all")},
		}},
	})
	require.NoError(t, err)

	testCases := []struct {
		name   string
		host   string
		path   string
		status int
		body   string
	}{
		{name: "matches a specific host", host: "api.example.com:4000", path: "/x", status: http.StatusOK, body: "api"},
		{name: "matches hosts case insensitively", host: "API.example.com", path: "/", status: http.StatusOK, body: "api"},
		{name: "falls back to any host", host: "other.example.com", path: "/static/app.js", status: http.StatusOK, body: "static"},
		{name: "catch-all matches every path", host: "other.example.com", path: "/a/b/c", status: http.StatusOK, body: "catch-all"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			req.Host = tc.host
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			require.Equal(t, tc.status, w.Code)
			require.Equal(t, tc.body, w.Body.String())
		})
	}

	t.Run("responds 404 when no host matches", func(t *testing.T) {
		r, err := Compile(Dispatch{
			{Host: "api.example.com", Routes: []Route{{Pattern: "/", Handler: textHandler("api")}}},
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = "other.example.com"
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
