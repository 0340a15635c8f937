// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/z5labs/httpadapter"
	"github.com/z5labs/httpadapter/config"
	"github.com/z5labs/httpadapter/listener"
	"github.com/z5labs/httpadapter/pkg/noop"
	"github.com/z5labs/httpadapter/pkg/ptr"

	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, cfg UploadConfig) *listener.Router {
	t.Helper()

	d, err := httpadapter.BuildDispatch(context.Background(), echo{log: noop.Logger()}, cfg)
	require.NoError(t, err)

	r, err := listener.Compile(d)
	require.NoError(t, err)
	return r
}

func TestEcho(t *testing.T) {
	cfg := UploadConfig{MaxBytes: 64, ChunkBytes: 8}

	t.Run("will echo the request body", func(t *testing.T) {
		r := newRouter(t, cfg)

		req := httptest.NewRequest(http.MethodPost, "/anything", strings.NewReader("hello, echo"))
		req.Header.Set("Content-Type", "text/plain")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "text/plain", w.Header().Get("Content-Type"))
		require.Equal(t, "hello, echo", w.Body.String())
	})

	t.Run("will reject bodies over the limit", func(t *testing.T) {
		r := newRouter(t, cfg)

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 65)))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("will summarise multipart bodies", func(t *testing.T) {
		r := newRouter(t, cfg)

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("title", "report"))
		fw, err := mw.CreateFormFile("doc", "doc.txt")
		require.NoError(t, err)
		_, err = fw.Write([]byte("0123456789"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var s summary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
		require.Equal(t, []string{"report"}, s.Fields["title"])
		require.Equal(t, []fileSummary{{Filename: "doc.txt", Size: 10}}, s.Files["doc"])
	})

	t.Run("will reject multipart bodies over the limit", func(t *testing.T) {
		r := newRouter(t, cfg)

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("big", strings.Repeat("x", 100)))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestEcho_Init(t *testing.T) {
	testCases := []struct {
		name string
		opts any
	}{
		{name: "wrong options type", opts: "nope"},
		{name: "zero limits", opts: UploadConfig{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := httpadapter.BuildDispatch(context.Background(), echo{log: noop.Logger()}, tc.opts)
			require.ErrorAs(t, err, &httpadapter.InitError{})
		})
	}
}

func TestReadConfig(t *testing.T) {
	t.Run("will apply env overrides on top of the defaults", func(t *testing.T) {
		t.Setenv("ECHO_HTTP__PORT", "9000")
		t.Setenv("ECHO_HTTPS__ENABLED", "true")

		cfg, err := readConfig("")
		require.NoError(t, err)

		require.NotNil(t, cfg.HTTP.Port)
		require.Equal(t, 9000, *cfg.HTTP.Port)
		require.Equal(t, 10, cfg.HTTP.Acceptors)
		require.True(t, cfg.HTTP.Compress)
		require.True(t, cfg.HTTPS.Enabled)
		require.Equal(t, "ssl/cert.pem", cfg.HTTPS.Options.CertFile)
		require.Equal(t, "strong", cfg.HTTPS.Options.CipherSuite)
		require.Equal(t, 9090, cfg.Metrics.Port)
		require.Equal(t, int64(8388608), cfg.Upload.MaxBytes)
	})
}

func TestReadConfig_File(t *testing.T) {
	testCases := []struct {
		name    string
		file    string
		content string
	}{
		{name: "json", file: "echo.json", content: `{"http": {"port": 9100}, "upload": {"max_bytes": 1024}}`},
		{name: "yaml", file: "echo.yml", content: "http:\n  port: 9100\nupload:\n  max_bytes: 1024\n"},
	}

	for _, tc := range testCases {
		t.Run("will override the defaults with a "+tc.name+" file", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.file)
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))

			cfg, err := readConfig(path)
			require.NoError(t, err)

			require.NotNil(t, cfg.HTTP.Port)
			require.Equal(t, 9100, *cfg.HTTP.Port)
			require.Equal(t, int64(1024), cfg.Upload.MaxBytes)
			require.Equal(t, 10, cfg.HTTP.Acceptors)
		})
	}

	t.Run("will reject an unknown file format", func(t *testing.T) {
		_, err := readConfig(filepath.Join(t.TempDir(), "echo.toml"))
		require.ErrorAs(t, err, &config.UnsupportedFormatError{})
	})
}

func TestServing(t *testing.T) {
	lr := listener.NewRegistry()
	a := httpadapter.New(httpadapter.Registry(lr))
	readiness := serving(lr, "echo.HTTP")

	require.False(t, readiness.Healthy(context.Background()))

	_, err := a.StartPlain(context.Background(), echo{log: noop.Logger()}, UploadConfig{MaxBytes: 1, ChunkBytes: 1}, httpadapter.Options{
		IP:   netip.MustParseAddr("127.0.0.1"),
		Port: ptr.Ref(0),
	})
	require.NoError(t, err)
	require.True(t, readiness.Healthy(context.Background()))

	require.NoError(t, a.Shutdown(context.Background(), "echo.HTTP"))
	require.False(t, readiness.Healthy(context.Background()))
}
