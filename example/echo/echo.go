// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/z5labs/httpadapter/conn"
	"github.com/z5labs/httpadapter/pkg/slogfield"

	"go.opentelemetry.io/otel"
)

// UploadConfig bounds how much of a request body the echo app reads.
type UploadConfig struct {
	MaxBytes   int64 `config:"max_bytes"`
	ChunkBytes int   `config:"chunk_bytes"`
}

// echo replies with the request body. Multipart bodies are summarised
// as json instead.
type echo struct {
	log *slog.Logger
}

func (echo) Name() string {
	return "echo"
}

func (e echo) Init(ctx context.Context, opts any) (any, error) {
	cfg, ok := opts.(UploadConfig)
	if !ok {
		return nil, errors.New("echo expects an UploadConfig")
	}
	if cfg.MaxBytes <= 0 || cfg.ChunkBytes <= 0 {
		return nil, errors.New("upload limits must be positive")
	}
	e.log.InfoContext(ctx, "echo initialised", slogfield.Int64("max_bytes", cfg.MaxBytes), slogfield.Int("chunk_bytes", cfg.ChunkBytes))
	return cfg, nil
}

func (e echo) Call(ctx context.Context, c conn.Conn, state any) error {
	ctx, span := otel.Tracer("echo").Start(ctx, "echo.Call")
	defer span.End()

	cfg := state.(UploadConfig)
	if strings.HasPrefix(c.Header().Get("Content-Type"), "multipart/") {
		return e.summarise(ctx, c, cfg)
	}

	var body []byte
	for {
		chunk, err := c.StreamBody(ctx, cfg.ChunkBytes)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if int64(len(body)+len(chunk)) > cfg.MaxBytes {
			return c.SendResponse(ctx, http.StatusRequestEntityTooLarge, nil, nil)
		}
		body = append(body, chunk...)
	}

	header := http.Header{}
	if ct := c.Header().Get("Content-Type"); ct != "" {
		header.Set("Content-Type", ct)
	}
	return c.SendResponse(ctx, http.StatusOK, header, body)
}

type fileSummary struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

type summary struct {
	Fields map[string][]string      `json:"fields"`
	Files  map[string][]fileSummary `json:"files"`
}

func classify(h textproto.MIMEHeader) (conn.Disposition, error) {
	name := conn.FormName(h)
	switch {
	case name == "":
		return conn.Skip{}, nil
	case conn.FileName(h) != "":
		return conn.File{Name: name, Sink: io.Discard}, nil
	default:
		return conn.Field{Name: name}, nil
	}
}

func (e echo) summarise(ctx context.Context, c conn.Conn, cfg UploadConfig) error {
	params, err := c.ParseMultipart(ctx, cfg.MaxBytes, classify)

	var tooLarge *conn.TooLargeError
	if errors.As(err, &tooLarge) {
		e.log.WarnContext(ctx, "multipart body too large", slogfield.Int64("limit", tooLarge.Limit))
		return c.SendResponse(ctx, http.StatusRequestEntityTooLarge, nil, nil)
	}
	if err != nil {
		return err
	}

	s := summary{
		Fields: params.Fields,
		Files:  make(map[string][]fileSummary, len(params.Files)),
	}
	for name, uploads := range params.Files {
		for _, u := range uploads {
			s.Files[name] = append(s.Files[name], fileSummary{Filename: u.Filename, Size: u.Size})
		}
	}

	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.SendResponse(ctx, http.StatusOK, http.Header{"Content-Type": {"application/json"}}, b)
}
