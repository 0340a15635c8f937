// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package httpadapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/z5labs/httpadapter/conn"
)

// DefaultChunkSize is used by StreamBody when the limit is not positive.
const DefaultChunkSize = 64 << 10

// httpConn implements [conn.Conn] on top of net/http.
type httpConn struct {
	w http.ResponseWriter
	r *http.Request

	sent    bool
	eof     bool
	written int64
}

func newHTTPConn(w http.ResponseWriter, r *http.Request) *httpConn {
	return &httpConn{w: w, r: r}
}

func (c *httpConn) Method() string {
	return c.r.Method
}

func (c *httpConn) Path() string {
	return c.r.URL.Path
}

func (c *httpConn) Header() http.Header {
	return c.r.Header
}

// Sent reports whether a response has been sent.
func (c *httpConn) Sent() bool {
	return c.sent
}

// BodyBytesWritten returns the number of response body bytes handed to the
// underlying connection.
func (c *httpConn) BodyBytesWritten() int64 {
	return c.written
}

func (c *httpConn) SendResponse(ctx context.Context, status int, header http.Header, body []byte) error {
	if c.sent {
		return conn.ErrAlreadySent
	}
	c.sent = true

	dst := c.w.Header()
	for k, vs := range header {
		dst[k] = append([]string(nil), vs...)
	}
	c.w.WriteHeader(status)

	if c.r.Method == http.MethodHead || len(body) == 0 {
		return nil
	}
	n, err := c.w.Write(body)
	c.written += int64(n)
	return err
}

func (c *httpConn) StreamBody(ctx context.Context, limit int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.eof || c.r.Body == nil {
		return nil, io.EOF
	}
	if limit <= 0 {
		limit = DefaultChunkSize
	}

	buf := make([]byte, limit)
	n, err := io.ReadFull(c.r.Body, buf)
	switch {
	case err == nil:
		return buf[:n], nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		c.eof = true
		return buf[:n], nil
	case errors.Is(err, io.EOF):
		c.eof = true
		return nil, io.EOF
	default:
		return nil, err
	}
}

// ParseMultipart counts part body bytes against limit, including the
// bytes of skipped parts. Part headers and boundaries are not counted.
func (c *httpConn) ParseMultipart(ctx context.Context, limit int64, classify conn.Classifier) (conn.Params, error) {
	contentType := c.r.Header.Get("Content-Type")
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		return conn.Params{}, conn.NotMultipartError{ContentType: contentType}
	}
	if c.eof || c.r.Body == nil {
		return conn.NewParams(), nil
	}

	mr := multipart.NewReader(c.r.Body, params["boundary"])
	budget := &budgetReader{limit: limit, remaining: limit}
	out := conn.NewParams()
	for {
		if err := ctx.Err(); err != nil {
			return conn.Params{}, err
		}

		part, err := mr.NextRawPart()
		if errors.Is(err, io.EOF) {
			c.eof = true
			return out, nil
		}
		if err != nil {
			return conn.Params{}, err
		}

		err = consumePart(part, budget, classify, out)
		part.Close()
		if err != nil {
			return conn.Params{}, err
		}
	}
}

func consumePart(part *multipart.Part, budget *budgetReader, classify conn.Classifier, out conn.Params) error {
	d, err := classify(part.Header)
	if err != nil {
		return err
	}

	budget.r = part
	switch d := d.(type) {
	case conn.Field:
		var sb strings.Builder
		_, err := io.Copy(&sb, budget)
		if err != nil {
			return err
		}
		out.AddField(d.Name, sb.String())
	case conn.File:
		if d.Sink == nil {
			return fmt.Errorf("part %q: %w", d.Name, conn.ErrNilSink)
		}
		n, err := io.Copy(d.Sink, budget)
		if err != nil {
			return err
		}
		out.AddFile(d.Name, conn.Upload{
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Header:      part.Header,
			Size:        n,
			Sink:        d.Sink,
		})
	default:
		_, err := io.Copy(io.Discard, budget)
		if err != nil {
			return err
		}
	}
	return nil
}

// budgetReader fails with a *conn.TooLargeError once more than limit bytes
// have been read across every part it wraps.
type budgetReader struct {
	r         io.Reader
	limit     int64
	remaining int64
}

func (b *budgetReader) Read(p []byte) (int, error) {
	if b.remaining <= 0 {
		var probe [1]byte
		n, err := b.r.Read(probe[:])
		if n > 0 {
			return 0, &conn.TooLargeError{Limit: b.limit}
		}
		return 0, err
	}
	if int64(len(p)) > b.remaining {
		p = p[:b.remaining]
	}
	n, err := b.r.Read(p)
	b.remaining -= int64(n)
	return n, err
}
