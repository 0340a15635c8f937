// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package conn

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Conn is the capability set a listener binding exposes to the application
// for a single request.
//
// A Conn is owned by the binding. It must not be retained once the
// application returns and its methods must not be called concurrently.
type Conn interface {
	// Method returns the request method.
	Method() string

	// Path returns the request path.
	Path() string

	// Header returns the request headers.
	Header() http.Header

	// SendResponse writes a complete response. For HEAD requests the body
	// is not written to the wire but status and headers are.
	// A second call returns ErrAlreadySent.
	SendResponse(ctx context.Context, status int, header http.Header, body []byte) error

	// StreamBody reads the next chunk of the request body. Chunks never
	// exceed limit bytes. Once the body is exhausted it returns io.EOF.
	StreamBody(ctx context.Context, limit int) ([]byte, error)

	// ParseMultipart consumes a multipart body, classifying every part
	// with classify. If more than limit body bytes are consumed it
	// returns a *TooLargeError.
	ParseMultipart(ctx context.Context, limit int64, classify Classifier) (Params, error)
}

// ErrAlreadySent is returned when a response is sent twice on the same Conn.
var ErrAlreadySent = errors.New("conn: response already sent")

// ErrNilSink is returned when a [Classifier] selects a [File] without a Sink.
var ErrNilSink = errors.New("conn: file part has no sink")

// TooLargeError is returned by [Conn.ParseMultipart] when the body exceeds
// the requested limit. It is an expected outcome and callers are expected to
// reply with 413.
type TooLargeError struct {
	Limit int64
}

// Error implements the [builtin.error] interface.
func (e *TooLargeError) Error() string {
	return fmt.Sprintf("conn: multipart body exceeds %d bytes", e.Limit)
}

// NotMultipartError is returned by [Conn.ParseMultipart] when the request
// does not carry a multipart content type.
type NotMultipartError struct {
	ContentType string
}

// Error implements the [builtin.error] interface.
func (e NotMultipartError) Error() string {
	return fmt.Sprintf("conn: content type is not multipart: %q", e.ContentType)
}
