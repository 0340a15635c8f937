// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package httpadapter runs an [Application] behind an HTTP or HTTPS listener.
//
// The adapter turns a small set of declarative [Options] into the arguments
// the [listener] package expects. It fills in scheme defaults, resolves TLS
// certificate paths and builds a routing table which sends every request to
// the application. The application only ever sees the [conn.Conn] interface
// for the request it is serving.
//
// # Basic Usage
//
//	type echo struct{}
//
//	func (echo) Init(ctx context.Context, opts any) (any, error) {
//	    return nil, nil
//	}
//
//	func (echo) Call(ctx context.Context, c conn.Conn, state any) error {
//	    body, err := c.StreamBody(ctx, 64<<10)
//	    if err != nil && !errors.Is(err, io.EOF) {
//	        return err
//	    }
//	    return c.SendResponse(ctx, http.StatusOK, nil, body)
//	}
//
//	l, err := httpadapter.StartPlain(ctx, echo{}, nil, httpadapter.Options{})
//
// The listener above is registered as "echo.HTTP" on port 4000 and is
// stopped with [Shutdown].
package httpadapter
