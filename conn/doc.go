// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package conn defines the contract between an application and the listener
// binding driving it.
//
// A listener binding hands the application a [Conn] for every request. The
// application uses it to read the request body and to send exactly one
// response. Applications are written against [Conn] only and never against a
// concrete binding.
//
// # Reading the body
//
// [Conn.StreamBody] returns chunks of at most the requested size and reports
// exhaustion with [io.EOF]:
//
//	for {
//	    b, err := c.StreamBody(ctx, 4096)
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    process(b)
//	}
//
// # Multipart bodies
//
// [Conn.ParseMultipart] asks a [Classifier] what to do with every part:
//
//	params, err := c.ParseMultipart(ctx, 8<<20, func(h textproto.MIMEHeader) (conn.Disposition, error) {
//	    name := conn.FormName(h)
//	    if conn.FileName(h) != "" {
//	        return conn.File{Name: name, Sink: io.Discard}, nil
//	    }
//	    return conn.Field{Name: name}, nil
//	})
//
// Only part body bytes count towards the limit. Bytes of skipped parts count
// as well since they still have to be read off the wire. Part headers and
// boundary lines do not count. Exceeding the limit returns a *[TooLargeError].
package conn
