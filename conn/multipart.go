// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package conn

import (
	"io"
	"mime"
	"net/textproto"
)

// Classifier decides what happens to a multipart part given its headers.
type Classifier func(textproto.MIMEHeader) (Disposition, error)

// Disposition is the outcome of classifying a part. It is one of
// [Skip], [Field] or [File].
type Disposition interface {
	disposition()
}

// Skip discards the part body.
type Skip struct{}

// Field accumulates the part body as a scalar value bound to Name.
type Field struct {
	Name string
}

// File writes the part body to Sink and records an [Upload] under Name.
// Sink must not be nil; parsing fails with [ErrNilSink] otherwise.
type File struct {
	Name string
	Sink io.Writer
}

func (Skip) disposition()  {}
func (Field) disposition() {}
func (File) disposition()  {}

// Upload describes a file part written to a sink.
type Upload struct {
	Filename    string
	ContentType string
	Header      textproto.MIMEHeader
	Size        int64
	Sink        io.Writer
}

// Params is the assembled result of a multipart parse. Repeated names keep
// every value in the order they were received.
type Params struct {
	Fields map[string][]string
	Files  map[string][]Upload
}

// NewParams returns empty Params.
func NewParams() Params {
	return Params{
		Fields: make(map[string][]string),
		Files:  make(map[string][]Upload),
	}
}

// Len returns the number of distinct names bound in p.
func (p Params) Len() int {
	return len(p.Fields) + len(p.Files)
}

// Get returns the first value bound to name.
func (p Params) Get(name string) string {
	vs := p.Fields[name]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// AddField appends a value for name.
func (p Params) AddField(name, value string) {
	p.Fields[name] = append(p.Fields[name], value)
}

// AddFile appends an upload for name.
func (p Params) AddFile(name string, u Upload) {
	p.Files[name] = append(p.Files[name], u)
}

// FormName returns the name parameter of the part's Content-Disposition.
func FormName(h textproto.MIMEHeader) string {
	_, params := disposition(h)
	return params["name"]
}

// FileName returns the filename parameter of the part's Content-Disposition.
func FileName(h textproto.MIMEHeader) string {
	_, params := disposition(h)
	return params["filename"]
}

func disposition(h textproto.MIMEHeader) (string, map[string]string) {
	v := h.Get("Content-Disposition")
	if v == "" {
		return "", nil
	}
	d, params, err := mime.ParseMediaType(v)
	if err != nil {
		return "", nil
	}
	return d, params
}
