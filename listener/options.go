// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package listener

import (
	"crypto/tls"
	"log/slog"
	"net"
	"net/netip"
	"strconv"
	"time"
)

// Transport selects how accepted connections are wrapped.
type Transport int

const (
	// TCP serves plain HTTP.
	TCP Transport = iota

	// TLS serves HTTPS.
	TLS
)

// String implements the [fmt.Stringer] interface.
func (t Transport) String() string {
	switch t {
	case TCP:
		return "tcp"
	case TLS:
		return "tls"
	default:
		return "transport(" + strconv.Itoa(int(t)) + ")"
	}
}

// TLSOptions configures the TLS transport. File paths must be absolute.
type TLSOptions struct {
	KeyFile    string
	CertFile   string
	CACertFile string

	// Password decrypts an encrypted PEM private key.
	Password []byte

	// CipherSuite is one of "", "strong" or "compatible".
	CipherSuite string

	// Loaded, when set, is served as is and the files are not read again.
	Loaded *tls.Config
}

// TransportOptions configure the socket a listener binds.
type TransportOptions struct {
	IP   netip.Addr
	Port int

	// MaxConnections caps concurrent connections. Zero means unbounded.
	MaxConnections int

	// TLS is required by the TLS transport and ignored by TCP.
	TLS *TLSOptions
}

// Addr returns the host:port the listener binds.
func (o TransportOptions) Addr() string {
	host := ""
	if o.IP.IsValid() {
		host = o.IP.String()
	}
	return net.JoinHostPort(host, strconv.Itoa(o.Port))
}

// Keys returns the names of the options which are set.
func (o TransportOptions) Keys() []string {
	keys := make([]string, 0, 8)
	if o.IP.IsValid() {
		keys = append(keys, "ip")
	}
	keys = append(keys, "port")
	if o.MaxConnections > 0 {
		keys = append(keys, "max_connections")
	}
	if o.TLS == nil {
		return keys
	}
	keys = append(keys, "keyfile", "certfile")
	if o.TLS.CACertFile != "" {
		keys = append(keys, "cacertfile")
	}
	if len(o.TLS.Password) > 0 {
		keys = append(keys, "password")
	}
	if o.TLS.CipherSuite != "" {
		keys = append(keys, "cipher_suite")
	}
	return keys
}

// LogValue implements the [slog.LogValuer] interface. The password is
// never logged.
func (o TransportOptions) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("addr", o.Addr()),
		slog.Int("max_connections", o.MaxConnections),
	}
	if o.TLS != nil {
		attrs = append(attrs,
			slog.String("keyfile", o.TLS.KeyFile),
			slog.String("certfile", o.TLS.CertFile),
			slog.String("cacertfile", o.TLS.CACertFile),
			slog.String("cipher_suite", o.TLS.CipherSuite),
		)
	}
	return slog.GroupValue(attrs...)
}

// ProtocolOptions configure the HTTP protocol served on accepted
// connections. Zero timeouts fall back to the defaults documented
// on each field.
type ProtocolOptions struct {
	// Dispatch routes every request. Required.
	Dispatch *Router

	// Compress enables gzip response compression.
	Compress bool

	// ReadHeaderTimeout defaults to 10 seconds.
	ReadHeaderTimeout time.Duration

	// ReadTimeout and WriteTimeout default to no timeout.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// IdleTimeout defaults to 60 seconds.
	IdleTimeout time.Duration

	// MaxHeaderBytes defaults to 1 MB.
	MaxHeaderBytes int

	// DrainTimeout bounds how long Stop waits for in-flight requests.
	// Zero waits for the context passed to Stop.
	DrainTimeout time.Duration
}

const (
	defaultReadHeaderTimeout = 10 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
)

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
