// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package httpadapter

import (
	"errors"
	"io/fs"
	"net/netip"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/z5labs/httpadapter/listener"
	"github.com/z5labs/httpadapter/pkg/ptr"
)

// Scheme selects plain HTTP or HTTPS.
type Scheme int

const (
	Plain Scheme = iota
	TLS
)

type schemeInfo struct {
	name      string
	port      int
	suffix    string
	transport listener.Transport
}

var schemes = map[Scheme]schemeInfo{
	Plain: {name: "plain", port: 4000, suffix: "HTTP", transport: listener.TCP},
	TLS:   {name: "tls", port: 4040, suffix: "HTTPS", transport: listener.TLS},
}

// String implements the [fmt.Stringer] interface.
func (s Scheme) String() string {
	if info, ok := schemes[s]; ok {
		return info.name
	}
	return "scheme(" + strconv.Itoa(int(s)) + ")"
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (s *Scheme) UnmarshalText(b []byte) error {
	name := strings.ToLower(string(b))
	for scheme, info := range schemes {
		if info.name == name {
			*s = scheme
			return nil
		}
	}
	return InvalidOptionError{Key: "scheme", Value: string(b), Reason: "must be plain or tls"}
}

// DefaultAcceptors is the acceptor pool size used when Options.Acceptors is 0.
const DefaultAcceptors = 100

// Options are the startup options of a listener.
type Options struct {
	// IP is the bind address. The zero value binds every interface.
	IP netip.Addr `config:"ip"`

	// Port defaults to 4000 for plain and 4040 for tls. An explicit 0
	// lets the operating system pick a port.
	Port *int `config:"port"`

	Acceptors      int `config:"acceptors"`
	MaxConnections int `config:"max_connections"`

	// Dispatch replaces the routing table built from the application.
	// When set, the application init hook is never called.
	Dispatch listener.Dispatch `config:"-"`

	// Ref defaults to <application>.<SCHEME>.
	Ref      string `config:"ref"`
	Compress bool   `config:"compress"`

	// OTPApp names the application whose private directory relative
	// certificate paths are resolved against.
	OTPApp      string `config:"otp_app"`
	KeyFile     string `config:"keyfile"`
	CertFile    string `config:"certfile"`
	CACertFile  string `config:"cacertfile"`
	Password    string `config:"password"`
	CipherSuite string `config:"cipher_suite"`

	ReadHeaderTimeout time.Duration `config:"read_header_timeout"`
	ReadTimeout       time.Duration `config:"read_timeout"`
	WriteTimeout      time.Duration `config:"write_timeout"`
	IdleTimeout       time.Duration `config:"idle_timeout"`
	MaxHeaderBytes    int           `config:"max_header_bytes"`
	ShutdownTimeout   time.Duration `config:"shutdown_timeout"`
}

// PrivDirFunc returns the private resource directory of app.
type PrivDirFunc func(app string) (string, error)

// EnvPrivDir reads the private directory of app from the environment
// variable <APP>_PRIV_DIR.
func EnvPrivDir(app string) (string, error) {
	env := privDirEnv(app)
	dir, ok := os.LookupEnv(env)
	if !ok || dir == "" {
		return "", PrivDirError{App: app, Env: env}
	}
	return dir, nil
}

func privDirEnv(app string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, app)
	return name + "_PRIV_DIR"
}

// Normalizer merges Options with scheme defaults and resolves TLS
// certificate paths. The zero value uses [EnvPrivDir] and [os.Stat].
type Normalizer struct {
	PrivDir PrivDirFunc
	Stat    func(string) (fs.FileInfo, error)
}

// Normalize returns a copy of opts with defaults applied. For [TLS] every
// certificate path in the result is absolute and exists. Normalizing an
// already normalized value returns it unchanged.
func (n Normalizer) Normalize(scheme Scheme, opts Options) (Options, error) {
	info, ok := schemes[scheme]
	if !ok {
		return Options{}, UnknownSchemeError{Scheme: scheme}
	}

	if scheme == TLS {
		if opts.CertFile == "" {
			return Options{}, MissingOptionError{Key: "certfile"}
		}
		if opts.KeyFile == "" {
			return Options{}, MissingOptionError{Key: "keyfile"}
		}
	}

	out := opts
	out.Port = ptr.Ref(ptr.DerefOr(opts.Port, info.port))
	if out.Acceptors == 0 {
		out.Acceptors = DefaultAcceptors
	}
	if out.Acceptors < 0 {
		return Options{}, InvalidOptionError{Key: "acceptors", Value: out.Acceptors, Reason: "must be positive"}
	}
	if out.MaxConnections < 0 {
		return Options{}, InvalidOptionError{Key: "max_connections", Value: out.MaxConnections, Reason: "must not be negative"}
	}
	if scheme != TLS {
		return out, nil
	}

	if !listener.ValidCipherSuite(out.CipherSuite) {
		return Options{}, InvalidOptionError{Key: "cipher_suite", Value: out.CipherSuite, Reason: "must be strong or compatible"}
	}

	paths := []struct {
		key  string
		path *string
	}{
		{key: "certfile", path: &out.CertFile},
		{key: "keyfile", path: &out.KeyFile},
		{key: "cacertfile", path: &out.CACertFile},
	}
	for _, p := range paths {
		if *p.path == "" {
			continue
		}
		resolved, err := n.resolve(p.key, *p.path, out.OTPApp)
		if err != nil {
			return Options{}, err
		}
		*p.path = resolved
	}
	return out, nil
}

type pathRule struct {
	matches func(path, app string) bool
	resolve func(n Normalizer, key, path, app string) (string, error)
}

// pathRules is evaluated in order and the first match wins.
var pathRules = []pathRule{
	{
		matches: func(path, _ string) bool { return filepath.IsAbs(path) },
		resolve: func(_ Normalizer, _, path, _ string) (string, error) {
			return path, nil
		},
	},
	{
		matches: func(_, app string) bool { return app != "" },
		resolve: func(n Normalizer, _, path, app string) (string, error) {
			dir, err := n.privDir(app)
			if err != nil {
				return "", err
			}
			return filepath.Abs(filepath.Join(dir, path))
		},
	},
	{
		matches: func(string, string) bool { return true },
		resolve: func(_ Normalizer, key, path, _ string) (string, error) {
			return "", MissingOTPAppError{Key: key, Path: path}
		},
	},
}

func (n Normalizer) resolve(key, path, app string) (string, error) {
	for _, rule := range pathRules {
		if !rule.matches(path, app) {
			continue
		}
		resolved, err := rule.resolve(n, key, path, app)
		if err != nil {
			return "", err
		}
		return resolved, n.exists(key, resolved)
	}
	panic("unreachable: the last path rule matches everything")
}

func (n Normalizer) privDir(app string) (string, error) {
	if n.PrivDir == nil {
		return EnvPrivDir(app)
	}
	return n.PrivDir(app)
}

func (n Normalizer) exists(key, path string) error {
	stat := n.Stat
	if stat == nil {
		stat = os.Stat
	}
	_, err := stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return FileNotFoundError{Key: key, Path: path, Cause: err}
	}
	return err
}

// transportOptions must only be called with normalized options.
func transportOptions(scheme Scheme, o Options) listener.TransportOptions {
	t := listener.TransportOptions{
		IP:             o.IP,
		Port:           ptr.DerefOr(o.Port, schemes[scheme].port),
		MaxConnections: o.MaxConnections,
	}
	if scheme != TLS {
		return t
	}
	t.TLS = &listener.TLSOptions{
		KeyFile:     o.KeyFile,
		CertFile:    o.CertFile,
		CACertFile:  o.CACertFile,
		Password:    password(o.Password),
		CipherSuite: o.CipherSuite,
	}
	return t
}

func password(s string) []byte {
	if s == "" {
		return nil
	}
	return []byte(s)
}

func protocolOptions(o Options, router *listener.Router) listener.ProtocolOptions {
	return listener.ProtocolOptions{
		Dispatch:          router,
		Compress:          o.Compress,
		ReadHeaderTimeout: o.ReadHeaderTimeout,
		ReadTimeout:       o.ReadTimeout,
		WriteTimeout:      o.WriteTimeout,
		IdleTimeout:       o.IdleTimeout,
		MaxHeaderBytes:    o.MaxHeaderBytes,
		DrainTimeout:      o.ShutdownTimeout,
	}
}
