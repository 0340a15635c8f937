// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package httpadapter

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"io"
	"math/big"
	"net"
	"net/http"
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/z5labs/httpadapter/conn"

	"github.com/stretchr/testify/require"
)

var netipLoopback = netip.MustParseAddr("127.0.0.1")

func errorsAs[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

// writeCert writes a self-signed localhost certificate and key to
// dir/cert.pem and dir/key.pem and returns a pool trusting it.
func writeCert(t *testing.T, dir string) *x509.CertPool {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "localhost"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		DNSNames:              []string{"localhost"},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(dir, 0o700))
	err = os.WriteFile(filepath.Join(dir, "cert.pem"), pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(dir, "key.pem"), pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600)
	require.NoError(t, err)

	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	pool := x509.NewCertPool()
	pool.AddCert(cert)
	return pool
}

// App counts init calls and echoes the request body back.
type App struct {
	inits int
	state any
	err   error
}

func (a *App) Init(ctx context.Context, opts any) (any, error) {
	a.inits++
	if a.err != nil {
		return nil, a.err
	}
	a.state = opts
	return opts, nil
}

func (a *App) Call(ctx context.Context, c conn.Conn, state any) error {
	var body []byte
	for {
		chunk, err := c.StreamBody(ctx, 1024)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		body = append(body, chunk...)
	}

	h := http.Header{}
	if s, ok := state.(string); ok {
		h.Set("X-State", s)
	}
	return c.SendResponse(ctx, http.StatusOK, h, body)
}

type appFunc func(context.Context, conn.Conn, any) error

func (f appFunc) Init(ctx context.Context, opts any) (any, error) {
	return opts, nil
}

func (f appFunc) Call(ctx context.Context, c conn.Conn, state any) error {
	return f(ctx, c, state)
}

type namedApp struct {
	appFunc
	name string
}

func (a namedApp) Name() string {
	return a.name
}
