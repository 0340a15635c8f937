// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package listener

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"net/http"
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testCert struct {
	certFile string
	keyFile  string
	pool     *x509.CertPool
}

// writeTestCert generates a self-signed certificate for localhost and writes
// it to dir. A non-empty password encrypts the key.
func writeTestCert(t *testing.T, dir string, password []byte) testCert {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "localhost"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
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

	keyBlock := &pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}
	if len(password) > 0 {
		//nolint:staticcheck
		keyBlock, err = x509.EncryptPEMBlock(rand.Reader, keyBlock.Type, keyDER, password, x509.PEMCipherAES256)
		require.NoError(t, err)
	}

	tc := testCert{
		certFile: filepath.Join(dir, "cert.pem"),
		keyFile:  filepath.Join(dir, "key.pem"),
		pool:     x509.NewCertPool(),
	}
	err = os.WriteFile(tc.certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600)
	require.NoError(t, err)
	err = os.WriteFile(tc.keyFile, pem.EncodeToMemory(keyBlock), 0o600)
	require.NoError(t, err)

	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	tc.pool.AddCert(cert)
	return tc
}

func helloRouter(t *testing.T) *Router {
	t.Helper()

	r, err := Compile(Dispatch{
		{Host: AnyHost, Routes: []Route{
			{Pattern: "/", Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("hello"))
			})},
		}},
	})
	require.NoError(t, err)
	return r
}

var netipLoopback = netip.MustParseAddr("127.0.0.1")

func localhost(port int) TransportOptions {
	return TransportOptions{
		IP:   netipLoopback,
		Port: port,
	}
}
