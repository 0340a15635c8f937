// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package listener

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

var strongCipherSuites = []uint16{
	tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
	tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
}

// cipherPolicies maps a cipher suite name to the tls.Config fields it sets.
var cipherPolicies = map[string]func(*tls.Config){
	"": func(cfg *tls.Config) {
		cfg.MinVersion = tls.VersionTLS12
	},
	"strong": func(cfg *tls.Config) {
		cfg.MinVersion = tls.VersionTLS12
		cfg.CipherSuites = strongCipherSuites
	},
	"compatible": func(cfg *tls.Config) {
		cfg.MinVersion = tls.VersionTLS10
	},
}

// Config loads the key pair and CA certificates and returns the server
// tls.Config. HTTP/2 is negotiated via ALPN.
func (o TLSOptions) Config() (*tls.Config, error) {
	policy, ok := cipherPolicies[o.CipherSuite]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCipherSuite, o.CipherSuite)
	}

	cert, err := o.loadKeyPair()
	if err != nil {
		return nil, err
	}

	if o.CACertFile != "" {
		chain, err := readCertificates(o.CACertFile)
		if err != nil {
			return nil, err
		}
		cert.Certificate = append(cert.Certificate, chain...)
	}

	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{"h2", "http/1.1"},
	}
	policy(cfg)
	return cfg, nil
}

func (o TLSOptions) loadKeyPair() (tls.Certificate, error) {
	certPEM, err := os.ReadFile(o.CertFile)
	if err != nil {
		return tls.Certificate{}, err
	}
	keyPEM, err := os.ReadFile(o.KeyFile)
	if err != nil {
		return tls.Certificate{}, err
	}

	keyPEM, err = decryptKey(keyPEM, o.Password)
	if err != nil {
		return tls.Certificate{}, err
	}
	return tls.X509KeyPair(certPEM, keyPEM)
}

// decryptKey returns keyPEM unchanged unless it holds a legacy encrypted
// PEM block, in which case the block is decrypted with password.
func decryptKey(keyPEM, password []byte) ([]byte, error) {
	block, _ := pem.Decode(keyPEM)
	//nolint:staticcheck // legacy encrypted PEM keys are still handed to us
	if block == nil || !x509.IsEncryptedPEMBlock(block) {
		return keyPEM, nil
	}
	if len(password) == 0 {
		return nil, ErrEncryptedKey
	}

	//nolint:staticcheck
	der, err := x509.DecryptPEMBlock(block, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt private key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: block.Type, Bytes: der}), nil
}

func readCertificates(path string) ([][]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var ders [][]byte
	for {
		var block *pem.Block
		block, b = pem.Decode(b)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		ders = append(ders, block.Bytes)
	}
	if len(ders) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCertificates, path)
	}
	return ders, nil
}

// ValidCipherSuite reports whether name is a known cipher suite policy.
func ValidCipherSuite(name string) bool {
	_, ok := cipherPolicies[name]
	return ok
}
