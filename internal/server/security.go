// Package server provides the listeners the gRPC server accepts connections on.
package server

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/dtroode/authcore/internal/model"
)

var (
	_ model.SecurityLayer = (*TLSListener)(nil)
	_ model.SecurityLayer = (*PlainListener)(nil)
)

// TLSListener serves TLS with a certificate and key read from disk.
// Credentials and refresh tokens travel in metadata, so production
// deployments should use this listener.
type TLSListener struct {
	certFileName       string
	privateKeyFileName string
}

// NewTLSListener creates a TLSListener for the given PEM files.
func NewTLSListener(certFileName, privateKeyFileName string) *TLSListener {
	return &TLSListener{
		certFileName:       certFileName,
		privateKeyFileName: privateKeyFileName,
	}
}

// Config loads the key pair and returns the server TLS configuration.
// gRPC clients require h2 to be negotiated over ALPN.
func (l *TLSListener) Config() (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(l.certFileName, l.privateKeyFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		NextProtos:   []string{"h2"},
	}, nil
}

// Listen opens a TLS listener on addr.
func (l *TLSListener) Listen(network, addr string) (net.Listener, error) {
	conf, err := l.Config()
	if err != nil {
		return nil, err
	}
	ln, err := tls.Listen(network, addr, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ln, nil
}

// PlainListener serves unencrypted connections, for local development and
// deployments behind a TLS-terminating proxy.
type PlainListener struct{}

func NewPlainListener() *PlainListener {
	return &PlainListener{}
}

// Listen opens a plain listener on addr.
func (l *PlainListener) Listen(network, addr string) (net.Listener, error) {
	ln, err := net.Listen(network, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ln, nil
}
