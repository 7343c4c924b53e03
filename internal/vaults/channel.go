package vaults

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	_ "embed"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials"
)

const (
	secretManagerEndpoint = "secretmanager.googleapis.com:443"
	secretManagerDomain   = "secretmanager.googleapis.com"
)

// rootsPEM is the compiled-in trust bundle for the Secret Manager endpoint
// (GTS and GlobalSign roots). The host's certificate store is deliberately
// not consulted: validation must not depend on host configuration.
//
//go:embed roots.pem
var rootsPEM []byte

// dialSecretManager builds a validated encrypted channel to the Secret
// Manager endpoint and forces the handshake so transport failures surface
// here rather than on the first call.
func dialSecretManager(ctx context.Context) (*grpc.ClientConn, error) {
	pool, err := rootPool(rootsPEM)
	if err != nil {
		return nil, err
	}

	tlsConfig := &tls.Config{
		RootCAs:    pool,
		ServerName: secretManagerDomain,
		MinVersion: tls.VersionTLS12,
	}

	conn, err := grpc.NewClient(secretManagerEndpoint,
		grpc.WithTransportCredentials(credentials.NewTLS(tlsConfig)))
	if err != nil {
		return nil, err
	}

	if err := waitReady(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// rootPool parses the embedded PEM bundle into a certificate pool.
func rootPool(pemBytes []byte) (*x509.CertPool, error) {
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemBytes) {
		return nil, fmt.Errorf("embedded root certificate bundle contains no usable certificates")
	}
	return pool, nil
}

// waitReady drives the connection through its initial handshake. The first
// transition into TransientFailure is treated as a failed handshake; callers
// retry with a fresh channel if they want to.
func waitReady(ctx context.Context, conn *grpc.ClientConn) error {
	conn.Connect()
	for {
		state := conn.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.TransientFailure, connectivity.Shutdown:
			return fmt.Errorf("connection to %s entered %s state during handshake", secretManagerEndpoint, state)
		}
		if !conn.WaitForStateChange(ctx, state) {
			return fmt.Errorf("connection to %s not ready: %w", secretManagerEndpoint, ctx.Err())
		}
	}
}
