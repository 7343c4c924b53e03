package vaults

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// resolveTokenSource produces a short-lived bearer token source. An explicit
// credentials file takes precedence; otherwise Application Default
// Credentials discovery runs (GOOGLE_APPLICATION_CREDENTIALS, gcloud user
// credentials, metadata server). No network call happens here; tokens are
// minted lazily per request.
func resolveTokenSource(ctx context.Context, credentialsFile string) (oauth2.TokenSource, error) {
	if credentialsFile != "" {
		data, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("reading credentials file %s: %w", credentialsFile, err)
		}
		creds, err := googleauth.CredentialsFromJSON(ctx, data, cloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("parsing credentials file %s: %w", credentialsFile, err)
		}
		return creds.TokenSource, nil
	}

	creds, err := googleauth.FindDefaultCredentials(ctx, cloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("resolving default credentials: %w", err)
	}
	return creds.TokenSource, nil
}

// bearerAuth attaches the current credential to every outgoing request as an
// authorization header. A failed token render fails that one request with an
// Unknown status; the client itself stays usable.
type bearerAuth struct {
	source oauth2.TokenSource
}

func (b bearerAuth) GetRequestMetadata(ctx context.Context, _ ...string) (map[string]string, error) {
	token, err := b.source.Token()
	if err != nil {
		return nil, status.Error(codes.Unknown, err.Error())
	}
	return map[string]string{"authorization": token.Type() + " " + token.AccessToken}, nil
}

// RequireTransportSecurity reports false so the same credentials work over
// in-process test transports; the production dial path is always TLS.
func (bearerAuth) RequireTransportSecurity() bool {
	return false
}
