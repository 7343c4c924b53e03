// Package vaults contains the concrete Vault backends: Google Secret Manager
// and a local JSON file store.
package vaults

import (
	"context"
	"fmt"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"golang.org/x/oauth2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/systmms/secretenv/internal/envdecode"
	"github.com/systmms/secretenv/internal/logging"
	"github.com/systmms/secretenv/pkg/vault"
)

// GoogleVault retrieves secrets from Google Cloud Secret Manager over a
// pinned TLS channel. Each retrieval is self-contained: credentials are
// re-resolved and the channel rebuilt on every call, so instances hold no
// shared mutable state and are safe for concurrent use.
type GoogleVault struct {
	project         string
	credentialsFile string
	logger          *logging.Logger

	// Overridable for tests; nil means the production path.
	dial   func(ctx context.Context) (*grpc.ClientConn, error)
	tokens func(ctx context.Context) (oauth2.TokenSource, error)
}

// NewGoogleVault creates a Secret Manager backed vault for the given project.
// An empty credentialsFile means Application Default Credentials discovery.
func NewGoogleVault(project, credentialsFile string, logger *logging.Logger) *GoogleVault {
	return &GoogleVault{
		project:         project,
		credentialsFile: credentialsFile,
		logger:          logger,
	}
}

// DownloadPrefixed is an explicitly unimplemented capability of this backend.
// Enumerating secrets by name prefix has no specified semantics upstream, so
// it fails loudly rather than guessing.
func (v *GoogleVault) DownloadPrefixed(ctx context.Context, prefix string) ([]vault.Pair, error) {
	return nil, &vault.UnimplementedError{Backend: "google", Op: "DownloadPrefixed"}
}

// DownloadJSON fetches the latest version of one secret, interprets its
// payload as a JSON object, and decodes it into environment entries.
func (v *GoogleVault) DownloadJSON(ctx context.Context, secretName string) ([]vault.Pair, error) {
	client, conn, auth, err := v.newClient(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	name := secretVersionName(v.project, secretName)
	v.logger.Debug("accessing secret version %s", name)

	resp, err := client.AccessSecretVersion(ctx,
		&secretmanagerpb.AccessSecretVersionRequest{Name: name},
		grpc.PerRPCCredentials(auth))
	if err != nil {
		return nil, &vault.RemoteCallError{Backend: "google", Err: err}
	}

	payload := resp.GetPayload()
	if payload == nil || len(payload.GetData()) == 0 {
		return nil, &vault.EmptySecretError{Secret: secretName}
	}

	value, err := envdecode.Parse(secretName, payload.GetData())
	if err != nil {
		return nil, err
	}
	return envdecode.DecodeEnvFromJSON(secretName, value)
}

// newClient resolves a fresh credential and channel for one retrieval flow.
// Credential resolution runs first: a malformed credential source must fail
// before any network connection is attempted.
func (v *GoogleVault) newClient(ctx context.Context) (secretmanagerpb.SecretManagerServiceClient, *grpc.ClientConn, bearerAuth, error) {
	source, err := v.tokenSource(ctx)
	if err != nil {
		return nil, nil, bearerAuth{}, &vault.ConfigurationError{Err: err}
	}

	conn, err := v.dialChannel(ctx)
	if err != nil {
		return nil, nil, bearerAuth{}, &vault.TransportError{Err: err}
	}

	return secretmanagerpb.NewSecretManagerServiceClient(conn), conn, bearerAuth{source: source}, nil
}

func (v *GoogleVault) tokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if v.tokens != nil {
		return v.tokens(ctx)
	}
	return resolveTokenSource(ctx, v.credentialsFile)
}

func (v *GoogleVault) dialChannel(ctx context.Context) (*grpc.ClientConn, error) {
	if v.dial != nil {
		return v.dial(ctx)
	}
	return dialSecretManager(ctx)
}

// secretVersionName builds the resource name of the latest version of a
// secret within a project.
func secretVersionName(project, secretName string) string {
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", project, secretName)
}

// ErrorSuggestion maps a failed vault operation to a remediation hint shown
// by the CLI. Empty when there is nothing useful to say.
func ErrorSuggestion(err error) string {
	st, ok := status.FromError(unwrapStatus(err))
	if !ok {
		return ""
	}
	switch st.Code() {
	case codes.PermissionDenied:
		return "Check IAM permissions: secretmanager.versions.access on the secret"
	case codes.NotFound:
		return "Verify the secret name and project ID. Check that the secret exists"
	case codes.Unauthenticated:
		return "Check authentication: set GOOGLE_APPLICATION_CREDENTIALS or run 'gcloud auth application-default login'"
	case codes.InvalidArgument:
		return "Check the secret name format"
	case codes.ResourceExhausted:
		return "Request was throttled. Wait a moment and try again"
	case codes.Unavailable:
		return "The secret store is unreachable. Check your network connection"
	default:
		return ""
	}
}

// unwrapStatus digs the gRPC status error out of the vault error taxonomy.
func unwrapStatus(err error) error {
	for {
		switch e := err.(type) {
		case *vault.RemoteCallError:
			err = e.Err
		case *vault.TransportError:
			err = e.Err
		default:
			return err
		}
	}
}
