package vaults

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/systmms/secretenv/internal/envdecode"
	"github.com/systmms/secretenv/internal/logging"
	"github.com/systmms/secretenv/pkg/vault"
)

// FileVault serves secrets from a single local JSON document mapping secret
// names to values. Useful for development and as the second Vault variant:
// unlike the Google backend it supports prefix retrieval. The document is
// re-read on every call, matching the no-caching contract.
type FileVault struct {
	path   string
	logger *logging.Logger
}

// NewFileVault creates a vault backed by the JSON document at path.
func NewFileVault(path string, logger *logging.Logger) *FileVault {
	return &FileVault{path: path, logger: logger}
}

// DownloadPrefixed returns the top-level string-valued entries whose names
// carry the given prefix, ordered by name. The empty prefix matches every
// string entry.
func (v *FileVault) DownloadPrefixed(ctx context.Context, prefix string) ([]vault.Pair, error) {
	doc, err := v.load(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(doc))
	for name, value := range doc {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if _, ok := value.(string); !ok {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]vault.Pair, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, vault.Pair{Key: name, Value: doc[name].(string)})
	}
	return pairs, nil
}

// DownloadJSON looks up one named entry and decodes it into environment
// entries through the shared decoding contract.
func (v *FileVault) DownloadJSON(ctx context.Context, secretName string) ([]vault.Pair, error) {
	doc, err := v.load(ctx)
	if err != nil {
		return nil, err
	}

	value, ok := doc[secretName]
	if !ok {
		return nil, &vault.RemoteCallError{
			Backend: "file",
			Err:     fmt.Errorf("secret %q not found in %s", secretName, v.path),
		}
	}
	if value == nil {
		return nil, &vault.EmptySecretError{Secret: secretName}
	}
	return envdecode.DecodeEnvFromJSON(secretName, value)
}

// load re-reads and parses the backing document. A missing or malformed
// document is a configuration problem, not a remote failure.
func (v *FileVault) load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v.logger.Debug("reading file vault document %s", v.path)
	data, err := os.ReadFile(v.path)
	if err != nil {
		return nil, &vault.ConfigurationError{Err: err}
	}

	value, err := envdecode.Parse("file vault document", data)
	if err != nil {
		return nil, &vault.ConfigurationError{Err: err}
	}
	doc, ok := value.(map[string]any)
	if !ok {
		return nil, &vault.ConfigurationError{
			Err: fmt.Errorf("file vault document %s must be a JSON object keyed by secret name", v.path),
		}
	}
	return doc, nil
}
