package commands

import (
	"context"
	"fmt"

	"github.com/systmms/secretenv/internal/config"
	uerrors "github.com/systmms/secretenv/internal/errors"
	"github.com/systmms/secretenv/internal/vaults"
	"github.com/systmms/secretenv/pkg/vault"
)

// buildVault constructs the backend selected by configuration.
func buildVault(cfg *config.Config) (vault.Vault, error) {
	switch kind := cfg.EffectiveVault(); kind {
	case "google":
		project := cfg.EffectiveProject()
		if project == "" {
			return nil, uerrors.ConfigError{
				Field:      "project",
				Message:    "Google Cloud project is not set",
				Suggestion: "Set --project, the 'google.project' key in secretenv.yaml, or switch vaults with --vault",
			}
		}
		return vaults.NewGoogleVault(project, cfg.EffectiveCredentialsFile(), cfg.Logger), nil

	case "file":
		path := cfg.EffectiveVaultFile()
		if path == "" {
			return nil, uerrors.ConfigError{
				Field:      "file.path",
				Message:    "file vault document path is not set",
				Suggestion: "Set --vault-file or the 'file.path' key in secretenv.yaml",
			}
		}
		return vaults.NewFileVault(path, cfg.Logger), nil

	default:
		return nil, uerrors.ConfigError{
			Field:      "vault",
			Value:      kind,
			Message:    "unknown vault type",
			Suggestion: "Use 'google' or 'file'",
		}
	}
}

// fetch resolves environment entries from the configured vault. Exactly one
// of secretName or prefix drives the lookup; secretName wins when both are
// set because prefix listing is the broader operation.
func fetch(ctx context.Context, cfg *config.Config, secretName, prefix string) ([]vault.Pair, error) {
	v, err := buildVault(cfg)
	if err != nil {
		return nil, err
	}

	var pairs []vault.Pair
	if secretName != "" {
		pairs, err = v.DownloadJSON(ctx, secretName)
	} else {
		pairs, err = v.DownloadPrefixed(ctx, prefix)
	}
	if err != nil {
		if suggestion := vaults.ErrorSuggestion(err); suggestion != "" {
			return nil, uerrors.UserError{
				Message:    "Failed to load secrets",
				Details:    err.Error(),
				Suggestion: suggestion,
				Err:        err,
			}
		}
		return nil, err
	}

	cfg.Logger.Debug("resolved %d environment entries", len(pairs))
	return pairs, nil
}

// requireSelector enforces that the user named what to fetch.
func requireSelector(command, secretName, prefix string) error {
	if secretName == "" && prefix == "" {
		return uerrors.UserError{
			Message:    "No secret selected",
			Suggestion: fmt.Sprintf("Use: secretenv %s --secret <name> or --prefix <prefix>", command),
		}
	}
	return nil
}
