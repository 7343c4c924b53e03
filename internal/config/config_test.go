package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uerrors "github.com/systmms/secretenv/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secretenv.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
vault: google
google:
  project: acme-prod
  credentials_file: /etc/secretenv/sa.json
file:
  path: vault.json
`)

	cfg := &Config{Path: path}
	require.NoError(t, cfg.Load())

	assert.Equal(t, "google", cfg.Definition.Vault)
	assert.Equal(t, "acme-prod", cfg.Definition.Google.Project)
	assert.Equal(t, "/etc/secretenv/sa.json", cfg.Definition.Google.CredentialsFile)
	assert.Equal(t, "vault.json", cfg.Definition.File.Path)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	t.Parallel()

	cfg := &Config{Path: filepath.Join(t.TempDir(), "nope.yaml")}
	err := cfg.Load()
	require.Error(t, err)

	var cerr uerrors.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Error(), "not found")
}

func TestLoadDefaultMissingFileTolerated(t *testing.T) {
	cfg := &Config{}

	// Run from an empty directory so no stray secretenv.yaml is picked up.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, cfg.Load())
	require.NotNil(t, cfg.Definition)
	assert.Equal(t, "google", cfg.EffectiveVault())
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "vault: [unclosed")

	cfg := &Config{Path: path}
	err := cfg.Load()
	require.Error(t, err)

	var cerr uerrors.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Error(), "invalid YAML")
}

func TestEffectivePrecedence(t *testing.T) {
	t.Run("flags_override_file_values", func(t *testing.T) {
		cfg := &Config{
			VaultType:       "file",
			Project:         "flag-project",
			CredentialsFile: "/flag/creds.json",
			VaultFile:       "/flag/vault.json",
			Definition: &Definition{
				Vault:  "google",
				Google: GoogleConfig{Project: "yaml-project", CredentialsFile: "/yaml/creds.json"},
				File:   FileConfig{Path: "/yaml/vault.json"},
			},
		}

		assert.Equal(t, "file", cfg.EffectiveVault())
		assert.Equal(t, "flag-project", cfg.EffectiveProject())
		assert.Equal(t, "/flag/creds.json", cfg.EffectiveCredentialsFile())
		assert.Equal(t, "/flag/vault.json", cfg.EffectiveVaultFile())
	})

	t.Run("file_values_used_without_flags", func(t *testing.T) {
		cfg := &Config{
			Definition: &Definition{
				Vault:  "file",
				Google: GoogleConfig{Project: "yaml-project", CredentialsFile: "/yaml/creds.json"},
				File:   FileConfig{Path: "/yaml/vault.json"},
			},
		}

		assert.Equal(t, "file", cfg.EffectiveVault())
		assert.Equal(t, "yaml-project", cfg.EffectiveProject())
		assert.Equal(t, "/yaml/creds.json", cfg.EffectiveCredentialsFile())
		assert.Equal(t, "/yaml/vault.json", cfg.EffectiveVaultFile())
	})

	t.Run("vault_defaults_to_google", func(t *testing.T) {
		cfg := &Config{Definition: &Definition{}}
		assert.Equal(t, "google", cfg.EffectiveVault())
	})

	t.Run("credentials_fall_back_to_environment", func(t *testing.T) {
		t.Setenv(CredentialsEnvVar, "/env/creds.json")

		cfg := &Config{Definition: &Definition{}}
		assert.Equal(t, "/env/creds.json", cfg.EffectiveCredentialsFile())
	})

	t.Run("yaml_credentials_beat_environment", func(t *testing.T) {
		t.Setenv(CredentialsEnvVar, "/env/creds.json")

		cfg := &Config{Definition: &Definition{
			Google: GoogleConfig{CredentialsFile: "/yaml/creds.json"},
		}}
		assert.Equal(t, "/yaml/creds.json", cfg.EffectiveCredentialsFile())
	})

	t.Run("nil_definition_is_safe", func(t *testing.T) {
		cfg := &Config{}
		assert.Equal(t, "google", cfg.EffectiveVault())
		assert.Equal(t, "", cfg.EffectiveProject())
		assert.Equal(t, "", cfg.EffectiveVaultFile())
	})
}
