package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/secretenv/internal/config"
	"github.com/systmms/secretenv/internal/logging"
)

// writeFileVault writes a file-backend vault document and returns a config
// pointing at it. The tests run entirely against the file backend so no
// network or credentials are involved.
func writeFileVault(t *testing.T, doc string) *config.Config {
	t.Helper()

	dir := t.TempDir()
	vaultPath := filepath.Join(dir, "vault.json")
	require.NoError(t, os.WriteFile(vaultPath, []byte(doc), 0o600))

	configPath := filepath.Join(dir, "secretenv.yaml")
	configDoc := "vault: file\nfile:\n  path: " + vaultPath + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(configDoc), 0o600))

	return &config.Config{
		Path:   configPath,
		Logger: logging.New(false, true),
	}
}

func TestGetCommand_BasicUsage(t *testing.T) {
	cfg := writeFileVault(t, `{
		"app-env": {
			"DATABASE_URL": "postgres://localhost/testdb",
			"API_KEY": "test-api-key-123"
		}
	}`)

	t.Run("get single key", func(t *testing.T) {
		cmd := NewGetCommand(cfg)
		output := captureGetOutput(t, cmd, []string{"--secret", "app-env", "--key", "DATABASE_URL"})

		// Raw output should just be the value (no newline in fmt.Print)
		assert.Equal(t, "postgres://localhost/testdb", output)
	})

	t.Run("get different key", func(t *testing.T) {
		cmd := NewGetCommand(cfg)
		output := captureGetOutput(t, cmd, []string{"--secret", "app-env", "--key", "API_KEY"})

		assert.Equal(t, "test-api-key-123", output)
	})
}

func TestGetCommand_JSONOutput(t *testing.T) {
	cfg := writeFileVault(t, `{"app-env": {"DATABASE_URL": "postgres://localhost/testdb"}}`)

	cmd := NewGetCommand(cfg)
	output := captureGetOutput(t, cmd, []string{"--secret", "app-env", "--key", "DATABASE_URL", "--json"})

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &result))

	assert.Equal(t, "app-env", result["secret"])
	assert.Equal(t, "DATABASE_URL", result["key"])
	assert.Equal(t, "postgres://localhost/testdb", result["value"])
	assert.Equal(t, "file", result["vault"])
}

func TestGetCommand_MissingFlags(t *testing.T) {
	cfg := writeFileVault(t, `{"app-env": {}}`)

	t.Run("missing secret flag", func(t *testing.T) {
		cmd := NewGetCommand(cfg)
		cmd.SetArgs([]string{"--key", "DATABASE_URL"})

		err := cmd.Execute()
		assert.Error(t, err)
	})

	t.Run("missing key flag", func(t *testing.T) {
		cmd := NewGetCommand(cfg)
		cmd.SetArgs([]string{"--secret", "app-env"})

		err := cmd.Execute()
		assert.Error(t, err)
	})
}

func TestGetCommand_NonexistentKey(t *testing.T) {
	cfg := writeFileVault(t, `{"app-env": {"DATABASE_URL": "postgres://localhost/testdb"}}`)

	cmd := NewGetCommand(cfg)
	cmd.SetArgs([]string{"--secret", "app-env", "--key", "NONEXISTENT"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key not found")
	// Small secrets list the available keys in the suggestion.
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestGetCommand_NonexistentSecret(t *testing.T) {
	cfg := writeFileVault(t, `{"app-env": {}}`)

	cmd := NewGetCommand(cfg)
	cmd.SetArgs([]string{"--secret", "missing-secret", "--key", "DATABASE_URL"})

	err := cmd.Execute()
	assert.Error(t, err)
}

func TestGetCommand_SpecialCharacterValues(t *testing.T) {
	cfg := writeFileVault(t, `{
		"app-env": {
			"PASSWORD_WITH_SPECIAL": "p@ss=word!#$%^&*()",
			"MULTILINE": "line1\nline2\nline3",
			"WITH_QUOTES": "value with \"quotes\" and 'apostrophes'"
		}
	}`)

	t.Run("special characters in password", func(t *testing.T) {
		cmd := NewGetCommand(cfg)
		output := captureGetOutput(t, cmd, []string{"--secret", "app-env", "--key", "PASSWORD_WITH_SPECIAL"})
		assert.Equal(t, "p@ss=word!#$%^&*()", output)
	})

	t.Run("multiline value", func(t *testing.T) {
		cmd := NewGetCommand(cfg)
		output := captureGetOutput(t, cmd, []string{"--secret", "app-env", "--key", "MULTILINE"})
		assert.Equal(t, "line1\nline2\nline3", output)
	})

	t.Run("quotes in value", func(t *testing.T) {
		cmd := NewGetCommand(cfg)
		output := captureGetOutput(t, cmd, []string{"--secret", "app-env", "--key", "WITH_QUOTES"})
		assert.Equal(t, `value with "quotes" and 'apostrophes'`, output)
	})
}

// captureGetOutput captures command output for testing get command
func captureGetOutput(t *testing.T, cmd *cobra.Command, args []string) string {
	t.Helper()

	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Set args and execute
	if args != nil {
		cmd.SetArgs(args)
	}

	err := cmd.Execute()
	if err != nil {
		_ = w.Close()
		os.Stdout = old
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		t.Logf("Command output before error: %s", buf.String())
		require.NoError(t, err)
	}

	// Restore stdout and read output
	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)

	return buf.String()
}
