package vault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	cause := errors.New("handshake timed out")

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "transport",
			err:      &TransportError{Err: cause},
			expected: "secret store channel setup failed: handshake timed out",
		},
		{
			name:     "configuration",
			err:      &ConfigurationError{Err: errors.New("no such file")},
			expected: "vault credential configuration is invalid: no such file",
		},
		{
			name:     "remote_call",
			err:      &RemoteCallError{Backend: "google", Err: errors.New("NotFound")},
			expected: "cannot load secret from google vault: NotFound",
		},
		{
			name:     "empty_secret",
			err:      &EmptySecretError{Secret: "db-password"},
			expected: `secret "db-password" is empty`,
		},
		{
			name:     "unimplemented",
			err:      &UnimplementedError{Backend: "google", Op: "DownloadPrefixed"},
			expected: "DownloadPrefixed is not implemented by the google vault",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestErrorUnwrapping(t *testing.T) {
	t.Parallel()

	cause := errors.New("root cause")

	t.Run("transport_unwraps", func(t *testing.T) {
		wrapped := fmt.Errorf("download failed: %w", &TransportError{Err: cause})
		var te *TransportError
		require.ErrorAs(t, wrapped, &te)
		assert.ErrorIs(t, wrapped, cause)
	})

	t.Run("configuration_unwraps", func(t *testing.T) {
		wrapped := fmt.Errorf("download failed: %w", &ConfigurationError{Err: cause})
		var ce *ConfigurationError
		require.ErrorAs(t, wrapped, &ce)
		assert.ErrorIs(t, wrapped, cause)
	})

	t.Run("remote_call_unwraps", func(t *testing.T) {
		wrapped := fmt.Errorf("download failed: %w", &RemoteCallError{Backend: "file", Err: cause})
		var re *RemoteCallError
		require.ErrorAs(t, wrapped, &re)
		assert.Equal(t, "file", re.Backend)
		assert.ErrorIs(t, wrapped, cause)
	})

	t.Run("kinds_are_distinct", func(t *testing.T) {
		err := error(&TransportError{Err: cause})
		var ce *ConfigurationError
		assert.False(t, errors.As(err, &ce))
	})
}
