package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/secretenv/internal/config"
	uerrors "github.com/systmms/secretenv/internal/errors"
)

func NewGetCommand(cfg *config.Config) *cobra.Command {
	var (
		secretName string
		keyName    string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "get --secret <name> --key <key>",
		Short: "Get a single secret value",
		Long: `Retrieve and display a single key from a decoded vault secret.

By default only the raw value is printed, making it suitable for scripting.

Examples:
  # Get a single value
  secretenv get --secret app-env --key DATABASE_URL

  # Get value with metadata in JSON format
  secretenv get --secret app-env --key API_KEY --json

  # Use in scripts
  export DB_URL=$(secretenv get --secret app-env --key DATABASE_URL)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate flags
			if secretName == "" {
				return uerrors.UserError{
					Message:    "Secret name is required",
					Suggestion: "Use --secret <name> to specify which secret to read",
				}
			}
			if keyName == "" {
				return uerrors.UserError{
					Message:    "Key name is required",
					Suggestion: "Use --key <key> to specify which entry to get",
				}
			}

			// Load configuration
			if err := cfg.Load(); err != nil {
				return err
			}

			ctx := context.Background()
			pairs, err := fetch(ctx, cfg, secretName, "")
			if err != nil {
				return err
			}

			value := ""
			found := false
			for _, pair := range pairs {
				if pair.Key == keyName {
					value = pair.Value
					found = true
					break
				}
			}
			if !found {
				available := make([]string, 0, len(pairs))
				for _, pair := range pairs {
					available = append(available, pair.Key)
				}

				suggestion := fmt.Sprintf("Check secret '%s' for available keys", secretName)
				if len(available) > 0 && len(available) <= 10 {
					suggestion = fmt.Sprintf("Available keys in '%s': %v", secretName, available)
				} else if len(available) > 10 {
					suggestion = fmt.Sprintf("Secret '%s' has %d keys", secretName, len(available))
				}

				return uerrors.ConfigError{
					Field:      "key",
					Value:      keyName,
					Message:    fmt.Sprintf("key not found in secret '%s'", secretName),
					Suggestion: suggestion,
				}
			}

			// Output the result
			if jsonOutput {
				output := map[string]any{
					"secret": secretName,
					"key":    keyName,
					"value":  value,
					"vault":  cfg.EffectiveVault(),
				}

				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(output); err != nil {
					return fmt.Errorf("failed to encode JSON: %w", err)
				}
			} else {
				// Raw value output (default)
				fmt.Print(value)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&secretName, "secret", "", "Secret name holding a JSON object of variables (required)")
	cmd.Flags().StringVar(&keyName, "key", "", "Key to get from the decoded secret (required)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format with metadata")

	_ = cmd.MarkFlagRequired("secret")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}
