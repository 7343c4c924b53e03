package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/systmms/secretenv/internal/config"
	"github.com/systmms/secretenv/pkg/vault"
)

func NewRenderCommand(cfg *config.Config) *cobra.Command {
	var (
		secretName  string
		prefix      string
		outputPath  string
		permissions string
	)

	cmd := &cobra.Command{
		Use:   "render --secret <name> --out <file>",
		Short: "Render a .env file from vault secrets",
		Long: `Generate a .env file from a decoded vault secret.

Values containing whitespace or quotes are quoted and escaped so the output
can be sourced by a shell or loaded by dotenv tooling.

Examples:
  secretenv render --secret app-env --out .env.development
  secretenv render --prefix app_ --out .env`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate required flags
			if outputPath == "" {
				return fmt.Errorf("--out flag is required for security (explicit opt-in to write files)")
			}
			if err := requireSelector("render", secretName, prefix); err != nil {
				return err
			}

			// Parse permissions
			var perms os.FileMode = 0600
			if permissions != "" {
				n, err := fmt.Sscanf(permissions, "%o", &perms)
				if err != nil || n != 1 {
					return fmt.Errorf("invalid permissions format, use octal like '0644'")
				}
			}

			// Load configuration
			if err := cfg.Load(); err != nil {
				return err
			}

			ctx := context.Background()
			pairs, err := fetch(ctx, cfg, secretName, prefix)
			if err != nil {
				return err
			}

			if err := os.WriteFile(outputPath, []byte(renderDotenv(pairs)), perms); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputPath, err)
			}

			cfg.Logger.Info("Wrote %d variables to %s", len(pairs), outputPath)
			cfg.Logger.Warn("File contains secrets - ensure it's added to .gitignore")

			return nil
		},
	}

	cmd.Flags().StringVar(&secretName, "secret", "", "Secret name holding a JSON object of variables")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Load all vault entries with this name prefix")
	cmd.Flags().StringVar(&outputPath, "out", "", "Output file path (required for security)")
	cmd.Flags().StringVar(&permissions, "permissions", "0600", "File permissions in octal (default: 0600)")

	_ = cmd.MarkFlagRequired("out")

	return cmd
}

// renderDotenv formats entries as KEY=value lines, sorted by key.
func renderDotenv(pairs []vault.Pair) string {
	sorted := make([]vault.Pair, len(pairs))
	copy(sorted, pairs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	var b strings.Builder
	for _, pair := range sorted {
		b.WriteString(pair.Key)
		b.WriteByte('=')
		b.WriteString(quoteDotenvValue(pair.Value))
		b.WriteByte('\n')
	}
	return b.String()
}

// quoteDotenvValue quotes values that would not survive a round trip as a
// bare token.
func quoteDotenvValue(value string) string {
	if value != "" && !strings.ContainsAny(value, " \t\n\"'#\\$") {
		return value
	}
	escaped := strings.NewReplacer(
		"\\", "\\\\",
		"\"", "\\\"",
		"\n", "\\n",
	).Replace(value)
	return "\"" + escaped + "\""
}
