package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/systmms/secretenv/internal/config"
	uerrors "github.com/systmms/secretenv/internal/errors"
	"github.com/systmms/secretenv/internal/execenv"
)

func NewExecCommand(cfg *config.Config) *cobra.Command {
	var (
		secretName   string
		prefix       string
		printVars    bool
		keepExisting bool
		workingDir   string
		timeout      int
	)

	cmd := &cobra.Command{
		Use:   "exec --secret <name> -- <command> [args...]",
		Short: "Execute command with ephemeral environment variables",
		Long: `Execute a command with environment variables decoded from a vault
secret. Secrets are injected into the child process environment and never
written to disk.

The command must be separated from secretenv arguments with '--'.

Examples:
  secretenv exec --secret app-env -- npm start
  secretenv exec --prefix app_ -- docker compose up
  secretenv exec --secret app-env --print -- python app.py`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate arguments
			if len(args) == 0 {
				return uerrors.UserError{
					Message:    "No command specified",
					Suggestion: "Use: secretenv exec --secret <name> -- <command> [args...]",
				}
			}
			if err := requireSelector("exec", secretName, prefix); err != nil {
				return err
			}

			// Validate command
			if err := execenv.ValidateCommand(args); err != nil {
				cfg.Logger.Warn("Command validation: %s", err.Error())
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

			cfg.Logger.Info("Successfully resolved %d environment variables", len(pairs))

			executor := execenv.New(cfg.Logger)
			return executor.Exec(ctx, execenv.Options{
				Command:      args,
				Env:          pairs,
				KeepExisting: keepExisting,
				PrintVars:    printVars,
				WorkingDir:   workingDir,
				Timeout:      timeout,
			})
		},
	}

	cmd.Flags().StringVar(&secretName, "secret", "", "Secret name holding a JSON object of variables")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Load all vault entries with this name prefix")
	cmd.Flags().BoolVar(&printVars, "print", false, "Print resolved variables (values masked)")
	cmd.Flags().BoolVar(&keepExisting, "keep-existing", false, "Existing environment variables win over vault values")
	cmd.Flags().StringVar(&workingDir, "working-dir", "", "Working directory for the command")
	cmd.Flags().IntVar(&timeout, "timeout", 0, "Command timeout in seconds (0 for no timeout)")

	return cmd
}
