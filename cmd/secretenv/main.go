package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/secretenv/cmd/secretenv/commands"
	"github.com/systmms/secretenv/internal/config"
	"github.com/systmms/secretenv/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile      string
		vaultType       string
		project         string
		credentialsFile string
		vaultFile       string
		noColor         bool
		debug           bool
	)

	// Create config placeholder
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "secretenv",
		Short: "Load secrets from a vault into process environments",
		Long: `secretenv pulls a JSON secret from your vault, decodes it into
environment variables, and renders .env files or launches commands with
ephemeral environments.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize logger with parsed flags
			logger := logging.New(debug, noColor)

			// Update config with parsed values
			cfg.Path = configFile
			cfg.Logger = logger
			cfg.VaultType = vaultType
			cfg.Project = project
			cfg.CredentialsFile = credentialsFile
			cfg.VaultFile = vaultFile
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().StringVar(&vaultType, "vault", "", "Vault backend (google|file)")
	rootCmd.PersistentFlags().StringVar(&project, "project", "", "Google Cloud project ID")
	rootCmd.PersistentFlags().StringVar(&credentialsFile, "credentials-file", "", "Service account credentials file")
	rootCmd.PersistentFlags().StringVar(&vaultFile, "vault-file", "", "Vault document path for the file backend")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		commands.NewExecCommand(cfg),
		commands.NewRenderCommand(cfg),
		commands.NewGetCommand(cfg),
	)

	return rootCmd.Execute()
}
