// Package config holds the runtime configuration: global CLI flags merged
// over the optional secretenv.yaml definition. Flags always win; the
// credentials file additionally defaults from GOOGLE_APPLICATION_CREDENTIALS.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	uerrors "github.com/systmms/secretenv/internal/errors"
	"github.com/systmms/secretenv/internal/logging"
)

// DefaultPath is the definition file looked up when --config is not given.
const DefaultPath = "secretenv.yaml"

// CredentialsEnvVar is the conventional variable naming a Google service
// account credentials file.
const CredentialsEnvVar = "GOOGLE_APPLICATION_CREDENTIALS"

// Config is the runtime configuration assembled by the CLI layer.
type Config struct {
	Path   string
	Logger *logging.Logger

	// Flag overrides; empty means "not set on the command line".
	VaultType       string
	Project         string
	CredentialsFile string
	VaultFile       string

	Definition *Definition
}

// Definition is the secretenv.yaml structure.
type Definition struct {
	Vault  string       `yaml:"vault"`
	Google GoogleConfig `yaml:"google"`
	File   FileConfig   `yaml:"file"`
}

// GoogleConfig configures the Secret Manager backend.
type GoogleConfig struct {
	Project         string `yaml:"project"`
	CredentialsFile string `yaml:"credentials_file"`
}

// FileConfig configures the local file backend.
type FileConfig struct {
	Path string `yaml:"path"`
}

// Load reads and parses the definition file. A missing file is only an error
// when the user pointed --config at it explicitly; the default path is
// allowed to be absent so the CLI works from flags alone.
func (c *Config) Load() error {
	path := c.Path
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if path == DefaultPath {
				c.Definition = &Definition{}
				return nil
			}
			return uerrors.ConfigError{
				Field:      "config",
				Value:      path,
				Message:    "configuration file not found",
				Suggestion: "Check the --config path or drop the flag to run from command-line flags alone",
			}
		}
		return uerrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return uerrors.ConfigError{
			Field:      "config",
			Value:      path,
			Message:    "invalid YAML: " + err.Error(),
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}

	c.Definition = &def
	return nil
}

func (c *Config) definition() *Definition {
	if c.Definition == nil {
		return &Definition{}
	}
	return c.Definition
}

// EffectiveVault returns the chosen backend type; google is the default.
func (c *Config) EffectiveVault() string {
	if c.VaultType != "" {
		return c.VaultType
	}
	if v := c.definition().Vault; v != "" {
		return v
	}
	return "google"
}

// EffectiveProject returns the Google project to address.
func (c *Config) EffectiveProject() string {
	if c.Project != "" {
		return c.Project
	}
	return c.definition().Google.Project
}

// EffectiveCredentialsFile returns the credentials file path, falling back
// to the conventional environment variable. Empty means default credential
// discovery.
func (c *Config) EffectiveCredentialsFile() string {
	if c.CredentialsFile != "" {
		return c.CredentialsFile
	}
	if f := c.definition().Google.CredentialsFile; f != "" {
		return f
	}
	return os.Getenv(CredentialsEnvVar)
}

// EffectiveVaultFile returns the file backend's document path.
func (c *Config) EffectiveVaultFile() string {
	if c.VaultFile != "" {
		return c.VaultFile
	}
	return c.definition().File.Path
}
