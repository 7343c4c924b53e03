// Package execenv runs child processes with ephemeral environment variables
// resolved from a vault. Secrets reach the child through its environment and
// are never written to disk.
package execenv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"
	"time"

	uerrors "github.com/systmms/secretenv/internal/errors"
	"github.com/systmms/secretenv/internal/logging"
	"github.com/systmms/secretenv/pkg/vault"
)

// Executor handles running commands with ephemeral environment variables.
type Executor struct {
	logger *logging.Logger
}

// New creates a new executor.
func New(logger *logging.Logger) *Executor {
	return &Executor{logger: logger}
}

// Options configures command execution.
type Options struct {
	Command      []string     // Command and arguments to run
	Env          []vault.Pair // Decoded entries to inject, in order
	KeepExisting bool         // Existing variables win over vault values
	PrintVars    bool         // Print injected variable names (values masked)
	WorkingDir   string       // Working directory for the command
	Timeout      int          // Timeout in seconds (0 for no timeout)
}

// Exec runs a command with the provided environment entries. The child's
// exit code is propagated as the process exit code.
func (e *Executor) Exec(ctx context.Context, options Options) error {
	if len(options.Command) == 0 {
		return uerrors.UserError{
			Message:    "No command specified",
			Suggestion: "Provide a command after -- (e.g., secretenv exec --secret app -- npm start)",
		}
	}

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(options.Timeout)*time.Second)
		defer cancel()
	}

	cmdName := options.Command[0]
	if _, err := exec.LookPath(cmdName); err != nil {
		return uerrors.WrapCommandNotFound(cmdName, err)
	}

	env := e.buildEnvironment(options.Env, options.KeepExisting)

	if options.PrintVars {
		e.printPairs(options.Env)
	}

	cmd := exec.CommandContext(ctx, cmdName, options.Command[1:]...)
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if options.WorkingDir != "" {
		cmd.Dir = options.WorkingDir
	}

	e.logger.Debug("executing command: %s", strings.Join(options.Command, " "))
	e.logger.Debug("environment entries injected: %d", len(options.Env))

	if err := cmd.Run(); err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			// Preserve the exit code from the child process.
			if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
				os.Exit(status.ExitStatus())
			}
			os.Exit(1)
		}
		return uerrors.CommandError{
			Command:    strings.Join(options.Command, " "),
			Message:    err.Error(),
			Suggestion: "Check the command output above for details",
		}
	}

	return nil
}

// buildEnvironment merges the vault entries over the parent environment.
func (e *Executor) buildEnvironment(pairs []vault.Pair, keepExisting bool) []string {
	envMap := make(map[string]string)
	for _, entry := range os.Environ() {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) == 2 {
			envMap[parts[0]] = parts[1]
		}
	}

	for _, pair := range pairs {
		if keepExisting {
			if _, exists := envMap[pair.Key]; exists {
				continue
			}
		}
		envMap[pair.Key] = pair.Value
	}

	result := make([]string, 0, len(envMap))
	for key, value := range envMap {
		result = append(result, fmt.Sprintf("%s=%s", key, value))
	}

	// Sorted for consistent ordering (helps with debugging).
	sort.Strings(result)
	return result
}

// printPairs displays the injected variables with values masked.
func (e *Executor) printPairs(pairs []vault.Pair) {
	if len(pairs) == 0 {
		fmt.Println("No environment variables resolved")
		return
	}

	fmt.Printf("Resolved %d environment variables:\n", len(pairs))
	for _, pair := range pairs {
		fmt.Printf("  %s=%s\n", pair.Key, maskValue(pair.Value))
	}
	fmt.Println()
}

// maskValue masks a secret value for display.
func maskValue(value string) string {
	if len(value) == 0 {
		return "(empty)"
	}
	if len(value) <= 3 {
		return strings.Repeat("*", len(value))
	}
	if len(value) <= 8 {
		return value[:1] + strings.Repeat("*", len(value)-2) + value[len(value)-1:]
	}
	return value[:3] + strings.Repeat("*", 8) + value[len(value)-2:]
}

// ValidateCommand checks that a command is present and resolvable.
func ValidateCommand(command []string) error {
	if len(command) == 0 {
		return uerrors.UserError{
			Message:    "No command specified",
			Suggestion: "Provide a command after -- (e.g., secretenv exec --secret app -- npm start)",
		}
	}
	if _, err := exec.LookPath(command[0]); err != nil {
		return uerrors.WrapCommandNotFound(command[0], err)
	}
	return nil
}
