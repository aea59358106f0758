package magetasks

import (
	"context"
	"os"

	"github.com/dkoosis/nin/internal/session"
)

// Run prints label, then runs the command with output streamed to the
// terminal.
func Run(label, name string, args ...string) error {
	PrintInfo(label)
	return session.RunStep(context.Background(), session.Command{Name: name, Args: args}, out, os.Stderr)
}

// RunEnv is Run with extra environment variables for the command.
func RunEnv(env map[string]string, label, name string, args ...string) error {
	for k, v := range env {
		k := k
		prev, had := os.LookupEnv(k)
		if err := os.Setenv(k, v); err != nil {
			return err
		}
		defer func() {
			if had {
				_ = os.Setenv(k, prev)
			} else {
				_ = os.Unsetenv(k)
			}
		}()
	}
	return Run(label, name, args...)
}

// IsCommandNotFound checks if the error indicates the command was not found.
func IsCommandNotFound(err error) bool {
	return session.IsCommandNotFound(err)
}
