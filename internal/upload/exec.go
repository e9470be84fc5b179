package upload

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"go.uber.org/zap"
)

// MaxArgPayload is the largest payload passed inline as a command argument.
// Larger payloads go through a temporary file named by --payload-file.
const MaxArgPayload = 64 << 10

// ExecLauncher runs the agent as a detached child process.
type ExecLauncher struct {
	// Command is the program and leading arguments, e.g. [/usr/bin/job_tracker upload-af].
	Command []string
	Logger  *zap.Logger

	start func(cmd *exec.Cmd) error
}

// NewExecLauncher creates a launcher for command.
func NewExecLauncher(command []string, logger *zap.Logger) *ExecLauncher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecLauncher{Command: command, Logger: logger, start: startDetached}
}

// DefaultCommand returns the command that re-invokes the running binary's upload-af subcommand.
func DefaultCommand() ([]string, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}
	return []string{self, "upload-af"}, nil
}

// Launch starts the agent and returns as soon as the process is running.
// The child is not tied to ctx and its exit status is ignored.
func (l *ExecLauncher) Launch(_ context.Context, batchID string, payload []byte) error {
	if len(l.Command) == 0 {
		return fmt.Errorf("no agent command configured")
	}

	args := append([]string(nil), l.Command[1:]...)
	args = append(args, "--batch-id", batchID)

	var payloadFile string
	if len(payload) > MaxArgPayload {
		path, err := writePayloadFile(payload)
		if err != nil {
			return err
		}
		payloadFile = path
		args = append(args, "--payload-file", path)
	} else {
		args = append(args, string(payload))
	}

	cmd := exec.Command(l.Command[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := l.start(cmd); err != nil {
		if payloadFile != "" {
			_ = os.Remove(payloadFile)
		}
		return fmt.Errorf("failed to start %s: %w", l.Command[0], err)
	}
	l.Logger.Debug("agent process started", zap.String("batch_id", batchID), zap.String("command", l.Command[0]))
	return nil
}

// startDetached starts cmd and reaps it in the background once it exits.
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func writePayloadFile(payload []byte) (string, error) {
	f, err := os.CreateTemp("", "job-tracker-upload-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create payload file: %w", err)
	}
	if _, err := f.Write(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to write payload file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to write payload file: %w", err)
	}
	return f.Name(), nil
}
