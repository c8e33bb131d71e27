// UPS status collector — runs `pwrstat -status` and returns its stdout.
// The exit code of the tool is not inspected; whatever it printed is returned
// and left to the parser to accept or reject.
package collector

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// DefaultCommand is the CyberPower PowerPanel CLI.
	DefaultCommand = "pwrstat"

	// DefaultArg requests the full status report.
	DefaultArg = "-status"
)

// StatusCollector collects the raw status report of the UPS.
type StatusCollector struct {
	path   string
	args   []string
	logger *zap.Logger
}

// NewStatusCollector creates a collector that runs path with args.
// An empty path selects DefaultCommand, and nil args select DefaultArg.
// The logger parameter is used for debug logging. Pass nil for no logging.
func NewStatusCollector(path string, args []string, logger *zap.Logger) *StatusCollector {
	if path == "" {
		path = DefaultCommand
	}
	if args == nil {
		args = []string{DefaultArg}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusCollector{
		path:   path,
		args:   append([]string(nil), args...),
		logger: logger,
	}
}

// Name returns the collector identifier.
func (c *StatusCollector) Name() string { return "pwrstat" }

// Command returns the command line the collector runs.
func (c *StatusCollector) Command() string {
	return strings.Join(append([]string{c.path}, c.args...), " ")
}

// Collect runs the status program once, waits for it to exit and returns
// its standard output. There is no timeout and no retry.
func (c *StatusCollector) Collect(ctx context.Context) (string, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, c.path, c.args...)
	out, err := cmd.Output()

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", &SpawnError{Command: c.Command(), Err: err}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", &SpawnError{Command: c.Command(), Err: ctxErr}
		}
		exitCode = exitErr.ExitCode()
	}

	c.logger.Debug("Status command finished",
		zap.String("command", c.Command()),
		zap.Int("exit_code", exitCode),
		zap.Int("bytes", len(out)),
		zap.Duration("duration", time.Since(start)))

	if offset := invalidUTF8Offset(out); offset >= 0 {
		return "", &EncodingError{Command: c.Command(), Offset: offset}
	}
	return string(out), nil
}

// IsAvailable reports whether the status program resolves on $PATH.
func (c *StatusCollector) IsAvailable() bool {
	_, err := exec.LookPath(c.path)
	return err == nil
}

// invalidUTF8Offset returns the offset of the first invalid UTF-8 sequence
// in b, or -1 if b is valid.
func invalidUTF8Offset(b []byte) int {
	if utf8.Valid(b) {
		return -1
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
