package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	stderr  io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		stderr:  os.Stderr,
		exit:    os.Exit,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if ne, ok := As(err); ok {
		return a.exitCodeFromNavError(ne)
	}

	return 1
}

// exitCodeFromNavError maps NavError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromNavError(err *NavError) int {
	switch err.Category {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryTopology:
		return 3
	case CategoryVersion:
		return 4
	case CategoryConfig:
		return 7
	case CategoryInternal:
		return 10
	case CategoryGenerate, CategoryFileSystem:
		return 11
	default:
		return 1
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if ne, ok := As(err); ok {
		return a.formatNavError(ne)
	}

	return fmt.Sprintf("Error: %v", err)
}

func (a *CLIErrorAdapter) formatNavError(err *NavError) string {
	if a.verbose {
		return err.Error()
	}

	switch err.Category {
	case CategoryConfig, CategoryValidation:
		return err.Message
	default:
		return fmt.Sprintf("%s: %s", err.Category, err.Message)
	}
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	a.logError(err)

	_, _ = fmt.Fprintf(a.stderr, "%s\n", message)
	a.exit(exitCode)
}

func (a *CLIErrorAdapter) logError(err error) {
	if ne, ok := As(err); ok {
		attrs := []slog.Attr{slog.String("category", string(ne.Category))}
		for k, v := range ne.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
		a.logger.LogAttrs(context.Background(), slog.LevelError, ne.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}
