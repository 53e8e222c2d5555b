package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rustle-plan/rustle-plan/internal/types"
)

// ErrorFormatter provides user-friendly error formatting
type ErrorFormatter struct {
	verbose bool
}

// NewErrorFormatter creates a new error formatter
func NewErrorFormatter(verbose bool) *ErrorFormatter {
	return &ErrorFormatter{verbose: verbose}
}

// Format converts an error to a user-friendly message
func (e *ErrorFormatter) Format(err error) string {
	if err == nil {
		return ""
	}

	var circular *types.CircularDependencyError
	if errors.As(err, &circular) {
		return fmt.Sprintf("Circular dependency detected: %s\nHint: break the cycle by removing or reordering one of these task dependencies.",
			strings.Join(circular.Cycle, " -> "))
	}

	var badPattern *types.InvalidHostPatternError
	if errors.As(err, &badPattern) {
		return fmt.Sprintf("Invalid host pattern %q: %s", badPattern.Pattern, badPattern.Reason)
	}

	var unknownDep *types.UnknownTaskDependencyError
	if errors.As(err, &unknownDep) {
		return fmt.Sprintf("Task dependency %q does not reference any known task.\nHint: check the task's \"dependencies\" list for typos.", unknownDep.TaskID)
	}

	var insufficient *types.InsufficientResourcesError
	if errors.As(err, &insufficient) {
		return fmt.Sprintf("Insufficient resources: need %d, have %d.\nHint: lower --forks.", insufficient.Required, insufficient.Available)
	}

	var unsupported *types.UnsupportedTargetError
	if errors.As(err, &unsupported) {
		return fmt.Sprintf("Unsupported target: %s", unsupported.Target)
	}

	var timeout *types.PlanningTimeoutError
	if errors.As(err, &timeout) {
		return "Planning timed out. Try increasing the timeout with --timeout or reducing playbook/inventory size."
	}

	var serialization *types.SerializationError
	if errors.As(err, &serialization) {
		return fmt.Sprintf("Failed to serialize plan output: %s", serialization.Cause)
	}

	var ioErr *types.IOError
	if errors.As(err, &ioErr) {
		return fmt.Sprintf("I/O error: %s", ioErr.Cause)
	}

	errStr := err.Error()

	if strings.Contains(errStr, "required") {
		return fmt.Sprintf("Missing required parameter: %s", errStr)
	}

	if strings.Contains(errStr, "invalid") || strings.Contains(errStr, "must be") {
		return fmt.Sprintf("Invalid input: %s", errStr)
	}

	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "context deadline exceeded") {
		return "Operation timed out. Try increasing the timeout with --timeout flag."
	}

	// Default formatting
	if e.verbose {
		return fmt.Sprintf("Error: %s", errStr)
	}

	if parts := strings.Split(errStr, ":"); len(parts) > 1 {
		return strings.TrimSpace(parts[len(parts)-1])
	}

	return errStr
}

// FormatValidationError formats validation errors with helpful context
func FormatValidationError(field, value, reason string) error {
	return fmt.Errorf("validation failed for %s '%s': %s", field, value, reason)
}

// WrapWithSuggestion wraps an error with a helpful suggestion
func WrapWithSuggestion(err error, suggestion string) error {
	return fmt.Errorf("%w\nHint: %s", err, suggestion)
}
