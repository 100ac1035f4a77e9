package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration   = errors.New("configuration error")
	ErrExternalService = errors.New("external service error")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrDelivery        = errors.New("delivery failure")
)

// Exit statuses reported by the CLI.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitConfiguration = 2
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalService
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps a run error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrConfiguration):
		return ExitConfiguration
	default:
		return ExitFailure
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
