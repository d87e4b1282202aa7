package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/smartgrow/internal/logger"
)

// Kind classifies failures so callers can decide whether to surface them.
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindMalformedData Kind = "malformed_data"
	KindProvider      Kind = "provider"
	KindValidation    Kind = "validation"
	KindStorage       Kind = "storage"
	KindInternal      Kind = "internal"
)

// AppError carries a Kind and the operation that failed.
type AppError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *AppError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any *AppError of the same kind, so errors.Is(err, New(KindX, "", nil)) works.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

func New(kind Kind, op string, err error) *AppError {
	return &AppError{Kind: kind, Op: op, Err: err}
}

// Wrap returns nil when err is nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{Kind: kind, Op: op, Err: err}
}

// KindOf reports the kind of the first AppError in the chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether any AppError in the chain has the given kind.
func IsKind(err error, kind Kind) bool {
	return stderrors.Is(err, &AppError{Kind: kind})
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err, "kind", KindOf(err))
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
