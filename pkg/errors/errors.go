package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// CustomizedError carries the call trace, the i18n message id shown to
// clients, the underlying cause and the http status of a failed operation.
type CustomizedError struct {
	trace   []string
	message string
	err     error
	code    int
}

func New(trace, message string, err error) *CustomizedError {
	return &CustomizedError{
		trace:   []string{trace},
		message: message,
		err:     err,
		code:    http.StatusInternalServerError,
	}
}

// Trace prepends prefix to the trace of err. Errors that are not
// CustomizedError are wrapped as internal errors.
func Trace(prefix string, err error) *CustomizedError {
	if err == nil {
		return nil
	}
	var ce *CustomizedError
	if !errors.As(err, &ce) {
		return New(prefix, "error.internal", err)
	}
	ce.trace = append([]string{prefix}, ce.trace...)
	return ce
}

func (e *CustomizedError) Code(code int) *CustomizedError {
	e.code = code
	return e
}

func (e *CustomizedError) HTTPCode() int {
	return e.code
}

func (e *CustomizedError) Message() string {
	return e.message
}

func (e *CustomizedError) Unwrap() error {
	return e.err
}

func (e *CustomizedError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("%s: %s", strings.Join(e.trace, " -> "), e.message)
	}
	return fmt.Sprintf("%s: %s, %s", strings.Join(e.trace, " -> "), e.message, e.err.Error())
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// HTTPCode returns the status carried by err, or 500 for plain errors.
func HTTPCode(err error) int {
	var ce *CustomizedError
	if errors.As(err, &ce) {
		return ce.code
	}
	return http.StatusInternalServerError
}
