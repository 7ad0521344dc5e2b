// Package util carries the ambient helpers every other package in this
// module leans on: a shared struct validator and logging that annotates
// errors instead of swallowing them.
package util

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// NewValidator returns the shared struct validator instance.
func NewValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})

	return validate
}

// Logger is the package-wide logger, field-annotated by callers.
var Logger = logrus.StandardLogger()

// Trace logs a structured, field-annotated debug-level line. Debug is
// silent under the logger's default level, so per-pair handler chain
// tracing costs nothing unless a caller turns it on.
func Trace(fields logrus.Fields, msg string) {
	Logger.WithFields(fields).Debug(msg)
}

// LoggingErrorMsg logs err at error level with msg as context and returns a
// wrapped error carrying the same message, so the two never drift.
func LoggingErrorMsg(err error, msg string) error {
	wrapped := errors.Wrap(err, msg)
	Logger.WithError(err).Error(msg)

	return wrapped
}

// LoggingErrorMsgf is LoggingErrorMsg with a formatted message.
func LoggingErrorMsgf(err error, format string, args ...interface{}) error {
	return LoggingErrorMsg(err, fmt.Sprintf(format, args...))
}

// Contains reports whether needle is present in haystack.
func Contains(needle string, haystack []string) bool {
	for _, h := range haystack {
		if h == needle {
			return true
		}
	}

	return false
}

// ContainsAny reports whether any element of needles is present in haystack.
func ContainsAny(needles, haystack []string) bool {
	for _, n := range needles {
		if Contains(n, haystack) {
			return true
		}
	}

	return false
}
