// Package logging provides logging utilities including sensitive data filtering.
// This package contains hooks and utilities for zerolog that help ensure
// signing credentials are never written to log files.
package logging

import (
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue is the replacement string for sensitive data.
const RedactedValue = "[REDACTED]"

// sensitivePatterns contains compiled regular expressions for detecting
// credential material in logged text. Batuta logs every external command it
// runs, and apksigner/keytool invocations carry keystore passwords inline,
// so command vectors are the primary leak vector.
var sensitivePatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // Package-level patterns for reuse
	// apksigner inline password specifiers (--ks-pass pass:secret, --key-pass env:VAR)
	regexp.MustCompile(`(?i)(pass|env|file):[^\s"']+`),

	// keytool password flags (-storepass secret, -keypass secret)
	regexp.MustCompile(`(?i)(-storepass|-keypass)\s+[^\s"']+`),

	// Generic secret assignments (password=..., secret: ...)
	regexp.MustCompile(`(?i)(secret|password|passwd|pwd|credential)\s*[:=]\s*["']?[^\s"']{4,}["']?`),

	// PEM private key blocks
	regexp.MustCompile(`(?i)-----BEGIN[A-Z\s]+PRIVATE KEY-----`),
}

// sensitiveFieldNames contains field names that should always have their values
// redacted. Case-insensitive matching is performed.
var sensitiveFieldNames = []string{ //nolint:gochecknoglobals // Package-level patterns for reuse
	"password",
	"passwd",
	"pwd",
	"secret",
	"credential",
	"credentials",
	"keystore_pass",
	"key_pass",
	"storepass",
	"keypass",
	"private_key",
	"privatekey",
	"private-key",
}

// SensitiveDataHook is a zerolog hook that flags log entries containing
// credential material. Zerolog hooks cannot rewrite an event's message, so
// the actual scrubbing happens at call sites via FilterSensitiveValue and
// FilterCommand; the hook marks anything that slipped through.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a new SensitiveDataHook for filtering sensitive data.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements the zerolog.Hook interface.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// ContainsSensitiveData checks if a string contains any sensitive data patterns.
// Returns true if any sensitive pattern is found.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue filters sensitive data from a string value.
// It replaces any matches of sensitive patterns with [REDACTED].
func FilterSensitiveValue(value string) string {
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// FilterCommand returns a copy of an external command vector safe for
// logging. Each argument is scrubbed independently so positions and flag
// names stay readable.
func FilterCommand(args []string) []string {
	filtered := make([]string, len(args))
	for i, arg := range args {
		filtered[i] = FilterSensitiveValue(arg)
	}
	return filtered
}

// FilteringWriter wraps an io.Writer and filters sensitive data from output.
// This is used to wrap log file writers to ensure signing credentials are
// never written to disk, even if they appear in log messages or field values.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter creates a new FilteringWriter that wraps the given writer.
// All data written through this writer will have sensitive patterns redacted.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer, filtering sensitive data before writing.
func (fw *FilteringWriter) Write(p []byte) (n int, err error) {
	filtered := FilterSensitiveValue(string(p))
	if _, err = fw.w.Write([]byte(filtered)); err != nil {
		return 0, err
	}
	// Report the original length so callers never see a short write.
	return len(p), nil
}

// IsSensitiveFieldName checks if a field name indicates sensitive data.
// Returns true if the field name matches any known sensitive field name.
func IsSensitiveFieldName(name string) bool {
	lower := strings.ToLower(name)
	for _, sensitive := range sensitiveFieldNames {
		if lower == sensitive {
			return true
		}
	}
	return false
}
