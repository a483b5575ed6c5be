// Package apk provides validation gates and lightweight inspection for
// Android application packages.
//
// Batuta never parses APK binary internals; the one binary contract enforced
// here is the 4-byte ZIP local-file-header signature used as a cheap validity
// gate, plus zip directory listings for evidence-based framework detection.
package apk

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrz1836/batuta/internal/constants"
	"github.com/mrz1836/batuta/internal/errors"
)

// ZipHeader is the ZIP local-file-header signature every APK starts with.
var ZipHeader = []byte{0x50, 0x4B, 0x03, 0x04} //nolint:gochecknoglobals // binary constant

// ValidatePath checks that path names an existing regular file with a .apk
// extension. With requireZipHeader set, the file's first four bytes must be
// the ZIP signature. All failures wrap ErrValidation and occur before any
// external process runs.
func ValidatePath(path string, requireZipHeader bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("apk not found: %s: %w", path, errors.ErrValidation)
	}
	if info.IsDir() {
		return fmt.Errorf("not a file: %s: %w", path, errors.ErrValidation)
	}
	if !strings.EqualFold(filepath.Ext(path), constants.APKExtension) {
		return fmt.Errorf("not an apk file (expected %s extension): %s: %w",
			constants.APKExtension, path, errors.ErrValidation)
	}

	if requireZipHeader {
		return validateZipHeader(path)
	}
	return nil
}

// validateZipHeader reads and compares the leading four bytes.
func validateZipHeader(path string) error {
	f, err := os.Open(path) //#nosec G304 -- caller-supplied apk path, validated above
	if err != nil {
		return fmt.Errorf("failed to read apk header: %v: %w", err, errors.ErrValidation)
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, len(ZipHeader))
	n, err := f.Read(header)
	if err != nil || n < len(ZipHeader) {
		return fmt.Errorf("file too small to be a valid apk: %s: %w", path, errors.ErrValidation)
	}

	if !bytes.Equal(header, ZipHeader) {
		return fmt.Errorf("header mismatch, expected %#x got %#x: %s: %w",
			ZipHeader, header, path, errors.ErrValidation)
	}
	return nil
}

// ValidateProjectDir checks that dir is an apktool project: an existing
// directory containing the apktool.yml descriptor.
func ValidateProjectDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("project directory not found: %s: %w", dir, errors.ErrValidation)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s: %w", dir, errors.ErrValidation)
	}

	marker := filepath.Join(dir, constants.ApktoolMarkerFile)
	if fi, markerErr := os.Stat(marker); markerErr != nil || fi.IsDir() {
		return fmt.Errorf("not an apktool project (missing %s): %s: %w",
			constants.ApktoolMarkerFile, dir, errors.ErrValidation)
	}
	return nil
}

// ListSplitDir returns the sorted .apk files directly inside dir.
// The directory must exist; an empty result is returned, not an error, so
// callers can attach their pipeline-specific failure semantics.
func ListSplitDir(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("split apk directory not found: %s: %w", dir, errors.ErrValidation)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("split apk path is not a directory: %s: %w", dir, errors.ErrValidation)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*"+constants.APKExtension))
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan split apk directory")
	}
	// Glob output is sorted already; keep only regular files.
	apks := matches[:0]
	for _, m := range matches {
		if fi, statErr := os.Stat(m); statErr == nil && !fi.IsDir() {
			apks = append(apks, m)
		}
	}
	return apks, nil
}
