// Package staging manages pipeline-scoped temporary working areas.
//
// Every pipeline run owns exactly one staging area holding its intermediate
// artifacts (the built-but-unaligned APK, the aligned-but-unsigned APK, the
// instrumented APK). Areas are never shared between runs and are destroyed on
// every exit path; only files the caller explicitly copies to its own output
// path survive. This package is the only place batuta deletes a directory
// tree - stage code never removes arbitrary caller-owned paths.
package staging

import (
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/mrz1836/batuta/internal/errors"
)

// Area is an exclusively-owned temporary directory.
type Area struct {
	// Path is the absolute path of the staging directory.
	Path string
}

// New creates a uniquely-named staging area. Callers that cannot use With
// must arrange for Remove on every exit path themselves.
func New(prefix string) (*Area, error) {
	dir, err := os.MkdirTemp("", "batuta-"+prefix+"-")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create staging area")
	}
	return &Area{Path: dir}, nil
}

// Remove deletes the staging area recursively. Safe to call more than once.
func (a *Area) Remove() {
	if a.Path == "" {
		return
	}
	if err := os.RemoveAll(a.Path); err != nil {
		// Nothing actionable for the caller; the OS reclaims temp dirs.
		log.Warn().Err(err).Str("path", a.Path).Msg("failed to remove staging area")
	}
}

// With runs fn with a fresh staging area and guarantees its removal on every
// exit path: normal return, error return, or panic.
func With(prefix string, fn func(dir string) error) error {
	area, err := New(prefix)
	if err != nil {
		return err
	}
	defer area.Remove()

	return fn(area.Path)
}

// CopyOut copies a staged file to a caller-visible destination, preserving
// the source's permission bits. Used by stages whose final artifact is the
// staged file itself (e.g. patching with signing skipped).
func CopyOut(src, dst string) error {
	in, err := os.Open(src) //#nosec G304 -- src is a staged path batuta created
	if err != nil {
		return errors.Wrapf(err, "failed to open staged artifact %s", src)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrap(err, "failed to stat staged artifact")
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()) //#nosec G304 -- dst is the caller's requested output path
	if err != nil {
		return errors.Wrapf(err, "failed to create output %s", dst)
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, "failed to copy artifact to %s", dst)
	}

	return errors.Wrap(out.Close(), "failed to finalize output")
}
