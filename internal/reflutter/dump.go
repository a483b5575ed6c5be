package reflutter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrz1836/batuta/internal/constants"
	"github.com/mrz1836/batuta/internal/errors"
	"github.com/mrz1836/batuta/internal/tool"
)

// DumpOptions configures a standalone dump.
type DumpOptions struct {
	// OutputPath is where the raw dump is written. Empty means
	// ./<package>_dump.dart.
	OutputPath string

	// CheckRoot verifies su works before reading the dump.
	CheckRoot bool

	// FormatJSON attempts to pretty-print the dump as JSON alongside the
	// raw file. Non-JSON dumps are left as-is without complaint.
	FormatJSON bool
}

// DefaultDumpOptions returns the standard dump configuration.
func DefaultDumpOptions() DumpOptions {
	return DumpOptions{CheckRoot: true, FormatJSON: true}
}

// DumpResult describes a retrieved Dart dump.
type DumpResult struct {
	// PackageName is the instrumented application's package.
	PackageName string `json:"package_name"`

	// DumpPath is the raw dump file.
	DumpPath string `json:"dump_path"`

	// FormattedPath is the pretty-printed JSON file, empty when the dump
	// was not valid JSON or formatting was off.
	FormattedPath string `json:"formatted_path,omitempty"`

	// AutoStarted reports whether the workflow launched the app itself.
	AutoStarted bool `json:"auto_started"`
}

// Dump reads the dump file the instrumented app wrote under its data
// directory. The read goes through su; most devices do not expose app data
// directories to the shell user.
func (w *Workflow) Dump(ctx context.Context, packageName string, opts DumpOptions) (*DumpResult, error) {
	if err := tool.Require(constants.ToolADB); err != nil {
		return nil, err
	}
	if opts.OutputPath == "" {
		opts.OutputPath = filepath.Join(".", packageName+"_dump.dart")
	}

	if opts.CheckRoot {
		if err := w.device.CheckRoot(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrDump, err)
		}
	}

	devicePath := "/data/data/" + packageName + "/" + constants.DartDumpFile
	content, err := w.device.ReadFileAsRoot(ctx, devicePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrDump, err)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: dump file is empty, start the app at least once after install", errors.ErrDump)
	}

	if err = os.WriteFile(opts.OutputPath, []byte(content), 0o600); err != nil {
		return nil, errors.Wrapf(err, "failed to write dump to %s", opts.OutputPath)
	}

	result := &DumpResult{PackageName: packageName, DumpPath: opts.OutputPath}
	if opts.FormatJSON {
		result.FormattedPath = writeFormattedJSON(opts.OutputPath, content)
	}
	return result, nil
}

// writeFormattedJSON re-parses the dump as JSON and writes an indented copy
// next to the raw file. Returns an empty path when the dump is not JSON or
// the copy cannot be written; the raw dump is the artifact that matters.
func writeFormattedJSON(dumpPath, content string) string {
	var parsed any
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return ""
	}

	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return ""
	}

	formatted := strings.TrimSuffix(dumpPath, filepath.Ext(dumpPath)) + ".json"
	if err := os.WriteFile(formatted, pretty, 0o600); err != nil {
		return ""
	}
	return formatted
}
