package adb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mrz1836/batuta/internal/errors"
)

// PackageInfo describes an installed package and its on-device artifacts.
type PackageInfo struct {
	// PackageName is the application identifier.
	PackageName string `json:"package_name"`
	// VersionName is dumpsys versionName when available.
	VersionName string `json:"version_name,omitempty"`
	// VersionCode is dumpsys versionCode when available.
	VersionCode int `json:"version_code,omitempty"`
	// BaseAPK is the on-device path of the base artifact.
	BaseAPK string `json:"base_apk,omitempty"`
	// SplitAPKs are the on-device paths of split artifacts.
	SplitAPKs []string `json:"split_apks,omitempty"`
}

// IsSplit reports whether the installation consists of multiple artifacts.
func (p PackageInfo) IsSplit() bool {
	return len(p.SplitAPKs) > 0
}

// AllPaths returns base followed by splits.
func (p PackageInfo) AllPaths() []string {
	if p.BaseAPK == "" {
		return p.SplitAPKs
	}
	return append([]string{p.BaseAPK}, p.SplitAPKs...)
}

// PulledAPK records the local result of pulling a package from a device.
type PulledAPK struct {
	// PackageName is the pulled application identifier.
	PackageName string `json:"package_name"`
	// LocalPath is the pulled file, or the directory for split pulls.
	LocalPath string `json:"local_path"`
	// IsSplit marks a directory of base + split artifacts.
	IsSplit bool `json:"is_split"`
	// SplitPaths lists each pulled file for split pulls.
	SplitPaths []string `json:"split_paths,omitempty"`
}

// ListPackages lists installed package names, third-party only unless
// includeSystem is set. filter narrows results via pm's native matching.
func (c *Client) ListPackages(ctx context.Context, includeSystem bool, filter string) ([]string, error) {
	args := []string{"shell", "pm", "list", "packages"}
	if !includeSystem {
		args = append(args, "-3")
	}
	if filter != "" {
		args = append(args, filter)
	}

	result, err := c.run(ctx, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list packages")
	}

	var packages []string
	for _, line := range result.Lines() {
		if strings.HasPrefix(line, "package:") {
			packages = append(packages, strings.SplitN(line, ":", 2)[1])
		}
	}
	sort.Strings(packages)
	return packages, nil
}

// FindPackage resolves a query to exactly one installed package.
// Zero matches wraps ErrPackageNotFound; more than one wraps
// ErrMultiplePackages listing the candidates.
func (c *Client) FindPackage(ctx context.Context, query string, includeSystem bool) (string, error) {
	matches, err := c.ListPackages(ctx, includeSystem, query)
	if err != nil {
		return "", err
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no package matching %q: %w", query, errors.ErrPackageNotFound)
	case 1:
		return matches[0], nil
	default:
		// An exact hit among substring matches is unambiguous.
		for _, m := range matches {
			if m == query {
				return m, nil
			}
		}
		return "", fmt.Errorf("%d packages match %q (%s): %w",
			len(matches), query, strings.Join(matches, ", "), errors.ErrMultiplePackages)
	}
}

// GetPackageInfo resolves a package's artifact paths and version metadata.
// Splits are distinguished from the base by the split_ filename convention;
// the first non-split path found is the base.
func (c *Client) GetPackageInfo(ctx context.Context, packageName string) (PackageInfo, error) {
	result, err := c.run(ctx, "shell", "pm", "path", packageName)
	if err != nil {
		return PackageInfo{}, fmt.Errorf("%s: %v: %w", packageName, err, errors.ErrPackageNotFound)
	}

	info := PackageInfo{PackageName: packageName}
	for _, line := range result.Lines() {
		if !strings.HasPrefix(line, "package:") {
			continue
		}
		path := strings.SplitN(line, ":", 2)[1]
		if strings.Contains(filepath.Base(path), "split_") || info.BaseAPK != "" {
			info.SplitAPKs = append(info.SplitAPKs, path)
		} else {
			info.BaseAPK = path
		}
	}

	if info.BaseAPK == "" && len(info.SplitAPKs) == 0 {
		return PackageInfo{}, fmt.Errorf("%s: %w", packageName, errors.ErrPackageNotFound)
	}

	c.fillVersion(ctx, &info)
	return info, nil
}

// fillVersion scrapes dumpsys for version metadata, best effort.
func (c *Client) fillVersion(ctx context.Context, info *PackageInfo) {
	result, err := c.run(ctx, "shell", "dumpsys", "package", info.PackageName)
	if err != nil {
		return
	}

	for _, line := range result.Lines() {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "versionName="):
			info.VersionName = strings.SplitN(line, "=", 2)[1]
		case strings.HasPrefix(line, "versionCode="):
			// Format: versionCode=123 minSdk=24 targetSdk=34
			raw := strings.Fields(strings.SplitN(line, "=", 2)[1])
			if len(raw) > 0 {
				if code, convErr := strconv.Atoi(raw[0]); convErr == nil {
					info.VersionCode = code
				}
			}
		}
		if info.VersionName != "" && info.VersionCode != 0 {
			return
		}
	}
}

// Pull copies a package's artifacts from the device into outputDir.
// Split installations land in a per-package subdirectory; single artifacts
// become <package>[-<version>].apk.
func (c *Client) Pull(ctx context.Context, packageName, outputDir string) (PulledAPK, error) {
	info, err := c.GetPackageInfo(ctx, packageName)
	if err != nil {
		return PulledAPK{}, err
	}

	if err = os.MkdirAll(outputDir, 0o750); err != nil {
		return PulledAPK{}, errors.Wrapf(err, "failed to create %s", outputDir)
	}

	if info.IsSplit() {
		return c.pullSplit(ctx, info, outputDir)
	}
	return c.pullSingle(ctx, info, outputDir)
}

// pullSingle pulls the base artifact of a non-split installation.
func (c *Client) pullSingle(ctx context.Context, info PackageInfo, outputDir string) (PulledAPK, error) {
	name := info.PackageName + ".apk"
	if info.VersionName != "" {
		name = info.PackageName + "-" + info.VersionName + ".apk"
	}
	localPath := filepath.Join(outputDir, name)

	if _, err := c.run(ctx, "pull", info.BaseAPK, localPath); err != nil {
		return PulledAPK{}, fmt.Errorf("pulling %s: %v: %w", info.PackageName, err, errors.ErrPull)
	}
	if _, err := os.Stat(localPath); err != nil {
		return PulledAPK{}, fmt.Errorf("pull succeeded but %s does not exist: %w", localPath, errors.ErrPull)
	}

	return PulledAPK{PackageName: info.PackageName, LocalPath: localPath}, nil
}

// pullSplit pulls base + splits into a per-package directory. A failed pull
// removes the partial directory so the caller never sees a half set.
func (c *Client) pullSplit(ctx context.Context, info PackageInfo, outputDir string) (PulledAPK, error) {
	dirName := info.PackageName
	if info.VersionName != "" {
		dirName = info.PackageName + "-" + info.VersionName
	}
	pkgDir := filepath.Join(outputDir, dirName)

	if err := os.MkdirAll(pkgDir, 0o750); err != nil {
		return PulledAPK{}, errors.Wrapf(err, "failed to create %s", pkgDir)
	}

	var pulled []string
	for _, devicePath := range info.AllPaths() {
		localPath := filepath.Join(pkgDir, filepath.Base(devicePath))
		if _, err := c.run(ctx, "pull", devicePath, localPath); err != nil {
			_ = os.RemoveAll(pkgDir)
			return PulledAPK{}, fmt.Errorf("pulling %s for %s: %v: %w",
				filepath.Base(devicePath), info.PackageName, err, errors.ErrPull)
		}
		pulled = append(pulled, localPath)
	}

	return PulledAPK{
		PackageName: info.PackageName,
		LocalPath:   pkgDir,
		IsSplit:     true,
		SplitPaths:  pulled,
	}, nil
}
