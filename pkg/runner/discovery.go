package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrUnsupportedFile is returned when a file named explicitly on the command
// line does not have a template extension.
var ErrUnsupportedFile = errors.New("unsupported file type")

// discoverer holds the resolved state of one discovery pass.
type discoverer struct {
	workDir    string
	extensions []string
	opts       Options
	seen       map[string]struct{}
	files      []string
}

// Discover finds templates matching opts. Directories are walked recursively,
// skipping hidden entries and excluded paths; files named explicitly must
// carry one of the template extensions. The result is sorted and absolute.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		opts:       opts,
		seen:       make(map[string]struct{}),
	}

	for _, inputPath := range opts.effectivePaths() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		absPath := inputPath
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(workDir, absPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if info.IsDir() {
			if err := d.walk(ctx, absPath); err != nil {
				return nil, err
			}
			continue
		}

		if !hasMatchingExtension(absPath, d.extensions) {
			return nil, fmt.Errorf("%s: %w (expected %s)", inputPath, ErrUnsupportedFile, strings.Join(d.extensions, ", "))
		}
		if !d.excluded(absPath) {
			d.add(absPath)
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

func (d *discoverer) add(path string) {
	if _, ok := d.seen[path]; ok {
		return
	}
	d.seen[path] = struct{}{}
	d.files = append(d.files, path)
}

func (d *discoverer) excluded(path string) bool {
	relPath, err := filepath.Rel(d.workDir, path)
	if err != nil {
		relPath = path
	}
	return matchesAny(relPath, d.opts.ExcludeGlobs)
}

func (d *discoverer) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || d.excluded(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			return d.symlink(ctx, path)
		}

		if hasMatchingExtension(path, d.extensions) && !d.excluded(path) {
			d.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}

	return nil
}

// symlink handles a symlink met during a walk. Broken links are skipped;
// directory links are walked only with FollowSymlinks.
func (d *discoverer) symlink(ctx context.Context, path string) error {
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil //nolint:nilerr // broken symlink
	}
	info, err := os.Stat(realPath)
	if err != nil {
		return nil //nolint:nilerr // inaccessible target
	}

	if info.IsDir() {
		if !d.opts.FollowSymlinks {
			return nil
		}
		// Walk the target; WalkDir uses Lstat on its root and would not descend.
		return d.walk(ctx, realPath)
	}

	if hasMatchingExtension(path, d.extensions) && !d.excluded(path) {
		d.add(path)
	}
	return nil
}

func hasMatchingExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

func matchesAny(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchGlob(relPath, pattern) {
			return true
		}
	}
	return false
}

// matchGlob matches a slash-separated relative path against a glob pattern.
// Besides filepath.Match syntax it understands "dir/**" (everything under
// dir), "**/name" (name at any depth) and plain patterns matched against the
// base name.
func matchGlob(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	if pattern == "**" {
		return true
	}

	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok && !strings.Contains(prefix, "**") {
		return path == prefix || strings.HasPrefix(path, prefix+"/") || matchGlob(path, prefix+"/*")
	}

	if suffix, ok := strings.CutPrefix(pattern, "**/"); ok {
		parts := strings.Split(path, "/")
		for i := range parts {
			if matchGlob(strings.Join(parts[i:], "/"), suffix) {
				return true
			}
		}
		return false
	}

	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	if strings.Contains(pattern, "/") {
		return false
	}

	matched, err := filepath.Match(pattern, filepath.Base(path))
	return err == nil && matched
}
