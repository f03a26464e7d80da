// Package project gives confined read access to the local clone of the
// repository under review. All paths are relative to the configured project
// root; anything resolving outside it is treated as absent.
package project

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
)

type Reader struct {
	base   string
	logger *slog.Logger
}

// NewReader validates that path exists and is a directory. Symlinks in the
// base path are resolved once here so later containment checks compare
// canonical paths.
func NewReader(path string, logger *slog.Logger) (*Reader, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project path %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("local project path does not exist or is not a directory: %s", abs)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	logger.Info("local project reader initialized", "path", abs)
	return &Reader{base: abs, logger: logger}, nil
}

func (r *Reader) Base() string { return r.base }

// resolve joins rel onto the base and rejects anything that escapes it.
// Diff paths always use forward slashes, so backslashes are normalized.
func (r *Reader) resolve(rel string) (string, bool) {
	rel = strings.ReplaceAll(rel, "\\", "/")
	joined := filepath.Join(r.base, filepath.FromSlash(rel))
	if resolved, err := filepath.EvalSymlinks(joined); err == nil {
		joined = resolved
	}

	relToBase, err := filepath.Rel(r.base, joined)
	if err != nil || relToBase == ".." || strings.HasPrefix(relToBase, ".."+string(os.PathSeparator)) {
		return "", false
	}
	return joined, true
}

// ReadFile returns the content of a file inside the project. Missing files,
// directories, and paths outside the project all report false.
func (r *Reader) ReadFile(rel string) (string, bool) {
	target, ok := r.resolve(rel)
	if !ok {
		r.logger.Warn("attempted to read file outside project path", "path", rel)
		return "", false
	}

	info, err := os.Stat(target)
	if err != nil || info.IsDir() {
		return "", false
	}
	data, err := os.ReadFile(target)
	if err != nil {
		r.logger.Warn("failed to read project file", "path", rel, "error", err)
		return "", false
	}
	return string(data), true
}

// DirExists reports whether rel names a directory inside the project.
func (r *Reader) DirExists(rel string) bool {
	target, ok := r.resolve(rel)
	if !ok {
		return false
	}
	info, err := os.Stat(target)
	return err == nil && info.IsDir()
}

// Glob returns project-relative paths (forward slashes, sorted) of files
// matching pattern. Matching is recursive: a pattern without a leading "**/"
// still matches at any depth, and "**" spans zero or more directories.
// The .git directory is never searched.
func (r *Reader) Glob(pattern string) []string {
	if !strings.HasPrefix(pattern, "**/") {
		pattern = "**/" + pattern
	}
	patSegs := strings.Split(pattern, "/")

	var matches []string
	err := filepath.WalkDir(r.base, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(r.base, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if matchSegments(patSegs, strings.Split(rel, "/")) {
			matches = append(matches, rel)
		}
		return nil
	})
	if err != nil {
		r.logger.Warn("error searching project files", "pattern", pattern, "error", err)
		return nil
	}

	sort.Strings(matches)
	return matches
}

// matchSegments matches path segments against pattern segments, where "**"
// consumes zero or more segments and the rest use path.Match syntax.
func matchSegments(pat, parts []string) bool {
	if len(pat) == 0 {
		return len(parts) == 0
	}
	if pat[0] == "**" {
		for i := 0; i <= len(parts); i++ {
			if matchSegments(pat[1:], parts[i:]) {
				return true
			}
		}
		return false
	}
	if len(parts) == 0 {
		return false
	}
	if ok, err := path.Match(pat[0], parts[0]); err != nil || !ok {
		return false
	}
	return matchSegments(pat[1:], parts[1:])
}

// HasTestLayout reports whether any of the indicator directories exists in
// the project.
func (r *Reader) HasTestLayout(indicators []string) bool {
	for _, indicator := range indicators {
		if r.DirExists(indicator) {
			r.logger.Debug("test directory indicator found", "indicator", indicator)
			return true
		}
	}
	return false
}

// ManifestMentionsTestFramework reports whether any dependency manifest
// matched by the globs mentions one of the markers. Matching is
// case-insensitive on the manifest content.
func (r *Reader) ManifestMentionsTestFramework(globs, markers []string) bool {
	for _, glob := range globs {
		for _, manifest := range r.Glob(glob) {
			content, ok := r.ReadFile(manifest)
			if !ok {
				continue
			}
			lowered := strings.ToLower(content)
			for _, marker := range markers {
				if strings.Contains(lowered, strings.ToLower(marker)) {
					r.logger.Debug("test dependency marker found", "marker", marker, "manifest", manifest)
					return true
				}
			}
		}
	}
	return false
}

// Metadata is the git identity of the local clone, when available.
type Metadata struct {
	Branch string
	Commit string
}

// GitMetadata reports the checked-out branch and commit of the project.
// Projects that are not git repositories yield zero metadata; reports then
// simply omit those fields.
func (r *Reader) GitMetadata() Metadata {
	repo, err := git.PlainOpen(r.base)
	if err != nil {
		r.logger.Debug("project is not a git repository", "path", r.base)
		return Metadata{}
	}
	head, err := repo.Head()
	if err != nil {
		r.logger.Debug("failed to resolve git HEAD", "error", err)
		return Metadata{}
	}
	return Metadata{
		Branch: head.Name().Short(),
		Commit: head.Hash().String(),
	}
}
