package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/sirupsen/logrus"

	"github.com/ludo-technologies/jmetrics/internal/constants"
	"github.com/ludo-technologies/jmetrics/internal/facts"
)

// FileHelper collects the inputs of a run: Java sources and fact files
type FileHelper struct {
	respectGitignore bool
}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// WithGitignore makes directory walks skip paths listed in the root's .gitignore
func (h *FileHelper) WithGitignore(respect bool) *FileHelper {
	h.respectGitignore = respect
	return h
}

// CollectSourceFiles collects Java sources and fact files from paths. Files
// given explicitly are kept when they are inputs at all; files found in
// directories must match an include pattern. Patterns are doublestar globs
// matched against the slash-separated path relative to the walked directory.
func (h *FileHelper) CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if h.IsSourceFile(path) && !matchesAny(excludePatterns, filepath.ToSlash(path)) {
				add(path)
			}
			continue
		}

		found, err := h.walkDirectory(path, recursive, includePatterns, excludePatterns)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}

	sort.Strings(files)
	return files, nil
}

func (h *FileHelper) walkDirectory(root string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	gitignore := h.loadGitignore(root)

	var files []string
	err := filepath.WalkDir(root, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if filePath == root {
			return nil
		}

		rel, err := filepath.Rel(root, filePath)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if !recursive || isExcludedDir(rel, excludePatterns) || (gitignore != nil && gitignore.MatchesPath(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}

		if gitignore != nil && gitignore.MatchesPath(rel) {
			return nil
		}
		if matchesAny(excludePatterns, rel) || !matchesAny(includePatterns, rel) {
			return nil
		}
		if h.IsSourceFile(filePath) {
			files = append(files, filePath)
		}
		return nil
	})
	return files, err
}

// loadGitignore compiles the .gitignore at the root of a walk, if any
func (h *FileHelper) loadGitignore(root string) *ignore.GitIgnore {
	if !h.respectGitignore {
		return nil
	}
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gitignore, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		logrus.WithField("path", path).WithError(err).Warn("cannot read .gitignore, ignoring it")
		return nil
	}
	return gitignore
}

// isExcludedDir reports whether a directory matches an exclude pattern by
// relative path or by name. "node_modules/**" style patterns exclude the
// directory itself.
func isExcludedDir(rel string, excludePatterns []string) bool {
	name := rel[strings.LastIndex(rel, "/")+1:]
	for _, pattern := range excludePatterns {
		if pattern == name || pattern == rel {
			return true
		}
		trimmed := strings.TrimSuffix(pattern, "/**")
		if matched, _ := doublestar.Match(trimmed, rel); matched {
			return true
		}
		if matched, _ := doublestar.Match(trimmed, name); matched && !strings.Contains(trimmed, "/") {
			return true
		}
	}
	return false
}

// matchesAny reports whether path matches one of the patterns. Invalid
// patterns never match.
func matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			logrus.WithField("pattern", pattern).Debug("invalid glob pattern")
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// IsSourceFile checks whether a path is a Java source or a fact file
func (h *FileHelper) IsSourceFile(path string) bool {
	return h.IsJavaFile(path) || facts.IsFactFile(path)
}

// IsJavaFile checks whether a path is a Java source
func (h *FileHelper) IsJavaFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), constants.JavaSourceExtension)
}

// FileExists checks if a file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ReadFile reads file content
func (h *FileHelper) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
