// Package discover finds PHP source files to check.
package discover

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/phpdoccheck/internal/lang"
)

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path     string // Relative to the base directory
	Language string
}

var skipDirs = map[string]struct{}{
	"vendor":       {},
	"node_modules": {},
	".git":         {},
	".hg":          {},
	".svn":         {},
	".idea":        {},
}

// Files discovers checkable source files under root. exclude holds
// gitignore-style patterns relative to root; a plain relative path excludes
// that file or directory.
func Files(root string, exclude []string) ([]FileEntry, error) {
	excl := compileExclude(exclude)
	gitFiles := gitLsFiles(root)
	var gi *ignore.GitIgnore
	if gitFiles == nil {
		gi = loadGitignore(root)
	}

	var results []FileEntry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}

		name := d.Name()

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if excl != nil && excl.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		// Skip symlinks
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		if gitFiles != nil {
			if _, ok := gitFiles[rel]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if excl != nil && excl.MatchesPath(rel) {
			return nil
		}

		langName := lang.ForExtension(filepath.Ext(name))
		if langName == "" {
			return nil
		}

		results = append(results, FileEntry{Path: rel, Language: langName})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

// Explicit validates an explicit list of files relative to root, dropping
// excluded entries and files of unsupported languages. Order is preserved.
func Explicit(root string, files, exclude []string) ([]FileEntry, error) {
	excl := compileExclude(exclude)

	var results []FileEntry
	for _, f := range files {
		f = filepath.ToSlash(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if excl != nil && excl.MatchesPath(f) {
			continue
		}
		info, err := os.Stat(filepath.Join(root, f))
		if err != nil {
			return nil, fmt.Errorf("file %s: %w", f, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		langName := lang.ForExtension(filepath.Ext(f))
		if langName == "" {
			continue
		}
		results = append(results, FileEntry{Path: f, Language: langName})
	}
	return results, nil
}

func compileExclude(patterns []string) *ignore.GitIgnore {
	var lines []string
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			lines = append(lines, filepath.ToSlash(p))
		}
	}
	if len(lines) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(lines...)
}

func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[line] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
