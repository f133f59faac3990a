package combine

import (
	"io/fs"
	"log"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledPattern{pattern: pattern, glob: g})
	}
	return compiled, nil
}

// discovery finds message files below a root directory.
type discovery struct {
	rootDir string
	suffix  string
	exclude string // combined output path, never returned
	ignore  []compiledPattern
}

// Discover walks root in lexical order and returns every file whose base
// name ends with suffix, skipping paths that match an ignore glob.
func Discover(root, suffix string, ignore []string) ([]string, error) {
	patterns, err := compilePatterns(ignore)
	if err != nil {
		return nil, err
	}
	d := &discovery{rootDir: root, suffix: suffix, ignore: patterns}
	return d.files()
}

func (d *discovery) files() ([]string, error) {
	var files []string

	err := filepath.WalkDir(d.rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == d.rootDir {
				return err
			}
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}

		relPath, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if entry.IsDir() {
			if relPath != "." && d.shouldIgnore(relPath+"/**") {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(entry.Name(), d.suffix) {
			return nil
		}
		if d.exclude != "" && path == d.exclude {
			return nil
		}
		if d.shouldIgnore(relPath) {
			return nil
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// shouldIgnore checks if a path matches any ignore pattern.
func (d *discovery) shouldIgnore(relPath string) bool {
	for _, cp := range d.ignore {
		if cp.glob.Match(relPath) {
			return true
		}
	}
	return false
}
