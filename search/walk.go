package search

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultPattern is used when no input is given.
const DefaultPattern = "*.pdf"

func WalkDir(dir string, extensions []string) ([]string, error) {
	var files []string

	// Search for PDF files in the directory
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip the directory itself
		if path == dir {
			return nil
		}

		// Skip hidden files and folders
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(strings.ToLower(path))
		if d.Type().IsRegular() && slices.Contains(extensions, ext) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return files, nil
}

// ResolveInputs expands each pattern into files. A pattern may be a glob, a
// directory (searched recursively for PDFs) or a file. Each pattern's matches
// are sorted and files named twice are kept once. A pattern that yields no
// file is an InputError.
func ResolveInputs(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}

	var files []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		found, err := resolve(pattern)
		if err != nil {
			return nil, &InputError{Pattern: pattern, Err: err}
		}
		if len(found) == 0 {
			return nil, &InputError{Pattern: pattern, Err: errors.New("no matching files")}
		}

		slices.Sort(found)
		for _, f := range found {
			key := filepath.Clean(f)
			if !seen[key] {
				seen[key] = true
				files = append(files, f)
			}
		}
	}
	return files, nil
}

func resolve(pattern string) ([]string, error) {
	paths := []string{pattern}
	if strings.ContainsAny(pattern, "*?[") {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		paths = matches
	}

	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if len(paths) == 1 && p == pattern {
				return nil, err
			}
			continue
		}

		if info.IsDir() {
			found, err := WalkDir(p, []string{".pdf"})
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}

		if info.Mode().IsRegular() {
			files = append(files, p)
		}
	}
	return files, nil
}
