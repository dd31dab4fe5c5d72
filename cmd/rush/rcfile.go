package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/dekarrin/rush"
)

// rcFileNames are checked in order in each candidate directory; the first
// one found in a directory wins over the others in that same directory.
var rcFileNames = []string{".rushrc", ".rhrc"}

// loadStartupFile locates a start-up rc file (current directory takes
// precedence over home), strips blank lines and "//" comments, and
// evaluates each remaining line, in order, against root before any user
// expression runs. There is no statement separator in the grammar, so each
// line is its own complete expression rather than one parse over the whole
// file. It is not an error for no rc file to exist.
func loadStartupFile(root *rush.Context) error {
	path := findStartupFile()
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	for _, line := range stripRCComments(string(raw)) {
		ast, err := rush.Parse(line)
		if err != nil {
			return err
		}
		if _, err := rush.Eval(ast, root); err != nil {
			return err
		}
	}
	return nil
}

// findStartupFile returns the path of the rc file to load, or "" if none of
// the candidates exist. The current working directory is checked before
// the home directory, and within a directory .rushrc is checked before
// .rhrc.
func findStartupFile() string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}

	for _, dir := range dirs {
		for _, name := range rcFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
	}
	return ""
}

// stripRCComments splits src into lines, dropping blank lines and lines
// whose first non-whitespace characters are "//".
func stripRCComments(src string) []string {
	var kept []string
	scanner := bufio.NewScanner(strings.NewReader(src))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}
