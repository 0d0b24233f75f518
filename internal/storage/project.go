package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	todoerrors "github.com/abatilo/todo/internal/errors"
)

const (
	dataDir  = ".todo"
	dataFile = "todo.json"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// DefaultPath returns ~/.todo/todo.json, or with perProject the file
// ~/.todo/<sanitized-project-root>/todo.json for the git repository
// containing the working directory.
func DefaultPath(perProject bool) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if !perProject {
		return filepath.Join(home, dataDir, dataFile), nil
	}

	projectRoot, err := FindProjectRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dataDir, SanitizePath(projectRoot), dataFile), nil
}

// FindProjectRoot walks up from cwd looking for .git directory.
// Returns the directory containing .git, or error if not found.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		info, err := os.Stat(filepath.Join(dir, ".git"))
		if err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", todoerrors.NotInRepoError{}
		}
		dir = parent
	}
}

// SanitizePath converts an absolute path to a safe directory name.
// "/Users/abatilo/myproject" -> "Users-abatilo-myproject"
func SanitizePath(path string) string {
	result := strings.TrimPrefix(path, "/")
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
