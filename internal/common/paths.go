package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath cleans path and makes it absolute.
func ResolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("empty path")
	}

	cleaned := filepath.Clean(path)
	if !filepath.IsAbs(cleaned) {
		abs, err := filepath.Abs(cleaned)
		if err != nil {
			return "", fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		cleaned = abs
	}

	return cleaned, nil
}

// ValidatePath ensures a path is within an allowed directory
func ValidatePath(path, baseDir string) (string, error) {
	cleanedPath, err := ResolvePath(path)
	if err != nil {
		return "", err
	}

	cleanedBase, err := ResolvePath(baseDir)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(cleanedBase, cleanedPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path is outside allowed directory")
	}

	return cleanedPath, nil
}

// JoinPath safely joins path components, refusing results outside base.
func JoinPath(base string, elements ...string) (string, error) {
	cleanedBase, err := ResolvePath(base)
	if err != nil {
		return "", err
	}

	joined := filepath.Join(append([]string{cleanedBase}, elements...)...)
	return ValidatePath(joined, cleanedBase)
}

// OutputFile creates dir when needed and returns the path of name inside it.
func OutputFile(dir, name string) (string, error) {
	if err := os.MkdirAll(dir, DirPermissionNormal); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return JoinPath(dir, name)
}
