// internal/source/loader.go
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"debatecore/internal/lifecycle"
)

// DefaultMaxSize is the largest file Load accepts when none is configured
const DefaultMaxSize = 50 << 20

var (
	ErrIsDirectory   = errors.New("path is a directory")
	ErrTooLarge      = errors.New("file too large")
	ErrNotAllowed    = errors.New("file type not accepted")
	ErrSensitivePath = errors.New("access to sensitive path denied")
)

// Loader reads local documents for upload
type Loader struct {
	MaxSize    int64
	Extensions []string // lowercase with leading dot; empty accepts anything
}

// Load resolves and validates path and reads it into an Upload
func (l Loader) Load(path string) (lifecycle.Upload, error) {
	absPath, err := Resolve(path)
	if err != nil {
		return lifecycle.Upload{}, err
	}

	if err := ValidatePath(absPath); err != nil {
		return lifecycle.Upload{}, err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return lifecycle.Upload{}, fmt.Errorf("failed to stat file: %w", err)
	}

	if info.IsDir() {
		return lifecycle.Upload{}, fmt.Errorf("%s: %w", absPath, ErrIsDirectory)
	}

	if !l.Allowed(absPath) {
		return lifecycle.Upload{}, fmt.Errorf("%s: %w (accepted: %s)",
			filepath.Base(absPath), ErrNotAllowed, strings.Join(l.Extensions, ", "))
	}

	maxSize := l.maxSize()
	if info.Size() > maxSize {
		return lifecycle.Upload{}, fmt.Errorf("%w (%d bytes, max %d)", ErrTooLarge, info.Size(), maxSize)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return lifecycle.Upload{}, fmt.Errorf("failed to read file: %w", err)
	}
	if data == nil {
		data = []byte{}
	}

	return lifecycle.Upload{Name: absPath, Data: data}, nil
}

// Allowed reports whether path has an accepted extension
func (l Loader) Allowed(path string) bool {
	if len(l.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range l.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// List returns the accepted files directly inside dir, sorted by name.
// Hidden files and subdirectories are skipped.
func (l Loader) List(dir string) ([]string, error) {
	absDir, err := Resolve(dir)
	if err != nil {
		return nil, err
	}
	if err := ValidatePath(absDir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !l.Allowed(name) {
			continue
		}
		files = append(files, filepath.Join(absDir, name))
	}
	sort.Strings(files)
	return files, nil
}

func (l Loader) maxSize() int64 {
	if l.MaxSize > 0 {
		return l.MaxSize
	}
	return DefaultMaxSize
}

// Resolve expands a leading ~ and makes path absolute
func Resolve(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", &lifecycle.ValidationError{Field: "file", Reason: "no file selected"}
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	return absPath, nil
}

// ValidatePath checks for security issues with the path
func ValidatePath(path string) error {
	// Resolve to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	// Block sensitive paths
	if isSensitivePath(absPath) {
		return ErrSensitivePath
	}

	// Check path exists
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s: %w", absPath, err)
	} else if err != nil {
		return fmt.Errorf("cannot access path: %w", err)
	}

	return nil
}

// isSensitivePath returns true for paths that should never be uploaded
func isSensitivePath(path string) bool {
	sensitive := []string{
		"/.ssh/",
		"/.gnupg/",
		"/.aws/",
		"/.config/gcloud",
		"/etc/shadow",
		"/etc/passwd",
		"/.netrc",
		"/.npmrc",
		"/.pypirc",
		"/credentials",
		"/secrets",
		"/.env",
		".pem",
		".key",
		"id_rsa",
		"id_ed25519",
		"id_ecdsa",
		"id_dsa",
	}

	lowerPath := strings.ToLower(path)
	for _, s := range sensitive {
		if strings.Contains(lowerPath, s) {
			return true
		}
	}

	return false
}
