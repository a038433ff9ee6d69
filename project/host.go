package project

import (
	"os"
	"path/filepath"
)

// OSHost is the file-system-backed ModuleHost used outside of tests.
type OSHost struct{}

func (OSHost) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Resolve interprets specifier relative to the directory of the importing
// file and canonicalizes the result so every file has one registry identity.
func (OSHost) Resolve(fromFile, specifier string) (string, error) {
	joined := specifier
	if !filepath.IsAbs(specifier) {
		joined = filepath.Join(filepath.Dir(fromFile), specifier)
	}
	return filepath.Abs(filepath.Clean(joined))
}

func joinPath(parts ...string) string {
	return filepath.Join(parts...)
}
