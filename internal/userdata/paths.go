package userdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tbrumbaugh5396/python-project-generator/internal/branding"
)

// Directory name constants under the home dir.
const (
	TemplatesDir = "templates"
	CatalogDirD  = "catalog.d"
)

// Permission constants.
const (
	DirPermNormal  os.FileMode = 0755
	FilePermNormal os.FileMode = 0644
	FilePermExec   os.FileMode = 0755
)

// GetHomeRoot returns ~/.python-project-generator (or the PYGEN_HOME override).
func GetHomeRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir()), nil
}

// GetTemplateCacheRoot returns the directory holding cloned git templates.
// It checks PYGEN_TEMPLATE_CACHE first, then falls back to <home>/templates.
func GetTemplateCacheRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("TEMPLATE_CACHE")); v != "" {
		return v, nil
	}
	root, err := GetHomeRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, TemplatesDir), nil
}

// GetUserCatalogDir returns the directory scanned for user template descriptors.
// It checks PYGEN_CATALOG_DIR first, then falls back to <home>/catalog.d.
func GetUserCatalogDir() (string, error) {
	if v := os.Getenv(branding.EnvVar("CATALOG_DIR")); v != "" {
		return v, nil
	}
	root, err := GetHomeRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, CatalogDirD), nil
}
