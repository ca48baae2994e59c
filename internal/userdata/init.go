package userdata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/tbrumbaugh5396/python-project-generator/internal/platform"
)

// ConfigFile is the config file name under the home dir.
const ConfigFile = "config.yaml"

// CatalogReadme is written into catalog.d to document the descriptor format.
const CatalogReadme = "README.md"

const defaultConfigContent = `# author: Your Name
# email: your.email@example.com
# url: https://github.com/yourusername
license: MIT
template: minimal-python
log_level: info
`

const catalogReadmeContent = `# User templates

Every *.yaml or *.yml file in this directory is merged into the template
catalog. A descriptor with an existing id replaces the builtin entry.

    templates:
      - id: company-skeleton
        name: Company Skeleton
        description: Our internal project layout
        source: https://git.example.com/templates/skeleton.git
        kind: git
        features: [cli, tests, readme]

Files that fail validation are skipped with a warning.
`

// InitHome creates the home directory layout with its default files and
// prints progress to w. Existing items are left alone.
func InitHome(fs afero.Fs, w io.Writer) error {
	root, err := GetHomeRoot()
	if err != nil {
		return err
	}
	if err := ensureDir(fs, w, root, DirPermNormal); err != nil {
		return err
	}

	cacheRoot, err := GetTemplateCacheRoot()
	if err != nil {
		return err
	}
	if err := ensureDir(fs, w, cacheRoot, DirPermNormal); err != nil {
		return err
	}

	catalogDir, err := GetUserCatalogDir()
	if err != nil {
		return err
	}
	if err := ensureDir(fs, w, catalogDir, DirPermNormal); err != nil {
		return err
	}
	if err := ensureFile(fs, w, filepath.Join(catalogDir, CatalogReadme), catalogReadmeContent, FilePermNormal); err != nil {
		return err
	}

	return ensureFile(fs, w, filepath.Join(root, ConfigFile), defaultConfigContent, FilePermNormal)
}

// ensureDir creates a directory if it doesn't exist.
func ensureDir(fs afero.Fs, w io.Writer, path string, perm os.FileMode) error {
	if info, err := fs.Stat(path); err == nil {
		if info.IsDir() {
			fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", path)
	}

	if err := fs.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	// MkdirAll may not apply exact perms if parent dirs needed creation.
	if err := platform.Chmod(fs, path, perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}

// ensureFile creates a file with content if it doesn't exist.
func ensureFile(fs afero.Fs, w io.Writer, path, content string, perm os.FileMode) error {
	if _, err := fs.Stat(path); err == nil {
		fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
		return nil
	}

	if err := afero.WriteFile(fs, path, []byte(content), perm); err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}
