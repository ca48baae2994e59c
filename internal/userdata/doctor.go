package userdata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/tbrumbaugh5396/python-project-generator/internal/branding"
	"github.com/tbrumbaugh5396/python-project-generator/internal/platform"
)

// CheckHome validates the home directory layout and permissions, printing
// one line per item to w. When fix is true, it attempts to repair issues.
// It returns the number of problems left unfixed.
func CheckHome(fs afero.Fs, w io.Writer, fix bool) (int, error) {
	root, err := GetHomeRoot()
	if err != nil {
		return 0, err
	}

	fmt.Fprintln(w, "Home directory check:")

	if exists, _ := afero.DirExists(fs, root); !exists {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", root)
		if !fix {
			fmt.Fprintf(w, "         Run '%s init' to create\n", branding.CLIName())
			return 1, nil
		}
		fmt.Fprintln(w, "  [FIX ] Running init...")
		if err := InitHome(fs, w); err != nil {
			return 1, fmt.Errorf("auto-fix init: %w", err)
		}
		return 0, nil
	}
	fmt.Fprintf(w, "  [ OK ] %s exists\n", root)

	problems := 0
	cacheRoot, err := GetTemplateCacheRoot()
	if err != nil {
		return 0, err
	}
	if !checkDirExists(fs, w, cacheRoot, fix) {
		problems++
	}

	catalogDir, err := GetUserCatalogDir()
	if err != nil {
		return 0, err
	}
	if !checkDirExists(fs, w, catalogDir, fix) {
		problems++
	}

	if !checkFilePerm(fs, w, filepath.Join(root, ConfigFile), FilePermNormal, fix) {
		problems++
	}
	return problems, nil
}

// checkDirExists reports whether path is a usable directory after any fix.
func checkDirExists(fs afero.Fs, w io.Writer, path string, fix bool) bool {
	info, err := fs.Stat(path)
	if os.IsNotExist(err) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", path)
		if !fix {
			return false
		}
		if mkErr := fs.MkdirAll(path, DirPermNormal); mkErr != nil {
			fmt.Fprintf(w, "  [FAIL] Could not create %s: %v\n", path, mkErr)
			return false
		}
		fmt.Fprintf(w, "  [FIX ] Created %s\n", path)
		return true
	}
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return false
	}
	if !info.IsDir() {
		fmt.Fprintf(w, "  [WARN] %s exists but is not a directory\n", path)
		return false
	}
	fmt.Fprintf(w, "  [ OK ] %s exists\n", path)
	return true
}

// checkFilePerm accepts a missing file; the config file is optional.
func checkFilePerm(fs afero.Fs, w io.Writer, path string, expected os.FileMode, fix bool) bool {
	info, err := fs.Stat(path)
	if os.IsNotExist(err) {
		fmt.Fprintf(w, "  [ OK ] %s not present (defaults apply)\n", path)
		return true
	}
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return false
	}

	perm := info.Mode().Perm()
	if platform.HasPermissionBits() && perm != expected {
		fmt.Fprintf(w, "  [WARN] %s has permissions %o (expected %o)\n", path, perm, expected)
		if !fix {
			return false
		}
		if chErr := platform.Chmod(fs, path, expected); chErr != nil {
			fmt.Fprintf(w, "  [FAIL] Could not fix permissions on %s: %v\n", path, chErr)
			return false
		}
		fmt.Fprintf(w, "  [FIX ] Fixed permissions on %s to %o\n", path, expected)
		return true
	}
	fmt.Fprintf(w, "  [ OK ] %s (permissions %o)\n", path, perm)
	return true
}
