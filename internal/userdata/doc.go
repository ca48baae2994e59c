// Package userdata resolves the per-user directory layout under
// ~/.python-project-generator/ (the git template cache, the user catalog
// directory and the config file) and can create or check that layout.
package userdata
