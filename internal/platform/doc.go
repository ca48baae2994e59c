// Package platform smooths over operating system differences in file
// permission handling. Windows has no Unix permission bits, so mode changes
// are skipped there.
package platform
