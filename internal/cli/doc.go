// Package cli defines the Cobra command tree for the pygen CLI. Each file
// registers one top-level command with the root command. Commands build their
// dependencies (catalog, template cache, generator, logger) through the
// helpers in app.go and keep business logic in the internal packages.
package cli
