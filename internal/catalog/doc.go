// Package catalog holds the registry of template descriptors.
//
// Builtin descriptors are embedded from templates.yaml. Users may add or
// override entries by dropping catalog documents into the user catalog
// directory; see Load.
package catalog
