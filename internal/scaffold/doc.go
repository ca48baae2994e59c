// Package scaffold turns a template descriptor and project metadata into a
// directory tree on disk.
//
// Generation first builds an in-memory Plan, either by rendering one of the
// embedded scaffold sets or by copying a cached git clone. The plan is then
// filtered through its feature rules and written in one pass.
package scaffold
