// Package templatecache keeps local clones of git-backed templates.
//
// Each template lives in <root>/<id>. The first Fetch clones it, later
// fetches pull. A marker file records when the clone was last refreshed.
package templatecache
