// Package changes decides whether a commit touched the watched file.
package changes

import "slices"

// WasTriggerPathModified reports whether triggerPath appears verbatim in files.
// Paths are compared as given: no separator or case normalization is applied,
// so callers must use the form the source-control service reports.
func WasTriggerPathModified(files []string, triggerPath string) bool {
	return slices.Contains(files, triggerPath)
}
