// Package common holds small helpers shared by the internal packages.
package common

import "strings"

// UnknownStr is printed by String methods for values outside their enum.
const UnknownStr = "unknown"

// Quote wraps name in single quotes, the way diagnostics and error messages name components.
func Quote(name string) string {
	return "'" + name + "'"
}

// JoinQuoted quotes and joins names with ", ".
func JoinQuoted(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = Quote(n)
	}

	return strings.Join(quoted, ", ")
}
