package match

import "strings"

// NormalizeIdent folds an identifier so that OrderID, order_id and order-id compare equal.
func NormalizeIdent(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		switch r {
		case '_', '-', ' ', '.':
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// SameIdent reports whether a and b normalize to the same identifier.
func SameIdent(a, b string) bool {
	return NormalizeIdent(a) == NormalizeIdent(b)
}
