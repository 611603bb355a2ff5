package normalize

import "strings"

// sanitizeQualifiedName replaces the universally-invalid characters a
// qualified name from the Schema IR may contain before any target-specific
// casing decision is made (spec.md §4.1 phase 3: "only universally-invalid
// characters are replaced here"). "::" becomes "."; anything outside
// [A-Za-z0-9_.] becomes "_".
func sanitizeQualifiedName(name string) string {
	name = strings.ReplaceAll(name, "::", ".")
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
