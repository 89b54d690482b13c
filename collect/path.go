package collect

import "strings"

// IsSafePath implements the safe path predicate of spec.md §4.3: non-empty,
// not absolute, no empty segments, and no "." or ".." segments.
func IsSafePath(p string) bool {
	if p == "" {
		return false
	}
	if strings.HasPrefix(p, "/") {
		return false
	}
	segments := strings.Split(p, "/")
	for _, seg := range segments {
		switch seg {
		case "", ".", "..":
			return false
		}
	}
	return true
}
