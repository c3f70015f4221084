package decl

import "strings"

// Visibility is the access level implied by a Python member name.
type Visibility int

const (
	VisibilityNone Visibility = iota
	VisibilityProtected
	VisibilityPrivate
)

// String returns the Doxygen tag name for the visibility, or "" for public members.
func (v Visibility) String() string {
	switch v {
	case VisibilityPrivate:
		return "private"
	case VisibilityProtected:
		return "protected"
	default:
		return ""
	}
}

// Classify maps a member name to its visibility. Names ending in "__" are
// always public; otherwise a leading "__" is private and a leading "_" is
// protected.
func Classify(name string) Visibility {
	switch {
	case strings.HasSuffix(name, "__"):
		return VisibilityNone
	case strings.HasPrefix(name, "__"):
		return VisibilityPrivate
	case strings.HasPrefix(name, "_"):
		return VisibilityProtected
	default:
		return VisibilityNone
	}
}
