package decl

import "strings"

// Role is the kind of scope a path element stands for.
type Role string

const (
	RoleModule    Role = "module"
	RoleClass     Role = "class"
	RoleInterface Role = "interface"
	RoleFunction  Role = "function"
)

// Scope is one element of a containing path.
type Scope struct {
	Name string
	Role Role
}

// Path is the stack of scopes enclosing the declaration being processed.
// The first element is always the module.
type Path struct {
	scopes []Scope
}

// NewPath starts a path at the module named by the full path namespace.
func NewPath(module string) *Path {
	return &Path{scopes: []Scope{{Name: module, Role: RoleModule}}}
}

// Push enters a nested scope.
func (p *Path) Push(name string, role Role) {
	p.scopes = append(p.scopes, Scope{Name: name, Role: role})
}

// Pop leaves the innermost scope. The module scope is never popped.
func (p *Path) Pop() {
	if len(p.scopes) > 1 {
		p.scopes = p.scopes[:len(p.scopes)-1]
	}
}

// Len returns the number of scopes, module included.
func (p *Path) Len() int {
	return len(p.scopes)
}

// Current returns the innermost scope.
func (p *Path) Current() Scope {
	return p.scopes[len(p.scopes)-1]
}

// Parent returns the scope enclosing the innermost one, or the zero Scope
// when the path only holds the module.
func (p *Path) Parent() Scope {
	if len(p.scopes) < 2 {
		return Scope{}
	}
	return p.scopes[len(p.scopes)-2]
}

// Dotted joins the scope names with '.'.
func (p *Path) Dotted() string {
	names := make([]string, 0, len(p.scopes))
	for _, s := range p.scopes {
		names = append(names, s.Name)
	}
	return strings.Join(names, ".")
}
