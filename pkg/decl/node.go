package decl

// Kind identifies which structural handler a Node is dispatched to.
type Kind int

const (
	KindOther Kind = iota
	KindModule
	KindClass
	KindFunction
	KindAssignment
	KindCall
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindClass:
		return "class"
	case KindFunction:
		return "function"
	case KindAssignment:
		return "assignment"
	case KindCall:
		return "call"
	default:
		return "other"
	}
}

// Position represents a range of 1-based source lines, both ends inclusive.
type Position struct {
	Start int
	End   int
}

// Decorator is one decorator line of a class or function.
type Decorator struct {
	Expr     string // Expression text without the leading '@'
	Position Position
}

// Node is a declaration in the parsed Python module tree.
type Node struct {
	Kind Kind
	Name string // Class or function name, call target, or assignment target
	Line int    // 1-based line of the declaration keyword; 0 for the module

	Async             bool // True for "async def"
	HasDocstring      bool // True if the body opens with a triple-quoted docstring
	BodyOnlyDocstring bool // True if the docstring is the only statement of the body

	// Target is the first assignment target when it is a plain name.
	Target string

	Decorators []Decorator
	Children   []*Node
}

// Walk calls fn for n and every descendant in depth-first order.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
