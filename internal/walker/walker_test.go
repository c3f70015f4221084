package walker

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pydoxy/internal/config"
	"pydoxy/internal/parser"
	"pydoxy/internal/rewrite"
	"pydoxy/pkg/decl"
)

func options() *config.Options {
	opts := config.Default("mod.py")
	opts.AutoBrief = true
	return opts
}

func walk(opts *config.Options, lines []string, root *decl.Node) (*rewrite.Buffer, *Walker) {
	buf := rewrite.NewBuffer(lines)
	w := New(buf, opts, parser.Interactive{}, zerolog.Nop())
	w.Walk(root)
	return buf, w
}

func module(children ...*decl.Node) *decl.Node {
	return &decl.Node{Kind: decl.KindModule, Children: children}
}

func TestWalkFunctionDocstring(t *testing.T) {
	lines := []string{
		"def add(a, b):",
		`    """Add two numbers.`,
		"",
		"    Args:",
		"        a: first",
		"        b: second",
		"",
		"    Returns:",
		"        The sum.",
		`    """`,
		"    return a + b",
	}
	fn := &decl.Node{Kind: decl.KindFunction, Name: "add", Line: 1, HasDocstring: true}

	buf, w := walk(options(), lines, module(fn))

	want := []string{
		"## @brief Add two numbers.",
		"#",
		"#",
		"# @param\t\ta\tfirst",
		"# @param\t\tb\tsecond",
		"#",
		"# @return",
		"#        The sum.",
		"#",
		"def add(a, b):",
		"    return a + b",
	}
	assert.Equal(t, want, buf.Lines())
	assert.Equal(t, len(lines), buf.Len())

	require.Len(t, w.Entries(), 1)
	entry := w.Entries()[0]
	assert.Equal(t, "mod.add", entry.Path)
	assert.Equal(t, decl.KindFunction, entry.Kind)
	assert.Equal(t, 1, entry.Line)
	assert.Equal(t, want[:9], entry.Block)
}

func TestWalkModuleDocstringStaysBelowLeadingLines(t *testing.T) {
	opts := options()
	opts.TopLevelNamespace = "pkg"
	opts.FullPathNamespace = "pkg.tools"
	lines := []string{"#!/usr/bin/env python", `"""Tools for shapes."""`, "import os"}
	root := module()
	root.HasDocstring = true

	buf, w := walk(opts, lines, root)

	assert.Equal(t, []string{
		"#!/usr/bin/env python",
		"## @brief Tools for shapes.",
		"# @namespace pkg.tools",
		"import os",
	}, buf.Lines())
	require.Len(t, w.Entries(), 1)
	assert.Equal(t, "pkg.tools", w.Entries()[0].Path)
	assert.Equal(t, 0, w.Entries()[0].Line)
}

func TestWalkClassNamespaceAndMembers(t *testing.T) {
	opts := options()
	opts.TopLevelNamespace = "pkg"
	opts.FullPathNamespace = "pkg.shapes"
	lines := []string{
		"class Shape(object):",
		`    """A shape."""`,
		"    def _area(self):",
		`        """Compute the area."""`,
		"        return 0",
	}
	area := &decl.Node{Kind: decl.KindFunction, Name: "_area", Line: 3, HasDocstring: true}
	shape := &decl.Node{Kind: decl.KindClass, Name: "Shape", Line: 1, HasDocstring: true, Children: []*decl.Node{area}}

	buf, w := walk(opts, lines, module(shape))

	assert.Equal(t, []string{
		"## @brief A shape.",
		"# @namespace pkg.shapes.Shape",
		"class Shape():",
		"    ## @brief Compute the area.",
		"    # @namespace pkg.shapes.Shape._area",
		"    # @protected",
		"    def _area(self):",
		"        return 0",
	}, buf.Lines())
	assert.Equal(t, 1, w.Depth())
}

func TestWalkObjectRespect(t *testing.T) {
	opts := options()
	opts.ObjectRespect = true
	lines := []string{"class Shape(object):", "    pass"}

	buf, _ := walk(opts, lines, module(&decl.Node{Kind: decl.KindClass, Name: "Shape", Line: 1}))

	assert.Equal(t, lines, buf.Lines())
}

func TestWalkInterface(t *testing.T) {
	lines := []string{
		"class IShape(Interface):",
		`    """Shape contract."""`,
		`    area = Attribute("The area")`,
		"    def grow(factor):",
		`        """Grow the shape."""`,
	}
	attr := &decl.Node{Kind: decl.KindAssignment, Name: "area", Target: "area", Line: 3}
	grow := &decl.Node{Kind: decl.KindFunction, Name: "grow", Line: 4, HasDocstring: true, BodyOnlyDocstring: true}
	iface := &decl.Node{Kind: decl.KindClass, Name: "IShape", Line: 1, HasDocstring: true, Children: []*decl.Node{attr, grow}}

	buf, _ := walk(options(), lines, module(iface))

	assert.Equal(t, []string{
		"## @brief Shape contract.",
		"#",
		"# @interface IShape",
		"class IShape(Interface):",
		"    ## @property area",
		"    # The area",
		"    # @hideinitializer",
		`    area = Attribute("The area")`,
		"    ## @brief Grow the shape.",
		"    def grow(factor):",
		"",
		"        pass",
	}, buf.Lines())
}

func TestWalkPropertiesAndDecorators(t *testing.T) {
	opts := options()
	opts.KeepDecorators = true
	lines := []string{
		"class Box:",
		"    @property",
		"    def size(self):",
		`        """Size of the box."""`,
		"        return 1",
		"    @size.setter",
		"    def size(self, v):",
		"        self._v = v",
	}
	getter := &decl.Node{
		Kind: decl.KindFunction, Name: "size", Line: 3, HasDocstring: true,
		Decorators: []decl.Decorator{{Expr: "property", Position: decl.Position{Start: 2, End: 2}}},
	}
	setter := &decl.Node{
		Kind: decl.KindFunction, Name: "size", Line: 7,
		Decorators: []decl.Decorator{{Expr: "size.setter", Position: decl.Position{Start: 6, End: 6}}},
		Children:   []*decl.Node{{Kind: decl.KindAssignment, Line: 8}},
	}
	box := &decl.Node{Kind: decl.KindClass, Name: "Box", Line: 1, Children: []*decl.Node{getter, setter}}

	buf, _ := walk(opts, lines, module(box))

	assert.Equal(t, []string{
		"class Box:",
		"    ## @brief Size of the box.",
		"    @property",
		"    size = property",
		"    ## \\private",
		"    def size(self):",
		"        return 1",
		"    @size.setter",
		"    ## \\private",
		"    def size(self, v):",
		"        self._v = v",
	}, buf.Lines())
}

func TestWalkClassAttributesMoveBelowDeclaration(t *testing.T) {
	lines := []string{
		"class Widget:",
		`    """A widget.`,
		"",
		"    Attributes:",
		"        size: the size",
		`    """`,
		"    size = 1",
	}
	widget := &decl.Node{
		Kind: decl.KindClass, Name: "Widget", Line: 1, HasDocstring: true,
		Children: []*decl.Node{{Kind: decl.KindAssignment, Name: "size", Target: "size", Line: 7}},
	}

	buf, _ := walk(options(), lines, module(widget))

	assert.Equal(t, []string{
		"## @brief A widget.",
		"#",
		"#",
		"#",
		"class Widget:",
		"",
		"    ## @property\t\tsize",
		"    # the size",
		"    size = 1",
	}, buf.Lines())
	assert.Equal(t, len(lines), buf.Len())
}

func TestWalkInterfaceKeepsAttributesInDocstring(t *testing.T) {
	lines := []string{
		"class IWidget(Interface):",
		`    """A widget.`,
		"",
		"    Attributes:",
		"        size: the size",
		`    """`,
		`    size = Attribute("The size")`,
	}
	iface := &decl.Node{
		Kind: decl.KindClass, Name: "IWidget", Line: 1, HasDocstring: true,
		Children: []*decl.Node{{Kind: decl.KindAssignment, Name: "size", Target: "size", Line: 7}},
	}

	buf, _ := walk(options(), lines, module(iface))

	assert.Equal(t, []string{
		"## @brief A widget.",
		"#",
		"#",
		"## @property\t\tsize",
		"# the size",
		"#",
		"#",
		"# @interface IWidget",
		"class IWidget(Interface):",
		"    ## @property size",
		"    # The size",
		"    # @hideinitializer",
		`    size = Attribute("The size")`,
	}, buf.Lines())
	assert.Equal(t, len(lines), buf.Len())
}

func TestWalkImplementsAndPrivateVariables(t *testing.T) {
	lines := []string{"implements(IFoo)", "__secret = 1", "_hidden = 2", "__dunder__ = 3"}
	root := module(
		&decl.Node{Kind: decl.KindCall, Name: "implements", Line: 1},
		&decl.Node{Kind: decl.KindAssignment, Name: "__secret", Target: "__secret", Line: 2},
		&decl.Node{Kind: decl.KindAssignment, Name: "_hidden", Target: "_hidden", Line: 3},
		&decl.Node{Kind: decl.KindAssignment, Name: "__dunder__", Target: "__dunder__", Line: 4},
	)

	buf, w := walk(options(), lines, root)

	assert.Equal(t, []string{
		"## @implements IFoo",
		"implements(IFoo)",
		"## @var __secret",
		"# @hideinitializer",
		"# @private",
		"__secret = 1",
		"## @var _hidden",
		"# @hideinitializer",
		"# @protected",
		"_hidden = 2",
		"__dunder__ = 3",
	}, buf.Lines())
	assert.Empty(t, w.Entries())
}

func TestWalkPathSymmetry(t *testing.T) {
	inner := &decl.Node{Kind: decl.KindFunction, Name: "inner", Line: 3}
	method := &decl.Node{Kind: decl.KindFunction, Name: "method", Line: 2, Children: []*decl.Node{inner}}
	outer := &decl.Node{Kind: decl.KindClass, Name: "Outer", Line: 1, Children: []*decl.Node{method}}
	helper := &decl.Node{Kind: decl.KindFunction, Name: "helper", Line: 5}
	other := &decl.Node{Kind: decl.KindClass, Name: "Other", Line: 7}
	lines := []string{
		"class Outer:",
		"    def method(self):",
		"        def inner():",
		"            pass",
		"def helper():",
		"    pass",
		"class Other:",
		"    pass",
	}

	w := New(rewrite.NewBuffer(lines), options(), parser.Interactive{}, zerolog.Nop())
	baseline := w.Depth()
	for _, sibling := range []*decl.Node{outer, helper, other, {Kind: decl.KindOther}} {
		w.Walk(sibling)
		if got := w.Depth(); got != baseline {
			t.Errorf("Depth() after %q got = %v, want %v", sibling.Name, got, baseline)
		}
	}
}

func TestWalkDebugTrace(t *testing.T) {
	var out bytes.Buffer
	lines := []string{"class A:", "    def f(self):", "        pass"}
	f := &decl.Node{Kind: decl.KindFunction, Name: "f", Line: 2}
	root := module(&decl.Node{Kind: decl.KindClass, Name: "A", Line: 1, Children: []*decl.Node{f}})

	w := New(rewrite.NewBuffer(lines), options(), parser.Interactive{}, zerolog.New(&out))
	w.Walk(root)

	for _, msg := range []string{"# Module", "# Class", "# Function"} {
		assert.Contains(t, out.String(), msg)
	}
}
