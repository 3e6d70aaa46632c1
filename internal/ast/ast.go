// Package ast defines the closed set of markup and expression nodes that the
// parser lowers JSX syntax trees into.
//
// Both node categories are sealed: every variant implements an unexported
// accept method, and consumers dispatch through MarkupVisitor and ExprVisitor.
// Adding a variant adds a visitor method, so every visitor that misses the new
// case stops compiling instead of falling through silently.
package ast

import "strings"

// Ref is a free identifier reference inside an expression's source text.
// Start and End are byte offsets into Source.Text.
type Ref struct {
	Name  string
	Start int
	End   int
}

// Source is the printed text of an expression together with the identifier
// references that prop substitution may rewrite. Property names, object keys
// and names bound by nested functions are not refs.
type Source struct {
	Text string
	Refs []Ref
}

// Substitute rewrites the refs for which replace returns ok and leaves the
// rest of the text untouched.
func (s Source) Substitute(replace func(name string) (string, bool)) string {
	if len(s.Refs) == 0 {
		return s.Text
	}

	var sb strings.Builder
	last := 0
	for _, r := range s.Refs {
		if r.Start < last || r.End > len(s.Text) {
			continue
		}
		repl, ok := replace(r.Name)
		if !ok {
			continue
		}
		sb.WriteString(s.Text[last:r.Start])
		sb.WriteString(repl)
		last = r.End
	}
	sb.WriteString(s.Text[last:])
	return sb.String()
}

// Expr is an embedded expression.
type Expr interface {
	Src() Source
	acceptExpr(exprDispatch)
}

// Markup is a node of embedded markup.
type Markup interface {
	acceptMarkup(markupDispatch)
}

// Ident is a bare identifier.
type Ident struct {
	Source Source
	Name   string
}

// Member is a property access chain link: Object.Property, Object?.Property
// or Object[Property] when Computed.
type Member struct {
	Source   Source
	Object   Expr
	Property string
	Optional bool
	Computed bool
}

// Root returns the identifier at the base of a chain of member accesses.
func (m *Member) Root() (*Ident, bool) {
	var e Expr = m
	for {
		switch n := e.(type) {
		case *Member:
			e = n.Object
		case *Ident:
			return n, true
		default:
			return nil, false
		}
	}
}

// Conditional is a ternary: Test ? Then : Else.
type Conditional struct {
	Source Source
	Test   Expr
	Then   Expr
	Else   Expr
}

// Logical is a short-circuit binary expression (&&, || or ??).
type Logical struct {
	Source Source
	Op     string
	Left   Expr
	Right  Expr
}

// Call is a call expression.
type Call struct {
	Source Source
	Callee Expr
	Args   []Expr
}

// Method returns the called method name when the callee is a member access.
func (c *Call) Method() (recv Expr, name string, ok bool) {
	m, isMember := c.Callee.(*Member)
	if !isMember || m.Computed {
		return nil, "", false
	}
	return m.Object, m.Property, true
}

// Param is a function parameter. Pattern is set for destructuring parameters,
// whose Name is then the printed pattern.
type Param struct {
	Name    string
	Pattern bool
}

// Func is an inline function. Body is nil when the function body is a block
// other than a single return statement.
type Func struct {
	Source Source
	Params []Param
	Body   Expr
}

// MarkupExpr is markup used as an expression value.
type MarkupExpr struct {
	Source Source
	Node   Markup
}

// Other is any expression the rewriter treats as opaque text. Kind is the
// syntax node type, e.g. "string", "binary_expression".
type Other struct {
	Source Source
	Kind   string
}

func (e *Ident) Src() Source       { return e.Source }
func (e *Member) Src() Source      { return e.Source }
func (e *Conditional) Src() Source { return e.Source }
func (e *Logical) Src() Source     { return e.Source }
func (e *Call) Src() Source        { return e.Source }
func (e *Func) Src() Source        { return e.Source }
func (e *MarkupExpr) Src() Source  { return e.Source }
func (e *Other) Src() Source       { return e.Source }

// IsLiteral reports whether an opaque expression is a literal of one of kinds.
func IsLiteral(e Expr, kinds ...string) bool {
	o, ok := e.(*Other)
	if !ok {
		return false
	}
	for _, k := range kinds {
		if o.Kind == k {
			return true
		}
	}
	return false
}

// Element is a tag: <div ...>children</div> or <img ... />. Name is the tag
// as written, including member paths such as UI.Button.
type Element struct {
	Name        string
	Attrs       []Attr
	Children    []Markup
	SelfClosing bool
}

// Text is literal text between tags, kept verbatim.
type Text struct {
	Value string
}

// ExprContainer is a {expression} child. Expr is nil for empty containers
// and comment-only containers.
type ExprContainer struct {
	Expr Expr
}

// Fragment is <>children</>.
type Fragment struct {
	Children []Markup
}

// Unsupported is a child the lowering could not classify, such as a parse
// error node or a spread child.
type Unsupported struct {
	Kind string
	Text string
}

// Attr is an element attribute: *NamedAttr or *SpreadAttr.
type Attr interface {
	attrNode()
}

// NamedAttr is name or name=value. Value is nil for boolean attributes.
type NamedAttr struct {
	Name  string
	Value AttrValue
}

// SpreadAttr is {...expr}.
type SpreadAttr struct {
	Expr Expr
}

func (*NamedAttr) attrNode()  {}
func (*SpreadAttr) attrNode() {}

// AttrValue is *StringValue, *ExprValue or *UnsupportedValue.
type AttrValue interface {
	attrValue()
}

// StringValue is a quoted attribute value with the quotes removed.
type StringValue struct {
	Value string
}

// ExprValue is an {expression} attribute value.
type ExprValue struct {
	Expr Expr
}

// UnsupportedValue is an attribute value the rewriter cannot express, such
// as an element literal.
type UnsupportedValue struct {
	Kind string
}

func (*StringValue) attrValue()      {}
func (*ExprValue) attrValue()        {}
func (*UnsupportedValue) attrValue() {}
