package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/v0rails/v0rails/internal/ast"
)

// Markup lowers a JSX element, self-closing element or fragment node.
// Any other node becomes ast.Unsupported.
func (f *ParsedFile) Markup(n *sitter.Node) ast.Markup {
	switch n.Type() {
	case "jsx_element":
		open := n.ChildByFieldName("open_tag")
		closeTag := n.ChildByFieldName("close_tag")
		start, end := n.StartByte(), n.EndByte()
		if open != nil {
			start = open.EndByte()
		}
		if closeTag != nil {
			end = f.contentStart(closeTag)
		}
		children := f.children(n, start, end)

		var name *sitter.Node
		if open != nil {
			name = open.ChildByFieldName("name")
		}
		if name == nil {
			return &ast.Fragment{Children: children}
		}
		return &ast.Element{
			Name:     f.Text(name),
			Attrs:    f.attrs(open, name),
			Children: children,
		}

	case "jsx_self_closing_element":
		name := n.ChildByFieldName("name")
		return &ast.Element{
			Name:        f.Text(name),
			Attrs:       f.attrs(n, name),
			SelfClosing: true,
		}

	case "jsx_fragment":
		// <> children </>: the content starts after the first '>' token and
		// ends at the last '<' token.
		start, end := n.StartByte(), n.EndByte()
		seenOpen := false
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c.IsNamed() {
				continue
			}
			switch c.Type() {
			case ">":
				if !seenOpen {
					start = c.EndByte()
					seenOpen = true
				}
			case "<":
				end = f.contentStart(c)
			}
		}
		return &ast.Fragment{Children: f.children(n, start, end)}
	}

	return &ast.Unsupported{Kind: n.Type(), Text: f.Text(n)}
}

// children lowers the content of an element between the byte offsets start
// and end. Text is taken from the raw gaps between non-text children so that
// whitespace and entities survive verbatim.
func (f *ParsedFile) children(n *sitter.Node, start, end uint32) []ast.Markup {
	var out []ast.Markup
	prev := start

	emitText := func(upTo uint32) {
		if upTo > prev {
			out = append(out, &ast.Text{Value: string(f.Source[prev:upTo])})
		}
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if !c.IsNamed() || c.StartByte() < start || c.EndByte() > end {
			continue
		}
		switch c.Type() {
		case "jsx_text", "html_character_reference", "comment":
			continue
		}

		emitText(f.contentStart(c))
		out = append(out, f.child(c))
		prev = c.EndByte()
	}
	emitText(end)

	return out
}

// contentStart is the offset of the first non-space byte of n. Node ranges
// inside JSX can include the whitespace that precedes them.
func (f *ParsedFile) contentStart(n *sitter.Node) uint32 {
	i := n.StartByte()
	for i < n.EndByte() && isSpace(f.Source[i]) {
		i++
	}
	return i
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func (f *ParsedFile) child(c *sitter.Node) ast.Markup {
	switch c.Type() {
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return f.Markup(c)
	case "jsx_expression":
		inner := NamedChildren(c)
		if len(inner) == 0 {
			return &ast.ExprContainer{}
		}
		if inner[0].Type() == "spread_element" {
			return &ast.Unsupported{Kind: "spread_element", Text: f.Text(c)}
		}
		return &ast.ExprContainer{Expr: f.Expr(inner[0])}
	}
	return &ast.Unsupported{Kind: c.Type(), Text: f.Text(c)}
}

func (f *ParsedFile) attrs(tag, name *sitter.Node) []ast.Attr {
	var out []ast.Attr
	for _, c := range NamedChildren(tag) {
		if sameNode(c, name) {
			continue
		}
		switch c.Type() {
		case "jsx_attribute":
			parts := NamedChildren(c)
			if len(parts) == 0 {
				continue
			}
			attr := &ast.NamedAttr{Name: f.Text(parts[0])}
			if len(parts) > 1 {
				attr.Value = f.attrValue(parts[1])
			}
			out = append(out, attr)
		case "jsx_expression":
			inner := NamedChildren(c)
			if len(inner) == 1 && inner[0].Type() == "spread_element" {
				if arg := NamedChildren(inner[0]); len(arg) > 0 {
					out = append(out, &ast.SpreadAttr{Expr: f.Expr(arg[0])})
				}
			}
		}
	}
	return out
}

func (f *ParsedFile) attrValue(v *sitter.Node) ast.AttrValue {
	switch v.Type() {
	case "string":
		return &ast.StringValue{Value: unquote(f.Text(v))}
	case "jsx_expression":
		inner := NamedChildren(v)
		if len(inner) == 0 {
			return &ast.UnsupportedValue{Kind: "empty_expression"}
		}
		return &ast.ExprValue{Expr: f.Expr(inner[0])}
	}
	return &ast.UnsupportedValue{Kind: v.Type()}
}

// Expr lowers an expression node. Parentheses are dropped; anything the
// rewriter has no dedicated case for becomes ast.Other.
func (f *ParsedFile) Expr(n *sitter.Node) ast.Expr {
	if n == nil {
		return nil
	}

	switch n.Type() {
	case "parenthesized_expression":
		if inner := NamedChildren(n); len(inner) == 1 {
			return f.Expr(inner[0])
		}

	case "identifier":
		return &ast.Ident{Source: f.source(n), Name: f.Text(n)}

	case "member_expression":
		return &ast.Member{
			Source:   f.source(n),
			Object:   f.Expr(n.ChildByFieldName("object")),
			Property: f.Text(n.ChildByFieldName("property")),
			Optional: n.ChildByFieldName("optional_chain") != nil,
		}

	case "subscript_expression":
		return &ast.Member{
			Source:   f.source(n),
			Object:   f.Expr(n.ChildByFieldName("object")),
			Property: f.Text(n.ChildByFieldName("index")),
			Optional: n.ChildByFieldName("optional_chain") != nil,
			Computed: true,
		}

	case "ternary_expression":
		return &ast.Conditional{
			Source: f.source(n),
			Test:   f.Expr(n.ChildByFieldName("condition")),
			Then:   f.Expr(n.ChildByFieldName("consequence")),
			Else:   f.Expr(n.ChildByFieldName("alternative")),
		}

	case "binary_expression":
		switch op := f.Text(n.ChildByFieldName("operator")); op {
		case "&&", "||", "??":
			return &ast.Logical{
				Source: f.source(n),
				Op:     op,
				Left:   f.Expr(n.ChildByFieldName("left")),
				Right:  f.Expr(n.ChildByFieldName("right")),
			}
		}

	case "call_expression":
		args := n.ChildByFieldName("arguments")
		if args == nil || args.Type() != "arguments" {
			break
		}
		call := &ast.Call{
			Source: f.source(n),
			Callee: f.Expr(n.ChildByFieldName("function")),
		}
		for _, a := range NamedChildren(args) {
			call.Args = append(call.Args, f.Expr(a))
		}
		return call

	case "arrow_function", "function_expression", "function":
		return f.fn(n)

	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return &ast.MarkupExpr{Source: f.source(n), Node: f.Markup(n)}
	}

	return &ast.Other{Source: f.source(n), Kind: n.Type()}
}

func (f *ParsedFile) fn(n *sitter.Node) *ast.Func {
	out := &ast.Func{Source: f.source(n), Params: []ast.Param{}}

	if p := n.ChildByFieldName("parameter"); p != nil {
		out.Params = append(out.Params, f.param(p))
	} else if ps := n.ChildByFieldName("parameters"); ps != nil {
		for _, p := range NamedChildren(ps) {
			out.Params = append(out.Params, f.param(p))
		}
	}

	body := n.ChildByFieldName("body")
	switch {
	case body == nil:
	case body.Type() == "statement_block":
		stmts := NamedChildren(body)
		if len(stmts) == 1 && stmts[0].Type() == "return_statement" {
			if ret := NamedChildren(stmts[0]); len(ret) > 0 {
				out.Body = f.Expr(ret[0])
			}
		}
	default:
		out.Body = f.Expr(body)
	}

	return out
}

func (f *ParsedFile) param(p *sitter.Node) ast.Param {
	p = unwrapParam(p)
	if p.Type() == "identifier" {
		return ast.Param{Name: f.Text(p)}
	}
	return ast.Param{Name: f.Text(p), Pattern: true}
}

// unwrapParam strips TypeScript parameter wrappers and default values.
func unwrapParam(p *sitter.Node) *sitter.Node {
	for {
		switch p.Type() {
		case "required_parameter", "optional_parameter":
			inner := p.ChildByFieldName("pattern")
			if inner == nil {
				return p
			}
			p = inner
		case "assignment_pattern":
			inner := p.ChildByFieldName("left")
			if inner == nil {
				return p
			}
			p = inner
		default:
			return p
		}
	}
}

func (f *ParsedFile) source(n *sitter.Node) ast.Source {
	return ast.Source{Text: f.Text(n), Refs: f.refs(n)}
}

// refs collects the free identifiers below n in document order, with
// offsets relative to the start of n. Names bound by nested function
// parameters and local declarations are excluded, as are JSX tag names.
func (f *ParsedFile) refs(n *sitter.Node) []ast.Ref {
	base := n.StartByte()
	var refs []ast.Ref

	var visit func(node *sitter.Node, bound map[string]bool)
	visit = func(node *sitter.Node, bound map[string]bool) {
		switch node.Type() {
		case "identifier":
			name := f.Text(node)
			if !bound[name] {
				refs = append(refs, ast.Ref{
					Name:  name,
					Start: int(node.StartByte() - base),
					End:   int(node.EndByte() - base),
				})
			}
			return

		case "arrow_function", "function_expression", "function":
			inner := make(map[string]bool, len(bound)+2)
			for k := range bound {
				inner[k] = true
			}
			for _, name := range f.paramNames(node) {
				inner[name] = true
			}
			if body := node.ChildByFieldName("body"); body != nil {
				visit(body, inner)
			}
			return

		case "statement_block":
			inner := make(map[string]bool, len(bound))
			for k := range bound {
				inner[k] = true
			}
			for _, stmt := range NamedChildren(node) {
				if stmt.Type() != "lexical_declaration" && stmt.Type() != "variable_declaration" {
					continue
				}
				for _, decl := range NamedChildren(stmt) {
					if decl.Type() == "variable_declarator" {
						f.bindingNames(decl.ChildByFieldName("name"), inner)
					}
				}
			}
			bound = inner

		case "variable_declarator":
			if value := node.ChildByFieldName("value"); value != nil {
				visit(value, bound)
			}
			return

		case "jsx_opening_element", "jsx_self_closing_element", "jsx_closing_element":
			name := node.ChildByFieldName("name")
			for _, c := range NamedChildren(node) {
				if !sameNode(c, name) {
					visit(c, bound)
				}
			}
			return
		}

		for _, c := range NamedChildren(node) {
			visit(c, bound)
		}
	}

	visit(n, nil)
	return refs
}

func (f *ParsedFile) paramNames(fn *sitter.Node) []string {
	names := map[string]bool{}
	if p := fn.ChildByFieldName("parameter"); p != nil {
		f.bindingNames(p, names)
	}
	if ps := fn.ChildByFieldName("parameters"); ps != nil {
		for _, p := range NamedChildren(ps) {
			f.bindingNames(p, names)
		}
	}
	out := make([]string, 0, len(names))
	for k := range names {
		out = append(out, k)
	}
	return out
}

// bindingNames adds every name a binding pattern introduces.
func (f *ParsedFile) bindingNames(p *sitter.Node, into map[string]bool) {
	if p == nil {
		return
	}
	p = unwrapParam(p)
	switch p.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		into[f.Text(p)] = true
	case "pair_pattern":
		f.bindingNames(p.ChildByFieldName("value"), into)
	case "object_assignment_pattern":
		f.bindingNames(p.ChildByFieldName("left"), into)
	default:
		for _, c := range NamedChildren(p) {
			f.bindingNames(c, into)
		}
	}
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return strings.Trim(s, `"'`)
}
