// Package markup renders a lowered JSX tree as an HTML string with embedded
// ERB directives.
package markup

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/v0rails/v0rails/internal/ast"
	"github.com/v0rails/v0rails/pkg/model"
)

// ErrEmptyTag is returned for an element without a tag name
var ErrEmptyTag = errors.New("unsupported JSX tag: empty name")

// Result is the rendered markup of one component
type Result struct {
	HTML     string
	Warnings []string
	// ComponentRefs lists nested components in opening-tag order.
	ComponentRefs []model.ComponentRef
	// HasChildren is set when the markup renders the children prop.
	HasChildren bool
}

// Transform renders root using props to decide which identifiers become
// instance variables.
func Transform(root ast.Markup, props []model.Prop) (*Result, error) {
	if root == nil {
		return nil, errors.New("no markup to transform")
	}

	r := &renderer{props: make(map[string]bool, len(props))}
	for _, p := range props {
		r.props[p.Name] = true
	}

	var html string
	switch n := root.(type) {
	case *ast.Element, *ast.Fragment:
		html = ast.VisitMarkup[string](n, r)
	case *ast.Unsupported:
		return nil, fmt.Errorf("unsupported markup root: %s", n.Kind)
	default:
		return nil, fmt.Errorf("unsupported markup root: %T", n)
	}
	if r.err != nil {
		return nil, r.err
	}

	return &Result{
		HTML:          html,
		Warnings:      r.warnings,
		ComponentRefs: r.refs,
		HasChildren:   r.hasChildren,
	}, nil
}

// renderer renders markup nodes; its expression side lives in rewrite.go
type renderer struct {
	props map[string]bool
	// shadow holds the names bound by enclosing map callbacks
	shadow []map[string]bool

	tagIndex    int
	refs        []model.ComponentRef
	warnings    []string
	hasChildren bool
	err         error
}

func (r *renderer) warn(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func (r *renderer) isProp(name string) bool {
	if !r.props[name] {
		return false
	}
	for _, scope := range r.shadow {
		if scope[name] {
			return false
		}
	}
	return true
}

// subst prints e with prop references rewritten to instance variables
func (r *renderer) subst(e ast.Expr) string {
	if e == nil {
		return "nil"
	}
	return e.Src().Substitute(func(name string) (string, bool) {
		if r.isProp(name) {
			return "@" + name, true
		}
		return "", false
	})
}

func (r *renderer) markup(m ast.Markup) string {
	if m == nil || r.err != nil {
		return ""
	}
	return ast.VisitMarkup[string](m, r)
}

func (r *renderer) VisitElement(el *ast.Element) string {
	if el.Name == "" {
		r.err = ErrEmptyTag
		return ""
	}

	index := r.tagIndex
	r.tagIndex++

	tag, component := tagName(el.Name)
	if component {
		r.refs = append(r.refs, model.ComponentRef{
			Name:        componentName(el.Name),
			Tag:         tag,
			Index:       index,
			SelfClosing: el.SelfClosing,
			Props:       r.refProps(el.Name, el.Attrs),
		})
	}

	attrs := r.attrs(el.Attrs)
	if el.SelfClosing {
		return "<" + tag + attrs + " />"
	}
	return "<" + tag + attrs + ">" + r.children(el.Children) + "</" + tag + ">"
}

func (r *renderer) VisitText(t *ast.Text) string {
	return t.Value
}

func (r *renderer) VisitExprContainer(c *ast.ExprContainer) string {
	if c.Expr == nil {
		return ""
	}
	if isChildren(c.Expr) {
		r.hasChildren = true
		return "<%= children %>"
	}
	return r.expr(c.Expr)
}

func (r *renderer) VisitFragment(f *ast.Fragment) string {
	return r.children(f.Children)
}

func (r *renderer) VisitUnsupported(u *ast.Unsupported) string {
	r.warn("Unsupported child type: %s", u.Kind)
	return "<!-- TODO: Unsupported child type: " + u.Kind + " -->"
}

func (r *renderer) children(children []ast.Markup) string {
	var sb strings.Builder
	for _, c := range children {
		sb.WriteString(r.markup(c))
	}
	return sb.String()
}

// isChildren matches children and props.children
func isChildren(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.Ident:
		return n.Name == "children"
	case *ast.Member:
		obj, ok := n.Object.(*ast.Ident)
		return ok && obj.Name == "props" && n.Property == "children" && !n.Computed
	}
	return false
}

func (r *renderer) attrs(attrs []ast.Attr) string {
	var parts []string
	actionAt := -1
	var actions []string

	for _, a := range attrs {
		switch attr := a.(type) {
		case *ast.SpreadAttr:
			parts = append(parts, " <%= render_attributes("+r.subst(attr.Expr)+") %>")

		case *ast.NamedAttr:
			if IsReserved(attr.Name) {
				continue
			}
			if event, ok := ast.EventName(attr.Name); ok {
				handler, _ := ast.Handler(attr.Value, event)
				actions = append(actions, event+"->"+handler)
				if actionAt < 0 {
					actionAt = len(parts)
					parts = append(parts, "")
				}
				continue
			}

			name := AttributeName(attr.Name)
			switch v := attr.Value.(type) {
			case nil:
				parts = append(parts, " "+name)
			case *ast.StringValue:
				parts = append(parts, " "+name+`="`+escapeAttr(v.Value)+`"`)
			case *ast.ExprValue:
				if IsBooleanAttribute(name) {
					parts = append(parts, ` <%= "`+name+`" if `+r.subst(v.Expr)+` %>`)
					continue
				}
				parts = append(parts, " "+name+`="`+r.attrExpr(v.Expr)+`"`)
			case *ast.UnsupportedValue:
				r.warn("Unsupported attribute value type: %s", v.Kind)
				parts = append(parts, " "+name+`="TODO: Unsupported attribute value type: `+v.Kind+`"`)
			}
		}
	}

	if actionAt >= 0 {
		parts[actionAt] = ` data-action="` + strings.Join(actions, " ") + `"`
	}
	return strings.Join(parts, "")
}

// refProps converts the attributes of a nested component into keyword
// arguments for its constructor.
// Functions have no Ruby counterpart and are passed as nil.
func (r *renderer) refProps(component string, attrs []ast.Attr) []model.RefProp {
	var out []model.RefProp
	for _, a := range attrs {
		switch attr := a.(type) {
		case *ast.SpreadAttr:
			out = append(out, model.RefProp{Value: r.subst(attr.Expr), Splat: true})
		case *ast.NamedAttr:
			if IsReserved(attr.Name) {
				continue
			}
			p := model.RefProp{Name: attr.Name, Value: "nil"}
			_, isEvent := ast.EventName(attr.Name)
			switch v := attr.Value.(type) {
			case nil:
				p.Value = "true"
			case *ast.StringValue:
				p.Value = rubyString(v.Value)
			case *ast.ExprValue:
				if _, isFunc := v.Expr.(*ast.Func); isFunc || isEvent {
					r.warn("Unsupported attribute value type: function in %s on %s, passed as nil", attr.Name, component)
					break
				}
				p.Value = r.subst(v.Expr)
			case *ast.UnsupportedValue:
				r.warn("Unsupported attribute value type: %s", v.Kind)
			}
			out = append(out, p)
		}
	}
	return out
}

// tagName lowers a tag to its HTML name. Capitalized and member tags are
// components and keep only their final segment.
func tagName(name string) (string, bool) {
	last := name
	if i := strings.LastIndex(name, "."); i >= 0 {
		last = name[i+1:]
	}
	first, _ := utf8.DecodeRuneInString(name)
	if last != name || unicode.IsUpper(first) {
		return strings.ToLower(last), true
	}
	return name, false
}

func componentName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

func rubyString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "#{", `\#{`)
	return `"` + s + `"`
}
