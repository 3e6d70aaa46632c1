package markup

import (
	"github.com/v0rails/v0rails/internal/ast"
)

// rewriter turns embedded expressions into ERB. In attribute position
// markup operands cannot be rendered and fall back to output directives.
type rewriter struct {
	r    *renderer
	attr bool
}

func (r *renderer) expr(e ast.Expr) string {
	return ast.VisitExpr[string](e, &rewriter{r: r})
}

func (r *renderer) attrExpr(e ast.Expr) string {
	return ast.VisitExpr[string](e, &rewriter{r: r, attr: true})
}

func (w *rewriter) output(e ast.Expr) string {
	return "<%= " + w.r.subst(e) + " %>"
}

func (w *rewriter) VisitIdent(e *ast.Ident) string {
	if w.r.isProp(e.Name) {
		return "<%= @" + e.Name + " %>"
	}
	return "<%= " + e.Name + " %>"
}

func (w *rewriter) VisitMember(e *ast.Member) string {
	return w.output(e)
}

func (w *rewriter) VisitConditional(e *ast.Conditional) string {
	return "<% if " + w.r.subst(e.Test) + " %>" +
		w.branch(e.Then) +
		"<% else %>" +
		w.branch(e.Else) +
		"<% end %>"
}

func (w *rewriter) VisitLogical(e *ast.Logical) string {
	if e.Op != "&&" {
		return w.output(e)
	}
	return "<% if " + w.r.subst(e.Left) + " %>" + w.branch(e.Right) + "<% end %>"
}

// branch renders an operand of a conditional: markup is rendered in place,
// null-ish literals render nothing and nested conditionals recurse.
func (w *rewriter) branch(e ast.Expr) string {
	switch n := e.(type) {
	case nil:
		return ""
	case *ast.MarkupExpr:
		if !w.attr {
			return w.r.markup(n.Node)
		}
	case *ast.Conditional, *ast.Logical:
		return ast.VisitExpr[string](n, w)
	case *ast.Ident:
		if n.Name == "undefined" {
			return ""
		}
	}
	if ast.IsLiteral(e, "null", "undefined", "false") {
		return ""
	}
	return w.output(e)
}

func (w *rewriter) VisitCall(e *ast.Call) string {
	recv, method, ok := e.Method()
	if !ok || method != "map" || len(e.Args) != 1 {
		return w.output(e)
	}
	fn, ok := e.Args[0].(*ast.Func)
	if !ok {
		return w.output(e)
	}
	return w.loop(recv, fn)
}

// loop renders recv.map(fn) as an each block
func (w *rewriter) loop(recv ast.Expr, fn *ast.Func) string {
	names := make([]string, 0, 2)
	for i, p := range fn.Params {
		if i == 2 {
			break
		}
		if p.Pattern {
			w.r.warn("Destructured map parameter %s replaced with item", p.Name)
			names = append(names, "item")
			continue
		}
		names = append(names, p.Name)
	}
	if len(names) == 0 {
		names = append(names, "item")
	}

	head := "<% " + w.r.subst(recv) + ".each do |" + names[0] + "| %>"
	if len(names) == 2 {
		head = "<% " + w.r.subst(recv) + ".each_with_index do |" + names[0] + ", " + names[1] + "| %>"
	}

	if fn.Body == nil {
		w.r.warn("Complex map body, manual conversion required")
		return head + "<!-- TODO: Complex map body, manual conversion required --><% end %>"
	}

	scope := make(map[string]bool, len(fn.Params))
	for _, n := range names {
		scope[n] = true
	}
	w.r.shadow = append(w.r.shadow, scope)
	body := w.branch(fn.Body)
	w.r.shadow = w.r.shadow[:len(w.r.shadow)-1]

	return head + body + "<% end %>"
}

func (w *rewriter) VisitFunc(e *ast.Func) string {
	return w.output(e)
}

func (w *rewriter) VisitMarkupExpr(e *ast.MarkupExpr) string {
	if w.attr {
		return w.output(e)
	}
	return w.r.markup(e.Node)
}

func (w *rewriter) VisitOther(e *ast.Other) string {
	return w.output(e)
}
