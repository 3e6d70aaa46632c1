package ast

// WalkElements calls fn for every element reachable from m in document
// order, including elements nested in expressions such as conditional
// branches, map callbacks and attribute values.
func WalkElements(m Markup, fn func(*Element)) {
	VisitMarkup[struct{}](m, &walker{fn: fn})
}

// WalkExprElements is WalkElements starting from an expression.
func WalkExprElements(e Expr, fn func(*Element)) {
	VisitExpr[struct{}](e, &walker{fn: fn})
}

type walker struct {
	fn func(*Element)
}

func (w *walker) markup(m Markup) {
	if m != nil {
		VisitMarkup[struct{}](m, w)
	}
}

func (w *walker) expr(e Expr) {
	if e != nil {
		VisitExpr[struct{}](e, w)
	}
}

func (w *walker) VisitElement(el *Element) struct{} {
	w.fn(el)
	for _, a := range el.Attrs {
		switch attr := a.(type) {
		case *NamedAttr:
			if v, ok := attr.Value.(*ExprValue); ok {
				w.expr(v.Expr)
			}
		case *SpreadAttr:
			w.expr(attr.Expr)
		}
	}
	for _, c := range el.Children {
		w.markup(c)
	}
	return struct{}{}
}

func (w *walker) VisitText(*Text) struct{} { return struct{}{} }

func (w *walker) VisitExprContainer(c *ExprContainer) struct{} {
	w.expr(c.Expr)
	return struct{}{}
}

func (w *walker) VisitFragment(f *Fragment) struct{} {
	for _, c := range f.Children {
		w.markup(c)
	}
	return struct{}{}
}

func (w *walker) VisitUnsupported(*Unsupported) struct{} { return struct{}{} }

func (w *walker) VisitIdent(*Ident) struct{} { return struct{}{} }

func (w *walker) VisitMember(e *Member) struct{} {
	w.expr(e.Object)
	return struct{}{}
}

func (w *walker) VisitConditional(e *Conditional) struct{} {
	w.expr(e.Test)
	w.expr(e.Then)
	w.expr(e.Else)
	return struct{}{}
}

func (w *walker) VisitLogical(e *Logical) struct{} {
	w.expr(e.Left)
	w.expr(e.Right)
	return struct{}{}
}

func (w *walker) VisitCall(e *Call) struct{} {
	w.expr(e.Callee)
	for _, a := range e.Args {
		w.expr(a)
	}
	return struct{}{}
}

func (w *walker) VisitFunc(e *Func) struct{} {
	w.expr(e.Body)
	return struct{}{}
}

func (w *walker) VisitMarkupExpr(e *MarkupExpr) struct{} {
	w.markup(e.Node)
	return struct{}{}
}

func (w *walker) VisitOther(*Other) struct{} { return struct{}{} }
