package ast

// ExprVisitor handles every expression variant.
type ExprVisitor[T any] interface {
	VisitIdent(*Ident) T
	VisitMember(*Member) T
	VisitConditional(*Conditional) T
	VisitLogical(*Logical) T
	VisitCall(*Call) T
	VisitFunc(*Func) T
	VisitMarkupExpr(*MarkupExpr) T
	VisitOther(*Other) T
}

// MarkupVisitor handles every markup variant.
type MarkupVisitor[T any] interface {
	VisitElement(*Element) T
	VisitText(*Text) T
	VisitExprContainer(*ExprContainer) T
	VisitFragment(*Fragment) T
	VisitUnsupported(*Unsupported) T
}

// exprDispatch and markupDispatch are the non-generic halves of the visitors;
// Go methods cannot carry type parameters, so each node accepts one of these
// and the generic adapters below forward to the typed visitor.
type exprDispatch interface {
	ident(*Ident)
	member(*Member)
	conditional(*Conditional)
	logical(*Logical)
	call(*Call)
	fn(*Func)
	markupExpr(*MarkupExpr)
	other(*Other)
}

type markupDispatch interface {
	element(*Element)
	text(*Text)
	exprContainer(*ExprContainer)
	fragment(*Fragment)
	unsupported(*Unsupported)
}

func (e *Ident) acceptExpr(d exprDispatch)       { d.ident(e) }
func (e *Member) acceptExpr(d exprDispatch)      { d.member(e) }
func (e *Conditional) acceptExpr(d exprDispatch) { d.conditional(e) }
func (e *Logical) acceptExpr(d exprDispatch)     { d.logical(e) }
func (e *Call) acceptExpr(d exprDispatch)        { d.call(e) }
func (e *Func) acceptExpr(d exprDispatch)        { d.fn(e) }
func (e *MarkupExpr) acceptExpr(d exprDispatch)  { d.markupExpr(e) }
func (e *Other) acceptExpr(d exprDispatch)       { d.other(e) }

func (m *Element) acceptMarkup(d markupDispatch)       { d.element(m) }
func (m *Text) acceptMarkup(d markupDispatch)          { d.text(m) }
func (m *ExprContainer) acceptMarkup(d markupDispatch) { d.exprContainer(m) }
func (m *Fragment) acceptMarkup(d markupDispatch)      { d.fragment(m) }
func (m *Unsupported) acceptMarkup(d markupDispatch)   { d.unsupported(m) }

type exprAdapter[T any] struct {
	v   ExprVisitor[T]
	out T
}

func (a *exprAdapter[T]) ident(e *Ident)             { a.out = a.v.VisitIdent(e) }
func (a *exprAdapter[T]) member(e *Member)           { a.out = a.v.VisitMember(e) }
func (a *exprAdapter[T]) conditional(e *Conditional) { a.out = a.v.VisitConditional(e) }
func (a *exprAdapter[T]) logical(e *Logical)         { a.out = a.v.VisitLogical(e) }
func (a *exprAdapter[T]) call(e *Call)               { a.out = a.v.VisitCall(e) }
func (a *exprAdapter[T]) fn(e *Func)                 { a.out = a.v.VisitFunc(e) }
func (a *exprAdapter[T]) markupExpr(e *MarkupExpr)   { a.out = a.v.VisitMarkupExpr(e) }
func (a *exprAdapter[T]) other(e *Other)             { a.out = a.v.VisitOther(e) }

type markupAdapter[T any] struct {
	v   MarkupVisitor[T]
	out T
}

func (a *markupAdapter[T]) element(m *Element)             { a.out = a.v.VisitElement(m) }
func (a *markupAdapter[T]) text(m *Text)                   { a.out = a.v.VisitText(m) }
func (a *markupAdapter[T]) exprContainer(m *ExprContainer) { a.out = a.v.VisitExprContainer(m) }
func (a *markupAdapter[T]) fragment(m *Fragment)           { a.out = a.v.VisitFragment(m) }
func (a *markupAdapter[T]) unsupported(m *Unsupported)     { a.out = a.v.VisitUnsupported(m) }

// VisitExpr dispatches e to the matching method of v.
func VisitExpr[T any](e Expr, v ExprVisitor[T]) T {
	a := &exprAdapter[T]{v: v}
	e.acceptExpr(a)
	return a.out
}

// VisitMarkup dispatches m to the matching method of v.
func VisitMarkup[T any](m Markup, v MarkupVisitor[T]) T {
	a := &markupAdapter[T]{v: v}
	m.acceptMarkup(a)
	return a.out
}
