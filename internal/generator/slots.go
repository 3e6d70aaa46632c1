package generator

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/v0rails/v0rails/internal/ast"
	"github.com/v0rails/v0rails/pkg/model"
)

var slotNames = map[string]bool{
	"header":  true,
	"footer":  true,
	"actions": true,
	"icon":    true,
	"media":   true,
	"sidebar": true,
}

// detectSlots finds props rendered as content projection points: a bare
// {header} child becomes renders_one, and {items.map(i => <Item />)}
// becomes renders_many.
func detectSlots(root ast.Markup, ir *model.IR) []model.Slot {
	d := &slotDetector{ir: ir, seen: map[string]bool{}}
	d.children([]ast.Markup{root})
	ast.WalkElements(root, func(el *ast.Element) {
		d.children(el.Children)
	})
	return d.slots
}

type slotDetector struct {
	ir    *model.IR
	seen  map[string]bool
	slots []model.Slot
}

func (d *slotDetector) add(name string, kind model.SlotKind) {
	if d.seen[name] {
		return
	}
	d.seen[name] = true
	d.slots = append(d.slots, model.Slot{Name: name, Kind: kind})
}

func (d *slotDetector) children(children []ast.Markup) {
	for _, c := range children {
		switch n := c.(type) {
		case *ast.Fragment:
			d.children(n.Children)
		case *ast.ExprContainer:
			d.expr(n.Expr)
		}
	}
}

func (d *slotDetector) expr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Ident:
		if d.ir.HasProp(n.Name) && (slotNames[n.Name] || strings.HasSuffix(n.Name, "Slot")) {
			d.add(n.Name, model.RendersOne)
		}
	case *ast.Logical:
		d.expr(n.Right)
	case *ast.Conditional:
		d.expr(n.Then)
		d.expr(n.Else)
	case *ast.Call:
		recv, method, ok := n.Method()
		if !ok || method != "map" || len(n.Args) != 1 {
			return
		}
		list, isIdent := recv.(*ast.Ident)
		fn, isFunc := n.Args[0].(*ast.Func)
		if !isIdent || !isFunc || !d.ir.HasProp(list.Name) {
			return
		}
		if body, isMarkup := fn.Body.(*ast.MarkupExpr); isMarkup && rendersComponent(body.Node) {
			d.add(list.Name, model.RendersMany)
		}
	}
}

func rendersComponent(m ast.Markup) bool {
	el, ok := m.(*ast.Element)
	if !ok || el.Name == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(el.Name)
	return unicode.IsUpper(first) || strings.Contains(el.Name, ".")
}
