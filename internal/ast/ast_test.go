package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_Substitute(t *testing.T) {
	src := Source{
		Text: "items.filter(x => x.done).length > limit",
		Refs: []Ref{
			{Name: "items", Start: 0, End: 5},
			{Name: "limit", Start: 35, End: 40},
		},
	}

	props := map[string]bool{"items": true, "limit": true}
	out := src.Substitute(func(name string) (string, bool) {
		if props[name] {
			return "@" + name, true
		}
		return "", false
	})
	assert.Equal(t, "@items.filter(x => x.done).length > @limit", out)

	untouched := src.Substitute(func(string) (string, bool) { return "", false })
	assert.Equal(t, src.Text, untouched)
}

func TestMember_Root(t *testing.T) {
	root := &Ident{Name: "user"}
	chain := &Member{Object: &Member{Object: root, Property: "profile"}, Property: "name"}

	got, ok := chain.Root()
	require.True(t, ok)
	assert.Same(t, root, got)

	call := &Member{Object: &Call{Callee: root}, Property: "length"}
	_, ok = call.Root()
	assert.False(t, ok)
}

func TestEventName(t *testing.T) {
	tests := []struct {
		attr  string
		event string
		ok    bool
	}{
		{"onClick", "click", true},
		{"onKeyDown", "keydown", true},
		{"onchange", "", false},
		{"on", "", false},
		{"online", "", false},
		{"className", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.attr, func(t *testing.T) {
			event, ok := EventName(tt.attr)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.event, event)
		})
	}
}

func TestHandler(t *testing.T) {
	t.Run("identifier", func(t *testing.T) {
		h, params := Handler(&ExprValue{Expr: &Ident{Name: "handleClick"}}, "click")
		assert.Equal(t, "handleClick", h)
		assert.Empty(t, params)
	})

	t.Run("inline arrow calling identifier", func(t *testing.T) {
		fn := &Func{
			Params: []Param{{Name: "e"}},
			Body:   &Call{Callee: &Ident{Name: "setValue"}},
		}
		h, params := Handler(&ExprValue{Expr: fn}, "change")
		assert.Equal(t, "setValue", h)
		assert.Equal(t, []string{"e"}, params)
	})

	t.Run("inline arrow with destructured param", func(t *testing.T) {
		fn := &Func{
			Params: []Param{{Name: "{ target }", Pattern: true}},
			Body:   &Other{Kind: "binary_expression"},
		}
		h, params := Handler(&ExprValue{Expr: fn}, "keypress")
		assert.Equal(t, "keypressHandler", h)
		assert.Equal(t, []string{"param"}, params)
	})

	t.Run("string value", func(t *testing.T) {
		h, _ := Handler(&StringValue{Value: "alert(1)"}, "click")
		assert.Equal(t, "clickHandler", h)
	})
}

func TestWalkElements_ReachesNestedExpressions(t *testing.T) {
	inner := &Element{Name: "li"}
	loop := &Call{
		Callee: &Member{Object: &Ident{Name: "items"}, Property: "map"},
		Args:   []Expr{&Func{Params: []Param{{Name: "item"}}, Body: &MarkupExpr{Node: inner}}},
	}
	cond := &Logical{Op: "&&", Left: &Ident{Name: "show"}, Right: &MarkupExpr{Node: &Element{Name: "p"}}}
	root := &Element{
		Name: "ul",
		Children: []Markup{
			&Text{Value: "\n"},
			&ExprContainer{Expr: loop},
			&Fragment{Children: []Markup{&ExprContainer{Expr: cond}}},
		},
	}

	var names []string
	WalkElements(root, func(el *Element) { names = append(names, el.Name) })
	assert.Equal(t, []string{"ul", "li", "p"}, names)
}

type kindCounter struct{ counts map[string]int }

func (k *kindCounter) VisitElement(*Element) string             { return "element" }
func (k *kindCounter) VisitText(*Text) string                   { return "text" }
func (k *kindCounter) VisitExprContainer(*ExprContainer) string { return "expr" }
func (k *kindCounter) VisitFragment(*Fragment) string           { return "fragment" }
func (k *kindCounter) VisitUnsupported(*Unsupported) string     { return "unsupported" }

func TestVisitMarkup_Dispatch(t *testing.T) {
	v := &kindCounter{}
	assert.Equal(t, "element", VisitMarkup[string](&Element{}, v))
	assert.Equal(t, "text", VisitMarkup[string](&Text{}, v))
	assert.Equal(t, "expr", VisitMarkup[string](&ExprContainer{}, v))
	assert.Equal(t, "fragment", VisitMarkup[string](&Fragment{}, v))
	assert.Equal(t, "unsupported", VisitMarkup[string](&Unsupported{}, v))
}

func TestIsLiteral(t *testing.T) {
	assert.True(t, IsLiteral(&Other{Kind: "null"}, "null", "undefined"))
	assert.False(t, IsLiteral(&Other{Kind: "string"}, "null"))
	assert.False(t, IsLiteral(&Ident{Name: "null"}, "null"))
}
