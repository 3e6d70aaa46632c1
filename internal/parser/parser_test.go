package parser

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0rails/v0rails/internal/ast"
)

func TestNewParser(t *testing.T) {
	p := NewParser()
	assert.NotNil(t, p)
	assert.NotNil(t, p.jsParser)
	assert.NotNil(t, p.tsxParser)
	assert.NotNil(t, p.tsParser)
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path     string
		expected Language
	}{
		{"Card.jsx", LanguageJavaScript},
		{"index.js", LanguageJavaScript},
		{"index.mjs", LanguageJavaScript},
		{"Button.tsx", LanguageTSX},
		{"hooks.ts", LanguageTypeScript},
		{"/path/to/Card.JSX", LanguageJavaScript}, // Case insensitive
		{"README.md", LanguageUnknown},
		{"Makefile", LanguageUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectLanguage(tt.path))
		})
	}
}

// firstMarkup parses src and lowers the outermost JSX node.
func firstMarkup(t *testing.T, src string, lang Language) ast.Markup {
	t.Helper()
	p := NewParser()
	parsed, err := p.ParseContent(context.Background(), "test.jsx", []byte(src), lang)
	require.NoError(t, err)
	t.Cleanup(parsed.Close)

	var node *sitter.Node
	Walk(parsed.Root(), func(n *sitter.Node) bool {
		if node != nil {
			return false
		}
		if IsMarkup(n) {
			node = n
			return false
		}
		return true
	})
	require.NotNil(t, node, "no markup in source")
	return parsed.Markup(node)
}

func TestParser_ParseContent_Errors(t *testing.T) {
	p := NewParser()

	parsed, err := p.ParseContent(context.Background(), "ok.jsx", []byte("const a = <div />;"), LanguageJavaScript)
	require.NoError(t, err)
	defer parsed.Close()
	assert.False(t, parsed.HasErrors)

	broken, err := p.ParseContent(context.Background(), "bad.jsx", []byte("function A() { return <div>; }"), LanguageJavaScript)
	require.NoError(t, err)
	defer broken.Close()
	assert.True(t, broken.HasErrors)

	_, err = p.ParseContent(context.Background(), "x.md", []byte(""), LanguageUnknown)
	assert.Error(t, err)
}

func TestMarkup_ElementWithAttributesAndText(t *testing.T) {
	m := firstMarkup(t, `const a = <div className="card" id={cardId} disabled>Hello &amp; bye</div>;`, LanguageJavaScript)

	el, ok := m.(*ast.Element)
	require.True(t, ok)
	assert.Equal(t, "div", el.Name)
	assert.False(t, el.SelfClosing)
	require.Len(t, el.Attrs, 3)

	class := el.Attrs[0].(*ast.NamedAttr)
	assert.Equal(t, "className", class.Name)
	assert.Equal(t, &ast.StringValue{Value: "card"}, class.Value)

	id := el.Attrs[1].(*ast.NamedAttr)
	assert.Equal(t, "id", id.Name)
	idExpr := id.Value.(*ast.ExprValue).Expr.(*ast.Ident)
	assert.Equal(t, "cardId", idExpr.Name)

	disabled := el.Attrs[2].(*ast.NamedAttr)
	assert.Nil(t, disabled.Value)

	require.Len(t, el.Children, 1)
	assert.Equal(t, "Hello &amp; bye", el.Children[0].(*ast.Text).Value)
}

func TestMarkup_ChildrenKeepWhitespaceGaps(t *testing.T) {
	m := firstMarkup(t, "const a = <p>Hi {name}!</p>;", LanguageJavaScript)

	el := m.(*ast.Element)
	require.Len(t, el.Children, 3)
	assert.Equal(t, "Hi ", el.Children[0].(*ast.Text).Value)
	container := el.Children[1].(*ast.ExprContainer)
	assert.Equal(t, "name", container.Expr.(*ast.Ident).Name)
	assert.Equal(t, "!", el.Children[2].(*ast.Text).Value)
}

func TestMarkup_MultilineChildrenKeepNewlines(t *testing.T) {
	src := "const a = (\n  <div>\n    <h2>{title}</h2>\n    <p>x</p>\n  </div>\n);"
	m := firstMarkup(t, src, LanguageJavaScript)

	el := m.(*ast.Element)
	require.Len(t, el.Children, 5)
	assert.Equal(t, "\n    ", el.Children[0].(*ast.Text).Value)
	assert.Equal(t, "h2", el.Children[1].(*ast.Element).Name)
	assert.Equal(t, "\n    ", el.Children[2].(*ast.Text).Value)
	assert.Equal(t, "p", el.Children[3].(*ast.Element).Name)
	assert.Equal(t, "\n  ", el.Children[4].(*ast.Text).Value)
}

func TestMarkup_MultilineFragment(t *testing.T) {
	m := firstMarkup(t, "const a = (\n  <>\n    <b>x</b>\n  </>\n);", LanguageJavaScript)

	frag := m.(*ast.Fragment)
	require.Len(t, frag.Children, 3)
	assert.Equal(t, "\n    ", frag.Children[0].(*ast.Text).Value)
	assert.Equal(t, "b", frag.Children[1].(*ast.Element).Name)
	assert.Equal(t, "\n  ", frag.Children[2].(*ast.Text).Value)
}

func TestMarkup_FragmentSpreadAndSelfClosing(t *testing.T) {
	m := firstMarkup(t, "const a = <><Icon {...rest} size={24} />{}</>;", LanguageJavaScript)

	frag, ok := m.(*ast.Fragment)
	require.True(t, ok)
	require.Len(t, frag.Children, 2)

	icon := frag.Children[0].(*ast.Element)
	assert.Equal(t, "Icon", icon.Name)
	assert.True(t, icon.SelfClosing)
	require.Len(t, icon.Attrs, 2)
	spread := icon.Attrs[0].(*ast.SpreadAttr)
	assert.Equal(t, "rest", spread.Expr.(*ast.Ident).Name)

	empty := frag.Children[1].(*ast.ExprContainer)
	assert.Nil(t, empty.Expr)
}

func TestMarkup_MemberTagName(t *testing.T) {
	m := firstMarkup(t, `const a = <UI.Button variant="ghost">Go</UI.Button>;`, LanguageJavaScript)
	el := m.(*ast.Element)
	assert.Equal(t, "UI.Button", el.Name)
}

func TestExpr_ConditionalsAndLogical(t *testing.T) {
	m := firstMarkup(t, "const a = <div>{open ? <p>Open</p> : null}{show && <span />}</div>;", LanguageJavaScript)
	el := m.(*ast.Element)
	require.Len(t, el.Children, 2)

	cond := el.Children[0].(*ast.ExprContainer).Expr.(*ast.Conditional)
	assert.Equal(t, "open", cond.Test.(*ast.Ident).Name)
	then := cond.Then.(*ast.MarkupExpr)
	assert.Equal(t, "p", then.Node.(*ast.Element).Name)
	assert.True(t, ast.IsLiteral(cond.Else, "null"))

	logical := el.Children[1].(*ast.ExprContainer).Expr.(*ast.Logical)
	assert.Equal(t, "&&", logical.Op)
	assert.Equal(t, "show", logical.Left.(*ast.Ident).Name)
}

func TestExpr_MapCallback(t *testing.T) {
	m := firstMarkup(t, "const a = <ul>{items.map((item, i) => <li key={i}>{item.name}</li>)}</ul>;", LanguageJavaScript)
	el := m.(*ast.Element)
	require.Len(t, el.Children, 1)

	call := el.Children[0].(*ast.ExprContainer).Expr.(*ast.Call)
	recv, method, ok := call.Method()
	require.True(t, ok)
	assert.Equal(t, "map", method)
	assert.Equal(t, "items", recv.(*ast.Ident).Name)

	require.Len(t, call.Args, 1)
	fn := call.Args[0].(*ast.Func)
	assert.Equal(t, []ast.Param{{Name: "item"}, {Name: "i"}}, fn.Params)
	require.NotNil(t, fn.Body)
	assert.Equal(t, "li", fn.Body.(*ast.MarkupExpr).Node.(*ast.Element).Name)

	// callback params are bound, so only the receiver is a free ref
	refs := call.Source.Refs
	require.Len(t, refs, 1)
	assert.Equal(t, "items", refs[0].Name)
}

func TestExpr_BlockBodies(t *testing.T) {
	src := `const a = <ul>{rows.map(r => { return <li>{r}</li>; })}{rows.map(r => { const x = r; return x; })}</ul>;`
	m := firstMarkup(t, src, LanguageJavaScript)
	el := m.(*ast.Element)
	require.Len(t, el.Children, 2)

	single := el.Children[0].(*ast.ExprContainer).Expr.(*ast.Call).Args[0].(*ast.Func)
	assert.NotNil(t, single.Body)

	multi := el.Children[1].(*ast.ExprContainer).Expr.(*ast.Call).Args[0].(*ast.Func)
	assert.Nil(t, multi.Body)
}

func TestExpr_RefsSkipPropertiesAndKeys(t *testing.T) {
	m := firstMarkup(t, "const a = <div>{user.name + format({ label: title, user })}</div>;", LanguageJavaScript)
	expr := m.(*ast.Element).Children[0].(*ast.ExprContainer).Expr

	var names []string
	for _, r := range expr.Src().Refs {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"user", "format", "title"}, names)

	out := expr.Src().Substitute(func(name string) (string, bool) {
		if name == "user" || name == "title" {
			return "@" + name, true
		}
		return "", false
	})
	assert.Equal(t, "@user.name + format({ label: @title, user })", out)
}

func TestExpr_OptionalMember(t *testing.T) {
	m := firstMarkup(t, "const a = <b>{user?.profile}</b>;", LanguageJavaScript)
	member := m.(*ast.Element).Children[0].(*ast.ExprContainer).Expr.(*ast.Member)
	assert.True(t, member.Optional)
	assert.Equal(t, "profile", member.Property)
}

func TestMarkup_TSX(t *testing.T) {
	src := `export function Badge({ label }: { label: string }) { return <span className="badge">{label}</span>; }`
	m := firstMarkup(t, src, LanguageTSX)
	el := m.(*ast.Element)
	assert.Equal(t, "span", el.Name)
	require.Len(t, el.Children, 1)
}

func TestContainsMarkup(t *testing.T) {
	p := NewParser()
	parsed, err := p.ParseContent(context.Background(), "a.jsx", []byte("function A() { return 1; }\nfunction B() { return <i/>; }"), LanguageJavaScript)
	require.NoError(t, err)
	defer parsed.Close()

	var found []bool
	for _, n := range NamedChildren(parsed.Root()) {
		found = append(found, ContainsMarkup(n))
	}
	assert.Equal(t, []bool{false, true}, found)
}
