package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeJS(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a === b", "a == b"},
		{"a !== undefined", "a != nil"},
		{"value === null", "value == nil"},
		{"obj.null", "obj.null"},
		{"user?.name", "user&.name"},
		{"user?.", "user&."},
		{"x ?.5 : 1", "x ?.5 : 1"},
		{"a ?? b", "a || b"},
		{`"a === null"`, `"a === null"`},
		{"`Hi ${name}`", `"Hi #{name}"`},
		{"`say \"x\"`", `"say \"x\""`},
		{"`n: ${a === null ? 0 : a}`", `"n: #{a == nil ? 0 : a}"`},
		{"`literal #{x}`", `"literal \#{x}"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeJS(tt.in), tt.in)
	}
}

func TestSplitCode(t *testing.T) {
	segs := splitCode(`a + 'it\'s' + "b`)
	if assert.Len(t, segs, 4) {
		assert.Equal(t, "a + ", segs[0].text)
		assert.Equal(t, `'it\'s'`, segs[1].text)
		assert.True(t, segs[1].literal)
		assert.Equal(t, `"b`, segs[3].text)
	}
}

func TestEnhanceCode(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"Hello " + @name`, `"Hello #{@name}"`},
		{`'It\'s ' + name + "!"`, `"It's #{name}!"`},
		{"a + b", "a + b"},
		{"count + 1", "count + 1"},
		{"i += 1", "i += 1"},
		{`tags.includes("a")`, `tags.include?("a")`},
		{"name.trim().toLowerCase()", "name.strip.downcase"},
		{`"toUpperCase()"`, `"toUpperCase()"`},
		{"items.some(x => x.done)", "items.any? { |x| x.done }"},
		{"items.filter(i => i.done).length", "items.select { |i| i.done }.length"},
		{"list.forEach((x) => log(x))", "list.each { |x| log(x) }"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, enhanceCode(tt.in), tt.in)
	}
}

func TestEnhanceText(t *testing.T) {
	isProp := func(name string) bool { return name == "title" }

	assert.Equal(t, "Hi <%= @title %>!", enhanceText("Hi {title}!", isProp))
	assert.Equal(t, "<%= @title %>", enhanceText("{ props.title }", isProp))
	assert.Equal(t, "{other}", enhanceText("{other}", isProp))
	assert.Equal(t, "<%= {title} %>", enhanceText("<%= {title} %>", isProp))
}

func TestEnhanceLoop(t *testing.T) {
	head, body, ok := enhanceLoop("@items.map((item, i) => item.name)")
	assert.True(t, ok)
	assert.Equal(t, "@items.each_with_index do |item, i|", head)
	assert.Equal(t, "item.name", body)

	head, body, ok = enhanceLoop("@todos.map(todo => todo.title)")
	assert.True(t, ok)
	assert.Equal(t, "@todos.each do |todo|", head)
	assert.Equal(t, "todo.title", body)

	_, _, ok = enhanceLoop("items.filter(i => i.done)")
	assert.False(t, ok)
}
