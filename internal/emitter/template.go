package emitter

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/v0rails/v0rails/internal/naming"
	"github.com/v0rails/v0rails/pkg/model"
)

const warnNoRoot = "Could not add Stimulus controller to root element"

// TemplateEmitter generates the ERB template of a component
type TemplateEmitter struct{}

func (e *TemplateEmitter) Name() string          { return "template" }
func (e *TemplateEmitter) Language() string      { return "erb" }
func (e *TemplateEmitter) FileExtension() string { return "_component.html.erb" }

// Enabled is always true: every component gets a template
func (e *TemplateEmitter) Enabled(*model.IR, Options) bool { return true }

func (e *TemplateEmitter) Path(ir *model.IR, opts Options) string {
	return filepath.Join(opts.Dest, namespacePath(opts.Namespace), opts.Rel, ir.SnakeCaseName+e.FileExtension())
}

// templatePass rewrites the token stream of a template in place
type templatePass func(t *templateState)

type templateState struct {
	ir     *model.IR
	opts   Options
	tokens []token
}

// Emit runs the template passes in order over the lexed IR markup
func (e *TemplateEmitter) Emit(ir *model.IR, opts Options) (string, error) {
	st := &templateState{ir: ir, opts: opts, tokens: lex(ir.HTML)}

	passes := []templatePass{
		warningsPass,
		iconPass,
		interactivePass,
		behaviorPass,
		slotsPass,
		childrenPass,
		normalizePass,
		enhancedPass,
		componentRefsPass,
	}
	for _, pass := range passes {
		pass(st)
	}

	return format(st.tokens), nil
}

func warningsPass(st *templateState) {
	if len(st.ir.Warnings) == 0 {
		return
	}
	head := make([]token, 0, 2*len(st.ir.Warnings))
	for _, w := range st.ir.Warnings {
		head = append(head, directive("#", "WARNING: "+commentSafe(w)), text("\n"))
	}
	st.tokens = append(head, st.tokens...)
}

// commentSafe keeps text from closing the directive it is embedded in
func commentSafe(s string) string {
	return strings.ReplaceAll(s, "%>", "% >")
}

func iconPass(st *templateState) {
	if !st.ir.IsIcon {
		return
	}
	for _, tok := range st.tokens {
		if tok.kind != tagToken || !tok.tag.opening() || tok.tag.name != "svg" {
			continue
		}
		svg := tok.tag
		if class := svg.attr("class"); class != nil && class.hasValue {
			class.value = strings.TrimSpace(class.value + " <%= @html_class %>")
		} else {
			svg.set("class", "<%= @html_class %>")
		}
		for _, dim := range []string{"width", "height"} {
			if a := svg.attr(dim); a != nil && a.hasValue && !strings.Contains(a.value, "<%") {
				a.value = "<%= @size || '" + a.value + "' %>"
			}
		}
		if a := svg.attr("stroke"); a != nil && a.hasValue && !strings.Contains(a.value, "<%") {
			a.value = "<%= @color || 'currentColor' %>"
		}
		return
	}
}

func interactivePass(st *templateState) {
	if !st.ir.IsInteractive {
		return
	}

	if root := firstOpening(st.tokens); root >= 0 && (len(st.ir.Variants) > 0 || len(st.ir.Sizes) > 0) {
		st.tokens[root].tag.set("class", "<%= class_names %>")
	}

	for i, tok := range st.tokens {
		if tok.kind != tagToken || !tok.tag.opening() || tok.tag.selfClosing {
			continue
		}
		if tok.tag.name != "button" && tok.tag.name != "a" {
			continue
		}
		j := nextNonBlank(st.tokens, i+1)
		k := nextNonBlank(st.tokens, j+1)
		if k >= len(st.tokens) {
			return
		}
		inner, end := st.tokens[j], st.tokens[k]
		if end.kind != tagToken || !end.tag.closing || end.tag.name != tok.tag.name {
			return
		}
		switch {
		case inner.kind == textToken:
			st.tokens[j] = directive("=", "content || "+rubyString(strings.TrimSpace(inner.text)))
		case inner.kind == directiveToken && inner.mark == "=" && !isChildren(inner.text):
			st.tokens[j] = directive("=", "content || "+inner.text)
		}
		return
	}
}

// behaviorPass binds the Stimulus controller to the root element and
// routes action bindings through it. The original handler travels as an
// action parameter.
func behaviorPass(st *templateState) {
	if !ControllerEnabled(st.ir, st.opts) {
		return
	}
	id := naming.ControllerIdentifier(st.ir.Name)

	root := firstOpening(st.tokens)
	if root < 0 {
		st.tokens = append([]token{directive("#", "WARNING: "+warnNoRoot), text("\n")}, st.tokens...)
	} else {
		t := st.tokens[root].tag
		if a := t.attr("data-controller"); a != nil {
			a.value = strings.TrimSpace(a.value + " " + id)
		} else {
			t.attrs = append([]attr{{name: "data-controller", value: id, hasValue: true, quote: '"'}}, t.attrs...)
		}
	}

	for _, tok := range st.tokens {
		if tok.kind != tagToken || !tok.tag.opening() {
			continue
		}
		qualifyActions(tok.tag, id)
	}
}

func qualifyActions(t *tag, id string) {
	action := t.attr("data-action")
	if action == nil || !action.hasValue {
		return
	}

	var bindings []string
	var params []attr
	for _, binding := range strings.Fields(action.value) {
		event, handler, ok := strings.Cut(binding, "->")
		if !ok || strings.Contains(handler, "#") {
			bindings = append(bindings, binding)
			continue
		}
		bindings = append(bindings, event+"->"+id+"#"+event)
		name := "data-" + id + "-" + event + "-handler-param"
		if t.attr(name) == nil {
			params = append(params, attr{name: name, value: handler, hasValue: true, quote: '"'})
		}
	}
	action.value = strings.Join(bindings, " ")

	// params follow data-action
	for i := range t.attrs {
		if &t.attrs[i] == action {
			rest := append(params, t.attrs[i+1:]...)
			t.attrs = append(t.attrs[:i+1], rest...)
			return
		}
	}
}

func slotsPass(st *templateState) {
	for _, slot := range st.ir.Slots {
		switch slot.Kind {
		case model.RendersOne:
			for i := 0; i < len(st.tokens); i++ {
				tok := st.tokens[i]
				if tok.kind == directiveToken && tok.mark == "=" && tok.text == "@"+slot.Name {
					st.tokens = splice(st.tokens, i, i+1,
						directive("", "if "+slotPredicate(slot.Name)),
						directive("=", slotName(slot.Name)),
						directive("", "end"))
					i += 2
				}
			}
		case model.RendersMany:
			replaceManySlot(st, slot)
		}
	}
}

// replaceManySlot swaps the loop over the slot prop for a loop over the
// slot instances.
func replaceManySlot(st *templateState, slot model.Slot) {
	for i, tok := range st.tokens {
		if tok.kind != directiveToken || tok.mark != "" {
			continue
		}
		if !strings.HasPrefix(tok.text, "@"+slot.Name+".each") {
			continue
		}
		end := blockEnd(st.tokens, i)
		if end < 0 {
			return
		}
		st.tokens = splice(st.tokens, i, end+1,
			directive("", slotName(slot.Name)+".each do |slot|"),
			directive("=", "slot"),
			directive("", "end"))
		return
	}
}

// blockEnd returns the index of the <% end %> closing the block opened at
// tokens[open], or -1.
func blockEnd(tokens []token, open int) int {
	depth := 0
	for i := open; i < len(tokens); i++ {
		t := tokens[i]
		if t.kind != directiveToken || t.mark == "#" {
			continue
		}
		switch {
		case opensBlock(t.text):
			depth++
		case t.text == "end":
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func opensBlock(code string) bool {
	if strings.HasPrefix(code, "if ") || strings.HasPrefix(code, "unless ") ||
		strings.HasPrefix(code, "case ") || strings.HasPrefix(code, "while ") {
		return true
	}
	return strings.HasSuffix(code, " do") || (strings.Contains(code, " do |") && strings.HasSuffix(code, "|"))
}

func slotName(name string) string {
	return naming.SnakeCase(name)
}

func slotPredicate(name string) string {
	return slotName(name) + "?"
}

func childrenPass(st *templateState) {
	for i := range st.tokens {
		t := &st.tokens[i]
		if t.kind == directiveToken && t.mark == "=" && isChildren(t.text) {
			t.text = "content"
		}
	}
}

func isChildren(code string) bool {
	return code == "children" || code == "@children"
}

// nextNonBlank returns the index of the first token at or after i that is
// not whitespace-only text, or len(tokens).
func nextNonBlank(tokens []token, i int) int {
	for i < len(tokens) && tokens[i].kind == textToken && strings.TrimSpace(tokens[i].text) == "" {
		i++
	}
	return i
}

func normalizePass(st *templateState) {
	mapDirectives(st.tokens, NormalizeJS)
}

func enhancedPass(st *templateState) {
	if !st.opts.EnhancedERB {
		return
	}
	isProp := st.ir.HasProp

	for i := 0; i < len(st.tokens); i++ {
		t := &st.tokens[i]
		switch t.kind {
		case textToken:
			t.text = enhanceText(t.text, isProp)
		case tagToken:
			for j := range t.tag.attrs {
				a := &t.tag.attrs[j]
				if a.hasValue {
					a.value = enhanceText(a.value, isProp)
				}
			}
		case directiveToken:
			if t.mark != "=" {
				continue
			}
			if head, body, ok := enhanceLoop(t.text); ok {
				st.tokens = splice(st.tokens, i, i+1,
					directive("", head),
					directive("=", body),
					directive("", "end"))
				i += 2
			}
		}
	}
	mapDirectives(st.tokens, enhanceCode)
}

// componentRefsPass replaces nested component tags with render calls.
// Refs are handled from the last opening tag backwards so inner components
// are already rendered when their parent is wrapped.
func componentRefsPass(st *templateState) {
	refs := append([]model.ComponentRef(nil), st.ir.ComponentRefs...)
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Index > refs[j].Index })

	for _, ref := range refs {
		open := findOrdinal(st.tokens, ref.Index)
		if open < 0 || !strings.EqualFold(st.tokens[open].tag.name, ref.Tag) {
			continue
		}
		call := "render " + ComponentClass(ref.Name, st.opts.Namespace) + ".new" + refArgs(ref.Props)

		if st.tokens[open].tag.selfClosing {
			st.tokens = splice(st.tokens, open, open+1, directive("=", call))
			continue
		}
		end := matchingClose(st.tokens, open)
		if end < 0 {
			continue
		}
		inner := st.tokens[open+1 : end]
		if blank(inner) {
			st.tokens = splice(st.tokens, open, end+1, directive("=", call))
			continue
		}
		body := append([]token{directive("=", call+" do")}, inner...)
		body = append(body, directive("", "end"))
		st.tokens = splice(st.tokens, open, end+1, body...)
	}
}

func refArgs(props []model.RefProp) string {
	if len(props) == 0 {
		return ""
	}
	args := make([]string, 0, len(props))
	for _, p := range props {
		value := NormalizeJS(p.Value)
		if p.Splat {
			args = append(args, "**"+value)
			continue
		}
		args = append(args, p.Name+": "+value)
	}
	return "(" + strings.Join(args, ", ") + ")"
}

func blank(tokens []token) bool {
	for _, t := range tokens {
		if t.kind != textToken || strings.TrimSpace(t.text) != "" {
			return false
		}
	}
	return true
}

// splice replaces tokens[from:to] with repl
func splice(tokens []token, from, to int, repl ...token) []token {
	out := make([]token, 0, len(tokens)-(to-from)+len(repl))
	out = append(out, tokens[:from]...)
	out = append(out, repl...)
	return append(out, tokens[to:]...)
}

func rubyString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "#{", `\#{`)
	return `"` + s + `"`
}
