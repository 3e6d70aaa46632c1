package emitter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/v0rails/v0rails/internal/naming"
	"github.com/v0rails/v0rails/pkg/model"
)

// ClassEmitter generates the ViewComponent Ruby class
type ClassEmitter struct{}

func (e *ClassEmitter) Name() string          { return "class" }
func (e *ClassEmitter) Language() string      { return "ruby" }
func (e *ClassEmitter) FileExtension() string { return "_component.rb" }

// Enabled is always true: every component gets a class
func (e *ClassEmitter) Enabled(*model.IR, Options) bool { return true }

func (e *ClassEmitter) Path(ir *model.IR, opts Options) string {
	return filepath.Join(opts.Dest, namespacePath(opts.Namespace), opts.Rel, ir.SnakeCaseName+e.FileExtension())
}

// Emit generates the component class
func (e *ClassEmitter) Emit(ir *model.IR, opts Options) (string, error) {
	var sb strings.Builder

	sb.WriteString("# frozen_string_literal: true\n")
	for _, w := range ir.Warnings {
		sb.WriteString("# WARNING: " + oneLine(w) + "\n")
	}
	sb.WriteString("\n")

	className := naming.PascalCase(ir.Name) + "Component"
	sb.WriteString(wrapModules(modules(opts.Namespace), e.classBody(ir, className)))

	return sb.String(), nil
}

func (e *ClassEmitter) classBody(ir *model.IR, className string) string {
	var sb strings.Builder
	sb.WriteString("class " + className + " < ViewComponent::Base\n")

	sections := []string{
		e.slots(ir),
		e.readers(ir),
		e.initializer(ir),
	}
	sections = append(sections, e.helpers(ir)...)

	var nonEmpty []string
	for _, s := range sections {
		if s != "" {
			nonEmpty = append(nonEmpty, indent(s, 1))
		}
	}
	sb.WriteString(strings.Join(nonEmpty, "\n"))
	sb.WriteString("end\n")
	return sb.String()
}

func (e *ClassEmitter) slots(ir *model.IR) string {
	if len(ir.Slots) == 0 {
		if ir.HasChildren {
			return "renders_one :content\n"
		}
		return ""
	}
	var sb strings.Builder
	for _, s := range ir.Slots {
		sb.WriteString(fmt.Sprintf("%s :%s\n", s.Kind, slotName(s.Name)))
	}
	return sb.String()
}

// instanceProps returns the props stored as instance variables. Slot-backed
// props and children are filled through ViewComponent instead.
func instanceProps(ir *model.IR) []model.Prop {
	out := make([]model.Prop, 0, len(ir.Props))
	for _, p := range ir.Props {
		if p.Name == "children" || ir.SlotFor(p.Name) != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

// extraParams are the keyword arguments added for interactive and icon
// components, skipping names already declared as props.
func extraParams(ir *model.IR) []string {
	var names []string
	if ir.IsInteractive {
		names = append(names, "variant", "size")
	}
	if ir.IsIcon {
		names = append(names, "size", "color")
	}

	seen := map[string]bool{"html_class": true}
	for _, p := range ir.Props {
		seen[p.Name] = true
	}
	var out []string
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func (e *ClassEmitter) readers(ir *model.IR) string {
	var sb strings.Builder
	props := instanceProps(ir)
	ordered := append(requiredOf(props), optionalOf(props)...)
	if rest := restOf(props); rest != nil {
		ordered = append(ordered, *rest)
	}
	for _, p := range ordered {
		sb.WriteString("attr_reader :" + p.Name + "\n")
	}
	for _, n := range extraParams(ir) {
		sb.WriteString("attr_reader :" + n + "\n")
	}
	sb.WriteString("attr_reader :html_class\n")
	return sb.String()
}

func (e *ClassEmitter) initializer(ir *model.IR) string {
	props := instanceProps(ir)
	rest := restOf(props)

	var params []string
	for _, p := range requiredOf(props) {
		params = append(params, p.Name+":")
	}
	for _, p := range optionalOf(props) {
		params = append(params, p.Name+": "+p.Default())
	}
	for _, n := range extraParams(ir) {
		params = append(params, n+": nil")
	}
	params = append(params, "html_class: nil")
	if rest != nil {
		params = append(params, "**"+rest.Name)
	}

	var sb strings.Builder
	sb.WriteString("def initialize(" + strings.Join(params, ", ") + ")\n")
	for _, p := range props {
		sb.WriteString("  @" + p.Name + " = " + p.Name + "\n")
	}
	for _, n := range extraParams(ir) {
		sb.WriteString("  @" + n + " = " + n + "\n")
	}
	sb.WriteString("  @html_class = html_class\n")
	sb.WriteString("end\n")
	return sb.String()
}

func (e *ClassEmitter) helpers(ir *model.IR) []string {
	var out []string

	if ir.RestProp() != nil {
		out = append(out, `# Renders HTML attributes from rest props
def render_attributes(attrs)
  tag.attributes((attrs || {}).except(:content))
end
`)
	}

	if hasCollectionProp(ir) {
		out = append(out, `# Builds one component per item hash
def self.for_collection(collection, **options)
  collection.map { |item| new(**item.to_h.symbolize_keys, **options) }
end
`)
	}

	if ir.IsInteractive {
		out = append(out, "def base_classes\n  "+rubyClassString(ir.BaseClasses)+"\nend\n")
		if len(ir.Variants) > 0 {
			out = append(out, caseMethod("variant_classes", "variant", ir.Variants))
		}
		if len(ir.Sizes) > 0 {
			out = append(out, caseMethod("size_classes", "size", ir.Sizes))
		}
		if len(ir.Variants) > 0 || len(ir.Sizes) > 0 {
			parts := []string{"base_classes"}
			if len(ir.Variants) > 0 {
				parts = append(parts, "variant_classes")
			}
			if len(ir.Sizes) > 0 {
				parts = append(parts, "size_classes")
			}
			parts = append(parts, "html_class")
			out = append(out, "def class_names\n  ["+strings.Join(parts, ", ")+"].reject(&:blank?).join(\" \")\nend\n")
		}
		if strings.Contains(strings.ToLower(ir.Name), "button") {
			out = append(out, "def button_type\n  @type || \"button\"\nend\n")
		}
	}

	return out
}

// hasCollectionProp reports whether a constructor prop looks like a list of
// items. Props rendered through a slot are not constructor arguments.
func hasCollectionProp(ir *model.IR) bool {
	for _, p := range ir.Props {
		switch {
		case ir.SlotFor(p.Name) != nil:
			continue
		case p.Name == "items", p.Name == "collection", p.Name == "data":
			return true
		case p.Type == model.PropArray && strings.HasSuffix(p.Name, "s"):
			return true
		}
	}
	return false
}

func caseMethod(name, selector string, groups []model.ClassGroup) string {
	var sb strings.Builder
	sb.WriteString("def " + name + "\n")
	sb.WriteString("  case " + selector + ".to_s\n")
	for _, g := range groups {
		sb.WriteString("  when " + rubyString(g.Name) + " then " + rubyString(g.Classes) + "\n")
	}
	sb.WriteString("  else \"\"\n")
	sb.WriteString("  end\n")
	sb.WriteString("end\n")
	return sb.String()
}

// rubyClassString quotes a class list, turning embedded output directives
// into interpolation.
func rubyClassString(classes string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for {
		start := strings.Index(classes, "<%=")
		end := strings.Index(classes, "%>")
		if start < 0 || end < start {
			sb.WriteString(rubyStringBody(classes))
			break
		}
		sb.WriteString(rubyStringBody(classes[:start]))
		sb.WriteString("#{" + strings.TrimSpace(classes[start+3:end]) + "}")
		classes = classes[end+2:]
	}
	sb.WriteByte('"')
	return sb.String()
}

func rubyStringBody(s string) string {
	q := rubyString(s)
	return q[1 : len(q)-1]
}

func requiredOf(props []model.Prop) []model.Prop {
	var out []model.Prop
	for _, p := range props {
		if p.Required && !p.IsRest {
			out = append(out, p)
		}
	}
	return out
}

func optionalOf(props []model.Prop) []model.Prop {
	var out []model.Prop
	for _, p := range props {
		if !p.Required && !p.IsRest {
			out = append(out, p)
		}
	}
	return out
}

func restOf(props []model.Prop) *model.Prop {
	for i := range props {
		if props[i].IsRest {
			return &props[i]
		}
	}
	return nil
}

func indent(s string, level int) string {
	pad := strings.Repeat("  ", level)
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
