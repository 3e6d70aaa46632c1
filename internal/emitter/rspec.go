package emitter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/v0rails/v0rails/internal/generator"
	"github.com/v0rails/v0rails/internal/naming"
	"github.com/v0rails/v0rails/pkg/model"
)

// RSpecEmitter generates an RSpec component spec
type RSpecEmitter struct{}

func (e *RSpecEmitter) Name() string          { return "spec" }
func (e *RSpecEmitter) Language() string      { return "ruby" }
func (e *RSpecEmitter) FileExtension() string { return "_component_spec.rb" }

func (e *RSpecEmitter) Enabled(_ *model.IR, opts Options) bool { return opts.Tests }

func (e *RSpecEmitter) Path(ir *model.IR, opts Options) string {
	return filepath.Join(root(opts), "spec", "components", namespacePath(opts.Namespace), opts.Rel, ir.SnakeCaseName+e.FileExtension())
}

// Emit generates the spec file
func (e *RSpecEmitter) Emit(ir *model.IR, opts Options) (string, error) {
	var sb strings.Builder

	sb.WriteString(`# frozen_string_literal: true

require "rails_helper"

`)
	sb.WriteString(fmt.Sprintf("RSpec.describe %s, type: :component do\n", ComponentClass(ir.Name, opts.Namespace)))

	props := exampleProps(ir)
	for _, p := range props {
		sb.WriteString(fmt.Sprintf("  let(:%s) { %s }\n", p.Name, exampleValue(p)))
	}
	sb.WriteString(fmt.Sprintf("  let(:component) { %s }\n", newCall(keywordArgs(props))))

	root, _ := generator.RootTag(ir.HTML)
	if root == "" {
		root = "*"
	}

	sb.WriteString("\n")
	sb.WriteString(e.example("renders the component", "component", fmt.Sprintf("expect(page).to have_css(%q)", root)))

	if ControllerEnabled(ir, opts) {
		selector := fmt.Sprintf("[data-controller='%s']", naming.ControllerIdentifier(ir.Name))
		sb.WriteString("\n")
		sb.WriteString(e.example("attaches the Stimulus controller", "component", fmt.Sprintf("expect(page).to have_css(%q)", selector)))
	}

	if ir.HasChildren && len(ir.Slots) == 0 {
		sb.WriteString(`
  it "renders block content" do
    render_inline(component) { "Hello" }

    expect(page).to have_text("Hello")
  end
`)
	}

	for _, v := range ir.Variants {
		assertion := fmt.Sprintf("expect(page).to have_css(%q)", root)
		if class := plainClass(v.Classes); class != "" {
			assertion = fmt.Sprintf("expect(page).to have_css(%q)", "."+class)
		}
		build := newCall(keywordArgs(props, "variant: "+rubyString(v.Name)))
		sb.WriteString("\n")
		sb.WriteString(e.example("renders the "+v.Name+" variant", build, assertion))
	}

	sb.WriteString("end\n")
	return sb.String(), nil
}

func (e *RSpecEmitter) example(name, subject, assertion string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  it %q do\n", name))
	sb.WriteString(fmt.Sprintf("    render_inline(%s)\n\n", subject))
	sb.WriteString("    " + assertion + "\n")
	sb.WriteString("  end\n")
	return sb.String()
}

// exampleProps are the constructor props a scaffold passes explicitly
func exampleProps(ir *model.IR) []model.Prop {
	var out []model.Prop
	for _, p := range instanceProps(ir) {
		if !p.IsRest {
			out = append(out, p)
		}
	}
	return out
}

// exampleValue picks a Ruby value for a prop from its type
func exampleValue(p model.Prop) string {
	switch p.Type {
	case model.PropString:
		return rubyString("Test " + p.Name)
	case model.PropNumber:
		return "42"
	case model.PropBoolean:
		return "true"
	case model.PropArray:
		return "[]"
	case model.PropObject:
		return "{}"
	}
	return p.Default()
}

func keywordArgs(props []model.Prop, extra ...string) string {
	args := make([]string, 0, len(props)+len(extra))
	for _, p := range props {
		args = append(args, p.Name+": "+p.Name)
	}
	return strings.Join(append(args, extra...), ", ")
}

func newCall(args string) string {
	if args == "" {
		return "described_class.new"
	}
	return "described_class.new(" + args + ")"
}

// plainClass returns the first class usable as a CSS selector without
// escaping.
func plainClass(classes string) string {
	for _, c := range strings.Fields(classes) {
		if !strings.ContainsAny(c, ":/[]().%") {
			return c
		}
	}
	return ""
}
