package emitter

import (
	"path/filepath"
	"strings"

	"github.com/v0rails/v0rails/internal/naming"
	"github.com/v0rails/v0rails/pkg/model"
)

// PreviewEmitter generates a ViewComponent preview
type PreviewEmitter struct{}

func (e *PreviewEmitter) Name() string          { return "preview" }
func (e *PreviewEmitter) Language() string      { return "ruby" }
func (e *PreviewEmitter) FileExtension() string { return "_component_preview.rb" }

func (e *PreviewEmitter) Enabled(_ *model.IR, opts Options) bool { return opts.Previews }

func (e *PreviewEmitter) Path(ir *model.IR, opts Options) string {
	return filepath.Join(root(opts), "spec", "components", "previews", namespacePath(opts.Namespace), opts.Rel, ir.SnakeCaseName+e.FileExtension())
}

// Emit generates one preview method for the default rendering and one per
// detected variant.
func (e *PreviewEmitter) Emit(ir *model.IR, opts Options) (string, error) {
	component := ComponentClass(ir.Name, opts.Namespace)

	args := make([]string, 0, len(ir.Props))
	for _, p := range exampleProps(ir) {
		args = append(args, p.Name+": "+previewValue(p))
	}

	var methods []string
	methods = append(methods, previewMethod("default", component, args, ir))
	for _, v := range ir.Variants {
		methods = append(methods, previewMethod(naming.SnakeCase(v.Name), component, append(args[:len(args):len(args)], "variant: "+rubyString(v.Name)), ir))
	}

	var body strings.Builder
	body.WriteString("class " + naming.PascalCase(ir.Name) + "ComponentPreview < ViewComponent::Preview\n")
	body.WriteString(indent(strings.Join(methods, "\n"), 1))
	body.WriteString("end\n")

	return "# frozen_string_literal: true\n\n" + wrapModules(modules(opts.Namespace), body.String()), nil
}

func previewMethod(name, component string, args []string, ir *model.IR) string {
	call := "render(" + component + ".new)"
	if len(args) > 0 {
		call = "render(" + component + ".new(" + strings.Join(args, ", ") + "))"
	}
	if ir.HasChildren && len(ir.Slots) == 0 {
		call += " { " + rubyString(ir.Name+" content") + " }"
	}
	return "def " + name + "\n  " + call + "\nend\n"
}

// previewValue is a readable sample value for a prop
func previewValue(p model.Prop) string {
	if p.DefaultValue != nil {
		return *p.DefaultValue
	}
	switch p.Type {
	case model.PropString, model.PropAny:
		words := naming.Words(p.Name)
		if len(words) == 0 {
			return `""`
		}
		words[0] = naming.PascalCase(words[0])
		for i := 1; i < len(words); i++ {
			words[i] = strings.ToLower(words[i])
		}
		return rubyString(strings.Join(words, " "))
	}
	return exampleValue(p)
}
