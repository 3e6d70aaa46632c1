package emitter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/v0rails/v0rails/internal/naming"
	"github.com/v0rails/v0rails/pkg/model"
)

// HelperEmitter generates a Rails view helper wrapping the component
type HelperEmitter struct{}

func (e *HelperEmitter) Name() string          { return "helper" }
func (e *HelperEmitter) Language() string      { return "ruby" }
func (e *HelperEmitter) FileExtension() string { return "_helper.rb" }

func (e *HelperEmitter) Enabled(_ *model.IR, opts Options) bool { return opts.Helpers }

func (e *HelperEmitter) Path(ir *model.IR, opts Options) string {
	return filepath.Join(root(opts), "app", "helpers", namespacePath(opts.Namespace), opts.Rel, ir.SnakeCaseName+e.FileExtension())
}

// Emit generates helper methods shaped by the component kind
func (e *HelperEmitter) Emit(ir *model.IR, opts Options) (string, error) {
	component := ComponentClass(ir.Name, opts.Namespace)

	var methods []string
	switch {
	case ir.IsInteractive:
		methods = interactiveHelpers(ir, component)
	case ir.IsIcon:
		methods = iconHelpers(ir, component)
	default:
		methods = basicHelpers(ir, component)
	}

	var body strings.Builder
	body.WriteString("module " + naming.PascalCase(ir.Name) + "Helper\n")
	body.WriteString(indent(strings.Join(methods, "\n"), 1))
	body.WriteString("end\n")

	return "# frozen_string_literal: true\n\n" + wrapModules(modules(opts.Namespace), body.String()), nil
}

func interactiveHelpers(ir *model.IR, component string) []string {
	name := ir.SnakeCaseName
	render := fmt.Sprintf(`render(%s.new(**options)) do
    block_given? ? capture(&block) : text
  end`, component)

	methods := []string{fmt.Sprintf(`# Renders a %s component
def %s(text = nil, **options, &block)
  %s
end
`, ir.Name, name, render)}

	for _, v := range ir.Variants {
		methods = append(methods, fmt.Sprintf(`# Renders the %s variant of %s
def %s_%s(text = nil, **options, &block)
  options[:variant] = %s
  %s
end
`, v.Name, ir.Name, name, naming.SnakeCase(v.Name), rubyString(v.Name), render))
	}
	for _, s := range ir.Sizes {
		methods = append(methods, fmt.Sprintf(`# Renders a %s %s
def %s_%s(text = nil, **options, &block)
  options[:size] = %s
  %s
end
`, s.Name, ir.Name, name, naming.SnakeCase(s.Name), rubyString(s.Name), render))
	}
	return methods
}

func iconHelpers(ir *model.IR, component string) []string {
	name := ir.SnakeCaseName
	return []string{
		fmt.Sprintf(`# Renders the %s icon
#
# @option options [String] :size
# @option options [String] :color
# @option options [String] :html_class
def %s(**options)
  render(%s.new(**options))
end
`, ir.Name, name, component),
		fmt.Sprintf(`# Renders the %s icon at a given size
def %s_sized(size, **options)
  render(%s.new(size: size, **options))
end
`, ir.Name, name, component),
	}
}

func basicHelpers(ir *model.IR, component string) []string {
	name := ir.SnakeCaseName
	return []string{
		fmt.Sprintf(`# Renders the %s component
def %s(**options)
  render(%s.new(**options))
end
`, ir.Name, name, component),
		fmt.Sprintf(`# Renders the %s component with a content block
def %s_with_content(**options, &block)
  render(%s.new(**options)) do
    capture(&block)
  end
end
`, ir.Name, name, component),
	}
}
