// Package emitter renders the artifacts of a converted component from its IR
package emitter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/v0rails/v0rails/internal/naming"
	"github.com/v0rails/v0rails/pkg/model"
)

// Options controls which artifacts are produced and where they go
type Options struct {
	// Dest is the component root, e.g. app/components.
	Dest string
	// Root is the host project root for controllers, specs and helpers.
	Root string
	// Rel is the source directory relative to the hierarchy base; empty
	// unless the source hierarchy is preserved.
	Rel       string
	Namespace string

	Stimulus    bool
	Tests       bool
	Helpers     bool
	Previews    bool
	EnhancedERB bool
	Slots       bool
}

// Emitter renders one artifact kind for a component
type Emitter interface {
	// Name returns the artifact kind (e.g. "class", "template")
	Name() string

	// Language returns the target language
	Language() string

	// FileExtension returns the artifact file suffix (e.g. "_component.rb")
	FileExtension() string

	// Enabled reports whether the artifact is produced for ir
	Enabled(ir *model.IR, opts Options) bool

	// Path returns the output path of the artifact
	Path(ir *model.IR, opts Options) string

	// Emit renders the artifact. It must not modify ir.
	Emit(ir *model.IR, opts Options) (string, error)
}

// Registry holds the artifact emitters in emission order
type Registry struct {
	emitters map[string]Emitter
	order    []string
}

// NewRegistry creates a registry with all built-in emitters
func NewRegistry() *Registry {
	r := &Registry{
		emitters: make(map[string]Emitter),
	}

	r.Register(&ClassEmitter{})
	r.Register(&TemplateEmitter{})
	r.Register(&ControllerEmitter{})
	r.Register(&RSpecEmitter{})
	r.Register(&PreviewEmitter{})
	r.Register(&HelperEmitter{})

	return r
}

// Register adds an emitter to the registry, replacing one of the same name
func (r *Registry) Register(e Emitter) {
	if _, exists := r.emitters[e.Name()]; !exists {
		r.order = append(r.order, e.Name())
	}
	r.emitters[e.Name()] = e
}

// Get returns an emitter by name
func (r *Registry) Get(name string) (Emitter, error) {
	e, ok := r.emitters[name]
	if !ok {
		return nil, fmt.Errorf("emitter not found: %s", name)
	}
	return e, nil
}

// List returns all registered emitter names in emission order
func (r *Registry) List() []string {
	return append([]string(nil), r.order...)
}

// Enabled returns the emitters that produce an artifact for ir
func (r *Registry) Enabled(ir *model.IR, opts Options) []Emitter {
	var out []Emitter
	for _, name := range r.order {
		if e := r.emitters[name]; e.Enabled(ir, opts) {
			out = append(out, e)
		}
	}
	return out
}

// EmitAll renders every enabled artifact for ir
func (r *Registry) EmitAll(ir *model.IR, opts Options) ([]model.Artifact, error) {
	var artifacts []model.Artifact
	for _, e := range r.Enabled(ir, opts) {
		content, err := e.Emit(ir, opts)
		if err != nil {
			return nil, fmt.Errorf("%s emitter: %w", e.Name(), err)
		}
		artifacts = append(artifacts, model.Artifact{
			Kind:    e.Name(),
			Path:    e.Path(ir, opts),
			Content: content,
		})
	}
	return artifacts, nil
}

// ControllerEnabled reports whether a Stimulus controller is generated and
// bound for ir.
func ControllerEnabled(ir *model.IR, opts Options) bool {
	return opts.Stimulus && (ir.NeedsStimulus || ir.IsInteractive)
}

// ComponentClass returns the fully qualified Ruby class, e.g. Ui::CardComponent
func ComponentClass(name, namespace string) string {
	return strings.Join(append(modules(namespace), naming.PascalCase(name)+"Component"), "::")
}

// modules splits a namespace such as "admin::ui" into Ruby module names
func modules(namespace string) []string {
	var out []string
	for _, part := range strings.Split(namespace, "::") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, naming.PascalCase(part))
		}
	}
	return out
}

// namespacePath returns the directory for a namespace, e.g. Admin::Ui -> admin/ui
func namespacePath(namespace string) string {
	parts := modules(namespace)
	for i, p := range parts {
		parts[i] = naming.SnakeCase(p)
	}
	return filepath.Join(parts...)
}

func root(opts Options) string {
	if opts.Root == "" {
		return "."
	}
	return opts.Root
}

// wrapModules nests body inside module declarations, indenting it two
// spaces per level.
func wrapModules(names []string, body string) string {
	var sb strings.Builder
	for i, name := range names {
		sb.WriteString(strings.Repeat("  ", i) + "module " + name + "\n")
	}
	indent := strings.Repeat("  ", len(names))
	for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
		if line == "" {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(indent + line + "\n")
	}
	for i := len(names) - 1; i >= 0; i-- {
		sb.WriteString(strings.Repeat("  ", i) + "end\n")
	}
	return sb.String()
}
