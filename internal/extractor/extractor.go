// Package extractor locates the component function in a parsed source file
// and collects what the later stages need: props, markup roots, event
// bindings, hook usage and warnings.
package extractor

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/v0rails/v0rails/internal/ast"
	"github.com/v0rails/v0rails/internal/naming"
	"github.com/v0rails/v0rails/internal/parser"
	"github.com/v0rails/v0rails/pkg/model"
)

// ComponentInfo is everything extracted from one source file. It is built
// once by Extract and not modified afterwards.
type ComponentInfo struct {
	Name              string
	Props             []model.Prop
	MarkupNodes       []ast.Markup
	HasStateOrEffects bool
	Events            []model.EventBinding
	Hooks             []string
	Warnings          []string
	OriginalPath      string
}

// ExtractionError is returned when a file has no function that renders markup
type ExtractionError struct {
	Path string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not identify a component in %s", e.Path)
}

// Extractor extracts component information from parsed files
type Extractor struct {
	logger zerolog.Logger
}

// New creates an extractor
func New(logger zerolog.Logger) *Extractor {
	return &Extractor{logger: logger}
}

var hookName = regexp.MustCompile(`^use[A-Z]`)

var stateHooks = map[string]bool{
	"useState":        true,
	"useReducer":      true,
	"useEffect":       true,
	"useLayoutEffect": true,
}

var advancedFeatures = map[string]bool{
	"useContext":    true,
	"createContext": true,
	"Suspense":      true,
	"lazy":          true,
	"memo":          true,
	"forwardRef":    true,
}

// candidate is a function that may be the component
type candidate struct {
	name string
	fn   *sitter.Node
	// decl spans the whole declaration, used for nesting checks
	decl *sitter.Node
}

// Extract builds the ComponentInfo for a parsed file
func (x *Extractor) Extract(file *parser.ParsedFile) (*ComponentInfo, error) {
	info := &ComponentInfo{
		OriginalPath: file.Path,
		Props:        []model.Prop{},
		Events:       []model.EventBinding{},
		Hooks:        []string{},
		Warnings:     []string{},
	}

	if file.HasErrors {
		info.Warnings = append(info.Warnings, "Source contains syntax errors; output may be incomplete")
	}

	root := file.Root()
	var component *candidate
	for _, c := range x.candidates(file, root) {
		body := c.fn.ChildByFieldName("body")
		if body == nil || !parser.ContainsMarkup(body) {
			continue
		}
		if component == nil {
			cc := c
			component = &cc
			continue
		}
		if within(c.decl, component.decl) {
			continue
		}
		name := c.name
		if name == "" {
			name = "(anonymous)"
		}
		info.Warnings = append(info.Warnings,
			fmt.Sprintf("Additional component %s found; only %s is converted", name, componentName(component, file.Path)))
	}

	if component == nil {
		// A declaration broken by a syntax error ends up inside an ERROR
		// node. Its markup is still usable, so name the component after the
		// file and convert that.
		if !file.HasErrors || !parser.ContainsMarkup(root) {
			return nil, &ExtractionError{Path: file.Path}
		}
		component = &candidate{decl: root}
		info.Warnings = append(info.Warnings,
			fmt.Sprintf("No component declaration recognized; using markup found in %s", filepath.Base(file.Path)))
	}

	info.Name = componentName(component, file.Path)

	body := root
	if component.fn != nil {
		props, warnings := extractProps(file, component.fn)
		info.Props = append(info.Props, props...)
		info.Warnings = append(info.Warnings, warnings...)
		body = component.fn.ChildByFieldName("body")
	}

	hooks, stateful := detectHooks(file, body)
	info.Hooks = hooks
	info.HasStateOrEffects = stateful
	for _, h := range hooks {
		info.Warnings = append(info.Warnings,
			fmt.Sprintf("Component uses React hook: %s. This may require manual conversion.", h))
	}

	for _, feature := range advancedImports(file, root) {
		info.Warnings = append(info.Warnings,
			fmt.Sprintf("Component uses advanced React feature: %s. Manual conversion may be required.", feature))
	}

	// Every markup occurrence is recorded, nested ones included. The first
	// is the root; events are collected from the outermost ones.
	var outermost []ast.Markup
	parser.Walk(root, func(n *sitter.Node) bool {
		if !parser.IsMarkup(n) {
			return true
		}
		top := file.Markup(n)
		outermost = append(outermost, top)
		parser.Walk(n, func(c *sitter.Node) bool {
			switch {
			case c.Equal(n):
				info.MarkupNodes = append(info.MarkupNodes, top)
			case parser.IsMarkup(c):
				info.MarkupNodes = append(info.MarkupNodes, file.Markup(c))
			}
			return true
		})
		return false
	})
	if len(info.MarkupNodes) > 1 {
		info.Warnings = append(info.Warnings,
			"Multiple JSX elements found, using heuristics to identify the root element")
	}

	info.Events = collectEvents(outermost)

	x.logger.Debug().
		Str("file", file.Path).
		Str("component", info.Name).
		Int("props", len(info.Props)).
		Int("events", len(info.Events)).
		Int("warnings", len(info.Warnings)).
		Msg("component extracted")

	return info, nil
}

func componentName(c *candidate, path string) string {
	if c.name != "" {
		return c.name
	}
	base := filepath.Base(path)
	return naming.PascalCase(strings.TrimSuffix(base, filepath.Ext(base)))
}

// candidates lists every function declaration, function-valued variable and
// anonymous default export in document order.
func (x *Extractor) candidates(file *parser.ParsedFile, root *sitter.Node) []candidate {
	var out []candidate
	parser.Walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "function_declaration", "generator_function_declaration":
			out = append(out, candidate{name: file.Text(n.ChildByFieldName("name")), fn: n, decl: n})

		case "variable_declarator":
			name := n.ChildByFieldName("name")
			if name == nil || name.Type() != "identifier" {
				break
			}
			if fn := functionValue(file, n.ChildByFieldName("value")); fn != nil {
				out = append(out, candidate{name: file.Text(name), fn: fn, decl: n})
			}

		case "export_statement":
			if fn := functionValue(file, n.ChildByFieldName("value")); fn != nil {
				out = append(out, candidate{fn: fn, decl: n})
			}
		}
		return true
	})
	return out
}

// functionValue returns the function behind v, looking through memo and
// forwardRef wrappers.
func functionValue(file *parser.ParsedFile, v *sitter.Node) *sitter.Node {
	for v != nil {
		switch v.Type() {
		case "arrow_function", "function_expression", "function":
			return v
		case "parenthesized_expression":
			inner := parser.NamedChildren(v)
			if len(inner) != 1 {
				return nil
			}
			v = inner[0]
		case "call_expression":
			if !isWrapper(file, v.ChildByFieldName("function")) {
				return nil
			}
			args := parser.NamedChildren(v.ChildByFieldName("arguments"))
			if len(args) == 0 {
				return nil
			}
			v = args[0]
		default:
			return nil
		}
	}
	return nil
}

func isWrapper(file *parser.ParsedFile, callee *sitter.Node) bool {
	if callee == nil {
		return false
	}
	name := file.Text(callee)
	switch callee.Type() {
	case "identifier":
		return name == "memo" || name == "forwardRef"
	case "member_expression":
		return name == "React.memo" || name == "React.forwardRef"
	}
	return false
}

func within(inner, outer *sitter.Node) bool {
	return inner.StartByte() >= outer.StartByte() && inner.EndByte() <= outer.EndByte()
}

// detectHooks lists the distinct hooks called in body in first-call order.
func detectHooks(file *parser.ParsedFile, body *sitter.Node) ([]string, bool) {
	hooks := []string{}
	seen := map[string]bool{}
	stateful := false

	parser.Walk(body, func(n *sitter.Node) bool {
		if n.Type() != "call_expression" {
			return true
		}
		callee := n.ChildByFieldName("function")
		if callee == nil {
			return true
		}

		var name string
		switch callee.Type() {
		case "identifier":
			name = file.Text(callee)
		case "member_expression":
			if file.Text(callee.ChildByFieldName("object")) == "React" {
				name = file.Text(callee.ChildByFieldName("property"))
			}
		}
		if !hookName.MatchString(name) {
			return true
		}
		if stateHooks[name] {
			stateful = true
		}
		if !seen[name] {
			seen[name] = true
			hooks = append(hooks, name)
		}
		return true
	})

	return hooks, stateful
}

// advancedImports lists named imports from 'react' that have no direct
// server-rendered equivalent.
func advancedImports(file *parser.ParsedFile, root *sitter.Node) []string {
	var out []string
	for _, stmt := range parser.NamedChildren(root) {
		if stmt.Type() != "import_statement" {
			continue
		}
		source := stmt.ChildByFieldName("source")
		if source == nil || strings.Trim(file.Text(source), `"'`) != "react" {
			continue
		}
		parser.Walk(stmt, func(n *sitter.Node) bool {
			if n.Type() != "import_specifier" {
				return true
			}
			name := file.Text(n.ChildByFieldName("name"))
			if advancedFeatures[name] {
				out = append(out, name)
			}
			return false
		})
	}
	return out
}

// collectEvents gathers event bindings from every element reachable from the
// markup roots, dropping repeats of the same event and handler.
func collectEvents(roots []ast.Markup) []model.EventBinding {
	events := []model.EventBinding{}
	seen := map[string]bool{}

	for _, root := range roots {
		ast.WalkElements(root, func(el *ast.Element) {
			for _, a := range el.Attrs {
				attr, ok := a.(*ast.NamedAttr)
				if !ok {
					continue
				}
				event, ok := ast.EventName(attr.Name)
				if !ok {
					continue
				}
				handler, params := ast.Handler(attr.Value, event)
				key := event + "\x00" + handler
				if seen[key] {
					continue
				}
				seen[key] = true
				events = append(events, model.EventBinding{Name: event, Handler: handler, Params: params})
			}
		})
	}

	return events
}
