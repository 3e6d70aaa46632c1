package emitter

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/v0rails/v0rails/internal/naming"
	"github.com/v0rails/v0rails/pkg/model"
)

// ControllerEmitter generates the Stimulus controller of a component
type ControllerEmitter struct{}

func (e *ControllerEmitter) Name() string          { return "controller" }
func (e *ControllerEmitter) Language() string      { return "javascript" }
func (e *ControllerEmitter) FileExtension() string { return "_controller.js" }

func (e *ControllerEmitter) Enabled(ir *model.IR, opts Options) bool {
	return ControllerEnabled(ir, opts)
}

func (e *ControllerEmitter) Path(ir *model.IR, opts Options) string {
	return filepath.Join(root(opts), "app", "javascript", "controllers", opts.Rel, ir.SnakeCaseName+e.FileExtension())
}

// category stubs keyed by substrings of the component name
var categories = []struct {
	keywords []string
	methods  []controllerMethod
}{
	{
		keywords: []string{"button"},
		methods: []controllerMethod{
			{name: "toggleActive", body: `toggleActive(event) {
  this.element.classList.toggle("active")
}`},
			{name: "setLoading", body: `setLoading(isLoading = true) {
  this.element.classList.toggle("loading", isLoading)
  this.element.toggleAttribute("disabled", isLoading)
}`},
		},
	},
	{
		keywords: []string{"input", "field"},
		methods: []controllerMethod{
			{name: "clear", body: `clear() {
  const input = this.element.querySelector("input, textarea")
  if (input) input.value = ""
}`},
			{name: "setValidationState", body: `setValidationState(state) {
  this.element.classList.remove("is-valid", "is-invalid")
  if (state === "valid") this.element.classList.add("is-valid")
  if (state === "invalid") this.element.classList.add("is-invalid")
}`},
		},
	},
	{
		keywords: []string{"dropdown", "menu"},
		methods: []controllerMethod{
			{name: "toggle", body: `toggle(event) {
  event?.preventDefault()
  this.element.classList.contains("is-open") ? this.close() : this.open()
}`},
			{name: "open", body: `open() {
  this.element.classList.add("is-open")
}`},
			{name: "close", body: `close() {
  this.element.classList.remove("is-open")
}`},
		},
	},
}

type controllerMethod struct {
	name string
	body string
}

// Emit generates the controller module
func (e *ControllerEmitter) Emit(ir *model.IR, opts Options) (string, error) {
	id := naming.ControllerIdentifier(ir.Name)

	var methods []controllerMethod
	seen := map[string]bool{"connect": true, "disconnect": true}
	add := func(m controllerMethod) {
		if seen[m.name] {
			return
		}
		seen[m.name] = true
		methods = append(methods, m)
	}

	for _, m := range eventMethods(ir.Events, id) {
		add(m)
	}
	if len(ir.Events) == 0 && ir.IsInteractive {
		add(controllerMethod{name: "click", body: `click(event) {
  console.log("click event triggered", event)
}`})
	}

	lower := strings.ToLower(ir.Name)
	for _, c := range categories {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				for _, m := range c.methods {
					add(m)
				}
				break
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("import { Controller } from \"@hotwired/stimulus\"\n\n")
	sb.WriteString("// Connects to data-controller=\"" + id + "\"\n")
	sb.WriteString("export default class extends Controller {\n")
	sb.WriteString("  connect() {\n  }\n\n")
	sb.WriteString("  disconnect() {\n  }\n")
	for _, m := range methods {
		sb.WriteString("\n")
		sb.WriteString(indent(m.body, 1))
	}
	sb.WriteString("}\n")

	return sb.String(), nil
}

// eventMethods builds one action per distinct event. Each action dispatches
// on the handler-param the template attaches to the bound element.
func eventMethods(events []model.EventBinding, id string) []controllerMethod {
	var order []string
	handlers := map[string][]string{}
	for _, ev := range events {
		if _, ok := handlers[ev.Name]; !ok {
			order = append(order, ev.Name)
			handlers[ev.Name] = nil
		}
		if !slices.Contains(handlers[ev.Name], ev.Handler) {
			handlers[ev.Name] = append(handlers[ev.Name], ev.Handler)
		}
	}

	methods := make([]controllerMethod, 0, len(order))
	for _, name := range order {
		param := naming.CamelCase(name + "_handler")
		var sb strings.Builder
		sb.WriteString(name + "(event) {\n")
		sb.WriteString("  switch (event.params." + param + ") {\n")
		for _, h := range handlers[name] {
			sb.WriteString("    case \"" + h + "\":\n")
			sb.WriteString("      // TODO: port " + h + " from the React component\n")
			sb.WriteString("      break\n")
		}
		sb.WriteString("    default:\n")
		sb.WriteString("      console.log(\"" + id + "#" + name + "\", event)\n")
		sb.WriteString("  }\n")
		sb.WriteString("}")
		methods = append(methods, controllerMethod{name: name, body: sb.String()})
	}
	return methods
}

