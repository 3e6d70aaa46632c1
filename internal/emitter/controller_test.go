package emitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0rails/v0rails/pkg/model"
)

func TestControllerEmitter_Card(t *testing.T) {
	ir := &model.IR{
		Name:          "Card",
		SnakeCaseName: "card",
		Events:        []model.EventBinding{{Name: "click", Handler: "onClick"}},
		NeedsStimulus: true,
	}

	out, err := (&ControllerEmitter{}).Emit(ir, Options{Stimulus: true})
	require.NoError(t, err)

	want := `import { Controller } from "@hotwired/stimulus"

// Connects to data-controller="card"
export default class extends Controller {
  connect() {
  }

  disconnect() {
  }

  click(event) {
    switch (event.params.clickHandler) {
      case "onClick":
        // TODO: port onClick from the React component
        break
      default:
        console.log("card#click", event)
    }
  }
}
`
	assert.Equal(t, want, out)
}

func TestControllerEmitter_DedupesHandlers(t *testing.T) {
	ir := &model.IR{
		Name: "TodoList",
		Events: []model.EventBinding{
			{Name: "click", Handler: "toggle"},
			{Name: "change", Handler: "setText"},
			{Name: "click", Handler: "toggle"},
			{Name: "click", Handler: "remove"},
		},
		NeedsStimulus: true,
	}

	out, err := (&ControllerEmitter{}).Emit(ir, Options{Stimulus: true})
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "  click(event) {"))
	assert.Equal(t, 1, strings.Count(out, `case "toggle":`))
	assert.Contains(t, out, `case "remove":`)
	assert.Contains(t, out, "switch (event.params.changeHandler)")
	assert.Contains(t, out, `// Connects to data-controller="todo-list"`)
	assert.Less(t, strings.Index(out, "click(event)"), strings.Index(out, "change(event)"))
}

func TestControllerEmitter_InteractiveButton(t *testing.T) {
	ir := &model.IR{Name: "SubmitButton", IsInteractive: true}

	out, err := (&ControllerEmitter{}).Emit(ir, Options{Stimulus: true})
	require.NoError(t, err)

	assert.Contains(t, out, "  click(event) {\n    console.log(\"click event triggered\", event)\n  }\n")
	assert.Contains(t, out, "  toggleActive(event) {")
	assert.Contains(t, out, "  setLoading(isLoading = true) {")
	assert.NotContains(t, out, "setValidationState")
}

func TestControllerEmitter_CategoryStubsOnce(t *testing.T) {
	ir := &model.IR{Name: "DropdownMenu", NeedsStimulus: true}
	out, err := (&ControllerEmitter{}).Emit(ir, Options{Stimulus: true})
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "  toggle(event) {"))
	assert.Equal(t, 1, strings.Count(out, "  open() {"))
	assert.Equal(t, 1, strings.Count(out, "  close() {"))
}

func TestControllerEmitter_EventNamedLikeStub(t *testing.T) {
	ir := &model.IR{
		Name:          "Menu",
		Events:        []model.EventBinding{{Name: "toggle", Handler: "onToggle"}},
		NeedsStimulus: true,
	}
	out, err := (&ControllerEmitter{}).Emit(ir, Options{Stimulus: true})
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "toggle(event) {"))
	assert.Contains(t, out, "event.params.toggleHandler")
	assert.Contains(t, out, "  open() {")
}

func TestControllerEmitter_ReservedNames(t *testing.T) {
	ir := &model.IR{
		Name:          "Widget",
		Events:        []model.EventBinding{{Name: "connect", Handler: "onConnect"}},
		NeedsStimulus: true,
	}
	out, err := (&ControllerEmitter{}).Emit(ir, Options{Stimulus: true})
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "  connect() {"))
	assert.NotContains(t, out, "connect(event)")
}
