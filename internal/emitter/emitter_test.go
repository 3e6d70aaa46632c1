package emitter

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/v0rails/v0rails/pkg/model"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry returned nil")
	}

	expected := []string{"class", "template", "controller", "spec", "preview", "helper"}
	if got := r.List(); !reflect.DeepEqual(got, expected) {
		t.Errorf("List() = %v, want %v", got, expected)
	}

	for _, name := range expected {
		if _, err := r.Get(name); err != nil {
			t.Errorf("emitter %s not found: %v", name, err)
		}
	}
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()

	e, err := r.Get("template")
	if err != nil {
		t.Fatalf("failed to get template emitter: %v", err)
	}
	if e.Name() != "template" {
		t.Errorf("expected template, got %s", e.Name())
	}

	if _, err := r.Get("nonexistent"); err == nil {
		t.Error("expected error for nonexistent emitter")
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(&ClassEmitter{})
	if got := len(r.List()); got != 6 {
		t.Errorf("expected 6 emitters after re-registering, got %d", got)
	}
}

func TestRegistry_Enabled(t *testing.T) {
	r := NewRegistry()
	ir := &model.IR{Name: "Card", SnakeCaseName: "card", NeedsStimulus: true}

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"defaults", Options{}, []string{"class", "template"}},
		{"stimulus", Options{Stimulus: true}, []string{"class", "template", "controller"}},
		{"everything", Options{Stimulus: true, Tests: true, Previews: true, Helpers: true},
			[]string{"class", "template", "controller", "spec", "preview", "helper"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, e := range r.Enabled(ir, tt.opts) {
				got = append(got, e.Name())
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestControllerEnabled(t *testing.T) {
	tests := []struct {
		ir   model.IR
		opts Options
		want bool
	}{
		{model.IR{NeedsStimulus: true}, Options{Stimulus: true}, true},
		{model.IR{IsInteractive: true}, Options{Stimulus: true}, true},
		{model.IR{}, Options{Stimulus: true}, false},
		{model.IR{NeedsStimulus: true}, Options{}, false},
	}
	for _, tt := range tests {
		if got := ControllerEnabled(&tt.ir, tt.opts); got != tt.want {
			t.Errorf("ControllerEnabled(%+v, %+v) = %v, want %v", tt.ir, tt.opts, got, tt.want)
		}
	}
}

func TestPaths(t *testing.T) {
	r := NewRegistry()
	ir := &model.IR{Name: "TodoList", SnakeCaseName: "todo_list"}
	opts := Options{Dest: "app/components", Root: "/proj", Rel: "forms", Namespace: "Admin::Ui"}

	expected := map[string]string{
		"class":      "app/components/admin/ui/forms/todo_list_component.rb",
		"template":   "app/components/admin/ui/forms/todo_list_component.html.erb",
		"controller": "/proj/app/javascript/controllers/forms/todo_list_controller.js",
		"spec":       "/proj/spec/components/admin/ui/forms/todo_list_component_spec.rb",
		"preview":    "/proj/spec/components/previews/admin/ui/forms/todo_list_component_preview.rb",
		"helper":     "/proj/app/helpers/admin/ui/forms/todo_list_helper.rb",
	}

	for name, want := range expected {
		e, err := r.Get(name)
		if err != nil {
			t.Fatal(err)
		}
		if got := e.Path(ir, opts); got != filepath.FromSlash(want) {
			t.Errorf("%s path = %s, want %s", name, got, want)
		}
	}
}

func TestPaths_DefaultRoot(t *testing.T) {
	ir := &model.IR{Name: "Card", SnakeCaseName: "card"}
	got := (&ControllerEmitter{}).Path(ir, Options{})
	if want := filepath.FromSlash("app/javascript/controllers/card_controller.js"); got != want {
		t.Errorf("Path() = %s, want %s", got, want)
	}
}

func TestComponentClass(t *testing.T) {
	tests := []struct {
		name, namespace, want string
	}{
		{"Card", "ui", "Ui::CardComponent"},
		{"TodoList", "admin::ui", "Admin::Ui::TodoListComponent"},
		{"Card", "", "CardComponent"},
	}
	for _, tt := range tests {
		if got := ComponentClass(tt.name, tt.namespace); got != tt.want {
			t.Errorf("ComponentClass(%q, %q) = %s, want %s", tt.name, tt.namespace, got, tt.want)
		}
	}
}

func TestWrapModules(t *testing.T) {
	got := wrapModules([]string{"Admin", "Ui"}, "class X\n\nend\n")
	want := "module Admin\n  module Ui\n    class X\n\n    end\n  end\nend\n"
	if got != want {
		t.Errorf("wrapModules() =\n%s\nwant\n%s", got, want)
	}
}

func TestEmitAll_DoesNotMutateIR(t *testing.T) {
	ir := &model.IR{
		Name:          "Card",
		SnakeCaseName: "card",
		Props:         []model.Prop{{Name: "title", Type: model.PropAny, Required: true}},
		Events:        []model.EventBinding{{Name: "click", Handler: "onClick", Params: []string{}}},
		HTML:          `<div><button data-action="click->onClick"><%= @title %></button></div>`,
		Warnings:      []string{"note"},
		NeedsStimulus: true,
		RootTag:       "div",
	}
	before := *ir
	before.Props = append([]model.Prop(nil), ir.Props...)
	before.Events = append([]model.EventBinding(nil), ir.Events...)
	before.Warnings = append([]string(nil), ir.Warnings...)

	artifacts, err := NewRegistry().EmitAll(ir, Options{Stimulus: true, Tests: true, Previews: true, Helpers: true, EnhancedERB: true, Namespace: "ui"})
	if err != nil {
		t.Fatalf("EmitAll() error: %v", err)
	}
	if len(artifacts) != 6 {
		t.Errorf("expected 6 artifacts, got %d", len(artifacts))
	}
	if !reflect.DeepEqual(*ir, before) {
		t.Errorf("IR mutated by emitters:\n%+v\nwant\n%+v", *ir, before)
	}
	for _, a := range artifacts {
		if a.Content == "" || a.Path == "" {
			t.Errorf("artifact %s is empty", a.Kind)
		}
	}
}
