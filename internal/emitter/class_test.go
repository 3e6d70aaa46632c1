package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0rails/v0rails/pkg/model"
)

func strPtr(s string) *string { return &s }

func TestClassEmitter_Card(t *testing.T) {
	ir := &model.IR{
		Name:          "Card",
		SnakeCaseName: "card",
		Props: []model.Prop{
			{Name: "title", Type: model.PropAny, Required: true},
			{Name: "description", Type: model.PropString, DefaultValue: strPtr(`"Hi"`)},
			{Name: "rest", Type: model.PropObject, IsRest: true},
		},
		Warnings: []string{"Multiple JSX elements found"},
	}

	out, err := (&ClassEmitter{}).Emit(ir, Options{Namespace: "ui"})
	require.NoError(t, err)

	want := `# frozen_string_literal: true
# WARNING: Multiple JSX elements found

module Ui
  class CardComponent < ViewComponent::Base
    attr_reader :title
    attr_reader :description
    attr_reader :rest
    attr_reader :html_class

    def initialize(title:, description: "Hi", html_class: nil, **rest)
      @title = title
      @description = description
      @rest = rest
      @html_class = html_class
    end

    # Renders HTML attributes from rest props
    def render_attributes(attrs)
      tag.attributes((attrs || {}).except(:content))
    end
  end
end
`
	assert.Equal(t, want, out)
}

func TestClassEmitter_Interactive(t *testing.T) {
	ir := &model.IR{
		Name:          "PrimaryButton",
		SnakeCaseName: "primary_button",
		Props:         []model.Prop{{Name: "label", Type: model.PropAny, Required: true}},
		IsInteractive: true,
		Variants:      []model.ClassGroup{{Name: "primary", Classes: "bg-primary hover:bg-primary-700"}},
		BaseClasses:   "px-4 rounded",
	}

	out, err := (&ClassEmitter{}).Emit(ir, Options{Namespace: "ui"})
	require.NoError(t, err)

	assert.Contains(t, out, "    def initialize(label:, variant: nil, size: nil, html_class: nil)\n")
	assert.Contains(t, out, "    attr_reader :variant\n    attr_reader :size\n")
	assert.Contains(t, out, "      \"px-4 rounded\"\n")
	assert.Contains(t, out, "      case variant.to_s\n      when \"primary\" then \"bg-primary hover:bg-primary-700\"\n      else \"\"\n")
	assert.Contains(t, out, `[base_classes, variant_classes, html_class].reject(&:blank?).join(" ")`)
	assert.NotContains(t, out, "size_classes")
	assert.Contains(t, out, "def button_type")
}

func TestClassEmitter_ExtrasSkipDeclaredProps(t *testing.T) {
	ir := &model.IR{
		Name:          "Link",
		SnakeCaseName: "link",
		Props:         []model.Prop{{Name: "size", Type: model.PropString, DefaultValue: strPtr(`"md"`)}},
		IsInteractive: true,
	}
	out, err := (&ClassEmitter{}).Emit(ir, Options{})
	require.NoError(t, err)

	assert.Contains(t, out, "def initialize(size: \"md\", variant: nil, html_class: nil)")
	assert.NotContains(t, out, "def button_type")
	// no namespace: class at top level
	assert.Contains(t, out, "\nclass LinkComponent < ViewComponent::Base\n")
}

func TestClassEmitter_Icon(t *testing.T) {
	ir := &model.IR{Name: "CheckIcon", SnakeCaseName: "check_icon", IsIcon: true}
	out, err := (&ClassEmitter{}).Emit(ir, Options{Namespace: "ui"})
	require.NoError(t, err)

	assert.Contains(t, out, "def initialize(size: nil, color: nil, html_class: nil)")
	assert.Contains(t, out, "@color = color")
}

func TestClassEmitter_Slots(t *testing.T) {
	ir := &model.IR{
		Name:          "Panel",
		SnakeCaseName: "panel",
		Props: []model.Prop{
			{Name: "header", Type: model.PropAny, Required: true},
			{Name: "items", Type: model.PropAny, Required: true},
			{Name: "footerSlot", Type: model.PropAny, Required: true},
			{Name: "title", Type: model.PropAny, Required: true},
		},
		Slots: []model.Slot{
			{Name: "header", Kind: model.RendersOne},
			{Name: "items", Kind: model.RendersMany},
			{Name: "footerSlot", Kind: model.RendersOne},
		},
		HasChildren: true,
	}
	out, err := (&ClassEmitter{}).Emit(ir, Options{Namespace: "ui"})
	require.NoError(t, err)

	assert.Contains(t, out, "    renders_one :header\n    renders_many :items\n    renders_one :footer_slot\n")
	assert.NotContains(t, out, "renders_one :content")
	assert.NotContains(t, out, "attr_reader :header")
	assert.Contains(t, out, "def initialize(title:, html_class: nil)")
	// items became a renders_many slot, so there is no collection keyword
	assert.NotContains(t, out, "for_collection")
}

func TestClassEmitter_ContentSlotForChildren(t *testing.T) {
	ir := &model.IR{
		Name:          "Box",
		SnakeCaseName: "box",
		Props:         []model.Prop{{Name: "children", Type: model.PropAny, Required: true}},
		HasChildren:   true,
	}
	out, err := (&ClassEmitter{}).Emit(ir, Options{})
	require.NoError(t, err)

	assert.Contains(t, out, "renders_one :content")
	assert.NotContains(t, out, "attr_reader :children")
	assert.Contains(t, out, "def initialize(html_class: nil)")
}

func TestHasCollectionProp(t *testing.T) {
	tests := []struct {
		prop model.Prop
		want bool
	}{
		{model.Prop{Name: "items"}, true},
		{model.Prop{Name: "data"}, true},
		{model.Prop{Name: "todos", Type: model.PropArray}, true},
		{model.Prop{Name: "todos", Type: model.PropAny}, false},
		{model.Prop{Name: "title", Type: model.PropArray}, false},
	}
	for _, tt := range tests {
		ir := &model.IR{Props: []model.Prop{tt.prop}}
		assert.Equal(t, tt.want, hasCollectionProp(ir), tt.prop.Name)
	}

	slotted := &model.IR{
		Props: []model.Prop{{Name: "items", Type: model.PropArray}},
		Slots: []model.Slot{{Name: "items", Kind: model.RendersMany}},
	}
	assert.False(t, hasCollectionProp(slotted))
}

func TestRubyClassString(t *testing.T) {
	assert.Equal(t, `"px-4 #{@cls}"`, rubyClassString("px-4 <%= @cls %>"))
	assert.Equal(t, `"say \"hi\""`, rubyClassString(`say "hi"`))
	assert.Equal(t, `""`, rubyClassString(""))
}
