// Package model defines the intermediate representation of a converted
// component. The IR is produced once per source file by the generator and
// consumed, read-only, by every artifact emitter.
package model

// PropType is the inferred type of a component prop.
type PropType string

const (
	PropString  PropType = "string"
	PropNumber  PropType = "number"
	PropBoolean PropType = "boolean"
	PropArray   PropType = "array"
	PropObject  PropType = "object"
	PropAny     PropType = "any"
)

// Prop is one declared component parameter.
type Prop struct {
	Name string   `json:"name" yaml:"name"`
	Type PropType `json:"type" yaml:"type"`
	// Required is false when a default value or rest capture is present.
	Required bool `json:"required" yaml:"required"`
	// DefaultValue holds the default as a Ruby literal, or nil when none was declared.
	DefaultValue *string `json:"defaultValue" yaml:"defaultValue"`
	IsRest       bool    `json:"isRest" yaml:"isRest"`
}

// Default returns the Ruby default for the prop, "nil" when none was declared.
func (p Prop) Default() string {
	if p.DefaultValue == nil {
		return "nil"
	}
	return *p.DefaultValue
}

// EventBinding is a DOM event handler bound in markup, e.g. onClick={handleClick}.
type EventBinding struct {
	Name    string   `json:"name" yaml:"name"`
	Handler string   `json:"handler" yaml:"handler"`
	Params  []string `json:"params" yaml:"params"`
}

// SlotKind is the ViewComponent slot declaration used for a slot.
type SlotKind string

const (
	RendersOne  SlotKind = "renders_one"
	RendersMany SlotKind = "renders_many"
)

// Slot is a content projection point detected in the markup.
type Slot struct {
	Name string   `json:"name" yaml:"name"`
	Kind SlotKind `json:"kind" yaml:"kind"`
}

// ComponentRef records a nested component used in the markup. Index is the
// position of its opening tag among all opening tags of IR.HTML.
type ComponentRef struct {
	Name        string    `json:"name" yaml:"name"`
	Tag         string    `json:"tag" yaml:"tag"`
	Index       int       `json:"index" yaml:"index"`
	SelfClosing bool      `json:"selfClosing" yaml:"selfClosing"`
	Props       []RefProp `json:"props,omitempty" yaml:"props,omitempty"`
}

// RefProp is a keyword argument passed to a nested component. Value is a
// Ruby expression; Splat marks a **hash argument produced by a JSX spread.
type RefProp struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
	Splat bool   `json:"splat,omitempty" yaml:"splat,omitempty"`
}

// ClassGroup names a styling variant or size and the root classes that carry it.
type ClassGroup struct {
	Name    string `json:"name" yaml:"name"`
	Classes string `json:"classes" yaml:"classes"`
}

// IR is the normalized, generator-agnostic model of one component.
type IR struct {
	Name          string         `json:"name" yaml:"name"`
	SnakeCaseName string         `json:"snakeCaseName" yaml:"snakeCaseName"`
	Props         []Prop         `json:"props" yaml:"props"`
	Events        []EventBinding `json:"events" yaml:"events"`
	// HTML is never empty: failed conversions carry a placeholder with a diagnostic comment.
	HTML          string   `json:"html" yaml:"html"`
	Warnings      []string `json:"warnings" yaml:"warnings"`
	NeedsStimulus bool     `json:"needsStimulus" yaml:"needsStimulus"`
	OriginalPath  string   `json:"originalPath" yaml:"originalPath"`

	// Shape, derived from the name and rendered markup.
	RootTag       string         `json:"rootTag,omitempty" yaml:"rootTag,omitempty"`
	IsInteractive bool           `json:"isInteractive" yaml:"isInteractive"`
	IsIcon        bool           `json:"isIcon" yaml:"isIcon"`
	Variants      []ClassGroup   `json:"variants,omitempty" yaml:"variants,omitempty"`
	Sizes         []ClassGroup   `json:"sizes,omitempty" yaml:"sizes,omitempty"`
	BaseClasses   string         `json:"baseClasses,omitempty" yaml:"baseClasses,omitempty"`
	HasChildren   bool           `json:"hasChildren" yaml:"hasChildren"`
	Slots         []Slot         `json:"slots,omitempty" yaml:"slots,omitempty"`
	ComponentRefs []ComponentRef `json:"componentRefs,omitempty" yaml:"componentRefs,omitempty"`
}

// RequiredProps returns the required, non-rest props in declaration order.
func (ir *IR) RequiredProps() []Prop {
	return ir.filterProps(func(p Prop) bool { return p.Required && !p.IsRest })
}

// OptionalProps returns the optional, non-rest props in declaration order.
func (ir *IR) OptionalProps() []Prop {
	return ir.filterProps(func(p Prop) bool { return !p.Required && !p.IsRest })
}

// RestProp returns the rest prop, or nil.
func (ir *IR) RestProp() *Prop {
	for i := range ir.Props {
		if ir.Props[i].IsRest {
			return &ir.Props[i]
		}
	}
	return nil
}

// HasProp reports whether name is a declared prop.
func (ir *IR) HasProp(name string) bool {
	for _, p := range ir.Props {
		if p.Name == name {
			return true
		}
	}
	return false
}

// SlotFor returns the slot backed by the prop name, or nil.
func (ir *IR) SlotFor(name string) *Slot {
	for i := range ir.Slots {
		if ir.Slots[i].Name == name {
			return &ir.Slots[i]
		}
	}
	return nil
}

// HasWarnings reports whether conversion recorded any warning.
func (ir *IR) HasWarnings() bool {
	return len(ir.Warnings) > 0
}

func (ir *IR) filterProps(keep func(Prop) bool) []Prop {
	out := make([]Prop, 0, len(ir.Props))
	for _, p := range ir.Props {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
