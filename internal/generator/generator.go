// Package generator builds the intermediate representation of a component
// from the extractor's output.
package generator

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/v0rails/v0rails/internal/ast"
	"github.com/v0rails/v0rails/internal/extractor"
	"github.com/v0rails/v0rails/internal/markup"
	"github.com/v0rails/v0rails/internal/naming"
	"github.com/v0rails/v0rails/pkg/model"
)

const (
	warnNoMarkup = "No JSX elements found in component"
	warnStateful = "Component uses state or effects, which may require manual Stimulus controller implementation"
)

// Options gates optional analysis
type Options struct {
	// DetectSlots maps slot-like props to ViewComponent slots.
	DetectSlots bool
}

// Generator converts ComponentInfo into IR
type Generator struct {
	logger zerolog.Logger
	opts   Options
}

// New creates a generator
func New(logger zerolog.Logger, opts Options) *Generator {
	return &Generator{logger: logger, opts: opts}
}

// Generate builds the IR for one component. It never fails: problems in the
// markup become warnings and placeholder HTML.
func (g *Generator) Generate(info *extractor.ComponentInfo) *model.IR {
	ir := &model.IR{
		Name:          info.Name,
		SnakeCaseName: naming.SnakeCase(info.Name),
		Props:         normalizeProps(info.Props),
		Events:        copyEvents(info.Events),
		Warnings:      append([]string{}, info.Warnings...),
		OriginalPath:  info.OriginalPath,
		NeedsStimulus: len(info.Events) > 0 || info.HasStateOrEffects,
	}

	var root ast.Markup
	if len(info.MarkupNodes) > 0 {
		root = info.MarkupNodes[0]
	}

	if root == nil {
		ir.Warnings = append(ir.Warnings, warnNoMarkup)
		ir.HTML = "<div><!-- TODO: " + warnNoMarkup + " --></div>"
	} else if res, err := render(root, ir.Props); err != nil {
		g.logger.Debug().Err(err).Str("component", ir.Name).Msg("markup transform failed")
		ir.Warnings = append(ir.Warnings, "Failed to transform JSX to HTML: "+err.Error())
		ir.HTML = "<div><!-- TODO: Failed to convert JSX to HTML: " + err.Error() + " --></div>"
	} else {
		ir.HTML = res.HTML
		ir.Warnings = append(ir.Warnings, res.Warnings...)
		ir.ComponentRefs = res.ComponentRefs
		ir.HasChildren = res.HasChildren
	}

	if info.HasStateOrEffects {
		ir.Warnings = append(ir.Warnings, warnStateful)
	}

	applyShape(ir)

	if g.opts.DetectSlots && root != nil {
		ir.Slots = detectSlots(root, ir)
	}

	g.logger.Debug().
		Str("component", ir.Name).
		Str("root", ir.RootTag).
		Bool("interactive", ir.IsInteractive).
		Bool("icon", ir.IsIcon).
		Int("slots", len(ir.Slots)).
		Msg("generated IR")

	return ir
}

// render runs the markup transformer, turning a panic into an error
func render(root ast.Markup, props []model.Prop) (res *markup.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%v", r)
		}
	}()
	return markup.Transform(root, props)
}

// normalizeProps copies props and moves the rest prop last
func normalizeProps(props []model.Prop) []model.Prop {
	out := make([]model.Prop, 0, len(props))
	var rest *model.Prop
	for _, p := range props {
		if p.Type == "" {
			p.Type = model.PropAny
		}
		if p.IsRest {
			r := p
			rest = &r
			continue
		}
		out = append(out, p)
	}
	if rest != nil {
		out = append(out, *rest)
	}
	return out
}

func copyEvents(events []model.EventBinding) []model.EventBinding {
	out := make([]model.EventBinding, len(events))
	for i, e := range events {
		params := e.Params
		if params == nil {
			params = []string{}
		}
		out[i] = model.EventBinding{Name: e.Name, Handler: e.Handler, Params: append([]string{}, params...)}
	}
	return out
}
