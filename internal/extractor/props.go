package extractor

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/v0rails/v0rails/internal/parser"
	"github.com/v0rails/v0rails/pkg/model"
)

// extractProps reads the props from the first parameter of fn
func extractProps(file *parser.ParsedFile, fn *sitter.Node) ([]model.Prop, []string) {
	var first *sitter.Node
	if p := fn.ChildByFieldName("parameter"); p != nil {
		first = p
	} else if params := parser.NamedChildren(fn.ChildByFieldName("parameters")); len(params) > 0 {
		first = params[0]
	}
	if first == nil {
		return nil, nil
	}

	var annotation *sitter.Node
	if first.Type() == "required_parameter" || first.Type() == "optional_parameter" {
		annotation = first.ChildByFieldName("type")
		first = first.ChildByFieldName("pattern")
		if first == nil {
			return nil, nil
		}
	}
	if first.Type() == "assignment_pattern" {
		first = first.ChildByFieldName("left")
	}

	switch first.Type() {
	case "identifier":
		return []model.Prop{{Name: "props", Type: model.PropObject, Required: true}}, nil
	case "object_pattern":
		return objectPatternProps(file, first, annotatedTypes(file, annotation))
	}
	return nil, nil
}

func objectPatternProps(file *parser.ParsedFile, pattern *sitter.Node, types map[string]annotated) ([]model.Prop, []string) {
	var props []model.Prop
	var warnings []string
	seen := map[string]bool{}

	add := func(p model.Prop) {
		if seen[p.Name] {
			warnings = append(warnings, fmt.Sprintf("Duplicate prop %s ignored", p.Name))
			return
		}
		seen[p.Name] = true
		props = append(props, p)
	}

	for _, entry := range parser.NamedChildren(pattern) {
		switch entry.Type() {
		case "shorthand_property_identifier_pattern":
			add(requiredProp(file.Text(entry), types))

		case "object_assignment_pattern":
			name := file.Text(entry.ChildByFieldName("left"))
			add(defaultedProp(file, name, entry.ChildByFieldName("right")))

		case "pair_pattern":
			name := strings.Trim(file.Text(entry.ChildByFieldName("key")), `"'`)
			value := entry.ChildByFieldName("value")
			if value != nil && value.Type() == "assignment_pattern" {
				add(defaultedProp(file, name, value.ChildByFieldName("right")))
			} else {
				add(requiredProp(name, types))
			}

		case "rest_pattern":
			inner := parser.NamedChildren(entry)
			if len(inner) == 0 {
				continue
			}
			add(model.Prop{Name: file.Text(inner[0]), Type: model.PropObject, IsRest: true})
		}
	}

	return props, warnings
}

func requiredProp(name string, types map[string]annotated) model.Prop {
	p := model.Prop{Name: name, Type: model.PropAny, Required: true}
	if t, ok := types[name]; ok {
		p.Type = t.typ
		p.Required = !t.optional
	}
	return p
}

func defaultedProp(file *parser.ParsedFile, name string, value *sitter.Node) model.Prop {
	typ, literal := normalizeDefault(file, value)
	return model.Prop{Name: name, Type: typ, DefaultValue: &literal}
}

// normalizeDefault converts a default value expression into a Ruby literal
func normalizeDefault(file *parser.ParsedFile, n *sitter.Node) (model.PropType, string) {
	if n == nil {
		return model.PropAny, "nil"
	}
	text := file.Text(n)

	switch n.Type() {
	case "string":
		return model.PropString, rubyString(text[1:len(text)-1], text[0] == '\'')
	case "template_string":
		for _, c := range parser.NamedChildren(n) {
			if c.Type() == "template_substitution" {
				return model.PropAny, text
			}
		}
		return model.PropString, rubyString(text[1:len(text)-1], true)
	case "number":
		return model.PropNumber, text
	case "unary_expression":
		arg := n.ChildByFieldName("argument")
		if file.Text(n.ChildByFieldName("operator")) == "-" && arg != nil && arg.Type() == "number" {
			return model.PropNumber, "-" + file.Text(arg)
		}
	case "true", "false":
		return model.PropBoolean, text
	case "null", "undefined":
		return model.PropAny, "nil"
	case "identifier":
		if text == "undefined" {
			return model.PropAny, "nil"
		}
	case "array":
		return model.PropArray, arrayLiteral(file, n)
	case "object":
		return model.PropObject, "{}"
	case "parenthesized_expression":
		if inner := parser.NamedChildren(n); len(inner) == 1 {
			return normalizeDefault(file, inner[0])
		}
	}

	return model.PropAny, text
}

// arrayLiteral converts an array of literals; anything else becomes [].
func arrayLiteral(file *parser.ParsedFile, n *sitter.Node) string {
	elems := parser.NamedChildren(n)
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		switch e.Type() {
		case "string", "number", "true", "false", "null", "unary_expression":
			typ, lit := normalizeDefault(file, e)
			if typ == model.PropAny && lit != "nil" {
				return "[]"
			}
			parts = append(parts, lit)
		default:
			return "[]"
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// rubyString renders raw string content as a double-quoted Ruby string.
// escapeQuotes is set when the source used a different quote character, so
// bare double quotes inside it need escaping.
func rubyString(raw string, escapeQuotes bool) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '\\' && i+1 < len(raw):
			if raw[i+1] == '\'' {
				sb.WriteByte('\'')
			} else {
				sb.WriteByte(c)
				sb.WriteByte(raw[i+1])
			}
			i++
		case c == '"' && escapeQuotes:
			sb.WriteString(`\"`)
		case c == '#' && i+1 < len(raw) && raw[i+1] == '{':
			sb.WriteString(`\#`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

type annotated struct {
	typ      model.PropType
	optional bool
}

// annotatedTypes reads an inline object type annotation such as
// { title: string; count?: number }.
func annotatedTypes(file *parser.ParsedFile, annotation *sitter.Node) map[string]annotated {
	types := map[string]annotated{}
	if annotation == nil {
		return types
	}

	var object *sitter.Node
	parser.Walk(annotation, func(n *sitter.Node) bool {
		if object != nil {
			return false
		}
		if n.Type() == "object_type" {
			object = n
			return false
		}
		return true
	})
	if object == nil {
		return types
	}

	for _, member := range parser.NamedChildren(object) {
		if member.Type() != "property_signature" {
			continue
		}
		name := strings.Trim(file.Text(member.ChildByFieldName("name")), `"'`)
		optional := false
		for i := 0; i < int(member.ChildCount()); i++ {
			if member.Child(i).Type() == "?" {
				optional = true
			}
		}

		typ := model.PropAny
		if ta := member.ChildByFieldName("type"); ta != nil {
			if inner := parser.NamedChildren(ta); len(inner) > 0 {
				typ = typeOf(file, inner[0])
			}
		}
		types[name] = annotated{typ: typ, optional: optional}
	}
	return types
}

func typeOf(file *parser.ParsedFile, t *sitter.Node) model.PropType {
	text := file.Text(t)
	switch t.Type() {
	case "predefined_type":
		switch text {
		case "string":
			return model.PropString
		case "number":
			return model.PropNumber
		case "boolean":
			return model.PropBoolean
		case "object":
			return model.PropObject
		}
	case "array_type", "tuple_type":
		return model.PropArray
	case "object_type":
		return model.PropObject
	case "generic_type":
		switch {
		case strings.HasPrefix(text, "Array<"), strings.HasPrefix(text, "ReadonlyArray<"):
			return model.PropArray
		case strings.HasPrefix(text, "Record<"):
			return model.PropObject
		}
	}
	return model.PropAny
}
