package ast

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// EventName returns the DOM event for an on<Capitalized> attribute name:
// onClick -> click, onKeyDown -> keydown.
func EventName(attr string) (string, bool) {
	if len(attr) <= 2 || !strings.HasPrefix(attr, "on") {
		return "", false
	}
	r, _ := utf8.DecodeRuneInString(attr[2:])
	if !unicode.IsUpper(r) {
		return "", false
	}
	return strings.ToLower(attr[2:]), true
}

// Handler resolves the handler name and parameters bound by an event
// attribute value. An identifier is used as is, a member access uses its
// property, and an inline function whose body calls an identifier uses the
// callee; anything else gets the synthetic name <event>Handler.
func Handler(value AttrValue, event string) (string, []string) {
	synthetic := event + "Handler"

	ev, ok := value.(*ExprValue)
	if !ok || ev.Expr == nil {
		return synthetic, []string{}
	}

	switch e := ev.Expr.(type) {
	case *Ident:
		return e.Name, []string{}
	case *Member:
		if !e.Computed {
			return e.Property, []string{}
		}
	case *Func:
		params := make([]string, 0, len(e.Params))
		for _, p := range e.Params {
			if p.Pattern {
				params = append(params, "param")
			} else {
				params = append(params, p.Name)
			}
		}
		if call, isCall := e.Body.(*Call); isCall {
			switch callee := call.Callee.(type) {
			case *Ident:
				return callee.Name, params
			case *Member:
				if !callee.Computed {
					return callee.Property, params
				}
			}
		}
		return synthetic, params
	}

	return synthetic, []string{}
}
