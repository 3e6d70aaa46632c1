// Package naming converts identifiers between the casing conventions used by
// JSX components, Ruby classes and files, and Stimulus controller identifiers.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words splits an identifier into its words. Separators (_ - . / and spaces)
// always split; an uppercase letter splits when it follows a lowercase letter
// or digit, or when it ends an acronym ("HTMLButton" -> HTML, Button).
func Words(s string) []string {
	runes := []rune(s)
	words := make([]string, 0, 4)
	cur := make([]rune, 0, len(runes))

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == '.' || r == '/' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r):
			if len(cur) > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					flush()
				}
			}
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()

	return words
}

// SnakeCase converts an identifier to lower snake case: TodoList -> todo_list.
func SnakeCase(s string) string {
	return joinLower(Words(s), "_")
}

// KebabCase converts an identifier to lower kebab case: TodoList -> todo-list.
func KebabCase(s string) string {
	return joinLower(Words(s), "-")
}

// PascalCase converts an identifier to upper camel case: todo_list -> TodoList.
// Existing capitals inside a word are kept, so PascalCase is the identity on
// PascalCase input.
func PascalCase(s string) string {
	caser := cases.Title(language.Und, cases.NoLower)

	var sb strings.Builder
	for _, w := range Words(s) {
		sb.WriteString(caser.String(w))
	}
	return sb.String()
}

// CamelCase converts an identifier to lower camel case: todo_list -> todoList.
func CamelCase(s string) string {
	p := []rune(PascalCase(s))
	if len(p) == 0 {
		return ""
	}
	p[0] = unicode.ToLower(p[0])
	return string(p)
}

// ControllerIdentifier returns the Stimulus identifier for a component name.
// Stimulus derives identifiers from controller file names by replacing
// underscores with dashes, so todo_list_controller.js registers "todo-list".
func ControllerIdentifier(name string) string {
	return KebabCase(name)
}

func joinLower(words []string, sep string) string {
	lowered := make([]string, len(words))
	for i, w := range words {
		lowered[i] = strings.ToLower(w)
	}
	return strings.Join(lowered, sep)
}
