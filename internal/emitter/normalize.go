package emitter

import (
	"regexp"
	"strings"
)

// segment is a run of code or a complete string literal
type segment struct {
	text    string
	literal bool
	// quote is the opening delimiter of a literal: ', " or `
	quote byte
}

// splitCode separates string and template literals from the rest of a JS
// expression. An unterminated literal runs to the end of the input.
func splitCode(code string) []segment {
	var out []segment
	start := 0
	for i := 0; i < len(code); i++ {
		q := code[i]
		if q != '"' && q != '\'' && q != '`' {
			continue
		}
		if i > start {
			out = append(out, segment{text: code[start:i]})
		}
		j := i + 1
		for j < len(code) && code[j] != q {
			if code[j] == '\\' {
				j++
			}
			j++
		}
		if j >= len(code) {
			j = len(code) - 1
		}
		out = append(out, segment{text: code[i : j+1], literal: true, quote: q})
		i = j
		start = j + 1
	}
	if start < len(code) {
		out = append(out, segment{text: code[start:]})
	}
	return out
}

var (
	strictEq   = regexp.MustCompile(`===`)
	strictNeq  = regexp.MustCompile(`!==`)
	nullish    = regexp.MustCompile(`(^|[^.\w$@])(null|undefined)\b`)
	optChain   = regexp.MustCompile(`\?\.(\D)`)
	coalesce   = regexp.MustCompile(`\?\?`)
	trailingOp = regexp.MustCompile(`\?\.$`)
)

// NormalizeJS rewrites JavaScript operators and literals in an embedded
// expression into their Ruby spelling. String contents are left alone.
func NormalizeJS(code string) string {
	var sb strings.Builder
	for _, seg := range splitCode(code) {
		if seg.literal {
			if seg.quote == '`' {
				sb.WriteString(templateLiteral(seg.text))
			} else {
				sb.WriteString(seg.text)
			}
			continue
		}
		s := strictEq.ReplaceAllString(seg.text, "==")
		s = strictNeq.ReplaceAllString(s, "!=")
		s = nullish.ReplaceAllString(s, "${1}nil")
		s = coalesce.ReplaceAllString(s, "||")
		s = optChain.ReplaceAllString(s, "&.$1")
		s = trailingOp.ReplaceAllString(s, "&.")
		sb.WriteString(s)
	}
	return sb.String()
}

// templateLiteral converts `a ${b}` into "a #{b}"
func templateLiteral(lit string) string {
	body := strings.TrimSuffix(strings.TrimPrefix(lit, "`"), "`")

	var sb strings.Builder
	sb.WriteByte('"')
	for len(body) > 0 {
		start := strings.Index(body, "${")
		if start < 0 {
			sb.WriteString(escapeRubyString(body))
			break
		}
		sb.WriteString(escapeRubyString(body[:start]))
		end := closingBrace(body, start+2)
		if end < 0 {
			sb.WriteString(escapeRubyString(body[start:]))
			break
		}
		sb.WriteString("#{" + NormalizeJS(body[start+2:end]) + "}")
		body = body[end+1:]
	}
	sb.WriteByte('"')
	return sb.String()
}

func escapeRubyString(s string) string {
	s = strings.ReplaceAll(s, `\`+"`", "`")
	s = strings.ReplaceAll(s, `"`, `\"`)
	return strings.ReplaceAll(s, "#{", `\#{`)
}

// closingBrace finds the brace closing the one opened before from
func closingBrace(s string, from int) int {
	depth := 1
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

var (
	propBraces = regexp.MustCompile(`\{\s*(?:props\.)?([A-Za-z_$][\w$]*)\s*\}`)

	mapCall = regexp.MustCompile(`^(@?[\w.&]+)\.map\(\s*\(?\s*([A-Za-z_$][\w$]*)(?:\s*,\s*([A-Za-z_$][\w$]*))?\s*\)?\s*=>\s*(.+)\)$`)

	arrowCall = regexp.MustCompile(`\.(filter|some|every|forEach|find|map|findIndex)\(\s*\(?\s*([A-Za-z_$][\w$]*)\s*\)?\s*=>\s*([^()]*(?:\([^()]*\)[^()]*)*)\)`)

	methodRenames = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`\.includes\(`), ".include?("},
		{regexp.MustCompile(`\.startsWith\(`), ".start_with?("},
		{regexp.MustCompile(`\.endsWith\(`), ".end_with?("},
		{regexp.MustCompile(`\.toUpperCase\(\)`), ".upcase"},
		{regexp.MustCompile(`\.toLowerCase\(\)`), ".downcase"},
		{regexp.MustCompile(`\.trim\(\)`), ".strip"},
		{regexp.MustCompile(`\.toString\(\)`), ".to_s"},
	}

	blockMethods = map[string]string{
		"filter":    "select",
		"some":      "any?",
		"every":     "all?",
		"forEach":   "each",
		"find":      "find",
		"map":       "map",
		"findIndex": "index",
	}

	simpleOperand = regexp.MustCompile(`^@?[A-Za-z_$][\w$]*(?:(?:\.|&\.)[A-Za-z_$][\w$?]*)*(?:\(\))?$`)
)

// enhanceText replaces {prop} and {props.prop} left in literal text with
// output directives.
func enhanceText(s string, isProp func(string) bool) string {
	return mapOutside(s, func(part string) string {
		return propBraces.ReplaceAllStringFunc(part, func(m string) string {
			name := propBraces.FindStringSubmatch(m)[1]
			if !isProp(name) {
				return m
			}
			return "<%= @" + name + " %>"
		})
	})
}

// enhanceCode rewrites common JavaScript idioms in directive code into Ruby
func enhanceCode(code string) string {
	code = arrowCall.ReplaceAllStringFunc(code, func(m string) string {
		sub := arrowCall.FindStringSubmatch(m)
		return "." + blockMethods[sub[1]] + " { |" + sub[2] + "| " + strings.TrimSpace(sub[3]) + " }"
	})

	var sb strings.Builder
	for _, seg := range splitCode(code) {
		if seg.literal {
			sb.WriteString(seg.text)
			continue
		}
		s := seg.text
		for _, r := range methodRenames {
			s = r.re.ReplaceAllString(s, r.repl)
		}
		sb.WriteString(s)
	}
	return concatToInterpolation(sb.String())
}

// concatToInterpolation turns "a" + b + "c" into "a#{b}c" when every
// operand is a string literal or a simple reference.
func concatToInterpolation(code string) string {
	parts := splitTopLevel(code, '+')
	if len(parts) < 2 {
		return code
	}
	hasLiteral := false
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if isStringLiteral(p) {
			hasLiteral = true
			continue
		}
		if !simpleOperand.MatchString(p) {
			return code
		}
	}
	if !hasLiteral {
		return code
	}

	var sb strings.Builder
	sb.WriteByte('"')
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if isStringLiteral(p) {
			inner := p[1 : len(p)-1]
			if p[0] == '\'' {
				inner = strings.ReplaceAll(inner, `\'`, `'`)
				inner = strings.ReplaceAll(inner, `"`, `\"`)
			}
			sb.WriteString(strings.ReplaceAll(inner, "#{", `\#{`))
			continue
		}
		sb.WriteString("#{" + p + "}")
	}
	sb.WriteByte('"')
	return sb.String()
}

func isStringLiteral(s string) bool {
	if len(s) < 2 {
		return false
	}
	segs := splitCode(s)
	return len(segs) == 1 && segs[0].literal && segs[0].quote != '`' && s[len(s)-1] == s[0]
}

// splitTopLevel splits code on sep outside literals, parentheses,
// brackets and braces.
func splitTopLevel(code string, sep byte) []string {
	var parts []string
	var cur strings.Builder
	depth := 0
	for _, seg := range splitCode(code) {
		if seg.literal {
			cur.WriteString(seg.text)
			continue
		}
		for i := 0; i < len(seg.text); i++ {
			c := seg.text[i]
			switch c {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth--
			}
			if c == sep && depth == 0 {
				// leave += and ++ alone
				if i+1 < len(seg.text) && (seg.text[i+1] == '=' || seg.text[i+1] == sep) {
					return []string{code}
				}
				parts = append(parts, cur.String())
				cur.Reset()
				continue
			}
			cur.WriteByte(c)
		}
	}
	return append(parts, cur.String())
}

// enhanceLoop converts an output directive holding recv.map(x => expr) into
// an each loop. ok is false when code is not such a call.
func enhanceLoop(code string) (head, body string, ok bool) {
	m := mapCall.FindStringSubmatch(strings.TrimSpace(code))
	if m == nil {
		return "", "", false
	}
	recv, item, index, expr := m[1], m[2], m[3], strings.TrimSpace(m[4])
	if index != "" {
		head = recv + ".each_with_index do |" + item + ", " + index + "|"
	} else {
		head = recv + ".each do |" + item + "|"
	}
	return head, expr, true
}
