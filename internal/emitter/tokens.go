package emitter

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	textToken tokenKind = iota
	tagToken
	directiveToken
	commentToken
)

// token is one lexical unit of an ERB template
type token struct {
	kind tokenKind
	// text is the raw text, the comment body or the trimmed directive code
	text string
	// mark is the directive marker: "=", "#" or "" for control code
	mark string
	tag  *tag
}

type tag struct {
	name        string
	closing     bool
	selfClosing bool
	attrs       []attr
	// ordinal is the position among the opening tags of the lexed template;
	// tags created by a pass carry -1.
	ordinal int
}

// attr is a tag attribute or, when code is set, a bare directive inside the
// tag such as <%= render_attributes(@rest) %>.
type attr struct {
	name     string
	value    string
	hasValue bool
	quote    byte

	code string
	mark string
}

func (a *attr) isDirective() bool { return a.name == "" && a.code != "" }

func directive(mark, code string) token {
	return token{kind: directiveToken, mark: mark, text: strings.TrimSpace(code)}
}

func text(s string) token {
	return token{kind: textToken, text: s}
}

func (t *tag) attr(name string) *attr {
	for i := range t.attrs {
		if t.attrs[i].name == name {
			return &t.attrs[i]
		}
	}
	return nil
}

// set replaces the value of name or appends the attribute
func (t *tag) set(name, value string) {
	if a := t.attr(name); a != nil {
		a.value = value
		a.hasValue = true
		a.quote = '"'
		return
	}
	t.attrs = append(t.attrs, attr{name: name, value: value, hasValue: true, quote: '"'})
}

func (t *tag) opening() bool { return !t.closing }

// lex splits an ERB template into tokens. Malformed input degrades to text.
func lex(src string) []token {
	l := &lexer{src: src}
	l.run()
	return l.tokens
}

type lexer struct {
	src     string
	pos     int
	ordinal int
	tokens  []token
	textAt  int
}

func (l *lexer) run() {
	l.textAt = 0
	for l.pos < len(l.src) {
		rest := l.src[l.pos:]
		switch {
		case strings.HasPrefix(rest, "<%"):
			end := strings.Index(rest, "%>")
			if end < 0 {
				l.pos = len(l.src)
				continue
			}
			l.flushText()
			mark, code := splitDirective(rest[2:end])
			l.tokens = append(l.tokens, directive(mark, code))
			l.pos += end + 2
			l.textAt = l.pos

		case strings.HasPrefix(rest, "<!--"):
			end := strings.Index(rest[4:], "-->")
			if end < 0 {
				l.pos = len(l.src)
				continue
			}
			l.flushText()
			l.tokens = append(l.tokens, token{kind: commentToken, text: rest[4 : 4+end]})
			l.pos += 4 + end + 3
			l.textAt = l.pos

		case startsTag(rest):
			start := l.pos
			t, ok := l.tag()
			if !ok {
				l.pos = start + 1
				continue
			}
			end := l.pos
			l.pos = start
			l.flushText()
			l.tokens = append(l.tokens, token{kind: tagToken, tag: t})
			l.pos, l.textAt = end, end

		default:
			l.pos++
		}
	}
	l.flushText()
}

func (l *lexer) flushText() {
	if l.pos > l.textAt {
		l.tokens = append(l.tokens, text(l.src[l.textAt:l.pos]))
	}
	l.textAt = l.pos
}

func startsTag(s string) bool {
	if len(s) < 2 || s[0] != '<' {
		return false
	}
	c := s[1]
	if c == '/' && len(s) > 2 {
		c = s[2]
	}
	return isLetter(c)
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isNameByte(c byte) bool {
	return isLetter(c) || c >= '0' && c <= '9' || c == '-' || c == '_' || c == ':' || c == '.'
}

// tag scans the tag at l.pos. On failure the position is undefined and the
// caller rewinds.
func (l *lexer) tag() (*tag, bool) {
	s := l.src
	i := l.pos + 1
	t := &tag{ordinal: -1}
	if s[i] == '/' {
		t.closing = true
		i++
	}
	start := i
	for i < len(s) && isNameByte(s[i]) {
		i++
	}
	t.name = s[start:i]

	for {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			return nil, false
		}
		switch {
		case s[i] == '>':
			l.pos = i + 1
			if !t.closing {
				t.ordinal = l.ordinal
				l.ordinal++
			}
			return t, true

		case strings.HasPrefix(s[i:], "/>"):
			t.selfClosing = true
			l.pos = i + 2
			t.ordinal = l.ordinal
			l.ordinal++
			return t, true

		case strings.HasPrefix(s[i:], "<%"):
			end := strings.Index(s[i:], "%>")
			if end < 0 {
				return nil, false
			}
			mark, code := splitDirective(s[i+2 : i+end])
			t.attrs = append(t.attrs, attr{code: code, mark: mark})
			i += end + 2

		default:
			nameStart := i
			for i < len(s) && !isSpace(s[i]) && s[i] != '=' && s[i] != '>' && !strings.HasPrefix(s[i:], "/>") {
				i++
			}
			if i == nameStart {
				// stray character such as a lone '/'
				i++
				continue
			}
			a := attr{name: s[nameStart:i]}
			if i < len(s) && s[i] == '=' {
				i++
				value, next, quote, ok := attrValue(s, i)
				if !ok {
					return nil, false
				}
				a.value, a.hasValue, a.quote = value, true, quote
				i = next
			}
			t.attrs = append(t.attrs, a)
		}
	}
}

// attrValue scans a quoted or bare value starting at i. Quotes inside ERB
// directives do not terminate a quoted value.
func attrValue(s string, i int) (value string, next int, quote byte, ok bool) {
	if i >= len(s) {
		return "", i, 0, false
	}
	if q := s[i]; q == '"' || q == '\'' {
		j := i + 1
		for j < len(s) {
			if strings.HasPrefix(s[j:], "<%") {
				end := strings.Index(s[j:], "%>")
				if end < 0 {
					return "", j, 0, false
				}
				j += end + 2
				continue
			}
			if s[j] == q {
				return s[i+1 : j], j + 1, q, true
			}
			j++
		}
		return "", j, 0, false
	}

	j := i
	for j < len(s) && !isSpace(s[j]) && s[j] != '>' {
		if strings.HasPrefix(s[j:], "<%") {
			end := strings.Index(s[j:], "%>")
			if end < 0 {
				return "", j, 0, false
			}
			j += end + 2
			continue
		}
		j++
	}
	return s[i:j], j, '"', true
}

func isSpace(c byte) bool {
	return unicode.IsSpace(rune(c))
}

// splitDirective separates the marker from the code of <%...%> contents
func splitDirective(inner string) (mark, code string) {
	inner = strings.TrimSuffix(inner, "-")
	switch {
	case strings.HasPrefix(inner, "=="):
		return "==", strings.TrimSpace(inner[2:])
	case strings.HasPrefix(inner, "="), strings.HasPrefix(inner, "#"):
		return inner[:1], strings.TrimSpace(inner[1:])
	case strings.HasPrefix(inner, "-"):
		return "", strings.TrimSpace(inner[1:])
	}
	return "", strings.TrimSpace(inner)
}

func renderDirective(mark, code string) string {
	if code == "" {
		return "<%" + mark + " %>"
	}
	return "<%" + mark + " " + code + " %>"
}

func (t *tag) String() string {
	if t.closing {
		return "</" + t.name + ">"
	}
	var sb strings.Builder
	sb.WriteString("<" + t.name)
	for _, a := range t.attrs {
		sb.WriteByte(' ')
		if a.isDirective() {
			sb.WriteString(renderDirective(a.mark, a.code))
			continue
		}
		sb.WriteString(a.name)
		if a.hasValue {
			q := a.quote
			if q == 0 {
				q = '"'
			}
			sb.WriteByte('=')
			sb.WriteByte(q)
			sb.WriteString(a.value)
			sb.WriteByte(q)
		}
	}
	if t.selfClosing {
		sb.WriteString(" />")
	} else {
		sb.WriteString(">")
	}
	return sb.String()
}

func (t token) String() string {
	switch t.kind {
	case tagToken:
		return t.tag.String()
	case directiveToken:
		return renderDirective(t.mark, t.text)
	case commentToken:
		return "<!--" + t.text + "-->"
	}
	return t.text
}

// render concatenates tokens without formatting
func render(tokens []token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.String())
	}
	return sb.String()
}

// mapDirectives applies fn to the code of every output and control
// directive, including directives embedded in attribute values.
func mapDirectives(tokens []token, fn func(code string) string) {
	for i := range tokens {
		t := &tokens[i]
		switch t.kind {
		case directiveToken:
			if t.mark != "#" {
				t.text = fn(t.text)
			}
		case tagToken:
			for j := range t.tag.attrs {
				a := &t.tag.attrs[j]
				if a.isDirective() {
					if a.mark != "#" {
						a.code = fn(a.code)
					}
					continue
				}
				if a.hasValue {
					a.value = mapEmbedded(a.value, fn)
				}
			}
		}
	}
}

// mapEmbedded rewrites the code of directives inside s, leaving the
// surrounding text untouched.
func mapEmbedded(s string, fn func(code string) string) string {
	if !strings.Contains(s, "<%") {
		return s
	}
	var sb strings.Builder
	for {
		start := strings.Index(s, "<%")
		if start < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		end := strings.Index(s[start:], "%>")
		if end < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		sb.WriteString(s[:start])
		mark, code := splitDirective(s[start+2 : start+end])
		if mark != "#" {
			code = fn(code)
		}
		sb.WriteString(renderDirective(mark, code))
		s = s[start+end+2:]
	}
}

// mapOutside applies fn to the parts of s outside ERB directives
func mapOutside(s string, fn func(string) string) string {
	var sb strings.Builder
	for {
		start := strings.Index(s, "<%")
		if start < 0 {
			sb.WriteString(fn(s))
			return sb.String()
		}
		end := strings.Index(s[start:], "%>")
		if end < 0 {
			sb.WriteString(fn(s))
			return sb.String()
		}
		sb.WriteString(fn(s[:start]))
		sb.WriteString(s[start : start+end+2])
		s = s[start+end+2:]
	}
}

// findOrdinal returns the index of the opening tag with the given ordinal
func findOrdinal(tokens []token, ordinal int) int {
	for i, t := range tokens {
		if t.kind == tagToken && t.tag.opening() && t.tag.ordinal == ordinal {
			return i
		}
	}
	return -1
}

// matchingClose returns the index of the tag closing tokens[open], or -1
func matchingClose(tokens []token, open int) int {
	name := tokens[open].tag.name
	depth := 0
	for i := open; i < len(tokens); i++ {
		t := tokens[i]
		if t.kind != tagToken || !strings.EqualFold(t.tag.name, name) {
			continue
		}
		switch {
		case t.tag.closing:
			depth--
			if depth == 0 {
				return i
			}
		case !t.tag.selfClosing:
			depth++
		}
	}
	return -1
}

// firstOpening returns the index of the first opening tag, or -1
func firstOpening(tokens []token) int {
	for i, t := range tokens {
		if t.kind == tagToken && t.tag.opening() {
			return i
		}
	}
	return -1
}
