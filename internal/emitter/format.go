package emitter

import (
	"strings"
	"unicode"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true,
	"track": true, "wbr": true,
}

// format lays the token stream out as indented lines. Whitespace runs that
// contain a newline break the line, other runs collapse to one space, and
// blank lines are dropped. Indentation follows element and block nesting.
func format(tokens []token) string {
	f := &formatter{}
	for _, t := range tokens {
		f.token(t)
	}
	f.newline()
	if len(f.lines) == 0 {
		return ""
	}
	return strings.Join(f.lines, "\n") + "\n"
}

type formatter struct {
	lines     []string
	line      strings.Builder
	depth     int
	lineDepth int
}

func (f *formatter) token(t token) {
	if t.kind == textToken {
		f.text(t.text)
		return
	}
	if t.kind == directiveToken && t.mark != "#" {
		t.text = collapseCode(t.text)
	}

	dedent, indent := nesting(t)
	if dedent && f.depth > 0 {
		f.depth--
	}
	f.write(t.String())
	if indent {
		f.depth++
	}
}

func (f *formatter) write(s string) {
	if f.line.Len() == 0 {
		f.lineDepth = f.depth
	}
	f.line.WriteString(s)
}

func (f *formatter) text(s string) {
	for len(s) > 0 {
		i := strings.IndexFunc(s, unicode.IsSpace)
		if i < 0 {
			f.write(s)
			return
		}
		if i > 0 {
			f.write(s[:i])
			s = s[i:]
		}
		j := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) })
		if j < 0 {
			j = len(s)
		}
		if strings.ContainsRune(s[:j], '\n') {
			f.newline()
		} else if f.line.Len() > 0 {
			f.line.WriteByte(' ')
		}
		s = s[j:]
	}
}

func (f *formatter) newline() {
	line := strings.TrimSpace(f.line.String())
	f.line.Reset()
	if line == "" {
		return
	}
	f.lines = append(f.lines, strings.Repeat("  ", f.lineDepth)+line)
}

// nesting reports whether t closes a level before it is written and opens
// one after.
func nesting(t token) (dedent, indent bool) {
	switch t.kind {
	case tagToken:
		if voidElements[strings.ToLower(t.tag.name)] {
			return false, false
		}
		if t.tag.closing {
			return true, false
		}
		return false, !t.tag.selfClosing

	case directiveToken:
		if t.mark == "#" {
			return false, false
		}
		code := t.text
		switch {
		case code == "end":
			return true, false
		case code == "else", strings.HasPrefix(code, "elsif "), strings.HasPrefix(code, "when "):
			return true, true
		case opensBlock(code):
			return false, true
		}
	}
	return false, false
}

// collapseCode folds whitespace runs in code to single spaces, leaving
// string literals intact.
func collapseCode(code string) string {
	var sb strings.Builder
	for _, seg := range splitCode(code) {
		if seg.literal {
			sb.WriteString(seg.text)
			continue
		}
		fields := strings.Fields(seg.text)
		if len(fields) == 0 {
			if seg.text != "" {
				sb.WriteByte(' ')
			}
			continue
		}
		if unicode.IsSpace(rune(seg.text[0])) {
			sb.WriteByte(' ')
		}
		sb.WriteString(strings.Join(fields, " "))
		if unicode.IsSpace(rune(seg.text[len(seg.text)-1])) {
			sb.WriteByte(' ')
		}
	}
	return strings.TrimSpace(sb.String())
}
