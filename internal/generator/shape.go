package generator

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/v0rails/v0rails/pkg/model"
)

var variantNames = []string{"primary", "secondary", "destructive", "outline", "ghost", "link"}

var sizeNames = []string{"sm", "md", "lg", "xl"}

// RootTag returns the first opening tag of rendered markup and its class
// attribute.
func RootTag(markup string) (tag, class string) {
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", ""
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			for _, a := range tok.Attr {
				if a.Key == "class" {
					class = a.Val
					break
				}
			}
			return tok.Data, class
		}
	}
}

// applyShape derives the root tag and the interactive, icon and styling
// fields of ir from its name and markup.
func applyShape(ir *model.IR) {
	tag, class := RootTag(ir.HTML)
	ir.RootTag = tag

	lower := strings.ToLower(ir.Name)
	root := atom.Lookup([]byte(tag))

	ir.IsInteractive = strings.Contains(lower, "button") || strings.Contains(lower, "link") ||
		root == atom.Button || root == atom.A
	ir.IsIcon = strings.HasSuffix(ir.Name, "Icon") || root == atom.Svg

	if !ir.IsInteractive {
		return
	}

	variants, sizes, base := classGroups(class)
	ir.Variants = variants
	ir.Sizes = sizes
	ir.BaseClasses = base
}

// classGroups splits a class list into variant groups, size groups and the
// remaining base classes. A token belongs to a group when one of its
// dash-separated segments, after any modifier prefix such as hover:, is the
// group name.
func classGroups(class string) (variants, sizes []model.ClassGroup, base string) {
	variantClasses := map[string][]string{}
	sizeClasses := map[string][]string{}
	var rest []string

	for _, token := range strings.Fields(class) {
		if strings.Contains(token, "<%") || strings.Contains(token, "%>") {
			rest = append(rest, token)
			continue
		}
		utility := token
		if i := strings.LastIndex(token, ":"); i >= 0 {
			utility = token[i+1:]
		}
		segments := strings.Split(utility, "-")

		if name, ok := matchSegment(segments, variantNames); ok {
			variantClasses[name] = append(variantClasses[name], token)
			continue
		}
		if name, ok := matchSegment(segments, sizeNames); ok {
			sizeClasses[name] = append(sizeClasses[name], token)
			continue
		}
		rest = append(rest, token)
	}

	for _, name := range variantNames {
		if cs, ok := variantClasses[name]; ok {
			variants = append(variants, model.ClassGroup{Name: name, Classes: strings.Join(cs, " ")})
		}
	}
	for _, name := range sizeNames {
		if cs, ok := sizeClasses[name]; ok {
			sizes = append(sizes, model.ClassGroup{Name: name, Classes: strings.Join(cs, " ")})
		}
	}
	return variants, sizes, strings.Join(rest, " ")
}

func matchSegment(segments, names []string) (string, bool) {
	for _, seg := range segments {
		for _, name := range names {
			if seg == name {
				return name, true
			}
		}
	}
	return "", false
}
