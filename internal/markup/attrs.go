package markup

import (
	"strings"

	"github.com/v0rails/v0rails/internal/naming"
)

// reservedAttrs only mean something to the client-side runtime
var reservedAttrs = map[string]bool{
	"key":                            true,
	"ref":                            true,
	"dangerouslySetInnerHTML":        true,
	"suppressHydrationWarning":       true,
	"suppressContentEditableWarning": true,
}

var renamedAttrs = map[string]string{
	"className":      "class",
	"htmlFor":        "for",
	"defaultValue":   "value",
	"defaultChecked": "checked",
	"xlinkHref":      "xlink:href",
	"xmlLang":        "xml:lang",
	"xmlSpace":       "xml:space",
}

// DOM properties whose HTML attribute is the same word in lower case
var lowercaseAttrs = map[string]bool{
	"accessKey":       true,
	"allowFullScreen": true,
	"autoComplete":    true,
	"autoFocus":       true,
	"autoPlay":        true,
	"cellPadding":     true,
	"cellSpacing":     true,
	"charSet":         true,
	"colSpan":         true,
	"contentEditable": true,
	"crossOrigin":     true,
	"dateTime":        true,
	"encType":         true,
	"enterKeyHint":    true,
	"formAction":      true,
	"formMethod":      true,
	"formNoValidate":  true,
	"formTarget":      true,
	"frameBorder":     true,
	"hrefLang":        true,
	"inputMode":       true,
	"itemProp":        true,
	"itemScope":       true,
	"itemType":        true,
	"marginHeight":    true,
	"marginWidth":     true,
	"maxLength":       true,
	"minLength":       true,
	"noValidate":      true,
	"playsInline":     true,
	"readOnly":        true,
	"referrerPolicy":  true,
	"rowSpan":         true,
	"spellCheck":      true,
	"srcDoc":          true,
	"srcLang":         true,
	"srcSet":          true,
	"tabIndex":        true,
	"useMap":          true,
}

// SVG attributes that are case-sensitive in the markup
var caseSensitiveAttrs = map[string]bool{
	"attributeName":       true,
	"baseFrequency":       true,
	"calcMode":            true,
	"clipPathUnits":       true,
	"diffuseConstant":     true,
	"filterUnits":         true,
	"gradientTransform":   true,
	"gradientUnits":       true,
	"kernelMatrix":        true,
	"keySplines":          true,
	"keyTimes":            true,
	"lengthAdjust":        true,
	"markerHeight":        true,
	"markerUnits":         true,
	"markerWidth":         true,
	"maskContentUnits":    true,
	"maskUnits":           true,
	"numOctaves":          true,
	"pathLength":          true,
	"patternContentUnits": true,
	"patternTransform":    true,
	"patternUnits":        true,
	"preserveAspectRatio": true,
	"primitiveUnits":      true,
	"refX":                true,
	"refY":                true,
	"repeatCount":         true,
	"specularExponent":    true,
	"spreadMethod":        true,
	"startOffset":         true,
	"stdDeviation":        true,
	"tableValues":         true,
	"textLength":          true,
	"viewBox":             true,
}

// booleanAttrs are HTML attributes whose presence alone turns them on
var booleanAttrs = map[string]bool{
	"allowfullscreen": true,
	"async":           true,
	"autofocus":       true,
	"autoplay":        true,
	"checked":         true,
	"controls":        true,
	"default":         true,
	"defer":           true,
	"disabled":        true,
	"formnovalidate":  true,
	"hidden":          true,
	"inert":           true,
	"itemscope":       true,
	"loop":            true,
	"multiple":        true,
	"muted":           true,
	"novalidate":      true,
	"open":            true,
	"playsinline":     true,
	"readonly":        true,
	"required":        true,
	"reversed":        true,
	"selected":        true,
}

// IsBooleanAttribute reports whether the HTML attribute name is boolean
func IsBooleanAttribute(name string) bool {
	return booleanAttrs[name]
}

// IsReserved reports whether a JSX attribute is dropped from the output
func IsReserved(name string) bool {
	return reservedAttrs[name]
}

// AttributeName maps a JSX attribute name to its HTML spelling
func AttributeName(name string) string {
	if html, ok := renamedAttrs[name]; ok {
		return html
	}
	switch {
	case lowercaseAttrs[name]:
		return strings.ToLower(name)
	case caseSensitiveAttrs[name], strings.Contains(name, ":"):
		return name
	}
	return naming.KebabCase(name)
}

// escapeAttr escapes a literal attribute value for a double-quoted attribute
func escapeAttr(s string) string {
	return strings.ReplaceAll(s, `"`, "&quot;")
}
