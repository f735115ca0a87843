// Package style maps banner settings to presentation primitives. Every
// function is pure; the preview and document renderers both serialize the
// descriptors built here.
package style

import (
	"strconv"
	"strings"
)

// Declaration is one CSS property/value pair.
type Declaration struct {
	Property string
	Value    string
}

// Declarations is an ordered CSS declaration list.
type Declarations []Declaration

// Inline serializes the list as a style attribute value ("a:b;c:d;").
func (d Declarations) Inline() string {
	var b strings.Builder
	for _, decl := range d {
		b.WriteString(decl.Property)
		b.WriteByte(':')
		b.WriteString(decl.Value)
		b.WriteByte(';')
	}
	return b.String()
}

// Rule serializes the list as a CSS rule body with one declaration per line.
func (d Declarations) Rule(selector, indent string) string {
	var b strings.Builder
	b.WriteString(indent)
	b.WriteString(selector)
	b.WriteString(" {\n")
	for _, decl := range d {
		b.WriteString(indent)
		b.WriteString("  ")
		b.WriteString(decl.Property)
		b.WriteByte(':')
		b.WriteString(decl.Value)
		b.WriteString(";\n")
	}
	b.WriteString(indent)
	b.WriteString("}\n")
	return b.String()
}

// Get returns the value of the last declaration of property.
func (d Declarations) Get(property string) (string, bool) {
	for i := len(d) - 1; i >= 0; i-- {
		if d[i].Property == property {
			return d[i].Value, true
		}
	}
	return "", false
}

func px(v int) string {
	return strconv.Itoa(v) + "px"
}

func pxf(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

func translate(x, y int) string {
	return "translate(" + px(x) + ", " + px(y) + ")"
}

var cssValueReplacer = strings.NewReplacer(
	";", "", "{", "", "}", "", "<", "", ">", "", "\"", "", "'", "", "\\", "", "\n", " ", "\r", " ",
)

// sanitizeValue strips characters that could terminate a declaration.
func sanitizeValue(v string) string {
	return strings.TrimSpace(cssValueReplacer.Replace(v))
}

// cssURL quotes a URL for use inside url('...').
func cssURL(u string) string {
	r := strings.NewReplacer("'", "%27", "\"", "%22", "\\", "%5C", "\n", "", "\r", "", "(", "%28", ")", "%29")
	return "url('" + r.Replace(strings.TrimSpace(u)) + "')"
}
