package catalog

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	markdown      = goldmark.New()
	descriptionUG = bluemonday.UGCPolicy()
)

// DescriptionHTML renders the markdown description to sanitised HTML.
func (p Package) DescriptionHTML() template.HTML {
	if p.Description == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(p.Description), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(p.Description))
	}
	return template.HTML(descriptionUG.SanitizeBytes(buf.Bytes()))
}
