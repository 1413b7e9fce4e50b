package site

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// md renders authored markdown. Raw HTML passes through so reference
// markers injected by the annotator before rendering survive.
var md = goldmark.New(
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// markdown converts an authored description to HTML. On a conversion
// error the raw text is kept; a half-broken description is still more
// useful than an empty cell.
func (g *Generator) markdown(src string) template.HTML {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		g.logger.Warn("markdown conversion failed", "error", err)
		return template.HTML(src)
	}
	return template.HTML(buf.String())
}
