package web

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is omitted (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderMarkdown renders free text (notes, review sections) as HTML.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// richTags is the formatting the review editor and the AI summary produce.
// Attributes are never kept.
var richTags = map[atom.Atom]bool{
	atom.P: true, atom.Br: true, atom.Strong: true, atom.B: true, atom.Em: true,
	atom.I: true, atom.U: true, atom.Ul: true, atom.Ol: true, atom.Li: true,
	atom.H3: true, atom.H4: true, atom.Blockquote: true,
}

// dropped elements lose their text content as well as their tags.
var dropped = map[atom.Atom]bool{atom.Script: true, atom.Style: true, atom.Iframe: true, atom.Noscript: true}

// sanitizeRichText reduces HTML to the richTags allow-list. Text is
// re-escaped; any other tag is removed but its text kept.
// POST: Output is balanced; unclosed tags are closed at EOF and stray end tags dropped
func sanitizeRichText(s string) template.HTML {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	var open []atom.Atom
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			for i := len(open) - 1; i >= 0; i-- {
				b.WriteString("</" + open[i].String() + ">")
			}
			return template.HTML(b.String())
		case html.TextToken:
			if skip == 0 {
				b.WriteString(html.EscapeString(string(z.Text())))
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if dropped[a] {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if skip != 0 || !richTags[a] {
				continue
			}
			if a == atom.Br {
				b.WriteString("<br>")
				continue
			}
			if tt == html.SelfClosingTagToken {
				b.WriteString("<" + a.String() + "></" + a.String() + ">")
				continue
			}
			b.WriteString("<" + a.String() + ">")
			open = append(open, a)
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if dropped[a] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if skip != 0 || !richTags[a] || a == atom.Br {
				continue
			}
			i := len(open) - 1
			for i >= 0 && open[i] != a {
				i--
			}
			if i < 0 {
				continue
			}
			// Inner tags left open are closed with it.
			for j := len(open) - 1; j >= i; j-- {
				b.WriteString("</" + open[j].String() + ">")
			}
			open = open[:i]
		}
	}
}
