package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
)

// markdownEscaper escapes the characters that start markdown syntax
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`, `#`, `\#`, `[`, `\[`, `]`, `\]`,
	`<`, `\<`, `>`, `\>`, `|`, `\|`, `~`, `\~`, `!`, `\!`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// escapeMarkdownLine escapes s as one line of a paragraph. Markers that
// open a block at the start of a line ("-", "+", "=", "1.", "2)") are
// escaped and leading blanks dropped.
func escapeMarkdownLine(s string) string {
	s = escapeMarkdown(strings.TrimLeft(s, " \t"))
	if s == "" {
		return s
	}
	switch s[0] {
	case '-', '+', '=':
		return `\` + s
	}
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(s) && (s[digits] == '.' || s[digits] == ')') {
		return s[:digits] + `\` + s[digits:]
	}
	return s
}

// markdown renders the report as a markdown document
func (r Report) markdown() string {
	h := r.header()
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(h.Title))
	fmt.Fprintf(&b, "- **%s**\n", escapeMarkdown(h.Source))
	fmt.Fprintf(&b, "- %s\n", escapeMarkdown(h.Date))
	fmt.Fprintf(&b, "- %s\n\n", escapeMarkdown(h.Count))

	for i, rec := range r.Records {
		fmt.Fprintf(&b, "## %s\n\n", escapeMarkdown(r.entry(i+1, rec)))
		for _, line := range strings.Split(rec.Text, "\n") {
			fmt.Fprintf(&b, "> %s  \n", escapeMarkdownLine(line))
		}
		b.WriteString("\n")
		for _, line := range r.details(rec) {
			fmt.Fprintf(&b, "*%s*\n\n", escapeMarkdown(line))
		}
		b.WriteString("---\n\n")
	}
	return b.String()
}

// WriteMarkdown writes the report as markdown
func WriteMarkdown(w io.Writer, r Report) error {
	_, err := io.WriteString(w, r.markdown())
	return errors.Wrap(err, "failed to write markdown report")
}

// WriteHTML writes the report as a standalone HTML page
func WriteHTML(w io.Writer, r Report) error {
	var body bytes.Buffer
	if err := goldmark.New().Convert([]byte(r.markdown()), &body); err != nil {
		return errors.Wrap(err, "failed to render report")
	}

	dir := "ltr"
	if IsRTL(r.Lang) {
		dir = "rtl"
	}
	lang := r.Lang.String()
	if lang == "und" {
		lang = "en"
	}

	var page bytes.Buffer
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html lang=\"%s\" dir=\"%s\">\n<head>\n<meta charset=\"utf-8\">\n", lang, dir)
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(r.header().Title))
	page.WriteString("<style>blockquote{background:#fffacd;border-inline-start:4px solid #f0c000;margin:0;padding:.5em 1em}</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")

	_, err := w.Write(page.Bytes())
	return errors.Wrap(err, "failed to write HTML report")
}
