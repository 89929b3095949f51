// Package report writes extracted highlights as plain text, Word, PDF,
// HTML or Markdown documents, and prints them to a terminal.
package report

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/text/language"

	"github.com/pyhub-apps/pdfhighlights-golang/pkg/highlight"
)

// Format identifies an output format
type Format string

const (
	FormatText     Format = "txt"
	FormatDocx     Format = "docx"
	FormatPDF      Format = "pdf"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
)

// Formats lists the supported formats
var Formats = []Format{FormatText, FormatDocx, FormatPDF, FormatHTML, FormatMarkdown}

// ErrUnknownFormat is returned for format names that are not supported
var ErrUnknownFormat = errors.New("unknown report format")

// DateLayout is the layout of the extraction date in reports
const DateLayout = "2006-01-02 15:04:05"

// Report is the content of one output document
type Report struct {
	Source    string // file name shown in the header
	Generated time.Time
	Records   []highlight.MatchRecord
	Lang      language.Tag
}

// ParseFormat parses a format name; "htm" and "markdown" are accepted as aliases
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "txt", "text":
		return FormatText, nil
	case "docx":
		return FormatDocx, nil
	case "pdf":
		return FormatPDF, nil
	case "html", "htm":
		return FormatHTML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q", name)
}

// FormatFromPath picks the format from the file extension, defaulting to text
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return f
	}
	return FormatText
}

// Extension returns the file extension for the format, with the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// Write renders r to w in the given format
func Write(w io.Writer, format Format, r Report) error {
	switch format {
	case FormatText:
		return WriteText(w, r)
	case FormatDocx:
		return WriteDocx(w, r)
	case FormatPDF:
		return WritePDF(w, r)
	case FormatHTML:
		return WriteHTML(w, r)
	case FormatMarkdown:
		return WriteMarkdown(w, r)
	}
	return errors.Wrapf(ErrUnknownFormat, "%q", format)
}

// header holds the localized header lines shared by all formats
type header struct {
	Title  string
	Source string
	Date   string
	Count  string
}

func (r Report) header() header {
	p := printer(r.Lang)
	return header{
		Title:  p.Sprintf(msgTitle),
		Source: p.Sprintf(msgSource, r.Source),
		Date:   p.Sprintf(msgDate, r.Generated.Format(DateLayout)),
		Count:  p.Sprintf(msgCount, plain(len(r.Records))),
	}
}

// entry returns the localized heading of the i-th record (1-based)
func (r Report) entry(i int, rec highlight.MatchRecord) string {
	return printer(r.Lang).Sprintf(msgEntry, plain(i), plain(rec.Page), string(rec.Method))
}

// details returns the optional color, author and note lines of a record
func (r Report) details(rec highlight.MatchRecord) []string {
	p := printer(r.Lang)
	var lines []string
	if rec.Color.IsSet() {
		lines = append(lines, p.Sprintf(msgColor, rec.Color.String()))
	}
	if rec.Author != "" {
		lines = append(lines, p.Sprintf(msgAuthor, rec.Author))
	}
	if rec.Comment != "" {
		lines = append(lines, p.Sprintf(msgNote, rec.Comment))
	}
	return lines
}
