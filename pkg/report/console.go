package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"

	"github.com/pyhub-apps/pdfhighlights-golang/pkg/highlight"
)

// PreviewWidth is the number of terminal columns a preview takes
const PreviewWidth = 50

// Preview flattens text to one line and truncates it to width columns.
// Wide characters count as two columns.
func Preview(text string, width int) string {
	text = strings.Join(strings.Fields(text), " ")
	return runewidth.Truncate(text, width, "...")
}

// Console prints results to a terminal
type Console struct {
	w    io.Writer
	lang language.Tag
}

// NewConsole creates a console printer for lang
func NewConsole(w io.Writer, lang language.Tag) *Console {
	return &Console{w: w, lang: lang}
}

// Results lists every record with its page, method and color
func (c *Console) Results(records []highlight.MatchRecord) {
	p := printer(c.lang)
	if len(records) == 0 {
		fmt.Fprintln(c.w)
		fmt.Fprintln(c.w, p.Sprintf(msgNoResults))
		return
	}

	r := Report{Records: records, Lang: c.lang}
	fmt.Fprintln(c.w)
	fmt.Fprintln(c.w, p.Sprintf(msgFound, plain(len(records))))
	fmt.Fprintln(c.w, strings.Repeat("=", 60))
	for i, rec := range records {
		fmt.Fprintln(c.w)
		fmt.Fprintln(c.w, r.entry(i+1, rec))
		fmt.Fprintln(c.w, strings.Repeat("-", 50))
		fmt.Fprintln(c.w, rec.Text)
		for _, line := range r.details(rec) {
			fmt.Fprintln(c.w, line)
		}
	}
}

// Match prints a one-line progress entry for a record
func (c *Console) Match(rec highlight.MatchRecord) {
	fmt.Fprintf(c.w, "  p%-3d %-22s %s\n", rec.Page, rec.Method, Preview(rec.Text, PreviewWidth))
}

// Stats prints match counts per method and the totals
func (c *Console) Stats(stats highlight.Stats) {
	p := printer(c.lang)
	methods := make([]string, 0, len(stats.ByMethod))
	for m := range stats.ByMethod {
		methods = append(methods, string(m))
	}
	sort.Strings(methods)

	fmt.Fprintln(c.w)
	fmt.Fprintln(c.w, p.Sprintf(msgStats))
	for _, m := range methods {
		fmt.Fprintln(c.w, p.Sprintf(msgStatsLine, m, plain(stats.ByMethod[highlight.Method(m)])))
	}
	fmt.Fprintln(c.w, p.Sprintf(msgTotals, plain(stats.Total), plain(stats.Unique)))
}
