package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteText writes the plain-text report:
//
//	Highlighted Text from PDF
//	============================================================
//	Source file: doc.pdf
//	Extraction date: 2024-05-01 10:00:00
//	Number of extracted texts: 1
//	============================================================
//
//	[1] Page 1 - Method: Annotation-Highlight
//	--------------------------------------------------
//	Important finding
//	Color: (1, 1, 0.1)
//	--------------------------------------------------
func WriteText(w io.Writer, r Report) error {
	bw := bufio.NewWriter(w)
	h := r.header()
	rule := strings.Repeat("=", 60)
	sep := strings.Repeat("-", 50)

	fmt.Fprintln(bw, h.Title)
	fmt.Fprintln(bw, rule)
	fmt.Fprintln(bw, h.Source)
	fmt.Fprintln(bw, h.Date)
	fmt.Fprintln(bw, h.Count)
	fmt.Fprintln(bw, rule)
	fmt.Fprintln(bw)

	for i, rec := range r.Records {
		fmt.Fprintln(bw, r.entry(i+1, rec))
		fmt.Fprintln(bw, sep)
		fmt.Fprintln(bw, rec.Text)
		for _, line := range r.details(rec) {
			fmt.Fprintln(bw, line)
		}
		fmt.Fprintln(bw, sep)
		fmt.Fprintln(bw)
	}

	return bw.Flush()
}
