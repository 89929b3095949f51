// Command debug_graphics dumps every drawing, annotation and styled span of
// one page.
//
//	debug_graphics <pdf> [page]
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	pdfhighlights "github.com/pyhub-apps/pdfhighlights-golang"
	"github.com/pyhub-apps/pdfhighlights-golang/pkg/inspect"
	"github.com/pyhub-apps/pdfhighlights-golang/pkg/report"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: debug_graphics <pdf> [page]")
		os.Exit(2)
	}

	pageNumber := 1
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil || n < 1 {
			log.Fatalf("Invalid page number: %s", os.Args[2])
		}
		pageNumber = n
	}

	doc, err := pdfhighlights.Open(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()

	fmt.Printf("Document has %d pages\n", doc.PageCount())

	page, err := doc.GetPage(pageNumber - 1)
	if err != nil {
		log.Fatalf("Failed to get page: %v", err)
	}

	opts := inspect.DefaultOptions()
	opts.Drawings = 0
	fmt.Printf("\n--- Page %d ---\n", pageNumber)
	inspect.Page(os.Stdout, page, opts)

	spans := page.Spans()
	if len(spans) > 0 {
		fmt.Println("\nSpans:")
		for i, span := range spans {
			fmt.Printf("  [%d] %s %.1fpt flags=%s color=%s %q\n",
				i+1, span.Font, span.FontSize, span.Flags, span.Color.Hex(), report.Preview(span.Text, 60))
		}
	}
}
