// Command compare_extraction prints what each PDF reader sees on one page,
// to check the text fallback used when fonts cannot be decoded.
//
//	compare_extraction <pdf> [page]
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/pyhub-apps/pdfhighlights-golang/pkg/pdf"
	"github.com/pyhub-apps/pdfhighlights-golang/pkg/report"
)

type reader struct {
	name string
	open func(path string, opts ...pdf.OpenOption) (pdf.Document, error)
}

var readers = []reader{
	{"pdfcpu", pdf.Open},
	{"pdfcpu+fallback", func(path string, opts ...pdf.OpenOption) (pdf.Document, error) {
		return pdf.Open(path, append(opts, pdf.WithTextFallback(true))...)
	}},
	{"ledongthuc", pdf.OpenWithLedongthuc},
	{"dslipak", pdf.OpenWithDslipak},
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: compare_extraction <pdf-file> [page]")
		os.Exit(1)
	}

	pdfPath := os.Args[1]
	index := 0
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil || n < 1 {
			log.Fatalf("Invalid page number: %s", os.Args[2])
		}
		index = n - 1
	}

	for _, r := range readers {
		fmt.Printf("%s:\n", r.name)
		if err := show(r, pdfPath, index); err != nil {
			fmt.Printf("  error: %v\n", err)
		}
		fmt.Println()
	}
}

func show(r reader, path string, index int) error {
	doc, err := r.open(path, pdf.WithTextFallback(false))
	if err != nil {
		return err
	}
	defer doc.Close()

	page, err := doc.GetPage(index)
	if err != nil {
		return err
	}

	objects := page.GetObjects()
	bbox := page.GetBBox()
	fmt.Printf("  Pages: %d\n", doc.PageCount())
	fmt.Printf("  Bbox: %s\n", bbox)
	fmt.Printf("  Characters: %d, drawings: %d, annotations: %d, skipped: %d\n",
		len(objects.Chars), len(objects.Drawings), len(objects.Annotations), len(objects.Skipped))

	for i, char := range objects.Chars {
		if i >= 5 {
			break
		}
		fmt.Printf("    %d. %q at (%.2f, %.2f)-(%.2f, %.2f) %s %.2fpt\n",
			i+1, char.Text, char.X0, char.Y0, char.X1, char.Y1, char.Font, char.FontSize)
	}

	fmt.Printf("  Words: %d\n", len(page.Words()))
	fmt.Printf("  Text: %q\n", report.Preview(page.ExtractText(), 200))
	return nil
}
