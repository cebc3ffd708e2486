// Package pdfdoctest builds small PDF files for tests.
package pdfdoctest

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// Letter page size in points. DefaultWidth is the page tree default that
// pages without their own Width inherit.
const (
	DefaultWidth = 612
	PageHeight   = 792
)

// Page describes one generated page.
type Page struct {
	Text string
	// Width overrides the inherited page width when non-zero.
	Width float64
}

// Build returns a PDF with one page per entry, each showing its text in
// Helvetica. Content streams are left uncompressed so the bytes stay
// readable in test failures.
func Build(pages ...Page) []byte {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: DefaultWidth, Ht: PageHeight},
	})
	doc.SetCompression(false)
	doc.SetFont("Helvetica", "", 12)
	for _, p := range pages {
		if p.Width > 0 {
			doc.AddPageFormat("P", fpdf.SizeType{Wd: p.Width, Ht: PageHeight})
		} else {
			doc.AddPage()
		}
		doc.Text(72, 72, p.Text)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		panic(fmt.Sprintf("pdfdoctest: building PDF: %v", err))
	}
	return buf.Bytes()
}
