// Package docx reads the text content of Office Open XML word documents.
// A .docx file is a zip archive; the document body lives in word/document.xml
// as WordprocessingML. Paragraph text is emitted in document order, followed
// by table cell text flattened row-major.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const documentPath = "word/document.xml"

// wordprocessingML mirrors just enough of the document schema to pull text.
// Runs (w:r) carry the text nodes (w:t); paragraphs (w:p) group runs; tables
// (w:tbl) nest rows (w:tr) of cells (w:tc), whose content is again paragraphs.
type body struct {
	Blocks []block `xml:",any"`
}

type block struct {
	XMLName xml.Name
	Runs    []run `xml:"r"`
	Rows    []row `xml:"tr"`
}

type run struct {
	Texts []string `xml:"t"`
}

type row struct {
	Cells []cell `xml:"tc"`
}

type cell struct {
	Paragraphs []block `xml:"p"`
}

type document struct {
	Body body `xml:"body"`
}

// ExtractFile opens a .docx file and returns its concatenated text.
func ExtractFile(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != documentPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", documentPath, err)
		}
		defer rc.Close()
		return extract(rc)
	}
	return "", fmt.Errorf("no %s entry in archive", documentPath)
}

func extract(r io.Reader) (string, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode document.xml: %w", err)
	}

	var b strings.Builder
	for _, blk := range doc.Body.Blocks {
		switch blk.XMLName.Local {
		case "p":
			writeParagraph(&b, blk)
			b.WriteString("\n")
		case "tbl":
			for _, tr := range blk.Rows {
				for i, tc := range tr.Cells {
					if i > 0 {
						b.WriteString(" ")
					}
					for _, p := range tc.Paragraphs {
						writeParagraph(&b, p)
					}
				}
				b.WriteString("\n")
			}
		}
	}
	return b.String(), nil
}

func writeParagraph(b *strings.Builder, p block) {
	for _, r := range p.Runs {
		for _, t := range r.Texts {
			b.WriteString(t)
		}
	}
}
