package document

import (
	"bytes"
	"errors"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

// Page geometry in inches (US Letter).
const (
	marginSide   = 0.9
	marginTop    = 0.8
	marginBottom = 0.8

	pt = 1.0 / 72.0
)

// Meta is written to the PDF info dictionary; Title also heads the
// placeholder page.
type Meta struct {
	Title   string
	Author  string
	Subject string
}

// ErrNoBlocks is returned by RenderPDF for an empty block list.
var ErrNoBlocks = errors.New("document: no blocks to render")

type style struct {
	font       string
	size       float64
	leading    float64 // line height, points
	align      string
	spaceAbove float64 // points
	spaceBelow float64 // points
}

var styles = map[Kind]style{
	Title:   {font: "B", size: 18, leading: 22, align: "C", spaceBelow: 12 + 11},
	Heading: {font: "B", size: 13, leading: 16, align: "L", spaceAbove: 6, spaceBelow: 6},
	Body:    {font: "", size: 10, leading: 14, align: "L", spaceBelow: 8},
}

// RenderPDF typesets blocks on Letter pages with core Helvetica fonts.
// Characters outside Windows-1252 are replaced with "?".
func RenderPDF(blocks []Block, meta Meta) ([]byte, error) {
	if len(blocks) == 0 {
		return nil, ErrNoBlocks
	}
	pdf := newPDF(meta)
	for i, b := range blocks {
		st := styles[b.Kind]
		if i > 0 && st.spaceAbove > 0 {
			pdf.Ln(st.spaceAbove * pt)
		}
		pdf.SetFont("Helvetica", st.font, st.size)
		pdf.MultiCell(0, st.leading*pt, latin1(b.Text), "", st.align, false)
		pdf.Ln(st.spaceBelow * pt)
	}
	return output(pdf)
}

// Placeholder returns a single page carrying only meta.Title.
func Placeholder(meta Meta) ([]byte, error) {
	pdf := newPDF(meta)
	st := styles[Title]
	pdf.SetFont("Helvetica", st.font, st.size)
	pdf.MultiCell(0, st.leading*pt, latin1(meta.Title), "", st.align, false)
	return output(pdf)
}

func newPDF(meta Meta) *fpdf.Fpdf {
	pdf := fpdf.New("P", "in", "Letter", "")
	pdf.SetMargins(marginSide, marginTop, marginSide)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	if meta.Subject != "" {
		pdf.SetSubject(meta.Subject, true)
	}
	pdf.SetCreator("health-assistant", true)
	pdf.AddPage()
	return pdf
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// latin1 re-encodes s for the core fonts, which use Windows-1252.
func latin1(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}
