package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const (
	pdfBodyFont  = "Helvetica"
	pdfBodySize  = 9.0
	pdfLineH     = 5.0
	pdfPageWidth = 190.0 // A4 width minus margins
)

// PDF renders a Markdown report into a PDF document.
func PDF(markdown, title string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(title, true)
	doc.SetMargins(10, 12, 10)
	doc.SetAutoPageBreak(true, 12)
	doc.AddPage()
	doc.SetFont(pdfBodyFont, "", pdfBodySize)

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	source := []byte(markdown)
	root := md.Parser().Parse(text.NewReader(source))

	w := &pdfWriter{doc: doc, source: source}
	if err := ast.Walk(root, w.walk); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// pdfWriter walks a goldmark AST and emits fpdf drawing calls.
type pdfWriter struct {
	doc    *fpdf.Fpdf
	source []byte
	bold   bool
	italic bool
	lists  int
}

func (w *pdfWriter) setBodyFont() {
	style := ""
	if w.bold {
		style += "B"
	}
	if w.italic {
		style += "I"
	}
	w.doc.SetFont(pdfBodyFont, style, pdfBodySize)
}

func (w *pdfWriter) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		w.heading(node, entering)
	case *ast.Paragraph:
		if !entering {
			w.doc.Ln(pdfLineH + 2)
		}
	case *ast.Text:
		if entering {
			w.doc.Write(pdfLineH, string(node.Text(w.source)))
		}
	case *ast.Emphasis:
		if node.Level == 2 {
			w.bold = entering
		} else {
			w.italic = entering
		}
		w.setBodyFont()
	case *ast.List:
		if entering {
			w.lists++
		} else {
			w.lists--
			if w.lists == 0 {
				w.doc.Ln(3)
			}
		}
	case *ast.ListItem:
		if entering {
			w.doc.Ln(pdfLineH)
			w.doc.SetX(10 + float64(w.lists)*4)
			w.doc.Write(pdfLineH, "- ")
		}
	case *ast.ThematicBreak:
		if entering {
			w.doc.Ln(3)
			y := w.doc.GetY()
			w.doc.Line(10, y, 10+pdfPageWidth, y)
			w.doc.Ln(3)
		}
	case *extast.Table:
		if entering {
			w.table(node)
			return ast.WalkSkipChildren, nil
		}
	}
	return ast.WalkContinue, nil
}

func (w *pdfWriter) heading(n *ast.Heading, entering bool) {
	if entering {
		w.doc.Ln(4)
		size := pdfBodySize + 2
		switch n.Level {
		case 1:
			size = 15
		case 2:
			size = 12
		}
		w.doc.SetFont(pdfBodyFont, "B", size)
		return
	}
	w.doc.Ln(7)
	w.setBodyFont()
}

// table draws a simple grid table. Column widths split the page evenly;
// the report's tables are narrow label/value pairs so this reads fine.
func (w *pdfWriter) table(n *extast.Table) {
	var rows [][]string
	var collect func(ast.Node)
	collect = func(node ast.Node) {
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			switch c := child.(type) {
			case *extast.TableRow:
				rows = append(rows, cellTexts(c, w.source))
			case *extast.TableHeader:
				rows = append(rows, cellTexts(c, w.source))
			}
		}
	}
	collect(n)
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}

	cols := len(rows[0])
	colWidth := pdfPageWidth / float64(cols)

	w.doc.Ln(2)
	for i, cells := range rows {
		if i == 0 {
			w.doc.SetFont(pdfBodyFont, "B", 8)
			w.doc.SetFillColor(235, 235, 245)
		} else {
			w.doc.SetFont(pdfBodyFont, "", 8)
			w.doc.SetFillColor(255, 255, 255)
		}
		for j := 0; j < cols; j++ {
			var cell string
			if j < len(cells) {
				cell = cells[j]
			}
			w.doc.CellFormat(colWidth, 6, clipToWidth(w.doc, cell, colWidth-2), "1", 0, "L", i == 0, 0, "")
		}
		w.doc.Ln(6)
	}
	w.doc.Ln(2)
	w.setBodyFont()
}

func cellTexts(row ast.Node, source []byte) []string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if tc, ok := cell.(*extast.TableCell); ok {
			cells = append(cells, string(tc.Text(source)))
		}
	}
	return cells
}

// clipToWidth shortens text that will not fit in a cell, with an ellipsis.
func clipToWidth(doc *fpdf.Fpdf, s string, width float64) string {
	if doc.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 1 && doc.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
