package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Text extracts plain text from an uploaded résumé. The format is chosen
// by content type first, file extension second; anything unrecognized is
// treated as plain UTF-8 text.
func Text(filename, contentType string, data []byte) (string, error) {
	switch {
	case isPDF(filename, contentType):
		return fromPDF(data)
	case isMarkdown(filename, contentType):
		return fromMarkdown(data), nil
	default:
		return string(data), nil
	}
}

func isPDF(filename, contentType string) bool {
	if strings.Contains(contentType, "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

func isMarkdown(filename, contentType string) bool {
	if strings.Contains(contentType, "text/markdown") {
		return true
	}
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".md" || ext == ".markdown"
}

func fromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// fromMarkdown walks the parsed AST collecting text segments, with blank
// lines between block elements so chunk boundaries stay sensible.
func fromMarkdown(data []byte) string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(data))

	var buf strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			switch node := n.(type) {
			case *ast.Text:
				buf.Write(node.Segment.Value(data))
				if node.SoftLineBreak() || node.HardLineBreak() {
					buf.WriteString("\n")
				}
			case *ast.String:
				buf.Write(node.Value)
			}
		} else {
			switch n.(type) {
			case *ast.Heading, *ast.Paragraph, *ast.ListItem:
				buf.WriteString("\n\n")
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
