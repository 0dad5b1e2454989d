package pdfextract

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
)

func renderPDF(t *testing.T, lines ...string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	for _, line := range lines {
		doc.Cell(40, 10, line)
		doc.Ln(12)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	return buf.Bytes()
}

func TestExtractBytes(t *testing.T) {
	text, err := ExtractBytes(renderPDF(t, "Hello World"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "Hello World") {
		t.Fatalf("expected extracted text, got %q", text)
	}
}

func TestExtractBytesGarbage(t *testing.T) {
	if _, err := ExtractBytes([]byte("definitely not a pdf")); err == nil {
		t.Fatal("garbage input must error")
	}
}

func TestExtractBytesEmpty(t *testing.T) {
	text, err := ExtractBytes(nil)
	if err != nil || text != "" {
		t.Fatalf("empty input should be empty text, got %q, %v", text, err)
	}
}

func TestExtractText(t *testing.T) {
	text, err := ExtractText(bytes.NewReader(renderPDF(t, "page content")))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "page content") {
		t.Fatalf("expected extracted text, got %q", text)
	}
}
