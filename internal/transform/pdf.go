package transform

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ledongthuc/pdf"
)

// OptimisePDF losslessly rewrites the document through pdfcpu, stripping
// unused objects, and reports the page count. pdfcpu works on files, so the
// bytes round-trip through temp files.
func (e *Engine) OptimisePDF(data []byte) ([]byte, int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, 0, fmt.Errorf("transform: failed to open PDF: %w", err)
	}
	pageCount := reader.NumPage()

	inFile, err := os.CreateTemp("", "pdf_in_*.pdf")
	if err != nil {
		return nil, 0, fmt.Errorf("transform: could not create temp input PDF: %w", err)
	}
	defer func(name string) {
		if err := os.Remove(name); err != nil {
			log.Printf("failed to remove in temp file %q: %v", name, err)
		}
	}(inFile.Name())

	if _, err := io.Copy(inFile, bytes.NewReader(data)); err != nil {
		_ = inFile.Close()
		return nil, 0, fmt.Errorf("transform: failed to write temp input PDF: %w", err)
	}
	_ = inFile.Close()

	outFile, err := os.CreateTemp("", "pdf_out_*.pdf")
	if err != nil {
		return nil, 0, fmt.Errorf("transform: could not create temp output PDF: %w", err)
	}
	_ = outFile.Close()
	defer func(name string) {
		if err := os.Remove(name); err != nil {
			log.Printf("failed to remove out temp file %q: %v", name, err)
		}
	}(outFile.Name())

	if err := e.pdfOpt.OptimiseFile(inFile.Name(), outFile.Name()); err != nil {
		return nil, 0, fmt.Errorf("transform: pdfcpu optimization failed: %w", err)
	}

	optimised, err := os.ReadFile(outFile.Name())
	if err != nil {
		return nil, 0, fmt.Errorf("transform: failed to read optimized PDF: %w", err)
	}
	return optimised, pageCount, nil
}
