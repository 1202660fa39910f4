package interfaces

import "context"

// PDFExtraction holds the text content pulled from an uploaded PDF
type PDFExtraction struct {
	Text      string
	PageCount int
}

// PDFExtractor extracts text content from PDF bytes
type PDFExtractor interface {
	ExtractText(ctx context.Context, pdfContent []byte) (*PDFExtraction, error)
}
