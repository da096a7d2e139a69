package model

import (
	"context"
)

// OCRKind tells whether the uploaded images hold a question or an answer.
type OCRKind string

const (
	OCRKindQuestion OCRKind = "question"
	OCRKindAnswer   OCRKind = "answer"
)

// Image is an uploaded image file.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExtractedText is the text recognised in a single image.
type ExtractedText struct {
	Text string
	// Confidence is nil when the extractor does not report one.
	Confidence *float64
}

// TextExtractor recognises text in images.
type TextExtractor interface {
	Extract(ctx context.Context, image Image) (ExtractedText, error)
}

// OCRFileResult is the per-file part of an OCR response.
type OCRFileResult struct {
	Filename   string   `json:"filename"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence"`
}

// OCRResult aggregates the text of all uploaded files.
type OCRResult struct {
	IndividualResults []OCRFileResult `json:"individual_results"`
	CombinedText      string          `json:"combined_text"`
	AverageConfidence float64         `json:"average_confidence"`
	TotalFiles        int             `json:"total_files"`
}
