package service

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/evalca-server/internal/apierror"
	"github.com/dtroode/evalca-server/internal/logger"
	"github.com/dtroode/evalca-server/internal/model"
	"github.com/dtroode/evalca-server/internal/telemetry"
)

// OCRLimits bound the number of files per request.
type OCRLimits struct {
	MaxQuestionFiles int
	MaxAnswerFiles   int
}

// OCR extracts text from uploaded images and archives the originals.
type OCR struct {
	extractor model.TextExtractor
	storage   model.Storage
	limits    OCRLimits
	metrics   *telemetry.Metrics
	logger    *logger.Logger
}

// NewOCR creates the OCR service. storage may be nil, in which case images are not archived.
func NewOCR(extractor model.TextExtractor, storage model.Storage, limits OCRLimits, metrics *telemetry.Metrics, logger *logger.Logger) *OCR {
	return &OCR{
		extractor: extractor,
		storage:   storage,
		limits:    limits,
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *OCR) maxFiles(kind model.OCRKind) int {
	if kind == model.OCRKindAnswer {
		return s.limits.MaxAnswerFiles
	}
	return s.limits.MaxQuestionFiles
}

// Process runs text extraction over every image and aggregates the results.
// When any image fails, every object archived by this call is removed.
func (s *OCR) Process(ctx context.Context, userID int64, kind model.OCRKind, images []model.Image) (result model.OCRResult, err error) {
	if len(images) == 0 {
		return model.OCRResult{}, apierror.NewErrBadRequest("At least one file is required")
	}
	if limit := s.maxFiles(kind); len(images) > limit {
		return model.OCRResult{}, apierror.NewErrTooManyFiles(limit)
	}
	for _, img := range images {
		if !strings.HasPrefix(img.ContentType, "image/") {
			return model.OCRResult{}, apierror.NewErrBadRequest(fmt.Sprintf("File %s is not an image", img.Filename))
		}
	}

	s.logger.Debug("OCR service: processing files",
		"user_id", userID,
		"kind", kind,
		"files", len(images))

	archived := make([]string, 0, len(images))
	defer func() {
		if err != nil {
			s.removeArchived(context.WithoutCancel(ctx), archived)
		}
	}()

	results := make([]model.OCRFileResult, 0, len(images))
	texts := make([]string, 0, len(images))
	var confidenceSum float64
	var confidenceCount int

	for _, img := range images {
		key, err := s.archive(ctx, userID, kind, img)
		if err != nil {
			return model.OCRResult{}, err
		}
		if key != "" {
			archived = append(archived, key)
		}

		extracted, err := s.extractor.Extract(ctx, img)
		if err != nil {
			s.logger.Error("OCR service: text extraction failed",
				"filename", img.Filename,
				"error", err.Error())
			return model.OCRResult{}, fmt.Errorf("failed to extract text from %s: %w", img.Filename, err)
		}
		extracted.Text = strings.TrimSpace(extracted.Text)

		results = append(results, model.OCRFileResult{
			Filename:   img.Filename,
			Text:       extracted.Text,
			Confidence: extracted.Confidence,
		})
		if extracted.Text != "" {
			texts = append(texts, extracted.Text)
		}
		if extracted.Confidence != nil {
			confidenceSum += *extracted.Confidence
			confidenceCount++
		}
	}

	var average float64
	if confidenceCount > 0 {
		average = round2(confidenceSum / float64(confidenceCount))
	}

	s.metrics.OCRFiles(string(kind), len(images))
	s.logger.Info("OCR service: files processed",
		"user_id", userID,
		"kind", kind,
		"files", len(images),
		"average_confidence", average)

	return model.OCRResult{
		IndividualResults: results,
		CombinedText:      strings.Join(texts, "\n\n"),
		AverageConfidence: average,
		TotalFiles:        len(images),
	}, nil
}

// archive stores the original image and returns its object key, or "" when archiving is disabled.
func (s *OCR) archive(ctx context.Context, userID int64, kind model.OCRKind, img model.Image) (string, error) {
	if s.storage == nil {
		return "", nil
	}

	key := objectKey(userID, kind, img.Filename)
	err := s.storage.Upload(ctx, key, bytes.NewReader(img.Data), int64(len(img.Data)), img.ContentType)
	if err != nil {
		s.logger.Error("OCR service: failed to archive image",
			"filename", img.Filename,
			"error", err.Error())
		return "", fmt.Errorf("failed to archive %s: %w", img.Filename, err)
	}

	return key, nil
}

func (s *OCR) removeArchived(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Warn("OCR service: failed to remove archived image",
				"key", key,
				"error", err.Error())
		}
	}
}

func objectKey(userID int64, kind model.OCRKind, filename string) string {
	return fmt.Sprintf("ocr/%d/%s/%s%s", userID, kind, uuid.NewString(), strings.ToLower(path.Ext(filename)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
