package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dtroode/evalca-server/internal/api/http/response"
	"github.com/dtroode/evalca-server/internal/apierror"
	"github.com/dtroode/evalca-server/internal/logger"
	"github.com/dtroode/evalca-server/internal/model"
)

const (
	filesField       = "files"
	multipartMemory  = 32 << 20
	sniffContentType = "application/octet-stream"
)

// OCRService extracts text from uploaded images.
type OCRService interface {
	Process(ctx context.Context, userID int64, kind model.OCRKind, images []model.Image) (model.OCRResult, error)
}

// OCR handles the image upload endpoints.
type OCR struct {
	service        OCRService
	contextManager model.ContextManager
	maxUploadBytes int64
	logger         *logger.Logger
}

// NewOCR creates a new OCR handler. maxUploadBytes bounds the whole request body.
func NewOCR(service OCRService, contextManager model.ContextManager, maxUploadBytes int64, logger *logger.Logger) *OCR {
	return &OCR{
		service:        service,
		contextManager: contextManager,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Question extracts text from question sheets.
func (h *OCR) Question(w http.ResponseWriter, r *http.Request) {
	h.process(w, r, model.OCRKindQuestion)
}

// Answer extracts text from answer sheets.
func (h *OCR) Answer(w http.ResponseWriter, r *http.Request) {
	h.process(w, r, model.OCRKindAnswer)
}

func (h *OCR) process(w http.ResponseWriter, r *http.Request, kind model.OCRKind) {
	user, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.logger, apierror.NewErrMissingAuthorizationToken())
		return
	}

	images, err := h.readImages(w, r)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	result, err := h.service.Process(r.Context(), user.ID, kind, images)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, "Record retrieved successfully", result)
}

func (h *OCR) readImages(w http.ResponseWriter, r *http.Request) ([]model.Image, error) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, apierror.NewErrBadRequest(fmt.Sprintf("Upload exceeds %d bytes", maxErr.Limit))
		}
		v := apierror.ValidationErrors{}
		v.Add(filesField, "Expected multipart form data.")
		return nil, v.Err()
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[filesField]
	if len(headers) == 0 {
		v := apierror.ValidationErrors{}
		v.Add(filesField, msgRequired)
		return nil, v.Err()
	}

	images := make([]model.Image, 0, len(headers))
	for _, fh := range headers {
		img, err := readImage(fh)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func readImage(fh *multipart.FileHeader) (model.Image, error) {
	f, err := fh.Open()
	if err != nil {
		return model.Image{}, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return model.Image{}, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == sniffContentType {
		contentType = http.DetectContentType(data)
	}

	return model.Image{
		Filename:    fh.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
