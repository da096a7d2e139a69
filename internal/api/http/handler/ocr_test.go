package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/dtroode/evalca-server/internal/apierror"
	"github.com/dtroode/evalca-server/internal/mocks"
	"github.com/dtroode/evalca-server/internal/model"
	"github.com/dtroode/evalca-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type upload struct {
	filename    string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, target string, files ...upload) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="files"; filename="`+f.filename+`"`)
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func teacherContext(t *testing.T) *mocks.ContextManager {
	cm := mocks.NewContextManager(t)
	cm.On("GetUserFromContext", mock.Anything).Return(model.User{ID: 9, Role: model.RoleTeacher}, true)
	return cm
}

func TestOCR_Question(t *testing.T) {
	t.Parallel()

	confidence := 0.91
	result := model.OCRResult{
		IndividualResults: []model.OCRFileResult{{Filename: "q1.png", Text: "What is GST?", Confidence: &confidence}},
		CombinedText:      "What is GST?",
		AverageConfidence: 0.91,
		TotalFiles:        1,
	}

	svc := mocks.NewOCRService(t)
	svc.On("Process", mock.Anything, int64(9), model.OCRKindQuestion, mock.MatchedBy(func(images []model.Image) bool {
		return len(images) == 1 &&
			images[0].Filename == "q1.png" &&
			images[0].ContentType == "image/png" &&
			bytes.Equal(images[0].Data, pngHeader)
	})).Return(result, nil)
	h := NewOCR(svc, teacherContext(t), 1<<20, testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	h.Question(rec, multipartRequest(t, "/ocr/question", upload{filename: "q1.png", contentType: "image/png", data: pngHeader}))

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.OCRResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &got))
	assert.Equal(t, result, got)
}

func TestOCR_Answer_SniffsContentType(t *testing.T) {
	t.Parallel()

	svc := mocks.NewOCRService(t)
	svc.On("Process", mock.Anything, int64(9), model.OCRKindAnswer, mock.MatchedBy(func(images []model.Image) bool {
		return len(images) == 2 &&
			images[0].ContentType == "image/png" &&
			images[1].ContentType == "image/png"
	})).Return(model.OCRResult{TotalFiles: 2}, nil)
	h := NewOCR(svc, teacherContext(t), 1<<20, testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	h.Answer(rec, multipartRequest(t, "/ocr/answer",
		upload{filename: "a1.png", data: pngHeader},
		upload{filename: "a2.png", contentType: "application/octet-stream", data: pngHeader},
	))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOCR_Errors(t *testing.T) {
	t.Parallel()

	t.Run("too many files", func(t *testing.T) {
		t.Parallel()

		svc := mocks.NewOCRService(t)
		svc.On("Process", mock.Anything, int64(9), model.OCRKindQuestion, mock.Anything).
			Return(model.OCRResult{}, apierror.NewErrTooManyFiles(3))
		h := NewOCR(svc, teacherContext(t), 1<<20, testutil.MakeNoopLogger())

		files := make([]upload, 4)
		for i := range files {
			files[i] = upload{filename: "q.png", contentType: "image/png", data: pngHeader}
		}
		rec := httptest.NewRecorder()
		h.Question(rec, multipartRequest(t, "/ocr/question", files...))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"Maximum 3 files allowed"}, decodeFields(t, rec)[apierror.NonFieldErrors])
	})

	t.Run("not multipart", func(t *testing.T) {
		t.Parallel()

		h := NewOCR(mocks.NewOCRService(t), teacherContext(t), 1<<20, testutil.MakeNoopLogger())

		req := httptest.NewRequest(http.MethodPost, "/ocr/question", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.Question(rec, req)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decodeFields(t, rec), "files")
	})

	t.Run("no files", func(t *testing.T) {
		t.Parallel()

		h := NewOCR(mocks.NewOCRService(t), teacherContext(t), 1<<20, testutil.MakeNoopLogger())

		rec := httptest.NewRecorder()
		h.Question(rec, multipartRequest(t, "/ocr/question"))

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, map[string][]string{"files": {msgRequired}}, decodeFields(t, rec))
	})

	t.Run("no user", func(t *testing.T) {
		t.Parallel()

		cm := mocks.NewContextManager(t)
		cm.On("GetUserFromContext", mock.Anything).Return(model.User{}, false)
		h := NewOCR(mocks.NewOCRService(t), cm, 1<<20, testutil.MakeNoopLogger())

		rec := httptest.NewRecorder()
		h.Question(rec, multipartRequest(t, "/ocr/question", upload{filename: "q.png", data: pngHeader}))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
