package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/evalca-server/internal/logger"
)

func TestLogging_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		wantMsg string
	}{
		{name: "implicit ok", status: 0, wantMsg: "HTTP request completed"},
		{name: "client error", status: http.StatusBadRequest, wantMsg: "HTTP request completed"},
		{name: "server error", status: http.StatusInternalServerError, wantMsg: "HTTP request failed"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			lg := NewLogging(logger.NewWithWriter(&buf, 0, "text"))

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
			})

			rec := httptest.NewRecorder()
			middleware.RequestID(lg.Handle(next)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			out := buf.String()
			assert.Contains(t, out, tt.wantMsg)
			assert.Contains(t, out, "path=/health")
			assert.Contains(t, out, "request_id=")
		})
	}
}
