package handler

import (
	"net/http"

	"github.com/dtroode/evalca-server/internal/api/http/response"
)

// Health reports liveness.
func Health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, "OK", map[string]string{"status": "ok"})
}
