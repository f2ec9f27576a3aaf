package middleware

import (
	"encoding/json"
	"net/http"

	internal_errors "github.com/pressgate-dev/pressgate/internal/errors"
	"github.com/pressgate-dev/pressgate/internal/logger"
)

// writeError emits the standard response envelope for guard rejections,
// matching the handler package's format so clients see one shape.
func writeError(w http.ResponseWriter, err error) {
	status := internal_errors.StatusCode(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Log.Error("request failed", "error", err)
		message = "Internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
