package middleware

import (
	"encoding/json"
	"net/http"

	"saborstock/internal/domain"
	apperror "saborstock/internal/errors"
)

// writeError envia o mesmo envelope de erro usado pelos handlers.
func writeError(w http.ResponseWriter, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.ErrorResponse{Code: status, Category: category, Message: message})
}
