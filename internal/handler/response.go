package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"treasury_go/internal/domain"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError writes the standard error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// parseJSON decodes the request body into v, rejecting unknown fields.
func parseJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// mapDomainError translates the §7 error taxonomy into HTTP responses:
// validation failures are 400, missing records 404, terminal-state cancels
// 409, anything else a 500.
func mapDomainError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, "validation_error", ve.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrBondNotFound):
		writeError(w, http.StatusNotFound, "bond_not_found", err.Error())
	case errors.Is(err, domain.ErrTradeNotFound):
		writeError(w, http.StatusNotFound, "trade_not_found", err.Error())
	case errors.Is(err, domain.ErrTradeNotCancellable):
		writeError(w, http.StatusConflict, "trade_not_cancellable", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred")
	}
}
