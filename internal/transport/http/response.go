package http_transport

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the JSON error envelope, kept from the teacher's
// dto.ErrorResponse.
type errorResponse struct {
	Message string `json:"message"`
}

// WriteJsonError writes a JSON error envelope with the given status code.
func WriteJsonError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Message: message})
}

// WriteJson writes v as a JSON body with the given status code.
func WriteJson(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
