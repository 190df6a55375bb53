package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"airwatch/internal/models"
)

// RespondWithError отправляет ошибку в формате APIError
func RespondWithError(w http.ResponseWriter, apiErr models.APIError) {
	RespondWithJSON(w, apiErr.StatusCode, apiErr)
}

// RespondWithJSON отправляет успешный JSON ответ
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}
