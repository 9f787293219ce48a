package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/pipedeck/pipedeck/database"
)

// respondJSON writes the standard success envelope.
func respondJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status": "success",
		"data":   data,
	})
}

// respondStoreError maps database-layer errors onto HTTP statuses: missing
// records are 404, validation failures 400, everything else a logged 500.
func respondStoreError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, database.ErrCompanyNameRequired),
		errors.Is(err, database.ErrTitleRequired),
		errors.Is(err, database.ErrInvalidPriority),
		errors.Is(err, database.ErrInvalidStatus),
		errors.Is(err, database.ErrNoFieldsToUpdate):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("Error %s: %v", action, err)
		http.Error(w, "Server error", http.StatusInternalServerError)
	}
}
