package board_api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"taskboard/internal/repository/board_repository"
)

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": true, "message": message})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}

func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, board_repository.ErrBoardNotFound):
		respondError(w, http.StatusNotFound, "board not found")
	case errors.Is(err, board_repository.ErrColumnNotFound):
		respondError(w, http.StatusNotFound, "column not found")
	case errors.Is(err, board_repository.ErrCardNotFound):
		respondError(w, http.StatusNotFound, "card not found")
	default:
		// An empty or truncated body decodes to io.EOF/io.ErrUnexpectedEOF,
		// not a *json.SyntaxError.
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
			errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			respondError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
		log.Printf("ERROR: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
