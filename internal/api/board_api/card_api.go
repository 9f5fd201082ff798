package board_api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"taskboard/internal/api/middlewares"
	"taskboard/internal/services/auth_services"
	"taskboard/internal/services/board_services"
)

type CardHandler struct {
	Service     *board_services.CardService
	AuthService *auth_services.AuthService
	Owners      middlewares.OwnerResolver
}

func NewCardHandler(s *board_services.CardService, a *auth_services.AuthService, owners middlewares.OwnerResolver) *CardHandler {
	return &CardHandler{Service: s, AuthService: a, Owners: owners}
}

func (h *CardHandler) CardRoutes(r *mux.Router) {
	r.Handle("/columns/{columnID}/cards",
		middlewares.AuthMiddleware(h.AuthService,
			middlewares.IsBoardOwner_ColumnPath(h.Owners, http.HandlerFunc(h.createCard))),
	).Methods("POST")

	r.Handle("/cards/{cardID}",
		middlewares.AuthMiddleware(h.AuthService,
			middlewares.IsBoardOwner_CardPath(h.Owners, http.HandlerFunc(h.getCard))),
	).Methods("GET")
	r.Handle("/cards/{cardID}",
		middlewares.AuthMiddleware(h.AuthService,
			middlewares.IsBoardOwner_CardPath(h.Owners, http.HandlerFunc(h.updateCard))),
	).Methods("PUT")
	r.Handle("/cards/{cardID}",
		middlewares.AuthMiddleware(h.AuthService,
			middlewares.IsBoardOwner_CardPath(h.Owners, http.HandlerFunc(h.deleteCard))),
	).Methods("DELETE")
	r.Handle("/cards/{cardID}/move",
		middlewares.AuthMiddleware(h.AuthService,
			middlewares.IsBoardOwner_CardPath(h.Owners, http.HandlerFunc(h.moveCard))),
	).Methods("POST")
	r.Handle("/cards/{cardID}/toggle-complete",
		middlewares.AuthMiddleware(h.AuthService,
			middlewares.IsBoardOwner_CardPath(h.Owners, http.HandlerFunc(h.toggleComplete))),
	).Methods("PUT")
}

func (h *CardHandler) createCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		ImageURL    *string    `json:"image_url"`
		DueDate     *time.Time `json:"due_date"`
		Position    *int       `json:"position"`
		Labels      []string   `json:"labels"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, err)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	columnID := mux.Vars(r)["columnID"]
	card, err := h.Service.CreateCard(r.Context(), columnID, strings.TrimSpace(req.Title), req.Description, req.ImageURL, req.DueDate, req.Position, req.Labels)
	if err != nil {
		handleError(w, err)
		return
	}

	respond(w, http.StatusCreated, map[string]any{"card": card})
}

func (h *CardHandler) getCard(w http.ResponseWriter, r *http.Request) {
	cardID := mux.Vars(r)["cardID"]

	card, err := h.Service.GetCard(r.Context(), cardID)
	if err != nil {
		handleError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"card": card})
}

func (h *CardHandler) updateCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		ImageURL    *string    `json:"image_url"`
		DueDate     *time.Time `json:"due_date"`
		Labels      *[]string  `json:"labels"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, err)
		return
	}
	defer r.Body.Close()

	cardID := mux.Vars(r)["cardID"]
	card, err := h.Service.UpdateCard(r.Context(), cardID, req.Title, req.Description, req.ImageURL, req.DueDate, req.Labels)
	if err != nil {
		handleError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"card": card})
}

func (h *CardHandler) deleteCard(w http.ResponseWriter, r *http.Request) {
	cardID := mux.Vars(r)["cardID"]

	if err := h.Service.DeleteCard(r.Context(), cardID); err != nil {
		handleError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "card deleted successfully")
}

// moveCard re-parents a card. The middleware already proved ownership of the
// card; the target column's chain is checked here before any write.
func (h *CardHandler) moveCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ColumnID string `json:"column_id"`
		Position *int   `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, err)
		return
	}
	defer r.Body.Close()

	if req.ColumnID == "" || req.Position == nil {
		respondError(w, http.StatusBadRequest, "column_id and position are required")
		return
	}

	userID, ok := middlewares.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	ownerID, err := h.Owners.OwnerIDByColumn(r.Context(), req.ColumnID)
	if err != nil {
		handleError(w, err)
		return
	}
	if ownerID != userID {
		respondError(w, http.StatusForbidden, "access forbidden: not the board owner")
		return
	}

	cardID := mux.Vars(r)["cardID"]
	if err := h.Service.MoveCard(r.Context(), cardID, req.ColumnID, *req.Position); err != nil {
		handleError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "card moved successfully")
}

func (h *CardHandler) toggleComplete(w http.ResponseWriter, r *http.Request) {
	cardID := mux.Vars(r)["cardID"]

	card, err := h.Service.ToggleComplete(r.Context(), cardID)
	if err != nil {
		handleError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"card": card})
}
