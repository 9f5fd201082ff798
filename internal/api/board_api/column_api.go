package board_api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"taskboard/internal/api/middlewares"
	"taskboard/internal/model/board_model"
	"taskboard/internal/services/auth_services"
	"taskboard/internal/services/board_services"
)

type ColumnHandler struct {
	Service     *board_services.ColumnService
	AuthService *auth_services.AuthService
	Owners      middlewares.OwnerResolver
}

func NewColumnHandler(s *board_services.ColumnService, a *auth_services.AuthService, owners middlewares.OwnerResolver) *ColumnHandler {
	return &ColumnHandler{Service: s, AuthService: a, Owners: owners}
}

func (h *ColumnHandler) ColumnRoutes(r *mux.Router) {
	// Registered before /columns/{columnID} so "reorder" never matches the var.
	r.Handle("/columns/reorder",
		middlewares.AuthMiddleware(h.AuthService, http.HandlerFunc(h.reorderColumns)),
	).Methods("POST")

	r.Handle("/boards/{boardID}/columns",
		middlewares.AuthMiddleware(h.AuthService,
			middlewares.IsBoardOwner_Path(h.Owners, http.HandlerFunc(h.createColumn))),
	).Methods("POST")

	r.Handle("/columns/{columnID}",
		middlewares.AuthMiddleware(h.AuthService,
			middlewares.IsBoardOwner_ColumnPath(h.Owners, http.HandlerFunc(h.updateColumn))),
	).Methods("PUT")
	r.Handle("/columns/{columnID}",
		middlewares.AuthMiddleware(h.AuthService,
			middlewares.IsBoardOwner_ColumnPath(h.Owners, http.HandlerFunc(h.deleteColumn))),
	).Methods("DELETE")
}

func (h *ColumnHandler) createColumn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string `json:"title"`
		Color    string `json:"color"`
		Position *int   `json:"position"`
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

	boardID := mux.Vars(r)["boardID"]
	column, err := h.Service.CreateColumn(r.Context(), boardID, strings.TrimSpace(req.Title), req.Color, req.Position)
	if err != nil {
		handleError(w, err)
		return
	}

	respond(w, http.StatusCreated, map[string]any{"column": column})
}

func (h *ColumnHandler) updateColumn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    *string `json:"title"`
		Color    *string `json:"color"`
		Position *int    `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, err)
		return
	}
	defer r.Body.Close()

	columnID := mux.Vars(r)["columnID"]
	column, err := h.Service.UpdateColumn(r.Context(), columnID, req.Title, req.Color, req.Position)
	if err != nil {
		handleError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"column": column})
}

func (h *ColumnHandler) deleteColumn(w http.ResponseWriter, r *http.Request) {
	columnID := mux.Vars(r)["columnID"]

	if err := h.Service.DeleteColumn(r.Context(), columnID); err != nil {
		handleError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "column deleted successfully")
}

// reorderColumns applies a batch of (id, position) pairs. Every pair's
// ownership is resolved before the first write; the writes themselves run in
// one transaction in the submitted order.
func (h *ColumnHandler) reorderColumns(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Columns []board_model.ReorderItem `json:"columns"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, err)
		return
	}
	defer r.Body.Close()

	if len(req.Columns) == 0 {
		respondError(w, http.StatusBadRequest, "columns are required")
		return
	}

	userID, ok := middlewares.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	for _, item := range req.Columns {
		ownerID, err := h.Owners.OwnerIDByColumn(r.Context(), item.ID)
		if err != nil {
			handleError(w, err)
			return
		}
		if ownerID != userID {
			respondError(w, http.StatusForbidden, "access forbidden: not the board owner")
			return
		}
	}

	if err := h.Service.Reorder(r.Context(), req.Columns); err != nil {
		handleError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "columns reordered successfully")
}
