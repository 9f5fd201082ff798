package board_api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"taskboard/internal/api/middlewares"
	"taskboard/internal/services/auth_services"
	"taskboard/internal/services/board_services"
)

type BoardHandler struct {
	Service     *board_services.BoardService
	AuthService *auth_services.AuthService
}

func NewBoardHandler(s *board_services.BoardService, a *auth_services.AuthService) *BoardHandler {
	return &BoardHandler{Service: s, AuthService: a}
}

func (h *BoardHandler) BoardRoutes(r *mux.Router) {
	ownerRepo := h.Service.Repo

	r.Handle("/boards",
		middlewares.AuthMiddleware(h.AuthService, http.HandlerFunc(h.createBoard)),
	).Methods("POST")
	r.Handle("/boards",
		middlewares.AuthMiddleware(h.AuthService, http.HandlerFunc(h.getAllUserBoards)),
	).Methods("GET")

	boardRouter := r.PathPrefix("/boards/{boardID}").Subrouter()
	boardRouter.Handle("",
		middlewares.AuthMiddleware(h.AuthService,
			middlewares.IsBoardOwner_Path(ownerRepo, http.HandlerFunc(h.getOneBoard))),
	).Methods("GET")
	boardRouter.Handle("",
		middlewares.AuthMiddleware(h.AuthService,
			middlewares.IsBoardOwner_Path(ownerRepo, http.HandlerFunc(h.updateBoard))),
	).Methods("PUT")
	boardRouter.Handle("",
		middlewares.AuthMiddleware(h.AuthService,
			middlewares.IsBoardOwner_Path(ownerRepo, http.HandlerFunc(h.deleteBoard))),
	).Methods("DELETE")
}

func (h *BoardHandler) createBoard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
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

	userID, ok := middlewares.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	board, err := h.Service.CreateBoard(r.Context(), userID, strings.TrimSpace(req.Title), req.Description)
	if err != nil {
		handleError(w, err)
		return
	}

	respond(w, http.StatusCreated, map[string]any{"board": board})
}

// List endpoints filter to the session's own boards in the query itself, so
// no post-hoc ownership check is needed.
func (h *BoardHandler) getAllUserBoards(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	boards, err := h.Service.GetAllUserBoards(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"boards": boards})
}

func (h *BoardHandler) getOneBoard(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["boardID"]

	board, err := h.Service.GetOneBoard(r.Context(), boardID)
	if err != nil {
		handleError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"board": board})
}

func (h *BoardHandler) updateBoard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
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
	board, err := h.Service.UpdateBoard(r.Context(), boardID, strings.TrimSpace(req.Title), req.Description)
	if err != nil {
		handleError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"board": board})
}

func (h *BoardHandler) deleteBoard(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["boardID"]

	if err := h.Service.DeleteBoard(r.Context(), boardID); err != nil {
		handleError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "board deleted successfully")
}
