package middlewares

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"taskboard/internal/repository/board_repository"
)

// OwnerResolver walks the ownership chain (Card → Column → Board → User) in
// the store. There is no denormalized owner field on descendants.
type OwnerResolver interface {
	OwnerID(ctx context.Context, boardID string) (int, error)
	OwnerIDByColumn(ctx context.Context, columnID string) (int, error)
	OwnerIDByCard(ctx context.Context, cardID string) (int, error)
}

// A missing resource is 404; an existing resource owned by someone else is
// 403. Ids are random UUIDs, so revealing existence is acceptable.
func checkOwner(w http.ResponseWriter, r *http.Request, resolve func(context.Context) (int, error), next http.Handler) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	ownerID, err := resolve(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, board_repository.ErrBoardNotFound):
			writeError(w, http.StatusNotFound, "board not found")
		case errors.Is(err, board_repository.ErrColumnNotFound):
			writeError(w, http.StatusNotFound, "column not found")
		case errors.Is(err, board_repository.ErrCardNotFound):
			writeError(w, http.StatusNotFound, "card not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to check ownership")
		}
		return
	}

	if ownerID != userID {
		writeError(w, http.StatusForbidden, "access forbidden: not the board owner")
		return
	}

	next.ServeHTTP(w, r)
}

func IsBoardOwner_Path(repo OwnerResolver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		boardID := mux.Vars(r)["boardID"]
		if boardID == "" {
			writeError(w, http.StatusBadRequest, "board id is missing in URL path")
			return
		}
		checkOwner(w, r, func(ctx context.Context) (int, error) {
			return repo.OwnerID(ctx, boardID)
		}, next)
	})
}

func IsBoardOwner_ColumnPath(repo OwnerResolver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		columnID := mux.Vars(r)["columnID"]
		if columnID == "" {
			writeError(w, http.StatusBadRequest, "column id is missing in URL path")
			return
		}
		checkOwner(w, r, func(ctx context.Context) (int, error) {
			return repo.OwnerIDByColumn(ctx, columnID)
		}, next)
	})
}

func IsBoardOwner_CardPath(repo OwnerResolver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cardID := mux.Vars(r)["cardID"]
		if cardID == "" {
			writeError(w, http.StatusBadRequest, "card id is missing in URL path")
			return
		}
		checkOwner(w, r, func(ctx context.Context) (int, error) {
			return repo.OwnerIDByCard(ctx, cardID)
		}, next)
	})
}
