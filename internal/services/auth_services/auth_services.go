package auth_services

import (
	"context"
	"errors"
	"log"

	"github.com/alexedwards/scs/v2"

	"taskboard/internal/model/auth_model"
	"taskboard/internal/model/board_model"
	"taskboard/internal/repository/auth_repository"
)

var ErrNotAuthenticated = errors.New("not authenticated")

const (
	sessionUserIDKey  = "userID"
	defaultBoardTitle = "My Board"
)

type BoardProvisioner interface {
	ProvisionIfEmpty(ctx context.Context, userID int, title string) (*board_model.Board, bool, error)
}

type AuthService struct {
	Users    *auth_repository.UserRepo
	Boards   BoardProvisioner
	Sessions *scs.SessionManager
}

func NewAuthService(u *auth_repository.UserRepo, b BoardProvisioner, sessions *scs.SessionManager) *AuthService {
	return &AuthService{Users: u, Boards: b, Sessions: sessions}
}

// EstablishSession upserts the user on the verified subject id, rotates the
// session token (a fresh identifier is issued even if the user already had a
// session) and binds the user id. First-time users get their default board;
// a provisioning failure leaves the session authenticated and is only logged.
func (s *AuthService) EstablishSession(ctx context.Context, claims *auth_model.IdentityClaims) (*auth_model.User, error) {
	u, err := s.Users.UpsertByGoogleID(ctx, claims)
	if err != nil {
		return nil, err
	}

	if err := s.Sessions.RenewToken(ctx); err != nil {
		return nil, err
	}
	s.Sessions.Put(ctx, sessionUserIDKey, u.ID)

	if _, provisioned, err := s.Boards.ProvisionIfEmpty(ctx, u.ID, defaultBoardTitle); err != nil {
		log.Printf("ERROR: failed to provision default board for user %d: %v", u.ID, err)
	} else if provisioned {
		log.Printf("INFO: provisioned default board for user %d", u.ID)
	}

	return u, nil
}

// CurrentUserID reports the session's user id, if any.
func (s *AuthService) CurrentUserID(ctx context.Context) (int, bool) {
	userID := s.Sessions.GetInt(ctx, sessionUserIDKey)
	return userID, userID != 0
}

func (s *AuthService) CurrentUser(ctx context.Context) (*auth_model.User, error) {
	userID, ok := s.CurrentUserID(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return s.Users.GetByID(ctx, userID)
}

// Logout destroys the server-side session state. An anonymous request is
// reported distinctly so the handler answers 401 instead of silently
// succeeding; destroying already-expired server state is a no-op.
func (s *AuthService) Logout(ctx context.Context) error {
	if _, ok := s.CurrentUserID(ctx); !ok {
		return ErrNotAuthenticated
	}
	return s.Sessions.Destroy(ctx)
}
