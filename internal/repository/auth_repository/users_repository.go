package auth_repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"taskboard/internal/model/auth_model"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepo struct {
	DB *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// UpsertByGoogleID creates or updates a user keyed on the immutable Google
// subject id. Profile fields are refreshed on every login; the google_id
// itself is never rewritten. Keyed on the subject, never on email.
func (r *UserRepo) UpsertByGoogleID(ctx context.Context, claims *auth_model.IdentityClaims) (*auth_model.User, error) {
	q := `
        INSERT INTO users (google_id, email, name, avatar_url, provider)
        VALUES ($1, $2, $3, $4, 'google')
        ON CONFLICT (google_id) DO UPDATE
        SET email = EXCLUDED.email,
            name = EXCLUDED.name,
            avatar_url = EXCLUDED.avatar_url,
            updated_at = NOW()
        RETURNING *;
    `
	var u auth_model.User
	err := r.DB.QueryRowxContext(ctx, q, claims.Subject, claims.Email, claims.Name, claims.Picture).StructScan(&u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int) (*auth_model.User, error) {
	var u auth_model.User
	q := `SELECT * FROM users WHERE id = $1`
	err := r.DB.GetContext(ctx, &u, q, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
