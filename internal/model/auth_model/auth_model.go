package auth_model

import (
	"time"
)

type User struct {
	ID        int        `db:"id" json:"id"`
	GoogleID  string     `db:"google_id" json:"-"`
	Email     string     `db:"email" json:"email"`
	Name      string     `db:"name" json:"name"`
	AvatarURL string     `db:"avatar_url" json:"avatar_url"`
	Provider  string     `db:"provider" json:"provider"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// IdentityClaims are the fields extracted from a verified Google ID token.
// They are never populated from an unverified payload.
type IdentityClaims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}
