package auth_api

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"taskboard/internal/config"
	"taskboard/internal/services/auth_services"
)

const stateCookieName = "oauthstate"

type AuthHandler struct {
	Service  *auth_services.AuthService
	Verifier *auth_services.OAuthVerifier
	Config   *config.Config
}

// Verifier is nil when OAuth is unconfigured or provider discovery failed at
// startup; auth routes then answer with a configuration_error redirect.
func NewAuthHandler(s *auth_services.AuthService, v *auth_services.OAuthVerifier, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Service: s, Verifier: v, Config: cfg}
}

func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/auth/google", h.googleRedirect).Methods("GET")
	r.HandleFunc("/auth/google/callback", h.googleCallback).Methods("GET")
	r.HandleFunc("/auth/me", h.me).Methods("GET")
	r.HandleFunc("/auth/logout", h.logout).Methods("POST")
}

// errorRedirect sends the browser to the frontend error page with a
// machine-readable reason. The browser is mid-navigation during the OAuth
// flow, so failures never surface as raw JSON or a 500.
func (h *AuthHandler) errorRedirect(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, h.Config.FrontendURL+"/auth/error?reason="+reason, http.StatusFound)
}

func (h *AuthHandler) googleRedirect(w http.ResponseWriter, r *http.Request) {
	if h.Verifier == nil {
		h.errorRedirect(w, r, "configuration_error")
		return
	}

	state, err := newState()
	if err != nil {
		h.errorRedirect(w, r, "server_error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   h.Config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.Verifier.AuthCodeURL(state), http.StatusFound)
}

func (h *AuthHandler) googleCallback(w http.ResponseWriter, r *http.Request) {
	if h.Verifier == nil {
		h.errorRedirect(w, r, "configuration_error")
		return
	}

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		// Only a declined consent screen is access_denied; any other provider
		// error (e.g. temporarily_unavailable) is not the user's doing.
		if errParam == "access_denied" {
			h.errorRedirect(w, r, "access_denied")
			return
		}
		log.Printf("ERROR: oauth provider returned error %q", errParam)
		h.errorRedirect(w, r, "server_error")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.errorRedirect(w, r, "no_code")
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		h.errorRedirect(w, r, "invalid_token")
		return
	}
	// The state is single-use.
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/", MaxAge: -1})

	rawIDToken, err := h.Verifier.ExchangeCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, auth_services.ErrNoIDToken) {
			h.errorRedirect(w, r, "no_id_token")
			return
		}
		log.Printf("ERROR: code exchange failed: %v", err)
		h.errorRedirect(w, r, "token_exchange_failed")
		return
	}

	claims, err := h.Verifier.VerifyIdentity(r.Context(), rawIDToken)
	if err != nil {
		log.Printf("ERROR: identity verification failed: %v", err)
		h.errorRedirect(w, r, "invalid_token")
		return
	}

	if _, err := h.Service.EstablishSession(r.Context(), claims); err != nil {
		log.Printf("ERROR: failed to establish session: %v", err)
		h.errorRedirect(w, r, "server_error")
		return
	}

	http.Redirect(w, r, h.Config.FrontendURL+"/auth/success", http.StatusFound)
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.Service.CurrentUser(r.Context())
	if err != nil {
		if errors.Is(err, auth_services.ErrNotAuthenticated) {
			respondError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	respond(w, http.StatusOK, map[string]any{"user": user})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Logout(r.Context()); err != nil {
		if errors.Is(err, auth_services.ErrNotAuthenticated) {
			respondError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to logout")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "logged out"})
}

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}

func newState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
