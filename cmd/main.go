package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"taskboard/internal/api/auth_api"
	"taskboard/internal/api/board_api"
	"taskboard/internal/api/middlewares"
	"taskboard/internal/config"
	"taskboard/internal/database"
	"taskboard/internal/repository/auth_repository"
	"taskboard/internal/repository/board_repository"
	"taskboard/internal/services/auth_services"
	"taskboard/internal/services/board_services"
)

func setupCORS(cfg *config.Config, router http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(router)
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "ok"})
}

func main() {
	cfg := config.Load()

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: database connection failed: %v", err)
	}
	defer db.Close()
	log.Println("INFO: Database connection successful")

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("FATAL: schema migration failed: %v", err)
	}

	// SESSIONS
	sessions := scs.New()
	sessions.Store = postgresstore.New(db.DB)
	sessions.Lifetime = cfg.SessionLifetime
	sessions.Cookie.Name = "taskboard_session"
	sessions.Cookie.HttpOnly = true
	sessions.Cookie.Secure = cfg.CookieSecure
	sessions.Cookie.SameSite = http.SameSiteLaxMode

	// GOOGLE OAUTH
	var verifier *auth_services.OAuthVerifier
	if cfg.OAuthConfigured() {
		verifier, err = auth_services.NewOAuthVerifier(context.Background(), cfg)
		if err != nil {
			// Degraded but running: auth routes redirect with configuration_error.
			log.Printf("ERROR: OAuth provider discovery failed, login disabled: %v", err)
			verifier = nil
		}
	} else {
		log.Println("ERROR: Google OAuth credentials are not configured, login disabled")
	}

	// BOARDS
	boardRepo := board_repository.NewBoardRepo(db)
	boardService := board_services.NewBoardService(boardRepo)

	// COLUMNS
	columnRepo := board_repository.NewColumnRepo(db)
	columnService := board_services.NewColumnService(columnRepo)

	// CARDS
	cardRepo := board_repository.NewCardRepo(db)
	cardService := board_services.NewCardService(cardRepo)

	// AUTH
	userRepo := auth_repository.NewUserRepo(db)
	authSvc := auth_services.NewAuthService(userRepo, boardService, sessions)

	authHandler := auth_api.NewAuthHandler(authSvc, verifier, cfg)
	boardHandler := board_api.NewBoardHandler(boardService, authSvc)
	columnHandler := board_api.NewColumnHandler(columnService, authSvc, boardRepo)
	cardHandler := board_api.NewCardHandler(cardService, authSvc, boardRepo)

	r := mux.NewRouter()
	r.HandleFunc("/health-check", healthCheck).Methods("GET")
	authHandler.RegisterRoutes(r)
	boardHandler.BoardRoutes(r)
	columnHandler.ColumnRoutes(r)
	cardHandler.CardRoutes(r)

	handler := middlewares.RecoverMiddleware(setupCORS(cfg, sessions.LoadAndSave(r)))

	log.Printf("INFO: Starting HTTP server on port %s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler); err != nil {
		log.Fatalf("FATAL: failed to start HTTP server: %v", err)
	}
}
