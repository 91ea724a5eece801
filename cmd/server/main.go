package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"schoolfit/internal/config"
	"schoolfit/internal/gamification"
	"schoolfit/internal/handlers"
	"schoolfit/internal/metrics"
	"schoolfit/internal/repository"
	"schoolfit/internal/security"
	"schoolfit/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startup := handlers.NewStartupStatus()

	// Load configuration
	startup.SetCurrentStep(handlers.StepConfig)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	generated, err := cfg.EnsureSessionSecret()
	if err != nil {
		log.Fatalf("Failed to set up session secret: %v", err)
	}
	if generated {
		log.Printf("Warning: SESSION_SECRET is unset or a placeholder; using a random secret, sessions end on restart")
	}
	startup.CompleteStep(handlers.StepConfig)

	m := metrics.New()

	// Open the user store (json, sqlite, postgres, mysql or mongo)
	startup.SetCurrentStep(handlers.StepStore)
	store, err := repository.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open user store: %v", err)
	}
	defer store.Close()
	startup.CompleteStep(handlers.StepStore)

	startup.SetCurrentStep(handlers.StepUsers)
	users := repository.NewUserRepository(repository.NewObservedStore(store, m))
	if err := users.Load(ctx); err != nil {
		log.Fatalf("Failed to load user records: %v", err)
	}
	log.Printf("Loaded %d user records (backend: %s)", users.Len(), cfg.StoreBackend)
	startup.CompleteStep(handlers.StepUsers)

	// Initialize services
	startup.SetCurrentStep(handlers.StepServices)
	revoked, err := revocationList(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect session store: %v", err)
	}
	sessions := security.NewSessionManager(cfg.SessionSecret, cfg.SessionDuration, revoked)

	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug, m)
	if err != nil {
		log.Printf("Warning: Failed to initialize email service: %v", err)
		emailService = nil
	}

	var verifier service.Verifier
	gemini, err := service.NewGeminiVerifier(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Debug)
	if err != nil {
		log.Printf("Warning: Failed to initialize form verification: %v", err)
	} else if gemini != nil {
		defer gemini.Close()
		verifier = gemini
	}

	ledger := gamification.NewLedger()
	authService := service.NewAuthService(users, sessions, ledger, emailService, m)
	activityService := service.NewActivityService(users, ledger, m)
	napfaService := service.NewNapfaService(users, ledger, m)
	socialService := service.NewSocialService(users, ledger, m)
	houseService := service.NewHouseService(users)
	teacherService := service.NewTeacherService(users, emailService)
	verificationService := service.NewVerificationService(users, ledger, verifier, m)

	csrf := security.NewCSRFSigner(cfg.SessionSecret)
	limiter := security.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	defer limiter.Stop()

	authHandler := handlers.NewAuthHandler(authService, activityService, csrf,
		handlers.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectBaseURL, cfg.AppBaseURL))

	router := &handlers.Router{
		Middleware:   handlers.NewMiddleware(authService, csrf, limiter),
		Auth:         authHandler,
		Activity:     handlers.NewActivityHandler(activityService, users),
		Napfa:        handlers.NewNapfaHandler(napfaService, teacherService),
		Social:       handlers.NewSocialHandler(socialService),
		Teacher:      handlers.NewTeacherHandler(teacherService, houseService),
		Verification: handlers.NewVerificationHandler(verificationService, cfg.UploadMaxSize),
		Startup:      startup,
		Metrics:      m,
	}
	startup.CompleteStep(handlers.StepServices)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()
	startup.MarkReady()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
	if err := users.Save(shutdownCtx); err != nil {
		log.Printf("Failed to save user records on shutdown: %v", err)
	}
}

// revocationList picks where revoked session IDs are kept
func revocationList(ctx context.Context, cfg *config.Config) (security.RevocationList, error) {
	if cfg.SessionStore != "redis" {
		return security.NewMemoryRevocationList(), nil
	}
	client, err := security.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	log.Printf("Using Redis session revocation list")
	return security.NewRedisRevocationList(client), nil
}
