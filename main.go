package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/username/adlytics/backend/src/config"
	"github.com/username/adlytics/backend/src/database"
	"github.com/username/adlytics/backend/src/handlers"
	"github.com/username/adlytics/backend/src/logger"
	"github.com/username/adlytics/backend/src/security"
	"github.com/username/adlytics/backend/src/services"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Requested-With, Cookie, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "X-CSRF-Token, ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Adlytics backend server starting...")

	if config.Cfg.JWTSecret == "" || len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid. Must be at least 32 bytes.")
		os.Exit(1)
	}
	if len(config.Cfg.CSRFAuthKey) < 32 {
		logger.L.Error("CSRF_AUTH_KEY must be at least 32 bytes long.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing services and handlers...")
	authService := security.NewAuthService(config.Cfg.JWTSecret)
	emailService := services.NewEmailService()
	userHandler := handlers.NewUserHandler(authService, emailService)

	reportStore := database.NewReportStore(database.DB)
	insightService := services.NewInsightService()
	analyticsService := services.NewAnalyticsService(reportStore, insightService)
	uploadService := services.NewUploadService(reportStore, analyticsService)

	uploadHandler := handlers.NewUploadHandler(uploadService)
	reportHandler := handlers.NewReportHandler(reportStore, analyticsService)
	analysisHandler := handlers.NewAnalysisHandler(analyticsService)
	optimizationHandler := handlers.NewOptimizationHandler(analyticsService)
	exportHandler := handlers.NewExportHandler(analyticsService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	// Public GET routes (no CSRF needed for these GETs)
	apiRouter.HandleFunc("GET /api/auth/csrf", handlers.GetCSRFToken)
	apiRouter.HandleFunc("GET /api/auth/verify-email", userHandler.VerifyEmailHandler) // Token in query param
	handlers.InitializeGoogleOAuthConfig()
	apiRouter.HandleFunc("GET /api/auth/google/login", userHandler.HandleGoogleLogin)
	apiRouter.HandleFunc("GET /api/auth/google/callback", userHandler.HandleGoogleCallback)

	// Auth actions router - POST routes generally need CSRF
	authActionRouter := http.NewServeMux()
	authActionRouter.HandleFunc("POST /login", userHandler.LoginUserHandler)
	authActionRouter.HandleFunc("POST /register", userHandler.RegisterUserHandler)
	authActionRouter.HandleFunc("POST /refresh", userHandler.RefreshTokenHandler)
	authActionRouter.HandleFunc("POST /logout", userHandler.AuthMiddleware(userHandler.LogoutUserHandler))
	authActionRouter.HandleFunc("POST /request-password-reset", userHandler.RequestPasswordResetHandler)
	authActionRouter.HandleFunc("POST /reset-password", userHandler.ResetPasswordHandler)

	// Apply CSRF to the entire authActionRouter group
	apiRouter.Handle("/api/auth/", http.StripPrefix("/api/auth", handlers.CSRFMiddleware(config.Cfg.CSRFAuthKey)(authActionRouter)))

	// CSRF and Auth middleware for protected API routes
	csrfProtection := handlers.CSRFMiddleware(config.Cfg.CSRFAuthKey)
	applyCsrfAndAuth := func(handler http.HandlerFunc) http.Handler {
		return csrfProtection(http.HandlerFunc(userHandler.AuthMiddleware(handler)))
	}

	apiRouter.Handle("POST /api/reports/upload", applyCsrfAndAuth(uploadHandler.HandleUpload))
	apiRouter.Handle("GET /api/reports", applyCsrfAndAuth(reportHandler.HandleListReports))
	apiRouter.Handle("GET /api/reports/{id}", applyCsrfAndAuth(reportHandler.HandleGetReport))
	apiRouter.Handle("DELETE /api/reports/{id}", applyCsrfAndAuth(reportHandler.HandleDeleteReport))

	apiRouter.Handle("GET /api/analysis/{id}", applyCsrfAndAuth(analysisHandler.HandleGetAnalysis))
	apiRouter.Handle("GET /api/analysis/{id}/campaigns", applyCsrfAndAuth(analysisHandler.HandleGetCampaigns))
	apiRouter.Handle("GET /api/analysis/{id}/trends", applyCsrfAndAuth(analysisHandler.HandleGetTrends))
	apiRouter.Handle("POST /api/analysis/compare", applyCsrfAndAuth(analysisHandler.HandleCompareReports))

	apiRouter.Handle("GET /api/optimization/{id}", applyCsrfAndAuth(optimizationHandler.HandleGetOptimization))
	apiRouter.Handle("GET /api/optimization/{id}/campaigns", applyCsrfAndAuth(optimizationHandler.HandleCampaignOptimizations))
	apiRouter.Handle("GET /api/optimization/{id}/bids", applyCsrfAndAuth(optimizationHandler.HandleBidRecommendations))
	apiRouter.Handle("GET /api/optimization/{id}/keywords", applyCsrfAndAuth(optimizationHandler.HandleKeywordRecommendations))
	apiRouter.Handle("POST /api/optimization/{id}/simulate", applyCsrfAndAuth(optimizationHandler.HandleSimulate))

	apiRouter.Handle("GET /api/export/{id}/csv", applyCsrfAndAuth(exportHandler.HandleExportCSV))
	apiRouter.Handle("GET /api/export/{id}/json", applyCsrfAndAuth(exportHandler.HandleExportJSON))

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "ADLYTICS Backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
