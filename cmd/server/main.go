package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/smartresume-api/internal/config"
	"github.com/yourusername/smartresume-api/internal/generator"
	"github.com/yourusername/smartresume-api/internal/handler"
	"github.com/yourusername/smartresume-api/internal/middleware"
	"github.com/yourusername/smartresume-api/internal/rag"
	"github.com/yourusername/smartresume-api/internal/repository"
	"github.com/yourusername/smartresume-api/internal/service"
)

func main() {
	// ── Logging ──────────────────────────────────────────
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// ── Config ───────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("Starting SmartResume API")

	// ── Database ─────────────────────────────────────────
	ctx := context.Background()
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid database URL")
	}
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connected")

	// ── Repositories ─────────────────────────────────────
	sessionRepo := repository.NewSessionRepo(pool)
	chunkRepo := repository.NewChunkRepo(pool)
	fileRepo := repository.NewFileRepo(pool)

	// ── Services ─────────────────────────────────────────
	groq := service.NewGroqClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel)

	var gemini *service.GeminiClient
	if cfg.GeminiAPIKey != "" {
		gemini, err = service.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Gemini client")
		}
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set: no LLM fallback, RAG tailoring degrades to standard")
	}

	tailor := service.NewTailor(groq, gemini)
	if !tailor.Available() {
		log.Warn().Msg("No LLM backend configured, tailoring endpoints will return 503")
	}

	var engine *rag.Engine
	if gemini != nil {
		engine = rag.NewEngine(gemini, chunkRepo)
	}

	gen, err := generator.NewGenerator(cfg.OutputDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize file generator")
	}

	// ── Handlers ─────────────────────────────────────────
	resumeHandler := handler.NewResumeHandler(sessionRepo)
	jobHandler := handler.NewJobHandler(sessionRepo)
	tailorHandler := handler.NewTailorHandler(sessionRepo, tailor, engine)
	fileHandler := handler.NewFileHandler(sessionRepo, fileRepo, gen, cfg.FileTTL, cfg.SessionTTL)

	// ── Middleware ────────────────────────────────────────
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS)

	// ── Router ───────────────────────────────────────────
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	// CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"service":      "smartresume-api",
			"aiAvailable":  tailor.Available(),
			"ragAvailable": engine != nil,
			"time":         time.Now().UTC(),
		})
	})

	// ── Routes ───────────────────────────────────────────
	api := r.Group("/", rateLimiter.Limit())
	{
		// Resume upload and sessions
		api.POST("/upload-resume", resumeHandler.Upload)
		api.GET("/session/:sessionId", resumeHandler.GetSession)

		// Job analysis
		api.POST("/analyze-job", jobHandler.AnalyzeJob)

		// Tailoring
		api.POST("/tailor-resume/:sessionId", tailorHandler.TailorResume)
		api.POST("/tailor-resume-rag/:sessionId", tailorHandler.TailorResumeRAG)
		api.POST("/tailor-resume-agents/:sessionId", tailorHandler.TailorResumeAgents)
		api.POST("/analyze-ats/:sessionId", tailorHandler.AnalyzeATS)
		api.POST("/cover-letter/:sessionId", tailorHandler.GenerateCoverLetter)

		// File generation and download
		api.POST("/generate-files/:sessionId", fileHandler.Generate)
		api.GET("/download/:sessionId/:format", fileHandler.Download)
		api.DELETE("/cleanup", fileHandler.Cleanup)
	}

	// ── Background cleanup ───────────────────────────────
	stopCleanup := make(chan struct{})
	go cleanupLoop(sessionRepo, fileRepo, gen, cfg, stopCleanup)

	// ── Server ───────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("SmartResume API server running")

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	close(stopCleanup)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// cleanupLoop periodically removes expired sessions and generated files so
// cleanup does not depend on clients calling DELETE /cleanup.
func cleanupLoop(sessions *repository.SessionRepo, files *repository.FileRepo, gen *generator.Generator, cfg *config.Config, stop <-chan struct{}) {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		now := time.Now()

		expired, err := files.ListOlderThan(ctx, now.Add(-cfg.FileTTL))
		if err != nil {
			log.Error().Err(err).Msg("Cleanup: failed to list expired files")
			cancel()
			continue
		}
		if len(expired) > 0 {
			paths := make([]string, 0, len(expired))
			ids := make([]uuid.UUID, 0, len(expired))
			for _, f := range expired {
				paths = append(paths, f.Path)
				ids = append(ids, f.ID)
			}
			gen.Remove(paths)
			if err := files.Delete(ctx, ids); err != nil {
				log.Error().Err(err).Msg("Cleanup: failed to delete file records")
			}
		}

		sessionIDs, err := sessions.DeleteOlderThan(ctx, now.Add(-cfg.SessionTTL))
		if err != nil {
			log.Error().Err(err).Msg("Cleanup: failed to delete expired sessions")
		} else if len(sessionIDs) > 0 || len(expired) > 0 {
			log.Info().Int("sessions", len(sessionIDs)).Int("files", len(expired)).Msg("Expired data cleaned up")
		}
		cancel()
	}
}

// requestLogger logs every request with zerolog
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= 400 {
			event = log.Warn()
		}
		if status >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg(fmt.Sprintf("%s %s", c.Request.Method, path))
	}
}
