package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alfredoptarigan/interview-assessor/internal/config"
	"alfredoptarigan/interview-assessor/internal/handlers"
	"alfredoptarigan/interview-assessor/internal/logger"
	"alfredoptarigan/interview-assessor/internal/metrics"
	"alfredoptarigan/interview-assessor/internal/middleware"
	"alfredoptarigan/interview-assessor/internal/repositories"
	"alfredoptarigan/interview-assessor/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Invalid configuration", "error", err)
	}
	log.Info("✅ Config loaded successfully", "env", cfg.Server.Env, "llm_provider", cfg.LLM.Provider)

	metrics.Register(prometheus.DefaultRegisterer)

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatal("❌ Failed to initialize database", "error", err)
	}

	profileRepo := repositories.NewProfileRepository(db)
	log.Info("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal("❌ Failed to create upload directory", "error", err)
	}

	ctx := context.Background()
	llmService, err := services.NewLLMService(ctx, cfg.LLM, log)
	if err != nil {
		log.Fatal("❌ Failed to initialize LLM service", "error", err)
	}
	if cfg.Facial.URL == "" {
		log.Warn("⚠️ Facial service not configured, default confidence will be used")
	}
	if cfg.Transcription.URL == "" {
		log.Warn("⚠️ Transcription service not configured, answers will be scored as empty")
	}

	questionGenerator := services.NewQuestionGenerator(llmService, cfg.LLM.QuestionTimeout, log)
	scorer := services.NewCorrectnessScorer(llmService, cfg.LLM.ScoringTimeout, cfg.Pipeline.ScoringConcurrency, log)
	pipeline := services.NewPipelineService(
		cfg,
		services.NewFacialAdapter(cfg.Facial, log),
		services.NewTranscriptionAdapter(cfg.Transcription, log),
		services.NewTranscriptSegmenter(),
		scorer,
		profileRepo,
		log,
	)
	log.Info("✅ Services initialized successfully")

	// Initialize Handlers
	interviewHandler := handlers.NewInterviewHandler(pipeline, storageService, log)
	questionHandler := handlers.NewQuestionHandler(questionGenerator, scorer, profileRepo, log)
	profileHandler := handlers.NewProfileHandler(
		storageService,
		services.NewResumeParserService(),
		services.NewSkillExtractor(),
		profileRepo,
		log,
	)
	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret)
	log.Info("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Interview Assessor API",
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: cfg.Pipeline.Timeout + time.Minute,
		BodyLimit:    int(cfg.Storage.MaxVideoSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Stored interview videos; resumes stay private
	app.Static("/uploads/interviews", filepath.Join(cfg.Storage.UploadPath, string(services.KindInterview)), fiber.Static{
		Browse: false,
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Routes
	api := app.Group("/api/v1")
	api.Get("/health", handlers.HandleHealth)

	api.Use(auth.Optional())
	api.Post("/interview/analyze", interviewHandler.HandleAnalyze)
	api.Post("/questions/generate", questionHandler.HandleGenerate)
	api.Post("/questions/score", questionHandler.HandleScore)
	api.Post("/profile/skills/extract", profileHandler.HandleExtractSkills)
	api.Get("/profile/test-results", middleware.RequireUser, profileHandler.HandleGetTestResults)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Interview Assessor API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/interview/analyze",
				"POST /api/v1/questions/generate",
				"POST /api/v1/questions/score",
				"POST /api/v1/profile/skills/extract",
				"GET /api/v1/profile/test-results",
				"GET /api/v1/health",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("🛑 Shutting down server...")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Error("❌ Server forced to shutdown", "error", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("🚀 Server starting", "addr", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatal("❌ Failed to start server", "error", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
		"code":    code,
	})
}
