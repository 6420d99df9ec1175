package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cultivate/internal/config"
	"cultivate/internal/database"
	"cultivate/internal/handlers"
	"cultivate/internal/jobs"
	"cultivate/internal/logging"
	"cultivate/internal/middleware"
	"cultivate/internal/services"
	"cultivate/pkg/auth"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting Cultivate Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s)", cfg.Port)

	if cfg.JWTSecret == "" {
		log.Fatal("❌ JWT_SECRET environment variable is required")
	}
	jwtAuth, err := auth.NewJWTAuth(cfg.JWTSecret, 0, 0)
	if err != nil {
		log.Fatalf("❌ Failed to initialize JWT auth: %v", err)
	}

	// MongoDB
	log.Println("🔗 Connecting to MongoDB...")
	mongoDB, err := database.NewMongoDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Close(context.Background())

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mongoDB.Initialize(initCtx); err != nil {
		cancelInit()
		log.Fatalf("❌ Failed to initialize database indexes: %v", err)
	}
	cancelInit()
	log.Println("✅ MongoDB connected and indexes ensured")

	// Redis (optional): MCP requests run unthrottled without it
	var redisService *services.RedisService
	if cfg.RedisURL != "" {
		redisService, err = services.NewRedisService(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (MCP rate limiting disabled)", err)
			redisService = nil
		} else {
			defer redisService.Close()
		}
	} else {
		log.Println("⚠️ REDIS_URL not set, MCP rate limiting disabled")
	}

	// Services
	var metadataService *services.MetadataService
	if cfg.MetadataFetchEnabled {
		metadataService = services.NewMetadataService(cfg.MetadataFetchTimeout)
		log.Println("✅ Metadata fetcher enabled")
	} else {
		log.Println("⚠️ Metadata fetcher disabled, resource titles default to the URL")
	}

	projectService := services.NewProjectService(mongoDB)
	taskService := services.NewTaskService(mongoDB, projectService)
	resourceService := services.NewResourceService(mongoDB, projectService, metadataService)
	thoughtService := services.NewThoughtService(mongoDB, projectService)
	awayService := services.NewAwayService(mongoDB, cfg.AwayPageSize)
	searchService := services.NewSearchService(mongoDB, projectService)
	documentService := services.NewDocumentService(mongoDB)
	canvasService := services.NewCanvasService(mongoDB)
	userService := services.NewUserService(mongoDB)
	inviteService := services.NewInviteService(mongoDB, cfg.InviteWeeklyQuota)
	apiKeyService := services.NewAPIKeyService(mongoDB)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, inviteService, jwtAuth)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	resourceHandler := handlers.NewResourceHandler(resourceService)
	thoughtHandler := handlers.NewThoughtHandler(thoughtService)
	awayHandler := handlers.NewAwayHandler(awayService)
	searchHandler := handlers.NewSearchHandler(searchService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	canvasHandler := handlers.NewCanvasHandler(canvasService)
	inviteHandler := handlers.NewInviteHandler(inviteService)
	apiKeyHandler := handlers.NewAPIKeyHandler(apiKeyService)
	mcpHandler := handlers.NewMCPHandler(taskService, thoughtService, resourceService, searchService)
	healthHandler := handlers.NewHealthHandler(mongoDB, redisService)

	// Background jobs
	scheduler := jobs.NewScheduler()
	scheduler.Register("invite-cleanup", jobs.NewInviteCleanupJob(inviteService, 24*time.Hour, 90*24*time.Hour))
	scheduler.Start()

	// Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Cultivate v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    10 * 1024 * 1024, // documents and canvas snapshots can get large
	})

	app.Use(recover.New())
	app.Use(logger.New())

	prometheus := fiberprometheus.New("cultivate")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	rateLimitConfig := middleware.LoadRateLimitConfig()
	log.Printf("🛡️ [RATE-LIMIT] Loaded config: Global=%d/min, Auth=%d/min",
		rateLimitConfig.GlobalAPIMax, rateLimitConfig.AuthMax)

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️ ALLOWED_ORIGINS not set, using development defaults")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: allowedOrigins != "*",
	}))

	app.Get("/health", healthHandler.Health)

	api := app.Group("/api/v1", middleware.GlobalAPILimiter(rateLimitConfig))

	// Auth (public, tighter rate limit)
	authGroup := api.Group("/auth", middleware.AuthLimiter(rateLimitConfig))
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	// Public share links
	api.Get("/public/documents/:id", documentHandler.GetPublished)

	// Everything below requires a session token
	authed := api.Group("", middleware.JWTAuthMiddleware(jwtAuth))
	authed.Get("/auth/me", authHandler.Me)

	authed.Post("/projects", projectHandler.Create)
	authed.Get("/projects", projectHandler.List)
	authed.Get("/projects/:id", projectHandler.Get)
	authed.Patch("/projects/:id", projectHandler.Update)
	authed.Delete("/projects/:id", projectHandler.Delete)
	authed.Put("/projects/:id/task-order", projectHandler.UpdateTaskOrder)
	authed.Put("/projects/:id/resource-order", projectHandler.UpdateResourceOrder)
	authed.Get("/projects/:id/tasks", taskHandler.ListByProject)
	authed.Get("/projects/:id/resources", resourceHandler.ListByProject)
	authed.Get("/projects/:id/thoughts", thoughtHandler.ListByProject)
	authed.Get("/projects/:id/search", searchHandler.SearchProject)

	authed.Post("/tasks", taskHandler.Create)
	authed.Get("/tasks", taskHandler.ListInbox)
	authed.Get("/tasks/:id", taskHandler.Get)
	authed.Patch("/tasks/:id", taskHandler.Update)
	authed.Delete("/tasks/:id", taskHandler.Delete)
	authed.Post("/tasks/:id/move", taskHandler.Move)
	authed.Post("/tasks/:id/away", taskHandler.SendAway)
	authed.Post("/tasks/:id/return", taskHandler.ReturnFromAway)

	authed.Post("/resources", resourceHandler.Create)
	authed.Get("/resources", resourceHandler.ListInbox)
	authed.Get("/resources/:id", resourceHandler.Get)
	authed.Patch("/resources/:id", resourceHandler.Update)
	authed.Delete("/resources/:id", resourceHandler.Delete)
	authed.Post("/resources/:id/move", resourceHandler.Move)
	authed.Post("/resources/:id/away", resourceHandler.SendAway)
	authed.Post("/resources/:id/return", resourceHandler.ReturnFromAway)

	authed.Post("/thoughts", thoughtHandler.Create)
	authed.Get("/thoughts", thoughtHandler.ListInbox)
	authed.Get("/thoughts/:id", thoughtHandler.Get)
	authed.Patch("/thoughts/:id", thoughtHandler.Update)
	authed.Delete("/thoughts/:id", thoughtHandler.Delete)
	authed.Post("/thoughts/:id/move", thoughtHandler.Move)
	authed.Post("/thoughts/:id/away", thoughtHandler.SendAway)
	authed.Post("/thoughts/:id/return", thoughtHandler.ReturnFromAway)

	authed.Get("/away", awayHandler.ListDays)
	authed.Get("/away/oldest", awayHandler.OldestDate)
	authed.Get("/away/:type/:date", awayHandler.ListByDate)

	authed.Get("/search", searchHandler.SearchAll)

	authed.Post("/documents", documentHandler.Create)
	authed.Get("/documents", documentHandler.List)
	authed.Get("/documents/:id", documentHandler.Get)
	authed.Patch("/documents/:id", documentHandler.Update)
	authed.Delete("/documents/:id", documentHandler.Delete)

	authed.Post("/canvases", canvasHandler.Create)
	authed.Get("/canvases", canvasHandler.List)
	authed.Get("/canvases/:id", canvasHandler.Get)
	authed.Put("/canvases/:id", canvasHandler.Save)
	authed.Delete("/canvases/:id", canvasHandler.Delete)

	authed.Post("/invites", inviteHandler.Generate)
	authed.Get("/invites", inviteHandler.ListMine)

	authed.Post("/apikey", apiKeyHandler.Generate)
	authed.Get("/apikey", apiKeyHandler.Status)
	authed.Delete("/apikey", apiKeyHandler.Revoke)

	// MCP shim: API key auth, Redis throttled
	mcp := app.Group("/mcp/v1", middleware.APIKeyMiddleware(apiKeyService, redisService))
	mcp.Post("/tasks", mcpHandler.CreateTask)
	mcp.Post("/notes", mcpHandler.CreateNote)
	mcp.Post("/resources", mcpHandler.CreateResource)
	mcp.Get("/search", mcpHandler.SearchAll)
	mcp.Get("/search/project/:id", mcpHandler.SearchProject)
	mcp.Get("/search/type/:type", mcpHandler.SearchByType)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")
		scheduler.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
