package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/config"
	"github.com/nahidkabir/shongi/internal/handler"
	"github.com/nahidkabir/shongi/internal/middleware"
	"github.com/nahidkabir/shongi/internal/model"
	"github.com/nahidkabir/shongi/internal/repository"
	"github.com/nahidkabir/shongi/internal/service"
	"github.com/nahidkabir/shongi/internal/ws"
	"github.com/nahidkabir/shongi/migrations"
	"github.com/nahidkabir/shongi/pkg/auth"
	"github.com/nahidkabir/shongi/pkg/mailer"
	"github.com/nahidkabir/shongi/pkg/notification"
	"github.com/nahidkabir/shongi/pkg/storage"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// @title           Shongi API
// @version         1.0
// @description     Matchmaking & community API with chat, calls, and connection requests. Go, Gin, WebSocket, Redis Pub/Sub.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  support@shongi.app

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      api.localhost
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// ==================== Load Config ====================
	cfg := config.Load()
	log.Printf("🚀 Starting Shongi API Server [env=%s]", cfg.App.Env)

	// ==================== Database (PostgreSQL) ====================
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.App.Env == "production" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to PostgreSQL")

	// ==================== Run Migrations ====================
	dbURL := cfg.DB.URL()
	if err := migrations.Run(dbURL); err != nil {
		log.Printf("⚠️  Migration warning: %v", err)
		log.Println("📦 Falling back to GORM AutoMigrate...")
		// Fallback to AutoMigrate if migration files fail
		if err := db.AutoMigrate(
			&model.User{},
			&model.OTPCode{},
			&model.Connection{},
			&model.Conversation{},
			&model.ConversationMember{},
			&model.Message{},
			&model.Post{},
			&model.PostLike{},
			&model.Comment{},
			&model.Report{},
		); err != nil {
			log.Fatalf("❌ Failed to migrate database: %v", err)
		}
	}
	log.Println("✅ Database migrated successfully")

	// ==================== Redis ====================
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	log.Println("✅ Connected to Redis")

	// ==================== Email (SMTP / Mailpit) ====================
	mailClient := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
	})
	log.Printf("📧 SMTP configured: %s:%s", cfg.SMTP.Host, cfg.SMTP.Port)

	// ==================== Initialize Layers ====================
	// JWT Manager
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	otpRepo := repository.NewOTPRepository(db)
	connRepo := repository.NewConnectionRepository(db)
	convRepo := repository.NewConversationRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	postRepo := repository.NewPostRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// WebSocket Hub (with Redis Pub/Sub for horizontal scaling)
	hub := ws.NewHub(rdb, func(userID uuid.UUID, online bool) {
		log.Printf("👤 User %s is now %s", userID, map[bool]string{true: "ONLINE", false: "OFFLINE"}[online])
	})

	// Start Hub event loop
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go hub.Run(hubCtx)

	// Push notifications (FCM, optional)
	pushService, err := notification.NewNotificationService(cfg.FCM.CredentialsFile, userRepo)
	if err != nil {
		log.Printf("⚠️  FCM not available: %v (push notifications disabled)", err)
	}
	if pushService != nil {
		log.Println("✅ FCM push notifications enabled")
	}

	// Services
	authService := service.NewAuthService(userRepo, connRepo, otpRepo, jwtManager, mailClient, rdb, hub, cfg.Admin)
	chatService := service.NewChatService(convRepo, msgRepo, userRepo, connRepo, hub, pushService, true)
	callService := service.NewCallService(convRepo, msgRepo, userRepo, hub, true)
	communityService := service.NewCommunityService(postRepo, userRepo)
	matchService := service.NewMatchService(userRepo, connRepo)
	adminService := service.NewAdminService(userRepo, connRepo, convRepo, postRepo, reportRepo)

	// MinIO Storage
	minioStorage, err := storage.NewMinIO(storage.Config{
		Endpoint:  cfg.MinIO.Endpoint,
		PublicURL: cfg.MinIO.PublicURL,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		Bucket:    cfg.MinIO.Bucket,
		UseSSL:    cfg.MinIO.UseSSL,
	})
	if err != nil {
		log.Printf("⚠️  MinIO not available: %v (file upload disabled)", err)
	}
	if minioStorage != nil {
		log.Println("✅ Connected to MinIO")
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(chatService)
	callHandler := handler.NewCallHandler(callService)
	communityHandler := handler.NewCommunityHandler(communityService)
	matchHandler := handler.NewMatchHandler(matchService)
	adminHandler := handler.NewAdminHandler(adminService)
	wsHandler := handler.NewWSHandler(hub, chatService, jwtManager)

	// A nil *MinIOStorage must not leak into the interface
	var mediaStore storage.Storage
	if minioStorage != nil {
		mediaStore = minioStorage
	}
	uploadHandler := handler.NewUploadHandler(mediaStore)

	// ==================== Gin Router ====================
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Swagger configuration
	// Serve swagger.json at /docs/swagger.json to avoid conflict with /swagger/* wildcard
	router.StaticFile("/docs/swagger.json", "./docs/swagger.json")

	// Swagger UI handling
	url := ginSwagger.URL("/docs/swagger.json")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, url))

	// Global middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.Origins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "shongi-api",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// ==================== API Routes ====================
	api := router.Group("/api/v1")
	{
		// Auth routes (public)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/forgot-password", authHandler.ForgotPassword)
			authGroup.POST("/reset-password", authHandler.ResetPassword)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtManager, rdb))
		{
			// Auth & profile
			protected.POST("/auth/logout", authHandler.Logout)
			protected.GET("/users/me", authHandler.GetMe)
			protected.PUT("/users/me", authHandler.UpdateProfile)
			protected.PUT("/users/me/plan", authHandler.UpgradePlan)
			protected.POST("/users/me/device", authHandler.RegisterDevice)

			// Directory
			protected.GET("/users", authHandler.ListDirectory)
			protected.GET("/users/search", authHandler.SearchUsers)
			protected.GET("/users/:id", authHandler.GetUser)

			// Connections
			protected.GET("/connections", authHandler.ListConnections)
			protected.POST("/connections/request", authHandler.SendConnectionRequest)
			protected.POST("/connections/accept", authHandler.AcceptConnectionRequest)
			protected.POST("/connections/decline", authHandler.DeclineConnectionRequest)
			protected.POST("/connections/cancel", authHandler.CancelConnectionRequest)
			protected.DELETE("/connections/:id", authHandler.Disconnect)

			// Verification
			protected.POST("/verification/submit", authHandler.SubmitVerification)
			protected.POST("/verification/phone/request", authHandler.RequestPhoneOTP)
			protected.POST("/verification/phone/verify", authHandler.VerifyPhoneOTP)

			// Matchmaking
			protected.GET("/matches", matchHandler.GetSuggestions)

			// Conversations & messages
			protected.GET("/conversations", chatHandler.ListConversations)
			protected.POST("/conversations/direct", chatHandler.OpenDirectConversation)
			protected.POST("/conversations/:id/messages", chatHandler.SendMessage)
			protected.POST("/conversations/:id/read", chatHandler.MarkRead)
			protected.DELETE("/conversations/:id", chatHandler.DeleteConversation)
			protected.DELETE("/messages/:id", chatHandler.DeleteMessage)

			// Calls
			protected.POST("/calls", callHandler.StartCall)
			protected.GET("/calls/:id", callHandler.GetCall)
			protected.POST("/calls/:id/answer", callHandler.AnswerCall)
			protected.POST("/calls/:id/end", callHandler.EndCall)
			protected.POST("/calls/:id/reject", callHandler.RejectCall)
			protected.POST("/calls/:id/mute", callHandler.ToggleMute)
			protected.POST("/calls/:id/video", callHandler.ToggleVideo)

			// Community feed
			protected.GET("/posts", communityHandler.GetFeed)
			protected.POST("/posts", communityHandler.CreatePost)
			protected.GET("/posts/:id", communityHandler.GetPost)
			protected.DELETE("/posts/:id", communityHandler.DeletePost)
			protected.POST("/posts/:id/like", communityHandler.ToggleLike)
			protected.POST("/posts/:id/comments", communityHandler.AddComment)
			protected.DELETE("/comments/:id", communityHandler.DeleteComment)

			// Reports
			protected.POST("/reports", adminHandler.FileReport)

			// Upload
			protected.POST("/uploads", uploadHandler.Upload)

			// Admin
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/stats", adminHandler.GetStats)
				admin.GET("/users", adminHandler.ListUsers)
				admin.DELETE("/users/:id", adminHandler.DeleteUser)
				admin.GET("/verifications", adminHandler.ListPendingVerifications)
				admin.POST("/verifications/review", adminHandler.ReviewVerification)
				admin.GET("/reports", adminHandler.ListReports)
				admin.POST("/reports/:id", adminHandler.HandleReport)
			}
		}
	}

	// WebSocket endpoint (auth via query parameter)
	router.GET("/ws", wsHandler.HandleWebSocket)

	// ==================== Start Server ====================
	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	log.Printf("🌐 Shongi API running on http://0.0.0.0:%s", cfg.App.Port)
	log.Printf("📋 API docs: http://0.0.0.0:%s/swagger/index.html", cfg.App.Port)
	log.Printf("📄 Swagger JSON: http://0.0.0.0:%s/docs/swagger.json", cfg.App.Port)
	log.Printf("🔌 WebSocket: ws://0.0.0.0:%s/ws?token=<jwt>", cfg.App.Port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	// Give ongoing requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	hubCancel()
	log.Println("✅ Server exited gracefully")
}
