package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"carbon-shredder/internal/config"
	handlers "carbon-shredder/internal/handler"
	repositories "carbon-shredder/internal/repository"
	"carbon-shredder/internal/services"
	"carbon-shredder/internal/storage"
	"carbon-shredder/internal/utils"
)

const otpTTL = 10 * time.Minute

func main() {
	baseCtx := context.Background()
	ctx, shutdownManager := utils.NewShutdownManager(baseCtx)
	shutdownManager.StartListening()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// 2. Инициализация MongoDB
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	db := mongoClient.Database(cfg.MongoDB)

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing MongoDB connection...")
		return mongoClient.Disconnect(ctx)
	})

	// 3. Инициализация Redis
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("Invalid Redis URL:", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing Redis connection...")
		return rdb.Close()
	})

	// 4. Репозитории и индексы
	userRepo := repositories.NewUserRepository(db)
	mediaRepo := repositories.NewMediaRepository(db)
	messageRepo := repositories.NewMessageRepository(db)
	subsRepo := repositories.NewSubscriptionEmailRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create user indexes:", err)
	}
	if err := subsRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create subscription indexes:", err)
	}

	// 5. Хранилище файлов
	router := gin.Default()

	var store storage.Storage
	switch cfg.StorageDriver {
	case "minio":
		store, err = storage.NewMinio(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioPublicURL)
		if err != nil {
			log.Fatal("Failed to init MinIO storage:", err)
		}
	default:
		local, err := storage.NewLocal(cfg.UploadDir, cfg.PublicURL)
		if err != nil {
			log.Fatal("Failed to init local storage:", err)
		}
		router.Static("/uploads", local.Dir())
		store = local
	}

	// 6. Внешние клиенты и сервисы
	mailer := services.NewGomailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, time.Duration(cfg.JWTExpiresHrs)*time.Hour)
	googleAuth := services.NewGoogleAuthService(cfg.GoogleClientID)
	cnaughtClient := utils.NewCNaughtClient(cfg.CNaughtAPIURL, cfg.CNaughtAPIKey)
	plaidClient := utils.NewPlaidClient(cfg.PlaidBaseURL, cfg.PlaidClientID, cfg.PlaidSecret)

	cache := utils.WrapRedisClient(rdb)
	otpStore := utils.NewOTPStore(rdb, otpTTL)

	authService := services.NewAuthService(userRepo, jwtUtil, mailer, otpStore, cache, store, googleAuth, cfg.ActivationBaseURL)
	userService := services.NewUserService(userRepo, cache, cnaughtClient, plaidClient)
	mediaService := services.NewMediaService(mediaRepo, userRepo, store)
	contactService := services.NewContactService(messageRepo, subsRepo, mailer, cfg.ContactInbox)

	authHandler := handlers.NewAuthHandler(authService, store)
	userHandler := handlers.NewUserHandler(userService)
	mediaHandler := handlers.NewMediaHandler(mediaService)
	contactHandler := handlers.NewContactHandler(contactService)

	// 7. Маршруты
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API is working")
	})

	authRequired := utils.AuthMiddleware(jwtUtil, cache)

	user := router.Group("/api/v2/user")
	{
		user.POST("/create-user", authHandler.Register)
		user.POST("/activation", authHandler.Activate)
		user.POST("/login-user", authHandler.Login)
		user.POST("/google-login", authHandler.GoogleLogin)
		user.POST("/forgot-password", authHandler.ForgotPassword)
		user.POST("/reset-password", authHandler.ResetPassword)
		user.POST("/logout", authHandler.Logout)

		// Без авторизации, как в проде
		user.POST("/grant-admin-role", userHandler.GrantAdminRole)

		user.POST("/contact", contactHandler.SubmitMessage)
		user.GET("/contact-messages", contactHandler.ListMessages)
		user.POST("/subscribe", contactHandler.Subscribe)
		user.GET("/get-all-media", mediaHandler.GetAllMedia)
		user.POST("/subscription-details", userHandler.UpdateSubscription)

		protected := user.Group("/")
		protected.Use(authRequired)
		{
			protected.GET("/check-auth", authHandler.CheckAuth)
			protected.GET("/get-user", authHandler.GetProfile)
			protected.GET("/get-profile-data", authHandler.GetProfile)
			protected.PUT("/update-profile", authHandler.UpdateProfile)
			protected.GET("/get-users-data", userHandler.GetUsersData)
			protected.PUT("/update-user/:userId", userHandler.UpdateUser)
			protected.DELETE("/delete-user/:userId", userHandler.DeleteUser)
			protected.POST("/upload-media", mediaHandler.Upload)
			protected.POST("/create-link-token", userHandler.CreateLinkToken)
			protected.POST("/create-offset-order", userHandler.CreateOffsetOrder)
		}
	}

	admin := router.Group("/api/auth")
	{
		admin.POST("/login", authHandler.AdminLogin)
		admin.POST("/logout", authHandler.AdminLogout)
	}

	server := &http.Server{
		Addr:    "0.0.0.0:" + cfg.ServerPort,
		Handler: router,
	}

	// 8. Запускаем сервер
	go func() {
		log.Println("Carbon Shredder API running on :" + cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Shutting down HTTP server...")
		return server.Shutdown(ctx)
	})

	select {}
}
