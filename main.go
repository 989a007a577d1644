package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"catalog-service/controllers"
	"catalog-service/database"
	"catalog-service/logger"
	"catalog-service/middleware"
	"catalog-service/repository"
	"catalog-service/routes"
	"catalog-service/services"
	"catalog-service/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	log := logger.Initialize(os.Getenv("APP_ENV"))
	defer log.Sync()

	cfg, err := LoadConfig()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	// --- Storage wiring ---

	var (
		productRepo repository.ProductRepo
		userRepo    repository.UserRepo
		blobs       storage.BlobStore
		mongoClient *mongo.Client
		mongoDB     *mongo.Database
	)

	switch cfg.StorageBackend {
	case StorageMongo:
		client, db, err := database.Connect(cfg.MongoURL, cfg.MongoDB)
		if err != nil {
			zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		mongoClient = client
		mongoDB = db
		productRepo = repository.NewMongoProductRepository(db)
		userRepo = repository.NewMongoUserRepository(db)
		zap.L().Info("Using MongoDB catalog store", zap.String("database", cfg.MongoDB))
	case StorageFile:
		fileRepo, err := repository.NewFileProductRepository(filepath.Join(cfg.DataDir, "products.json"))
		if err != nil {
			zap.L().Fatal("Failed to open catalog file", zap.Error(err))
		}
		fileUsers, err := repository.NewFileUserRepository(filepath.Join(cfg.DataDir, "users.json"))
		if err != nil {
			zap.L().Fatal("Failed to open users file", zap.Error(err))
		}
		productRepo = fileRepo
		userRepo = fileUsers
		zap.L().Info("Using file-backed catalog store", zap.String("dir", cfg.DataDir))
	}

	switch cfg.ImageStore {
	case ImageStoreFS:
		fsStore, err := storage.NewFSStore(filepath.Join(cfg.DataDir, "images"))
		if err != nil {
			zap.L().Fatal("Failed to open images directory", zap.Error(err))
		}
		blobs = fsStore
	case ImageStoreMongo:
		blobs = storage.NewMongoStore(mongoDB)
	case ImageStoreS3:
		s3Client, err := newS3Client()
		if err != nil {
			zap.L().Fatal("Failed to load AWS config", zap.Error(err))
		}
		blobs = storage.NewS3Store(s3Client, cfg.S3Bucket, cfg.S3Prefix)
		zap.L().Info("Using S3 image store", zap.String("bucket", cfg.S3Bucket))
	}

	// Refresh-token revocation store: Redis when configured, in-process
	// otherwise.
	var tokenStore services.TokenStore
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zap.L().Fatal("Failed to parse REDIS_URL", zap.Error(err))
		}
		redisClient = redis.NewClient(redisOpts)
		tokenStore = services.NewRedisTokenStore(redisClient)
	} else {
		tokenStore = services.NewMemoryTokenStore()
	}

	// --- Services and controllers ---

	tokenService := services.NewTokenService(cfg.JWTSecret)
	productService := services.NewProductService(productRepo, blobs)
	authService := services.NewAuthService(userRepo, tokenService, tokenStore)

	productController := controllers.NewProductController(productService)
	authController := controllers.NewAuthController(authService)

	// --- HTTP server ---

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, productController, authController,
		middleware.RequireAuth(tokenService), middleware.RateLimitMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// --- Graceful shutdown ---

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Catalog service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down catalog service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("Server forced to shutdown", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			zap.L().Error("Failed to close Redis", zap.Error(err))
		}
	}
	if mongoClient != nil {
		if err := database.Close(mongoClient); err != nil {
			zap.L().Error("Failed to close MongoDB", zap.Error(err))
		}
	}

	zap.L().Info("Catalog service stopped gracefully")
}

// newS3Client builds an S3 client from the environment, honoring the
// LocalStack-style endpoint override the way the deployment expects.
func newS3Client() (*s3.Client, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}
	endpoint := os.Getenv("AWS_S3_ENDPOINT")
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")

	cfgOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(region),
	}
	if accessKey != "" || secret != "" {
		cfgOpts = append(cfgOpts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secret, ""),
		))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(context.Background(), cfgOpts...)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}
