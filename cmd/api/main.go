package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/eventcast/eventcast-backend/internal/config"
	"github.com/eventcast/eventcast-backend/internal/handler"
	"github.com/eventcast/eventcast-backend/internal/middleware"
	"github.com/eventcast/eventcast-backend/internal/migration"
	"github.com/eventcast/eventcast-backend/internal/repository"
	"github.com/eventcast/eventcast-backend/internal/routes"
	"github.com/eventcast/eventcast-backend/internal/service"
	pkgcache "github.com/eventcast/eventcast-backend/pkg/cache"
	pkgjwt "github.com/eventcast/eventcast-backend/pkg/jwt"
	pkglogger "github.com/eventcast/eventcast-backend/pkg/logger"
	pkgredis "github.com/eventcast/eventcast-backend/pkg/redis"
	pkgstorage "github.com/eventcast/eventcast-backend/pkg/storage"
	"github.com/eventcast/eventcast-backend/pkg/taskqueue"
)

// @title           Eventcast Backend API
// @version         1.0
// @description     Event CMS backend - optimistic-concurrency editing, revision history, chapters
//
// @license.name    MIT
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.GetLogger().Info().
		Str("env", env).
		Strs("dotenv_files", dotenvFiles).
		Msg("starting eventcast-backend")

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	// MySQL
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	pkglogger.GetLogger().Info().Msg("connected to MySQL")

	// Redis
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("Redis unavailable, continuing without it")
		redisClient = nil
	} else {
		pkglogger.GetLogger().Info().Msg("connected to Redis")
	}

	cacheService := pkgcache.NewService(redisClient)
	dispatcher := taskqueue.NewRedisDispatcher(redisClient)

	// S3-compatible storage for placeholder/frame uploads
	var uploader service.Uploader
	if cfg.Storage.Enabled && cfg.Storage.Bucket != "" {
		s3Client, s3Err := pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if s3Err != nil {
			pkglogger.GetLogger().Warn().Err(s3Err).Msg("storage unavailable, uploads disabled")
		} else {
			uploader = s3Client
		}
	}

	jwtManager := pkgjwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Repositories
	txManager := repository.NewTxManager(db)
	eventRepo := repository.NewEventRepository(db)
	tagRepo := repository.NewTagRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	pictureRepo := repository.NewPictureRepository(db)
	revisionRepo := repository.NewRevisionRepository(db)
	chapterRepo := repository.NewChapterRepository(db)

	// Services. Similarity scoring runs in the worker fleet, not in
	// the API process, so no comparer is wired here.
	editService := service.NewEditService(txManager, eventRepo, tagRepo, channelRepo, pictureRepo, revisionRepo, uploader)
	revisionService := service.NewRevisionService(eventRepo, revisionRepo)
	chapterService := service.NewChapterService(txManager, eventRepo, chapterRepo, dispatcher)
	thumbnailService := service.NewThumbnailService(eventRepo, pictureRepo, cacheService, nil, dispatcher)

	// Handlers
	editHandler := handler.NewEventEditHandler(editService)
	revisionHandler := handler.NewRevisionHandler(revisionService)
	chapterHandler := handler.NewChapterHandler(chapterService)
	thumbnailHandler := handler.NewThumbnailHandler(thumbnailService)

	// Router
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(cors.Default())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, editHandler, revisionHandler, chapterHandler, thumbnailHandler, jwtManager)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	pkglogger.GetLogger().Info().Str("addr", addr).Msg("listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
}
