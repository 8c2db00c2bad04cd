package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rivetsoft/filedock/internal/adapter/handler"
	"github.com/rivetsoft/filedock/internal/config"
	"github.com/rivetsoft/filedock/internal/domain/repository"
	"github.com/rivetsoft/filedock/internal/infrastructure/blob"
	infrarepo "github.com/rivetsoft/filedock/internal/infrastructure/repository"
	"github.com/rivetsoft/filedock/internal/usecase"
	"github.com/rivetsoft/filedock/pkg/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	db, err := infrarepo.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	blobs, err := newBlobStore(cfg)
	if err != nil {
		logger.Fatal("failed to initialize blob store", zap.Error(err))
	}

	folderRepo := infrarepo.NewFolderRepository(db)
	fileRepo := infrarepo.NewFileRepository(db)
	userRepo := infrarepo.NewUserRepository(db)

	tokens, err := token.NewService(cfg.Auth.Secret, cfg.TokenTTL())
	if err != nil {
		logger.Fatal("failed to initialize token service", zap.Error(err))
	}

	authUseCase := usecase.NewAuthUseCase(userRepo, tokens, logger)
	folderUseCase := usecase.NewFolderUseCase(folderRepo, fileRepo, blobs, logger)
	fileUseCase := usecase.NewFileUseCase(fileRepo, folderRepo, blobs, cfg.Storage.Prefix, logger)

	ctx := context.Background()
	if cfg.Auth.AdminPassword == "" {
		logger.Warn("no admin password configured, skipping admin seed")
	} else if err := authUseCase.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		logger.Fatal("failed to seed admin account", zap.Error(err))
	}

	router := gin.Default()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authRequired := handler.AuthMiddleware(authUseCase)
	handler.NewAuthHandler(authUseCase).RegisterRoutes(router, authRequired)
	handler.NewFolderHandler(folderUseCase).RegisterRoutes(router, authRequired)
	handler.NewFileHandler(fileUseCase).RegisterRoutes(router, authRequired)

	logger.Info("starting server", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server terminated", zap.Error(err))
	}
}

func newBlobStore(cfg *config.Config) (repository.BlobStore, error) {
	switch repository.StorageBackend(cfg.Storage.Backend) {
	case repository.StorageBackendS3:
		return blob.NewS3Store(blob.S3Config{
			Endpoint:  cfg.Storage.S3.Endpoint,
			Region:    cfg.Storage.S3.Region,
			Bucket:    cfg.Storage.S3.Bucket,
			AccessKey: cfg.Storage.S3.AccessKey,
			SecretKey: cfg.Storage.S3.SecretKey,
		})
	default:
		return blob.NewLocalStore(cfg.Storage.Path)
	}
}
