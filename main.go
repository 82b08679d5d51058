package main

import (
	"log"
	"os"
	"strings"
	"time"

	"cloudvault/config"
	"cloudvault/db"
	"cloudvault/handlers"
	"cloudvault/logging"
	"cloudvault/manager"
	"cloudvault/models"
	"cloudvault/naming"
	"cloudvault/storage"
	"cloudvault/store"
	"cloudvault/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	sessionCookieName     = "token"
	sessionExpirationTime = 30 * 86400 // 30 days
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config: %v", err)
	}
	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("Logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	database, err := db.Open(cfg, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	if err = models.Migrate(database); err != nil {
		logger.Fatal("migration", zap.Error(err))
	}
	fileBlobs, albumBlobs, err := openStorage(cfg)
	if err != nil {
		logger.Fatal("storage", zap.Error(err))
	}

	st := store.New(database)
	m := manager.New(manager.Deps{
		Store:           st,
		FileBlobs:       fileBlobs,
		AlbumBlobs:      albumBlobs,
		FileExtensions:  naming.NewExtensionSet(cfg.FileExtensions...),
		PhotoExtensions: naming.NewExtensionSet(cfg.PhotoExtensions...),
		Log:             logger,
	})
	h := handlers.New(m, st, logger, cfg.MaxUploadBytes(), cfg.MinPasswordLength)
	router := newRouter(cfg, database, logger, h)

	logger.Info("server starting", zap.String("bind", cfg.BindAddress), zap.String("tls", cfg.TLSDomains))
	if cfg.TLSDomains != "" {
		err = autotls.Run(router, strings.Split(cfg.TLSDomains, ",")...)
	} else {
		err = router.Run(cfg.BindAddress)
	}
	logger.Fatal("server stopped", zap.Error(err))
}

// openStorage returns the flat files root and the albums root. On disk both
// directories are created up front.
func openStorage(cfg *config.Config) (files, albums storage.StorageAPI, err error) {
	storageType, err := storage.ParseStorageType(cfg.StorageType)
	if err != nil {
		return nil, nil, err
	}
	bucket := func(name, path string) *storage.Bucket {
		b := &storage.Bucket{Name: name, StorageType: storageType, Path: path}
		if storageType == storage.StorageTypeS3 {
			b.Name = cfg.S3Bucket
			b.Region = cfg.S3Region
			b.Endpoint = cfg.S3Endpoint
			b.S3Key = cfg.S3Key
			b.S3Secret = cfg.S3Secret
		}
		return b
	}
	for _, dir := range []string{cfg.FilesDir, cfg.AlbumsDir} {
		if storageType == storage.StorageTypeFile {
			if err = os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, err
			}
		}
	}
	if files, err = storage.NewStorage(bucket("files", cfg.FilesDir)); err != nil {
		return nil, nil, err
	}
	if albums, err = storage.NewStorage(bucket("albums", cfg.AlbumsDir)); err != nil {
		return nil, nil, err
	}
	return files, albums, nil
}

func newRouter(cfg *config.Config, database *gorm.DB, logger *zap.Logger, h *handlers.Handlers) *gin.Engine {
	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	logger = logging.OrNop(logger)
	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestLogger(logger.Named("access")))
	_ = router.SetTrustedProxies([]string{})
	if cfg.DebugMode {
		router.Use(utils.ErrorLogMiddleware(logger.Named("debug")))
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	cookieStore := gormsessions.NewStore(database, true, []byte(cfg.SessionKey))
	cookieStore.Options(sessions.Options{Path: "/", MaxAge: sessionExpirationTime, HttpOnly: true})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !cfg.DebugMode {
		// Blobs are streamed as stored
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/file/download", "/photo/fetch"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that
	h.Routes(router)
	return router
}
