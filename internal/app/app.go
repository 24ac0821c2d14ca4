package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/campus-notice-api/api/swagger"
	"github.com/noah-isme/campus-notice-api/internal/handler"
	"github.com/noah-isme/campus-notice-api/internal/middleware"
	"github.com/noah-isme/campus-notice-api/internal/repository"
	"github.com/noah-isme/campus-notice-api/internal/service"
	"github.com/noah-isme/campus-notice-api/pkg/cache"
	"github.com/noah-isme/campus-notice-api/pkg/config"
	"github.com/noah-isme/campus-notice-api/pkg/database"
	"github.com/noah-isme/campus-notice-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-notice-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-notice-api/pkg/middleware/requestid"
	"github.com/noah-isme/campus-notice-api/pkg/storage"
)

const drainGrace = 5 * time.Second

// App holds the wired services and the HTTP router.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Router   *gin.Engine
	Store    *repository.DocumentStore
	Metrics  *service.MetricsService
	Notices  *service.NoticeService
	Students *service.StudentService
	Exports  *service.ExportService
	// Blobs is nil unless BLOBS_ENABLED is set.
	Blobs *service.BlobService

	closers []func() error
}

// New wires persistence, services and routes from cfg. Call Close when done.
func New(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*App, error) {
	if logr == nil {
		logr = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logr}

	if cfg.Metrics.Enabled {
		a.Metrics = service.NewMetricsService()
	}

	persister, closePersister, err := NewPersister(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closePersister)

	serialize := cfg.Store.SerializeWrites
	if cfg.Blobs.Enabled && !serialize {
		// Blob GC relies on the writer lock to see creates.
		logr.Warn("blob mode requires serialized writes, ignoring STORE_SERIALIZE_WRITES=false")
		serialize = true
	}
	a.Store = repository.NewDocumentStore(persister, repository.DocumentStoreOptions{
		Logger:          logr.Named("store"),
		Observer:        a.Metrics,
		SerializeWrites: serialize,
	})

	validate := validator.New()
	var noticeBlobs *service.BlobService
	if cfg.Blobs.Enabled {
		objects, err := NewBlobStorage(ctx, cfg)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		noticeBlobs = service.NewBlobService(objects, a.Store, service.BlobServiceConfig{
			Workers:    cfg.Blobs.GCWorkers,
			RetryDelay: cfg.Blobs.GCRetry,
		}, a.Metrics, logr.Named("blobs"))
		noticeBlobs.Start(context.Background())
		a.Blobs = noticeBlobs
	}

	// Keep a nil *BlobService out of the interface.
	if noticeBlobs != nil {
		a.Notices = service.NewNoticeService(a.Store, noticeBlobs, validate, a.Metrics, logr)
	} else {
		a.Notices = service.NewNoticeService(a.Store, nil, validate, a.Metrics, logr)
	}
	a.Students = service.NewStudentService(a.Store, validate, a.Metrics, logr)
	a.Exports = service.NewExportService(a.Students, logr)

	a.Router = a.routes()

	logr.Info("notice board ready",
		zap.String("store", persister.Location()),
		zap.Bool("blobs", cfg.Blobs.Enabled),
		zap.Bool("serialize_writes", serialize))
	return a, nil
}

func (a *App) routes() *gin.Engine {
	cfg := a.Config
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(a.Logger, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(a.Metrics))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics", "/api/blobs"})))
	r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	health := handler.NewMetricsHandler(a.Metrics, a.Store)
	notices := handler.NewNoticeHandler(a.Notices)
	students := handler.NewStudentHandler(a.Students, a.Exports)

	if cfg.StaticDir != "" {
		r.Use(static.Serve("/", static.LocalFile(cfg.StaticDir, false)))
	}

	r.GET("/", health.Root)
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", health.Prometheus)
	}

	api := r.Group("/api")
	api.GET("/notices", notices.List)
	api.POST("/notices", notices.Create)
	api.DELETE("/notices/:id", notices.Delete)
	api.POST("/students", students.Create)
	api.GET("/students", students.List)
	api.GET("/students/export", students.Export)
	if a.Blobs != nil {
		api.GET("/blobs/:key", handler.NewBlobHandler(a.Blobs).Get)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

// Close drains the blob queue and releases backend connections.
func (a *App) Close() error {
	if a.Blobs != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Config.Blobs.GCRetry*4+drainGrace)
		if err := a.Blobs.Flush(ctx); err != nil {
			a.Logger.Warn("blob release queue not drained", zap.Error(err))
		}
		cancel()
		a.Blobs.Stop()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// NewPersister opens the backend named by STORE_DRIVER.
func NewPersister(ctx context.Context, cfg *config.Config) (repository.DocumentPersister, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Store.Driver {
	case "", config.StoreDriverFile:
		return repository.NewFilePersister(cfg.Store.DataFile), noop, nil
	case config.StoreDriverBolt:
		db, err := database.NewBolt(cfg.Store.BoltPath, repository.BoltBucket)
		if err != nil {
			return nil, nil, err
		}
		p := repository.NewBoltPersister(db, cfg.Store.DocumentKey)
		return p, p.Close, nil
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		p := repository.NewPostgresPersister(db, cfg.Store.DocumentKey)
		if err := p.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("prepare postgres schema: %w", err)
		}
		return p, db.Close, nil
	case config.StoreDriverRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		p := repository.NewRedisPersister(client, cfg.Store.DocumentKey)
		return p, p.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}

// BlobStorage is the object store behind blob mode.
type BlobStorage interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// NewBlobStorage opens the object store named by BLOB_DRIVER.
func NewBlobStorage(ctx context.Context, cfg *config.Config) (BlobStorage, error) {
	switch cfg.Blobs.Driver {
	case "", config.BlobDriverLocal:
		local, err := storage.NewLocalStorage(cfg.Blobs.StorageDir)
		if err != nil {
			return nil, err
		}
		return local, nil
	case config.BlobDriverB2:
		remote, err := storage.NewB2Storage(ctx, cfg.Blobs.B2KeyID, cfg.Blobs.B2AppKey, cfg.Blobs.B2Bucket, cfg.Blobs.B2Prefix)
		if err != nil {
			return nil, err
		}
		return remote, nil
	default:
		return nil, fmt.Errorf("unknown BLOB_DRIVER %q", cfg.Blobs.Driver)
	}
}
