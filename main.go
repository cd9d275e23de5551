package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/treeshop/catalog/handlers"
	"github.com/treeshop/catalog/internal/catalog/handler"
	"github.com/treeshop/catalog/internal/catalog/repository"
	"github.com/treeshop/catalog/internal/catalog/service"
	"github.com/treeshop/catalog/internal/config"
	"github.com/treeshop/catalog/internal/database"
	"github.com/treeshop/catalog/internal/storage"
	"github.com/treeshop/catalog/pkg/logger"
	"github.com/treeshop/catalog/pkg/metrics"
	"github.com/treeshop/catalog/pkg/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

// deps are the collaborators main wires into the router.
type deps struct {
	repo  repository.Repository
	blobs storage.BlobStore
	redis *redis.Client
	// mongo is nil when the in-memory repository stands in for MongoDB
	mongo *mongo.Client
	// mongoDown is set when MongoDB was configured but unreachable at startup
	mongoDown bool
}

func main() {
	// LOG_LEVEL controls verbosity: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	logger.Infof("config loaded: mongo=%v blob=%s redis=%v", cfg.MongoDB.URI != "", cfg.Blob.Backend, cfg.Redis.Host != "")

	ctx := context.Background()
	d := deps{}

	if cfg.Redis.Host != "" {
		d.redis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := d.redis.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
		} else {
			logger.Infof("connected to Redis %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	switch {
	case cfg.MongoDB.URI == "":
		logger.Warn("MONGODB_URI not set: products are kept in memory")
		d.repo = repository.NewMemoryRepo()
	default:
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, database.DefaultRetry)
		if err != nil {
			logger.Warnf("could not connect to MongoDB, products are kept in memory: %v", err)
			d.repo = repository.NewMemoryRepo()
			d.mongoDown = true
			break
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		d.repo = repository.NewMongoRepo(client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection))
		d.mongo = client
	}

	if cfg.Blob.Backend == storage.BackendMemory && cfg.Blob.PublicBaseURL == "" {
		cfg.Blob.PublicBaseURL = "http://" + localHost(cfg.Server.Host) + ":" + cfg.Server.Port + "/blobs"
	}
	d.blobs, err = storage.New(ctx, cfg.Blob)
	if err != nil {
		logger.Fatalf("failed to initialise %s blob storage: %v", cfg.Blob.Backend, err)
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := newRouter(cfg, d)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting catalog service on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("shutdown: %v", err)
	}
}

func newRouter(cfg *config.Config, d deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS(cfg.CORS.Origin))
	r.MaxMultipartMemory = cfg.Upload.MaxSizeBytes

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && d.redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(d.redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	handlers.RegisterHealth(r, func() map[string]bool {
		ready := map[string]bool{"mongo": !d.mongoDown, "blob": d.blobs != nil}
		if d.mongo != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			ready["mongo"] = d.mongo.Ping(ctx, nil) == nil
		}
		if cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis {
			ready["redis"] = d.redis != nil && d.redis.Ping(context.Background()).Err() == nil
		}
		return ready
	})

	if mem, ok := d.blobs.(*storage.MemoryStorage); ok {
		r.GET("/blobs/*path", gin.WrapH(http.StripPrefix("/blobs", mem)))
	}

	svc := service.New(d.repo, d.blobs)
	handler.RegisterCatalogRoutes(r, svc, handler.Options{MaxUploadBytes: cfg.Upload.MaxSizeBytes})
	handlers.RegisterSwagger(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// localHost turns a wildcard listen host into one a browser can reach.
func localHost(host string) string {
	switch strings.TrimSpace(host) {
	case "", "0.0.0.0", "::":
		return "localhost"
	}
	return host
}
