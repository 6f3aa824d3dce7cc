package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crmhub/crmhub/backend/go-services/handlers"
	"github.com/crmhub/crmhub/backend/go-services/internal/config"
	"github.com/crmhub/crmhub/backend/go-services/internal/database"
	"github.com/crmhub/crmhub/backend/go-services/internal/meeting/handler"
	"github.com/crmhub/crmhub/backend/go-services/internal/meeting/repository"
	"github.com/crmhub/crmhub/backend/go-services/internal/meeting/service"
	"github.com/crmhub/crmhub/backend/go-services/pkg/logger"
	"github.com/crmhub/crmhub/backend/go-services/pkg/metrics"
	"github.com/crmhub/crmhub/backend/go-services/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if cfg.Log.File != "" {
		logger.Init(cfg.Log.Level, logger.WithFile(cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays))
	} else {
		logger.Init(cfg.Log.Level)
	}
	defer func() { _ = logger.Sync() }()
	logger.Infof("config loaded: mongo=%v redis=%v rate_limit=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.RateLimit.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	gateways, err := middleware.ParseCIDRs(cfg.Server.TrustedGateways)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	// X-Forwarded-For is honoured only from the gateways; nil trusts nobody
	if err := r.SetTrustedProxies(cfg.Server.TrustedGateways); err != nil {
		logger.Fatalf("trusted proxies: %v", err)
	}

	// Lightweight CORS middleware: set common headers and respond to OPTIONS.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, "+middleware.ActorHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, "+middleware.RequestIDHeader)
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})
	r.Use(middleware.RequestLogger(), gin.Recovery(), middleware.TrustedActor(gateways))

	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			_ = redisClient.Close()
			redisClient = nil
		} else {
			defer redisClient.Close()
			logger.Infof("connected to Redis %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Prefer Mongo-backed service when MONGODB_URI is provided; otherwise run on memory.
	var svc service.Service
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second)
		if err != nil {
			logger.Fatalf("could not connect to MongoDB: %v", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		svc = mongoService(ctx, client, cfg)
	} else {
		logger.Warnf("MONGODB_URI not set; meetings are kept in memory and lost on restart")
		svc = service.NewMemoryService()
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when the store (and Redis, if the limiter needs it) answers
	r.GET("/ready", func(c *gin.Context) {
		rctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		deps := map[string]bool{"storage": svc.Ready(rctx) == nil}
		if cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil && redisClient.Ping(rctx).Err() == nil
		}
		status, code := "ready", http.StatusOK
		for _, ok := range deps {
			if !ok {
				status, code = "not_ready", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	handler.RegisterMeetingRoutes(r, svc)
	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting meeting service on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

func mongoService(ctx context.Context, client *mongo.Client, cfg *config.Config) service.Service {
	repo := repository.NewMongoRepo(client.Database(cfg.MongoDB.Database), collections(cfg))
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Warnf("%v", err)
	}
	return service.New(repo)
}

func collections(cfg *config.Config) repository.Collections {
	return repository.Collections{
		Meetings: cfg.Collections.Meetings,
		Contacts: cfg.Collections.Contacts,
		Leads:    cfg.Collections.Leads,
		Users:    cfg.Collections.Users,
	}
}
