package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifora/internal/broker"
	"lifora/internal/config"
	"lifora/internal/db"
	"lifora/internal/middleware"
	"lifora/internal/repository"
	"lifora/internal/router"
	"lifora/internal/services"
	"lifora/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.Load()
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	// Storage
	var (
		comments repository.CommentStore
		users    repository.UserStore
		gormDB   *gorm.DB
	)
	switch cfg.StoreDriver {
	case "memory":
		comments = repository.NewMemoryCommentStore()
		users = repository.NewMemoryUserStore()
		logrus.Warn("Using in-memory store, data is lost on restart")
	default:
		var err error
		gormDB, err = db.Open(cfg.DatabaseURL)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize database")
		}
		comments = repository.NewGormCommentStore(gormDB)
		users = repository.NewGormUserStore(gormDB)
	}

	directory, err := repository.NewCachedDirectory(repository.NewStoreDirectory(users), cfg.AuthorCacheSize, cfg.AuthorCacheTTL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create author cache")
	}

	// 异步事件分发
	dispatcher := services.NewEventDispatcher(newPublisher(cfg))

	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	commentService := services.NewCommentService(comments, directory, dispatcher, services.CommentServiceConfig{
		DefaultLimit:   cfg.DefaultPageLimit,
		MaxLimit:       cfg.MaxPageLimit,
		ValidateParent: cfg.ValidateParent,
	})
	authService := services.NewAuthService(users, tokens, directory)

	var (
		rdb     *redis.Client
		limiter middleware.Limiter
	)
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logrus.WithError(err).Warn("Redis unreachable, rate limiter will fail open")
		}
		cancel()
		limiter = middleware.NewRedisLimiter(rdb)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())
	r.Use(sessions.Sessions("lifora_session", cookie.NewStore([]byte(cfg.SessionSecret))))

	router.RegisterRoutes(r, router.Deps{
		Comments:    commentService,
		Auth:        authService,
		Tokens:      tokens,
		Limiter:     limiter,
		CommentRate: cfg.CommentRateLimit,
		RateWindow:  cfg.CommentRateWindow,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.CORS(cfg.CORSOrigins, r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("Lifora server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}
	if err := dispatcher.Close(ctx); err != nil {
		logrus.WithError(err).Warn("Event dispatcher did not drain")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if gormDB != nil {
		if err := db.Close(gormDB); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}
	logrus.Info("Server exited")
}

func newPublisher(cfg *config.Config) services.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logrus.Info("KAFKA_BROKERS not set, comment events go to the log")
		return services.LogPublisher{}
	}
	p, err := broker.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create Kafka publisher")
	}
	logrus.WithField("topic", cfg.KafkaTopic).Info("Publishing comment events to Kafka")
	return p
}
