package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	memoryRepo "github.com/taskora/taskora/internal/adapters/db/memory"
	postgresRepo "github.com/taskora/taskora/internal/adapters/db/postgres"
	redisRepo "github.com/taskora/taskora/internal/adapters/db/redis"
	"github.com/taskora/taskora/internal/adapters/mail"
	httpTransport "github.com/taskora/taskora/internal/adapters/transport/http"
	httpmw "github.com/taskora/taskora/internal/adapters/transport/http/middleware"
	"github.com/taskora/taskora/internal/app/auth/jwt"
	authsvc "github.com/taskora/taskora/internal/app/auth/service"
	todosvc "github.com/taskora/taskora/internal/app/todo/service"
	authrepo "github.com/taskora/taskora/internal/domain/auth/repo"
	"github.com/taskora/taskora/internal/infra/config"
	lg "github.com/taskora/taskora/internal/infra/log"
	"github.com/taskora/taskora/internal/infra/migrate"
	"github.com/taskora/taskora/internal/infra/server"
)

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	var tokenRepo authrepo.TokenRepo
	if cfg.RedisAddress != "" {
		redisCli := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisCli.Close()
		tokenRepo = redisRepo.NewRedisTokenRepo(redisCli)
	} else {
		zapLog.Warn("REDIS_ADDRESS not set, refresh tokens are tracked in process memory only")
		tokenRepo = memoryRepo.NewMemoryTokenRepo()
	}

	validate := validator.New()

	userRepo := postgresRepo.NewPostgresUserRepo(db)
	todoRepo := postgresRepo.NewPostgresTodoRepo(db)
	jwtUtil, err := jwt.NewJWTUtil(cfg)
	if err != nil {
		zapLog.Fatal("failed to init JWT util", zap.Error(err))
	}
	mailer := mail.NewSMTPSender(cfg)

	auth := authsvc.New(userRepo, tokenRepo, jwtUtil, mailer, cfg, validate)
	todos := todosvc.New(todoRepo, validate)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpmw.RequestLogger(zapLog))
	router.Use(httpmw.NewRateLimitPerIP(50, 100, 10_000, time.Hour))

	corsConfig := cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			"Authorization",
			"X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	authLimiter := httpmw.NewAuthWindowLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	handler := httpTransport.NewHandler(auth, todos, zapLog)
	handler.RegisterRoutes(router, authLimiter)

	rootCtx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		return server.StartHTTPServer(ctx, cfg, router, zapLog)
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		zapLog.Info("shutdown signal received")
	case <-ctx.Done():
	}
	cancel()

	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
