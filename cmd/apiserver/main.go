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

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap/zapcore"

	"filmorate/internal/bootstrap"
	"filmorate/internal/config"
	"filmorate/internal/handlers/apiserver"
	"filmorate/internal/logger"
	"filmorate/internal/middleware"
	"filmorate/internal/services"
	"filmorate/internal/validation"
)

func main() {
	// .env 是可选的，不存在时直接使用环境变量
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.LoadConfig(os.Getenv("FILMORATE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法加载配置: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.Development)
	defer logger.Sync()
	logger.Info("API 服务器配置加载成功", "app", cfg.AppName, "version", cfg.AppVersion, "backend", cfg.Storage.Backend)

	// 2. 初始化存储后端
	backend, err := bootstrap.OpenBackend(cfg)
	if err != nil {
		logger.Fatal("无法初始化存储后端", err)
	}
	defer backend.Close()

	// 3. 初始化活动事件发布者
	publisher, closePublisher, err := bootstrap.NewPublisher(cfg.Kafka)
	if err != nil {
		logger.Fatal("无法创建 Kafka 生产者", err)
	}
	defer closePublisher()

	// 4. 初始化 Services
	validator := validation.Default()
	filmService := services.NewFilmService(backend.Tx, validator, publisher)
	userService := services.NewUserService(backend.Tx, validator, publisher)
	catalogService := services.NewCatalogService(backend.Tx)

	// 5. 初始化 Handlers 并注册路由
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Metrics)
	r.HandleFunc("/healthz", healthz(backend)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	apiserver.RegisterRoutes(r,
		apiserver.NewFilmHandler(filmService, cfg.APIServer.PopularDefault),
		apiserver.NewUserHandler(userService),
		apiserver.NewCatalogHandler(catalogService),
	)

	// 6. 启动 HTTP 服务器并实现优雅关闭
	serverAddr := fmt.Sprintf("%s:%s", cfg.APIServer.Host, cfg.APIServer.Port)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      wrapHandler(r, cfg),
		ReadTimeout:  cfg.APIServer.ReadTimeout,
		WriteTimeout: cfg.APIServer.WriteTimeout,
		IdleTimeout:  time.Second * 60,
		ErrorLog:     logger.StdLogger(zapcore.WarnLevel),
	}

	go func() {
		logger.Info("API 服务器启动", "addr", serverAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("API 服务器启动失败", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("收到关闭信号，正在关闭 API 服务器...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.APIServer.ShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("API 服务器强制关闭", "error", err)
		return
	}
	logger.Info("API 服务器已成功关闭")
}

// wrapHandler 依次加上 panic 恢复、访问日志和 CORS。
func wrapHandler(r http.Handler, cfg config.Config) http.Handler {
	corsOptions := []handlers.CORSOption{
		handlers.AllowedOrigins(cfg.APIServer.CORS.AllowedOrigins),
		handlers.AllowedMethods(cfg.APIServer.CORS.AllowedMethods),
		handlers.AllowedHeaders(cfg.APIServer.CORS.AllowedHeaders),
		handlers.ExposedHeaders(cfg.APIServer.CORS.ExposedHeaders),
		handlers.MaxAge(cfg.APIServer.CORS.MaxAge),
	}
	if cfg.APIServer.CORS.AllowCredentials {
		corsOptions = append(corsOptions, handlers.AllowCredentials())
	}

	h := handlers.CORS(corsOptions...)(r)
	h = handlers.CombinedLoggingHandler(os.Stdout, h)
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger.StdLogger(zapcore.ErrorLevel)),
		handlers.PrintRecoveryStack(cfg.Development),
	)(h)
}

// healthz 在 postgres 后端时检查数据库连接。
func healthz(backend *bootstrap.Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if backend.DB != nil {
			sqlDB, err := backend.DB.DB()
			if err == nil {
				err = sqlDB.PingContext(r.Context())
			}
			if err != nil {
				logger.Warn("health check failed", "error", err)
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}
