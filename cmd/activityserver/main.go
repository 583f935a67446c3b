package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"filmorate/internal/config"
	"filmorate/internal/handlers/activityserver"
	appKafka "filmorate/internal/kafka"
	kafkahandlers "filmorate/internal/kafka/handlers"
	"filmorate/internal/logger"
	"filmorate/internal/websocket"
)

func main() {
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.LoadConfig(os.Getenv("FILMORATE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法加载配置: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.Development)
	defer logger.Sync()
	if !cfg.Kafka.Enabled {
		logger.Warn("KAFKA.ENABLED 为 false，活动服务器不会收到任何事件")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. 初始化 WebSocket Hub
	hub := websocket.NewHub(cfg.WebSocket.SendBufferSize)
	go hub.Run(ctx)
	logger.Info("WebSocket Hub 已启动")

	// 3. 初始化 Kafka 消费者，把活动事件投递给 Hub
	var wg sync.WaitGroup
	if cfg.Kafka.Enabled {
		consumer, err := appKafka.NewConfluentKafkaConsumer(cfg.Kafka)
		if err != nil {
			logger.Fatal("无法创建 Kafka 消费者", err)
		}
		defer consumer.Close()

		activityLogic := kafkahandlers.NewActivityConsumerLogic(hub)
		wg.Add(1)
		go func() {
			defer wg.Done()
			topics := []string{cfg.Kafka.ActivityTopic}
			logger.Info("Kafka 活动消费者启动", "topic", cfg.Kafka.ActivityTopic, "group", cfg.Kafka.ConsumerGroup)
			err := consumer.Consume(ctx, topics, cfg.Kafka.ConsumerGroup, activityLogic.HandleActivity)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Kafka 活动消费者错误", "error", err)
			}
			logger.Info("Kafka 活动消费者已停止")
		}()
	}

	// 4. 配置 HTTP 服务器路由
	wsHandler := activityserver.NewWebSocketHandler(hub, cfg.WebSocket)
	mux := http.NewServeMux()
	mux.HandleFunc(cfg.ActivityServer.WebSocketPath, wsHandler.ServeWS)
	mux.Handle("/metrics", promhttp.Handler())

	// 5. 启动 HTTP 服务器
	serverAddr := fmt.Sprintf("%s:%s", cfg.ActivityServer.Host, cfg.ActivityServer.Port)
	httpServer := &http.Server{
		Addr:           serverAddr,
		Handler:        mux,
		ReadTimeout:    cfg.ActivityServer.ReadTimeout,
		MaxHeaderBytes: cfg.ActivityServer.MaxHeaderBytes,
	}

	go func() {
		logger.Info("活动服务器启动", "addr", serverAddr, "path", cfg.ActivityServer.WebSocketPath)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("活动服务器启动失败", err)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("活动服务器准备关闭...")

	cancel()
	wg.Wait()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		logger.Error("活动服务器关闭失败", "error", err)
		return
	}
	logger.Info("活动服务器已优雅关闭")
}
