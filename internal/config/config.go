package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// APIServerConfig 保存 API 服务器特有的配置。
type APIServerConfig struct {
	Host            string        `mapstructure:"HOST"`
	Port            string        `mapstructure:"PORT"`
	ReadTimeout     time.Duration `mapstructure:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `mapstructure:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	PopularDefault  int           `mapstructure:"POPULAR_DEFAULT_COUNT"`
	CORS            CORSConfig    `mapstructure:"CORS"`
}

// CORSConfig holds configuration for CORS.
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"ALLOWED_ORIGINS"`
	AllowedMethods   []string `mapstructure:"ALLOWED_METHODS"`
	AllowedHeaders   []string `mapstructure:"ALLOWED_HEADERS"`
	ExposedHeaders   []string `mapstructure:"EXPOSED_HEADERS"`
	AllowCredentials bool     `mapstructure:"ALLOW_CREDENTIALS"`
	MaxAge           int      `mapstructure:"MAX_AGE"`
}

// Config holds all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	AppName        string          `mapstructure:"APP_NAME"`
	AppVersion     string          `mapstructure:"APP_VERSION"`
	LogLevel       string          `mapstructure:"LOG_LEVEL"`
	Development    bool            `mapstructure:"DEVELOPMENT"`
	APIServer      APIServerConfig `mapstructure:"API_SERVER"`
	ActivityServer ServerConfig    `mapstructure:"ACTIVITY_SERVER"` // 活动推送 (WebSocket) 服务器
	Storage        StorageConfig   `mapstructure:"STORAGE"`
	Database       DatabaseConfig  `mapstructure:"DATABASE"`
	Kafka          KafkaConfig     `mapstructure:"KAFKA"`
	WebSocket      WebSocketConfig `mapstructure:"WEBSOCKET"`
}

// ServerConfig holds configuration for the activity stream HTTP server.
type ServerConfig struct {
	Host           string        `mapstructure:"HOST"`
	Port           string        `mapstructure:"PORT"`
	WebSocketPath  string        `mapstructure:"WEBSOCKET_PATH"`
	ReadTimeout    time.Duration `mapstructure:"READ_TIMEOUT"`
	WriteTimeout   time.Duration `mapstructure:"WRITE_TIMEOUT"`
	MaxHeaderBytes int           `mapstructure:"MAX_HEADER_BYTES"`
}

// KafkaConfig holds configuration for Kafka.
// Enabled 为 false 时不创建生产者，活动事件被直接丢弃。
type KafkaConfig struct {
	Enabled       bool     `mapstructure:"ENABLED"`
	Brokers       []string `mapstructure:"BROKERS"`
	ClientID      string   `mapstructure:"CLIENT_ID"`
	ActivityTopic string   `mapstructure:"ACTIVITY_TOPIC"` // 电影/用户/好友变更事件
	ConsumerGroup string   `mapstructure:"CONSUMER_GROUP"` // ActivityServer 消费者组
	Protocol      string   `mapstructure:"PROTOCOL"`
}

// DatabaseConfig holds configuration for the database.
type DatabaseConfig struct {
	Type            string        `mapstructure:"TYPE"`
	Host            string        `mapstructure:"HOST"`
	Port            int           `mapstructure:"PORT"`
	User            string        `mapstructure:"USER"`
	Password        string        `mapstructure:"PASSWORD"`
	DBName          string        `mapstructure:"DB_NAME"`
	SSLMode         string        `mapstructure:"SSL_MODE"`
	MaxOpenConns    int           `mapstructure:"MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"CONN_MAX_LIFETIME"`
	SlowThreshold   time.Duration `mapstructure:"SLOW_THRESHOLD"`
	AutoMigrate     bool          `mapstructure:"AUTO_MIGRATE"`
}

// DSN builds the postgres connection string.
func (c DatabaseConfig) DSN() string {
	parts := []string{
		fmt.Sprintf("host=%s", c.Host),
		fmt.Sprintf("port=%d", c.Port),
		fmt.Sprintf("user=%s", c.User),
		fmt.Sprintf("dbname=%s", c.DBName),
	}
	if c.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", c.Password))
	}
	parts = append(parts, fmt.Sprintf("sslmode=%s", c.SSLMode))
	return strings.Join(parts, " ")
}

// StorageConfig 选择实体和关系的存储后端。
type StorageConfig struct {
	Backend string `mapstructure:"BACKEND"` // "memory" 或 "postgres"
}

// WebSocketConfig holds configuration for WebSocket connections.
type WebSocketConfig struct {
	WriteWaitSeconds    int `mapstructure:"WRITE_WAIT_SECONDS"`
	PongWaitSeconds     int `mapstructure:"PONG_WAIT_SECONDS"`
	PingPeriodSeconds   int `mapstructure:"PING_PERIOD_SECONDS"`
	MaxMessageSizeBytes int `mapstructure:"MAX_MESSAGE_SIZE_BYTES"`
	SendBufferSize      int `mapstructure:"SEND_BUFFER_SIZE"`
}

// Validate 检查互相依赖的配置项。
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendPostgres:
	default:
		return fmt.Errorf("unsupported storage backend: %q", c.Storage.Backend)
	}
	if c.APIServer.PopularDefault <= 0 {
		return fmt.Errorf("API_SERVER.POPULAR_DEFAULT_COUNT must be positive, got %d", c.APIServer.PopularDefault)
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.ActivityTopic == "") {
		return fmt.Errorf("kafka is enabled but brokers or activity topic are missing")
	}
	return nil
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()

	v.SetDefault("APP_NAME", "filmorate")
	v.SetDefault("APP_VERSION", "0.0.1")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DEVELOPMENT", false)

	v.SetDefault("API_SERVER.HOST", "0.0.0.0")
	v.SetDefault("API_SERVER.PORT", "8080")
	v.SetDefault("API_SERVER.READ_TIMEOUT", 15*time.Second)
	v.SetDefault("API_SERVER.WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("API_SERVER.SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("API_SERVER.POPULAR_DEFAULT_COUNT", 10)
	v.SetDefault("API_SERVER.CORS.ALLOWED_ORIGINS", []string{"http://localhost:5173"})
	v.SetDefault("API_SERVER.CORS.ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("API_SERVER.CORS.ALLOWED_HEADERS", []string{"Accept", "Content-Type", "X-Request-ID"})
	v.SetDefault("API_SERVER.CORS.EXPOSED_HEADERS", []string{"Content-Length", "X-Request-ID"})
	v.SetDefault("API_SERVER.CORS.ALLOW_CREDENTIALS", false)
	v.SetDefault("API_SERVER.CORS.MAX_AGE", 300) // 5 minutes

	v.SetDefault("ACTIVITY_SERVER.HOST", "0.0.0.0")
	v.SetDefault("ACTIVITY_SERVER.PORT", "8081")
	v.SetDefault("ACTIVITY_SERVER.WEBSOCKET_PATH", "/ws")
	v.SetDefault("ACTIVITY_SERVER.READ_TIMEOUT", 30*time.Second)
	v.SetDefault("ACTIVITY_SERVER.WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("ACTIVITY_SERVER.MAX_HEADER_BYTES", 1<<20) // 1 MB

	v.SetDefault("STORAGE.BACKEND", BackendMemory)

	v.SetDefault("DATABASE.TYPE", "postgres")
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "password")
	v.SetDefault("DATABASE.DB_NAME", "filmorate")
	v.SetDefault("DATABASE.SSL_MODE", "disable")
	v.SetDefault("DATABASE.MAX_OPEN_CONNS", 20)
	v.SetDefault("DATABASE.MAX_IDLE_CONNS", 5)
	v.SetDefault("DATABASE.CONN_MAX_LIFETIME", 30*time.Minute)
	v.SetDefault("DATABASE.SLOW_THRESHOLD", time.Second)
	v.SetDefault("DATABASE.AUTO_MIGRATE", true)

	v.SetDefault("KAFKA.ENABLED", false)
	v.SetDefault("KAFKA.BROKERS", []string{"localhost:9092"})
	v.SetDefault("KAFKA.CLIENT_ID", "filmorate")
	v.SetDefault("KAFKA.ACTIVITY_TOPIC", "filmorate-activity")
	v.SetDefault("KAFKA.CONSUMER_GROUP", "filmorate-activity-server")
	v.SetDefault("KAFKA.PROTOCOL", "plaintext")

	v.SetDefault("WEBSOCKET.WRITE_WAIT_SECONDS", 10)
	v.SetDefault("WEBSOCKET.PONG_WAIT_SECONDS", 60)
	v.SetDefault("WEBSOCKET.PING_PERIOD_SECONDS", 54) // (60 * 9) / 10
	v.SetDefault("WEBSOCKET.MAX_MESSAGE_SIZE_BYTES", 512)
	v.SetDefault("WEBSOCKET.SEND_BUFFER_SIZE", 256)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// 例如 API_SERVER_PORT 覆盖 APIServer.Port
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		// 没有配置文件时使用默认值
		err = nil
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	err = config.Validate()
	return
}
