package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig
	Worker   WorkerConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
	RabbitMQ RabbitMQConfig
	Redis    RedisConfig
	Outbox   OutboxConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"API_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"10s"`
	MaxUploadSize   int64         `envconfig:"API_MAX_UPLOAD_SIZE" default:"1073741824"`
}

type WorkerConfig struct {
	MaxRetries      int           `envconfig:"WORKER_MAX_RETRIES" default:"3"`
	ShutdownTimeout time.Duration `envconfig:"WORKER_SHUTDOWN_TIMEOUT" default:"30s"`
	MetricsPort     int           `envconfig:"WORKER_METRICS_PORT" default:"9091"`
}

type DatabaseConfig struct {
	Host        string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port        int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User        string `envconfig:"POSTGRES_USER" default:"catalog"`
	Password    string `envconfig:"POSTGRES_PASSWORD" default:"catalog"`
	DBName      string `envconfig:"POSTGRES_DB" default:"catalog"`
	SSLMode     string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	AutoMigrate bool   `envconfig:"POSTGRES_AUTO_MIGRATE" default:"true"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type MinIOConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	Bucket    string `envconfig:"MINIO_BUCKET" default:"catalog-videos"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type RabbitMQConfig struct {
	Host           string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port           int    `envconfig:"RABBITMQ_PORT" default:"5672"`
	User           string `envconfig:"RABBITMQ_USER" default:"catalog"`
	Password       string `envconfig:"RABBITMQ_PASSWORD" default:"catalog"`
	VHost          string `envconfig:"RABBITMQ_VHOST" default:"/"`
	EventsExchange string `envconfig:"RABBITMQ_EVENTS_EXCHANGE" default:"catalog.events"`
	ResultsQueue   string `envconfig:"RABBITMQ_RESULTS_QUEUE" default:"videos.encoder.results"`
	Prefetch       int    `envconfig:"RABBITMQ_PREFETCH" default:"10"`
}

func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%d%s",
		c.User, c.Password, c.Host, c.Port, c.VHost,
	)
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type OutboxConfig struct {
	PollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"2s"`
	BatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
}

type CacheConfig struct {
	VideoTTL time.Duration `envconfig:"CACHE_VIDEO_TTL" default:"5m"`
}

// Load reads the configuration from the environment.
// Variables from ENV_FILE (default .env) are loaded first when the file
// exists; variables already set in the environment win.
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
