package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all worker service configuration.
type Config struct {
	// Environment Configuration
	Environment EnvironmentConfig

	// Ops HTTP Server Configuration
	Server ServerConfig
	Logger LoggerConfig

	// Storage Configuration
	Postgres PostgresConfig
	Redis    RedisConfig
	MinIO    MinIOConfig

	// Job Engine Configuration
	Scheduler SchedulerConfig

	// Sentiment Monitoring Configuration
	Monitor MonitorConfig

	// Outbound webhook defaults
	Webhook WebhookConfig
}

// EnvironmentConfig is the configuration for the deployment environment.
type EnvironmentConfig struct {
	Name string
}

// ServerConfig is the configuration for the ops HTTP server (health, stats, ws).
type ServerConfig struct {
	Host string
	Port int
	Mode string
}

// LoggerConfig is the configuration for the logger.
type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// PostgresConfig is the configuration for PostgreSQL.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig is the configuration for Redis.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	UseTLS   bool

	MaxRetries      int
	MinIdleConns    int
	PoolSize        int
	PoolTimeout     time.Duration
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// MinIOConfig is the configuration for MinIO object storage.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
	Bucket    string
}

// SchedulerConfig is the configuration for the job scheduler.
type SchedulerConfig struct {
	// AutoStart starts the scheduler from the host process when set.
	AutoStart bool

	// Per-queue worker concurrency.
	PostConcurrency         int
	AnalyticsConcurrency    int
	NotificationConcurrency int
	MediaConcurrency        int

	// Retention for terminal jobs cleaned by the daily cleanup job.
	StaleJobAge time.Duration

	// Graceful drain budget on shutdown.
	ShutdownTimeout time.Duration
}

// MonitorConfig is the configuration for sentiment monitoring.
type MonitorConfig struct {
	// CrisisWebhookURL receives slack-style crisis embeds. Optional.
	CrisisWebhookURL string
}

// WebhookConfig is the configuration for the outbound webhook sender.
type WebhookConfig struct {
	Timeout    time.Duration
	RetryCount int
	RetryDelay time.Duration
	Username   string
}

// Load loads configuration using Viper.
func Load() (*Config, error) {
	viper.SetConfigName("worker-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/jobs-srv/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Config file is optional; env vars and defaults cover headless deploys.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Environment: EnvironmentConfig{
			Name: viper.GetString("environment.name"),
		},
		Server: ServerConfig{
			Host: viper.GetString("server.host"),
			Port: viper.GetInt("server.port"),
			Mode: viper.GetString("server.mode"),
		},
		Logger: LoggerConfig{
			Level:        viper.GetString("logger.level"),
			Mode:         viper.GetString("logger.mode"),
			Encoding:     viper.GetString("logger.encoding"),
			ColorEnabled: viper.GetBool("logger.color_enabled"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("postgres.host"),
			Port:     viper.GetInt("postgres.port"),
			User:     viper.GetString("postgres.user"),
			Password: viper.GetString("postgres.password"),
			DBName:   viper.GetString("postgres.dbname"),
			SSLMode:  viper.GetString("postgres.sslmode"),
		},
		Redis: RedisConfig{
			Host:            viper.GetString("redis.host"),
			Port:            viper.GetInt("redis.port"),
			Password:        viper.GetString("redis.password"),
			DB:              viper.GetInt("redis.db"),
			UseTLS:          viper.GetBool("redis.use_tls"),
			MaxRetries:      viper.GetInt("redis.max_retries"),
			MinIdleConns:    viper.GetInt("redis.min_idle_conns"),
			PoolSize:        viper.GetInt("redis.pool_size"),
			PoolTimeout:     viper.GetDuration("redis.pool_timeout"),
			ConnMaxIdleTime: viper.GetDuration("redis.conn_max_idle_time"),
			ConnMaxLifetime: viper.GetDuration("redis.conn_max_lifetime"),
		},
		MinIO: MinIOConfig{
			Endpoint:  viper.GetString("minio.endpoint"),
			AccessKey: viper.GetString("minio.access_key"),
			SecretKey: viper.GetString("minio.secret_key"),
			UseSSL:    viper.GetBool("minio.use_ssl"),
			Region:    viper.GetString("minio.region"),
			Bucket:    viper.GetString("minio.bucket"),
		},
		Scheduler: SchedulerConfig{
			AutoStart:               viper.GetBool("scheduler.auto_start"),
			PostConcurrency:         viper.GetInt("scheduler.post_concurrency"),
			AnalyticsConcurrency:    viper.GetInt("scheduler.analytics_concurrency"),
			NotificationConcurrency: viper.GetInt("scheduler.notification_concurrency"),
			MediaConcurrency:        viper.GetInt("scheduler.media_concurrency"),
			StaleJobAge:             viper.GetDuration("scheduler.stale_job_age"),
			ShutdownTimeout:         viper.GetDuration("scheduler.shutdown_timeout"),
		},
		Monitor: MonitorConfig{
			CrisisWebhookURL: viper.GetString("monitor.crisis_webhook_url"),
		},
		Webhook: WebhookConfig{
			Timeout:    viper.GetDuration("webhook.timeout"),
			RetryCount: viper.GetInt("webhook.retry_count"),
			RetryDelay: viper.GetDuration("webhook.retry_delay"),
			Username:   viper.GetString("webhook.username"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.mode", "debug")

	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "development")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", 5432)
	viper.SetDefault("postgres.user", "postgres")
	viper.SetDefault("postgres.dbname", "jobs")
	viper.SetDefault("postgres.sslmode", "disable")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.min_idle_conns", 2)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.pool_timeout", 30*time.Second)
	viper.SetDefault("redis.conn_max_idle_time", 5*time.Minute)
	viper.SetDefault("redis.conn_max_lifetime", 30*time.Minute)

	viper.SetDefault("minio.region", "us-east-1")
	viper.SetDefault("minio.bucket", "media")

	viper.SetDefault("scheduler.auto_start", true)
	viper.SetDefault("scheduler.post_concurrency", 5)
	viper.SetDefault("scheduler.analytics_concurrency", 3)
	viper.SetDefault("scheduler.notification_concurrency", 10)
	viper.SetDefault("scheduler.media_concurrency", 2)
	viper.SetDefault("scheduler.stale_job_age", 24*time.Hour)
	viper.SetDefault("scheduler.shutdown_timeout", 30*time.Second)

	viper.SetDefault("webhook.timeout", 10*time.Second)
	viper.SetDefault("webhook.retry_count", 2)
	viper.SetDefault("webhook.retry_delay", 2*time.Second)
	viper.SetDefault("webhook.username", "jobs-srv")
}

// Validate checks configuration invariants that would otherwise surface as
// confusing runtime failures.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Scheduler.PostConcurrency <= 0 ||
		c.Scheduler.AnalyticsConcurrency <= 0 ||
		c.Scheduler.NotificationConcurrency <= 0 ||
		c.Scheduler.MediaConcurrency <= 0 {
		return fmt.Errorf("scheduler concurrency values must be positive")
	}

	if c.Scheduler.StaleJobAge <= 0 {
		return fmt.Errorf("scheduler.stale_job_age must be positive")
	}

	return nil
}
