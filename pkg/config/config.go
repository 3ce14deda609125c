package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	minSplashDelay = 1200 * time.Millisecond
	maxSplashDelay = 1500 * time.Millisecond
)

type Config struct {
	Server     ServerConfig
	Site       SiteConfig
	Security   SecurityConfig
	Redis      RedisConfig
	NATS       NATSConfig
	S3         S3Config
	CloudWatch CloudWatchConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type SiteConfig struct {
	// BasePath префикс путей при деплое в подкаталог (например GitHub Pages)
	BasePath    string
	SplashDelay time.Duration
}

type SecurityConfig struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	// TrustedProxies: адреса и CIDR, чьим X-Forwarded-For можно верить
	TrustedProxies []string
}

type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         string
	Password     string
	DB           int
	TTL          time.Duration
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type NATSConfig struct {
	Enabled            bool
	URL                string
	ReservationSubject string
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	KeyPrefix       string
}

type CloudWatchConfig struct {
	LogsEnabled       bool
	Region            string
	Endpoint          string
	AccessKeyID       string
	SecretAccessKey   string
	LogGroupName      string
	LogStreamName     string
	LogsBufferSize    int
	LogsFlushInterval time.Duration
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	splashDelay, err := parseDuration(getEnv("SPLASH_DELAY", "1200ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid SPLASH_DELAY: %w", err)
	}

	rateLimitRPS, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}

	rateLimitBurst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	redisTTL, err := parseDuration(getEnv("REDIS_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_TTL: %w", err)
	}

	logsFlushInterval, err := parseDuration(getEnv("CLOUDWATCH_LOGS_FLUSH_INTERVAL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOUDWATCH_LOGS_FLUSH_INTERVAL: %w", err)
	}

	logsBufferSize, err := strconv.Atoi(getEnv("CLOUDWATCH_LOGS_BUFFER_SIZE", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOUDWATCH_LOGS_BUFFER_SIZE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Site: SiteConfig{
			BasePath:    NormalizeBasePath(getEnv("BASE_PATH", "")),
			SplashDelay: ClampSplashDelay(splashDelay),
		},
		Security: SecurityConfig{
			AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:8080,http://127.0.0.1:8080")),
			RateLimitRPS:   rateLimitRPS,
			RateLimitBurst: rateLimitBurst,
			TrustedProxies: splitCSV(getEnv("TRUSTED_PROXIES", "")),
		},
		Redis: RedisConfig{
			Enabled:      getEnvBool("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           redisDB,
			TTL:          redisTTL,
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		NATS: NATSConfig{
			Enabled:            getEnvBool("NATS_ENABLED", false),
			URL:                getEnv("NATS_URL", "nats://localhost:4222"),
			ReservationSubject: getEnv("NATS_RESERVATION_SUBJECT", "smartfood.reservation.requested"),
		},
		S3: S3Config{
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", "ru-central1"),
			Endpoint:        getEnv("S3_ENDPOINT", "https://storage.yandexcloud.net"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			UsePathStyle:    getEnvBool("S3_USE_PATH_STYLE", true),
			KeyPrefix:       getEnv("S3_KEY_PREFIX", "smartfood-restaurant"),
		},
		CloudWatch: CloudWatchConfig{
			LogsEnabled:       getEnvBool("CLOUDWATCH_LOGS_ENABLED", false),
			Region:            getEnv("CLOUDWATCH_REGION", "us-east-1"),
			Endpoint:          getEnv("CLOUDWATCH_ENDPOINT", ""),
			AccessKeyID:       getEnv("CLOUDWATCH_ACCESS_KEY_ID", ""),
			SecretAccessKey:   getEnv("CLOUDWATCH_SECRET_ACCESS_KEY", ""),
			LogGroupName:      getEnv("CLOUDWATCH_LOG_GROUP", "/smartfood/site"),
			LogStreamName:     getEnv("CLOUDWATCH_LOG_STREAM", "site"),
			LogsBufferSize:    logsBufferSize,
			LogsFlushInterval: logsFlushInterval,
		},
	}

	if cfg.Security.RateLimitRPS <= 0 || cfg.Security.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	for _, proxy := range cfg.Security.TrustedProxies {
		if !validProxy(proxy) {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", proxy)
		}
	}

	return cfg, nil
}

// ClampSplashDelay удерживает задержку заставки в диапазоне 1.2s–1.5s.
// Нулевое значение сохраняется (заставка отключена).
func ClampSplashDelay(d time.Duration) time.Duration {
	switch {
	case d == 0:
		return 0
	case d < minSplashDelay:
		return minSplashDelay
	case d > maxSplashDelay:
		return maxSplashDelay
	default:
		return d
	}
}

// NormalizeBasePath приводит префикс к виду "/name" без завершающего слэша.
func NormalizeBasePath(raw string) string {
	trimmed := strings.Trim(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return ""
	}
	return "/" + trimmed
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

func splitCSV(raw string) []string {
	items := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func validProxy(entry string) bool {
	if strings.Contains(entry, "/") {
		_, err := netip.ParsePrefix(entry)
		return err == nil
	}
	_, err := netip.ParseAddr(entry)
	return err == nil
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
