package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	AuditPort      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers     []string
	KafkaGroupID     string
	ShareEventsTopic string

	// Sharing
	ViewerBaseURL      string
	ShortLinkBaseURL   string
	QRErrorCorrection  string
	PayloadCompression bool
	ShareLinkTTL       time.Duration

	// Risk engine
	RiskVocabularyPath string

	// Audit
	DLPRulesPath string

	// Rate limiting
	RateLimitRPS   int
	RateLimitBurst int
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		AuditPort:      getEnv("AUDIT_PORT", "8081"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 15*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 256*1024)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "pulseid"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "pulseid"),
		PostgresDB:       getEnv("POSTGRES_DB", "pulseid"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers:     getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID:     getEnv("KAFKA_GROUP_ID", "pulseid-audit"),
		ShareEventsTopic: getEnv("SHARE_EVENTS_TOPIC", "share-events"),

		ViewerBaseURL:      getEnv("VIEWER_BASE_URL", "http://localhost:5173/report"),
		ShortLinkBaseURL:   getEnv("SHORT_LINK_BASE_URL", "http://localhost:8080/api/v1/s"),
		QRErrorCorrection:  getEnv("QR_ERROR_CORRECTION", "H"),
		PayloadCompression: getBoolEnv("PAYLOAD_COMPRESSION", true),
		ShareLinkTTL:       getDuration("SHARE_LINK_TTL", 30*24*time.Hour),

		RiskVocabularyPath: getEnv("RISK_VOCABULARY_PATH", ""),

		DLPRulesPath: getEnv("DLP_RULES_PATH", ""),

		RateLimitRPS:   getIntEnv("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 40),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getStringSliceEnv splits a comma separated list, e.g. "kafka-1:9092,kafka-2:9092".
func getStringSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
