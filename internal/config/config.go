package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string

	// Database
	DatabaseURL string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Document intake (Redis stream consumer group)
	IntakeStream   string // env: INTAKE_STREAM, default "raw_posts"
	IntakeGroup    string // env: INTAKE_GROUP, default "pulse-processing"
	IntakeConsumer string // env: INTAKE_CONSUMER, default "processor-1"

	// Anomaly publication
	AnomalyStream string // env: ANOMALY_STREAM, default "anomalies.detected"

	// Tokenizer
	TokenMinLen int
	TokenMaxLen int

	// Document-frequency suppression
	DFTTL      time.Duration // rolling window for df and total-doc counters
	DFMaxRatio float64       // tokens in more than this share of docs are not counted

	// Trend retention
	MaxTokens         int64         // cap on tracked keywords in the global ranking
	ActivityRetention time.Duration // ingestor-side recency eviction horizon
	ActivityHorizon   time.Duration // how recently seen a keyword must be to be a candidate

	// History sampling
	HistoryWindow  int           // rolling buffer capacity per keyword
	HistoryTTL     time.Duration // inactive keyword histories expire after this
	SampleInterval time.Duration // nominal seconds represented by one history sample

	// Anomaly detection
	TopN                      int
	ZThreshold                float64
	MinSamples                int
	BaselineVolumeMin         float64
	MinZStep                  float64
	LastZTTL                  time.Duration
	DetectorActivityRetention time.Duration // detector-side trim of the recency index

	// Scheduler
	LeaseKey            string
	LeaseTTL            time.Duration
	DetectorInterval    time.Duration
	RecorderInterval    time.Duration
	MaintenanceInterval time.Duration

	// CORS
	CORSOrigins string // Comma-separated allowed origins
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":8080"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/pulse?sslmode=disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		IntakeStream:   getEnv("INTAKE_STREAM", "raw_posts"),
		IntakeGroup:    getEnv("INTAKE_GROUP", "pulse-processing"),
		IntakeConsumer: getEnv("INTAKE_CONSUMER", "processor-1"),
		AnomalyStream:  getEnv("ANOMALY_STREAM", "anomalies.detected"),

		TokenMinLen: getEnvInt("TOKEN_MIN_LEN", 3),
		TokenMaxLen: getEnvInt("TOKEN_MAX_LEN", 24),

		DFTTL:      getEnvSeconds("DF_TTL_SECONDS", 86400),
		DFMaxRatio: getEnvFloat("DF_MAX_RATIO", 0.20),

		MaxTokens:         int64(getEnvInt("MAX_TOKENS", 100000)),
		ActivityRetention: getEnvSeconds("ACTIVITY_RETENTION_SECONDS", 604800),
		ActivityHorizon:   getEnvSeconds("ACTIVITY_HORIZON_SECONDS", 3600),

		HistoryWindow:  getEnvInt("HISTORY_WINDOW", 60),
		HistoryTTL:     getEnvSeconds("HISTORY_TTL_SECONDS", 172800),
		SampleInterval: getEnvSeconds("SAMPLE_INTERVAL_SECONDS", 10),

		TopN:                      getEnvInt("TOP_N", 50),
		ZThreshold:                getEnvFloat("Z_THRESHOLD", 3.0),
		MinSamples:                getEnvInt("MIN_SAMPLES", 10),
		BaselineVolumeMin:         getEnvFloat("BASELINE_VOLUME_MIN", 20),
		MinZStep:                  getEnvFloat("MIN_Z_STEP", 0.5),
		LastZTTL:                  getEnvSeconds("LAST_Z_TTL_SECONDS", 86400),
		DetectorActivityRetention: getEnvSeconds("DETECTOR_ACTIVITY_RETENTION_SECONDS", 86400),

		LeaseKey:            getEnv("SCHEDULER_LOCK_KEY", "scheduler:lock"),
		LeaseTTL:            getEnvMillis("SCHEDULER_LOCK_TTL_MS", 30000),
		DetectorInterval:    getEnvMillis("DETECTOR_INTERVAL_MS", 15000),
		RecorderInterval:    getEnvMillis("RECORDER_INTERVAL_MS", 10000),
		MaintenanceInterval: getEnvMillis("MAINTENANCE_INTERVAL_MS", 60000),

		CORSOrigins: getEnv("CORS_ORIGINS", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}

func getEnvMillis(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Millisecond
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}
