package main

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/bucket-filter/internal/usecase/gate"
)

const (
	defaultAddress         = ":9090"
	defaultTimeout         = 30 * time.Second
	defaultCacheDB         = 0
	defaultScope           = "default"
	defaultCapacity        = 1000
	defaultErrRate         = 0.01
	defaultRefreshInterval = 30 * time.Second
	defaultStaleAfter      = 5 * time.Minute
)

// Config is read from the environment once at start up.
type Config struct {
	DBHost string `validate:"required"`
	DBPort string `validate:"required,numeric"`
	DBUser string `validate:"required"`
	DBPass string
	DBName string `validate:"required"`

	CacheHost string `validate:"required"`
	CachePort string `validate:"required,numeric"`
	CachePass string
	CacheDB   int `validate:"gte=0,lte=15"`

	ServerAddress  string        `validate:"required"`
	ContextTimeout time.Duration `validate:"gt=0"`

	BucketSchema      string  `validate:"required"`
	BucketSource      string  `validate:"oneof=mysql redis"`
	SignatureSource   string  `validate:"oneof=redis mysql"`
	SignatureScope    string  `validate:"required"`
	SignatureCapacity int     `validate:"gt=0"`
	SignatureErrRate  float64 `validate:"gt=0,lt=1"`

	IxScanCost  float64 `validate:"gte=0"`
	SeqScanCost float64 `validate:"gte=0"`
	DoubleCheck bool

	RefreshInterval time.Duration `validate:"gt=0"`
	StaleAfter      time.Duration `validate:"gt=0"`
	SnapshotPath    string

	LogLevel logrus.Level
}

// LoadConfig reads the environment, falling back to defaults for values
// that are missing or do not parse, and validates the result.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBHost: os.Getenv("DATABASE_HOST"),
		DBPort: os.Getenv("DATABASE_PORT"),
		DBUser: os.Getenv("DATABASE_USER"),
		DBPass: os.Getenv("DATABASE_PASS"),
		DBName: os.Getenv("DATABASE_NAME"),

		CacheHost: os.Getenv("CACHE_HOST"),
		CachePort: os.Getenv("CACHE_PORT"),
		CachePass: os.Getenv("CACHE_PASS"),
		CacheDB:   envInt("CACHE_DB", defaultCacheDB),

		ServerAddress:  envString("SERVER_ADDRESS", defaultAddress),
		ContextTimeout: time.Duration(envInt("CONTEXT_TIMEOUT", int(defaultTimeout/time.Second))) * time.Second,

		BucketSchema:      envString("BUCKET_SCHEMA", os.Getenv("DATABASE_NAME")),
		BucketSource:      envString("BUCKET_SOURCE", "mysql"),
		SignatureSource:   envString("SIGNATURE_SOURCE", "redis"),
		SignatureScope:    envString("SIGNATURE_SCOPE", defaultScope),
		SignatureCapacity: envInt("SIGNATURE_CAPACITY", defaultCapacity),
		SignatureErrRate:  envFloat("SIGNATURE_ERR_RATE", defaultErrRate),

		IxScanCost:  envFloat("IX_SCAN_COST", gate.DefaultIndexScanCost),
		SeqScanCost: envFloat("SEQ_SCAN_COST", gate.DefaultSeqScanCost),
		DoubleCheck: envBool("DOUBLE_CHECK", false),

		RefreshInterval: envDuration("REFRESH_INTERVAL", defaultRefreshInterval),
		StaleAfter:      envDuration("STALE_AFTER", defaultStaleAfter),
		SnapshotPath:    os.Getenv("SNAPSHOT_PATH"),

		LogLevel: envLevel("LOG_LEVEL", logrus.InfoLevel),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		logrus.Warnf("failed to parse %s, using default %d", key, def)
		return def
	}
	return v
}

func envFloat(key string, def float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		logrus.Warnf("failed to parse %s, using default %v", key, def)
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		logrus.Warnf("failed to parse %s, using default %v", key, def)
		return def
	}
	return v
}

// envDuration accepts Go durations ("90s") or a plain number of seconds.
func envDuration(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second
	}
	logrus.Warnf("failed to parse %s, using default %v", key, def)
	return def
}

func envLevel(key string, def logrus.Level) logrus.Level {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		logrus.Warnf("failed to parse %s, using default %v", key, def)
		return def
	}
	return lvl
}
