package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Get returns the value of the environment variable `key` if set.
// If not set, and `key + "_FILE"` is set, the file at that path is read and
// its trimmed contents are returned. If neither are set, def is returned.
func Get(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if path := os.Getenv(key + "_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return def
}

// GetInt returns the integer value of `key`, or def when unset or unparsable.
func GetInt(key string, def int) int {
	if val := Get(key, ""); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

// GetInt64 accepts plain byte counts as well as KB/MB suffixes ("5MB", "512KB").
func GetInt64(key string, def int64) int64 {
	val := strings.ToUpper(strings.TrimSpace(Get(key, "")))
	if val == "" {
		return def
	}
	multiplier := int64(1)
	switch {
	case strings.HasSuffix(val, "MB"):
		multiplier = 1 << 20
		val = strings.TrimSuffix(val, "MB")
	case strings.HasSuffix(val, "KB"):
		multiplier = 1 << 10
		val = strings.TrimSuffix(val, "KB")
	}
	n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	if err != nil || n < 0 {
		return def
	}
	return n * multiplier
}

// GetBool returns the boolean value of the environment variable `key`.
// Recognised true values are: 1, t, true, y, yes (case-insensitive).
// Recognised false values are: 0, f, false, n, no.
func GetBool(key string, def bool) bool {
	if val := Get(key, ""); val != "" {
		switch strings.ToLower(val) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

// ParseDuration behaves like time.ParseDuration but also accepts day
// values such as "30d".
func ParseDuration(s string) (time.Duration, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	if strings.HasSuffix(lower, "d") {
		days := strings.TrimSuffix(lower, "d")
		if n, err := strconv.Atoi(days); err == nil {
			return time.Duration(n) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(lower)
}

// GetDuration returns the duration value of `key`, or def when unset or unparsable.
func GetDuration(key string, def time.Duration) time.Duration {
	if val := Get(key, ""); val != "" {
		if d, err := ParseDuration(val); err == nil && d > 0 {
			return d
		}
	}
	return def
}

// App is the process configuration, read once at startup.
type App struct {
	Port    string
	GinMode string
	// PublicURL is the origin the raster backend uses to fetch uploads.
	PublicURL string

	DataDir         string
	UploadDir       string
	UploadURLPrefix string
	UploadMaxBytes  int64
	UploadPerMinute int

	DBType     string
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RasterBackend  string
	BrowserlessURL string
	ChromeBin      string
	RasterTimeout  time.Duration

	RedisURL         string
	DocumentCacheTTL time.Duration

	CycleInterval time.Duration
	SessionTTL    time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads the App configuration from the environment.
func Load() App {
	dataDir := Get("DATA_DIR", "./data")
	return App{
		Port:    Get("PORT", "8000"),
		GinMode: Get("GIN_MODE", ""),

		PublicURL: strings.TrimRight(Get("PUBLIC_URL", ""), "/"),

		DataDir:         dataDir,
		UploadDir:       Get("UPLOAD_DIR", filepath.Join(dataDir, "uploads")),
		UploadURLPrefix: strings.TrimRight(Get("UPLOAD_URL_PREFIX", "/uploads"), "/"),
		UploadMaxBytes:  GetInt64("UPLOAD_MAX_BYTES", 5<<20),
		UploadPerMinute: GetInt("UPLOAD_RATE_PER_MINUTE", 30),

		DBType:     strings.ToLower(Get("DB_TYPE", "memory")),
		DBHost:     Get("DB_HOST", "localhost"),
		DBPort:     GetInt("DB_PORT", 5432),
		DBUser:     Get("DB_USER", "bannermaster"),
		DBPassword: Get("DB_PASSWORD", ""),
		DBName:     Get("DB_NAME", "bannermaster"),
		DBSSLMode:  Get("DB_SSLMODE", "disable"),

		RasterBackend:  strings.ToLower(Get("RASTER_BACKEND", "browserless")),
		BrowserlessURL: strings.TrimRight(Get("BROWSERLESS_URL", "http://localhost:3000"), "/"),
		ChromeBin:      Get("CHROME_BIN", ""),
		RasterTimeout:  GetDuration("RASTER_TIMEOUT", 60*time.Second),

		RedisURL:         Get("REDIS_URL", ""),
		DocumentCacheTTL: GetDuration("DOCUMENT_CACHE_TTL", 10*time.Minute),

		CycleInterval: GetDuration("CYCLE_INTERVAL", 1200*time.Millisecond),
		SessionTTL:    GetDuration("SESSION_TTL", 2*time.Hour),

		LogLevel:  strings.ToLower(Get("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(Get("LOG_FORMAT", "text")),
	}
}
