package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/league-scoreboard/internal/domain/roster"
	"github.com/riskibarqy/league-scoreboard/internal/platform/logging"
	"github.com/riskibarqy/league-scoreboard/internal/platform/resilience"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config stores runtime configuration shared by the API, the CLI and the
// migration binary.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	LogLevel           logging.Level

	StorageBackend          string
	StorageMirrors          []string
	StorageKey              string
	StorageDir              string
	StorageTimeout          time.Duration
	StorageWorkers          int
	StorageCircuit          resilience.CircuitBreakerConfig
	RedisURL                string
	RedisKeyPrefix          string
	DBURL                   string
	DBDisablePreparedBinary bool

	// Roster is nil when SCOREBOARD_ROSTER is unset; callers fall back to
	// the built-in roster.
	Roster []roster.Team

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

// Load reads the environment, after merging an optional dotenv file
// (APP_ENV_FILE, default ".env"). Variables already set win over the file.
func Load() (Config, error) {
	if err := loadDotEnv(getEnv("APP_ENV_FILE", ".env")); err != nil {
		return Config{}, err
	}

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "league-scoreboard"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		StorageKey:         strings.TrimSpace(getEnv("STORAGE_KEY", "16league_matches")),
		StorageDir:         strings.TrimSpace(getEnv("STORAGE_DIR", "./data")),
		RedisURL:           strings.TrimSpace(getEnv("REDIS_URL", "")),
		RedisKeyPrefix:     getEnv("REDIS_KEY_PREFIX", ""),
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
		UptraceDSN:         strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	if cfg.ReadTimeout, err = getEnvAsDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsDuration("APP_WRITE_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}

	if err := loadStorage(&cfg); err != nil {
		return Config{}, err
	}

	if raw := strings.TrimSpace(getEnv("SCOREBOARD_ROSTER", "")); raw != "" {
		teams, err := roster.Parse(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse SCOREBOARD_ROSTER: %w", err)
		}
		if _, err := roster.New(teams); err != nil {
			return Config{}, fmt.Errorf("invalid SCOREBOARD_ROSTER: %w", err)
		}
		cfg.Roster = teams
	}

	if err := loadTelemetry(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadStorage(cfg *Config) error {
	backend, err := parseBackend(getEnv("STORAGE_BACKEND", BackendFile))
	if err != nil {
		return fmt.Errorf("parse STORAGE_BACKEND: %w", err)
	}
	cfg.StorageBackend = backend

	for _, raw := range splitCSV(getEnv("STORAGE_MIRRORS", "")) {
		mirror, err := parseBackend(raw)
		if err != nil {
			return fmt.Errorf("parse STORAGE_MIRRORS: %w", err)
		}
		if mirror == backend || slices.Contains(cfg.StorageMirrors, mirror) {
			return fmt.Errorf("STORAGE_MIRRORS lists %q more than once (including STORAGE_BACKEND)", mirror)
		}
		cfg.StorageMirrors = append(cfg.StorageMirrors, mirror)
	}

	if cfg.StorageKey == "" {
		return fmt.Errorf("STORAGE_KEY cannot be empty")
	}

	if cfg.StorageTimeout, err = getEnvAsDuration("STORAGE_TIMEOUT", "3s"); err != nil {
		return err
	}
	if cfg.StorageWorkers, err = getEnvAsInt("STORAGE_WORKERS", 4); err != nil {
		return fmt.Errorf("parse STORAGE_WORKERS: %w", err)
	}
	if cfg.StorageWorkers < 1 {
		return fmt.Errorf("STORAGE_WORKERS must be >= 1")
	}

	circuit := resilience.DefaultCircuitBreakerConfig()
	if circuit.Enabled, err = strconv.ParseBool(getEnv("STORAGE_CIRCUIT_ENABLED", "true")); err != nil {
		return fmt.Errorf("parse STORAGE_CIRCUIT_ENABLED: %w", err)
	}
	if circuit.FailureThreshold, err = getEnvAsInt("STORAGE_CIRCUIT_FAILURE_COUNT", circuit.FailureThreshold); err != nil {
		return fmt.Errorf("parse STORAGE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if circuit.FailureThreshold < 1 {
		return fmt.Errorf("STORAGE_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if circuit.OpenTimeout, err = getEnvAsDuration("STORAGE_CIRCUIT_OPEN_TIMEOUT", circuit.OpenTimeout.String()); err != nil {
		return err
	}
	if circuit.HalfOpenMaxReq, err = getEnvAsInt("STORAGE_CIRCUIT_HALF_OPEN_MAX_REQ", circuit.HalfOpenMaxReq); err != nil {
		return fmt.Errorf("parse STORAGE_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if circuit.HalfOpenMaxReq < 1 {
		return fmt.Errorf("STORAGE_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	cfg.StorageCircuit = circuit

	if cfg.DBDisablePreparedBinary, err = strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true")); err != nil {
		return fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	if cfg.UsesBackend(BackendFile) && cfg.StorageDir == "" {
		return fmt.Errorf("STORAGE_DIR is required when the file backend is used")
	}
	if cfg.UsesBackend(BackendRedis) && cfg.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required when the redis backend is used")
	}
	if cfg.UsesBackend(BackendPostgres) && cfg.DBURL == "" {
		return fmt.Errorf("DB_URL is required when the postgres backend is used")
	}

	return nil
}

func loadTelemetry(cfg *Config) error {
	var err error
	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}
	if cfg.PyroscopeEnabled {
		if cfg.PyroscopeServerAddress == "" {
			return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
		}
		if cfg.PyroscopeAppName == "" {
			return fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
		}
	}

	return nil
}

// UsesBackend reports whether name is the primary backend or a mirror.
func (c Config) UsesBackend(name string) bool {
	return c.StorageBackend == name || slices.Contains(c.StorageMirrors, name)
}

func loadDotEnv(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func parseBackend(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case BackendMemory, BackendFile, BackendRedis, BackendPostgres:
		return value, nil
	default:
		return "", fmt.Errorf("invalid backend %q: valid values are %s, %s, %s, %s", v, BackendMemory, BackendFile, BackendRedis, BackendPostgres)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.Atoi(value)
}

func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	for _, item := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if ok && strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
