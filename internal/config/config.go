package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/riskibarqy/iihf-fantasy/internal/platform/logging"
	"github.com/robfig/cron/v3"
)

const (
	defaultDBURL           = "sqlite://iihf_fantasy.db"
	defaultChampionshipURL = "https://www.iihf.com/en/events/2025/wm"
)

// Config stores runtime configuration for the service and the operator CLI.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level

	DBURL                   string
	DBDisablePreparedBinary bool
	DBAutoMigrate           bool

	CacheEnabled       bool
	CacheTTL           time.Duration
	CORSAllowedOrigins []string
	SwaggerEnabled     bool
	InternalJobToken   string

	ChampionshipYear int
	ChampionshipURL  string
	FeedTimezone     string
	FeedLocation     *time.Location
	ImportWorkers    int

	SchedulerEnabled       bool
	SchedulerLockSpec      string
	SchedulerScoringSpec   string
	SchedulerScoringWindow time.Duration

	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	PprofEnabled bool
	PprofAddr    string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "iihf-fantasy-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		DBURL:                      strings.TrimSpace(getEnv("DB_URL", defaultDBURL)),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		InternalJobToken:           strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		ChampionshipURL:            strings.TrimSpace(getEnv("CHAMPIONSHIP_URL", defaultChampionshipURL)),
		FeedTimezone:               strings.TrimSpace(getEnv("FEED_TIMEZONE", "UTC")),
		SchedulerLockSpec:          strings.TrimSpace(getEnv("SCHEDULER_LOCK_SPEC", "*/5 * * * *")),
		SchedulerScoringSpec:       strings.TrimSpace(getEnv("SCHEDULER_SCORING_SPEC", "0 * * * *")),
		UptraceDSN:                 strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PprofAddr:                  strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	autoMigrateDefault := "false"
	swaggerDefault := "true"
	switch appEnv {
	case EnvDev:
		autoMigrateDefault = "true"
	case EnvProd:
		swaggerDefault = "false"
	}

	bools := []struct {
		key      string
		fallback string
		dst      *bool
	}{
		{key: "DB_DISABLE_PREPARED_BINARY_RESULT", fallback: "true", dst: &cfg.DBDisablePreparedBinary},
		{key: "DB_AUTO_MIGRATE", fallback: autoMigrateDefault, dst: &cfg.DBAutoMigrate},
		{key: "CACHE_ENABLED", fallback: "true", dst: &cfg.CacheEnabled},
		{key: "SWAGGER_ENABLED", fallback: swaggerDefault, dst: &cfg.SwaggerEnabled},
		{key: "SCHEDULER_ENABLED", fallback: "false", dst: &cfg.SchedulerEnabled},
		{key: "UPTRACE_ENABLED", fallback: "false", dst: &cfg.UptraceEnabled},
		{key: "UPTRACE_LOGS_ENABLED", fallback: "true", dst: &cfg.UptraceLogsEnabled},
		{key: "PYROSCOPE_ENABLED", fallback: "false", dst: &cfg.PyroscopeEnabled},
		{key: "PPROF_ENABLED", fallback: "false", dst: &cfg.PprofEnabled},
	}
	for _, b := range bools {
		v, err := strconv.ParseBool(getEnv(b.key, b.fallback))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", b.key, err)
		}
		*b.dst = v
	}

	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{key: "APP_READ_TIMEOUT", fallback: "10s", dst: &cfg.ReadTimeout},
		{key: "APP_WRITE_TIMEOUT", fallback: "15s", dst: &cfg.WriteTimeout},
		{key: "CACHE_TTL", fallback: "60s", dst: &cfg.CacheTTL},
		{key: "SCHEDULER_SCORING_WINDOW", fallback: "5h", dst: &cfg.SchedulerScoringWindow},
		{key: "PYROSCOPE_UPLOAD_RATE", fallback: "15s", dst: &cfg.PyroscopeUploadRate},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getEnv(d.key, d.fallback))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", d.key, err)
		}
		if v <= 0 {
			return Config{}, fmt.Errorf("%s must be > 0", d.key)
		}
		*d.dst = v
	}

	cfg.ChampionshipYear, err = getEnvAsInt("CHAMPIONSHIP_YEAR", time.Now().Year())
	if err != nil {
		return Config{}, fmt.Errorf("parse CHAMPIONSHIP_YEAR: %w", err)
	}
	if cfg.ChampionshipYear < 1900 {
		return Config{}, fmt.Errorf("CHAMPIONSHIP_YEAR must be >= 1900")
	}

	cfg.ImportWorkers, err = getEnvAsInt("IMPORT_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse IMPORT_WORKERS: %w", err)
	}
	if cfg.ImportWorkers < 1 {
		return Config{}, fmt.Errorf("IMPORT_WORKERS must be >= 1")
	}

	cfg.FeedLocation, err = time.LoadLocation(cfg.FeedTimezone)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_TIMEZONE: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.DBURL == "" {
		return fmt.Errorf("DB_URL cannot be empty")
	}
	if len(c.CORSAllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if c.UptraceEnabled && c.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if c.PyroscopeEnabled {
		if c.PyroscopeServerAddress == "" {
			return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
		}
		if c.PyroscopeAppName == "" {
			return fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
		}
	}
	if c.PprofEnabled && c.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}
	if _, err := cron.ParseStandard(c.SchedulerLockSpec); err != nil {
		return fmt.Errorf("parse SCHEDULER_LOCK_SPEC: %w", err)
	}
	if _, err := cron.ParseStandard(c.SchedulerScoringSpec); err != nil {
		return fmt.Errorf("parse SCHEDULER_SCORING_SPEC: %w", err)
	}
	return nil
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

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
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
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
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
