package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/logging"
)

const DefaultMatchID = int64(3788741)

// SeasonRef points at one competition season of the open-data catalog.
type SeasonRef struct {
	CompetitionID int64
	SeasonID      int64
}

// CircuitConfig mirrors resilience.CircuitBreakerConfig for one dependency.
type CircuitConfig struct {
	Enabled        bool
	FailureCount   int
	OpenTimeout    time.Duration
	HalfOpenMaxReq int
}

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	ShutdownTimeout            time.Duration
	CORSAllowedOrigins         []string
	SwaggerEnabled             bool
	LogLevel                   logging.Level
	LogConsole                 bool
	CacheEnabled               bool
	CacheTTL                   time.Duration
	CacheMaxEntries            int
	RedisEnabled               bool
	RedisAddr                  string
	RedisPassword              string
	RedisDB                    int
	RedisTTL                   time.Duration
	RedisKeyPrefix             string
	StatsBombEnabled           bool
	StatsBombBaseURL           string
	StatsBombTimeout           time.Duration
	StatsBombMaxRetries        int
	StatsBombRetryDelay        time.Duration
	StatsBombCircuit           CircuitConfig
	StatsBombCatalog           []SeasonRef
	DefaultMatchID             int64
	LLMProviders               []string
	OpenAIAPIKey               string
	OpenAIBaseURL              string
	OpenAIModel                string
	GoogleAPIKey               string
	GeminiBaseURL              string
	GeminiModel                string
	LLMTimeout                 time.Duration
	LLMMaxRetries              int
	LLMMaxTokens               int
	LLMTemperature             float64
	LLMCircuit                 CircuitConfig
	NarrationArchiveEnabled    bool
	NarrationMemoryLimit       int
	DBURL                      string
	DBDisablePreparedBinary    bool
	DBMaxOpenConns             int
	InternalJobToken           string
	WarmCacheWorkers           int
	MetricsEnabled             bool
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	UptraceCaptureRequestBody  bool
	UptraceRequestBodyMaxBytes int
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

// Load layers an optional YAML file (APP_CONFIG_FILE) under the process
// environment. Both use the same upper-case keys; the environment wins.
func Load() (Config, error) {
	src, err := newSource(os.Getenv("APP_CONFIG_FILE"))
	if err != nil {
		return Config{}, err
	}
	return src.load()
}

type source struct {
	k *koanf.Koanf
}

func newSource(path string) (*source, error) {
	k := koanf.New(".")
	if path = strings.TrimSpace(path); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	// Blank variables are skipped so they do not mask file values.
	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		if strings.TrimSpace(value) == "" {
			return "", nil
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	return &source{k: k}, nil
}

func (s *source) load() (Config, error) {
	appEnv, err := parseAppEnv(s.getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}
	swaggerEnabled, err := s.getBool("SWAGGER_ENABLED", swaggerDefault)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        s.getEnv("APP_SERVICE_NAME", "match-analysis-api"),
		ServiceVersion:     s.getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           s.getEnv("APP_HTTP_ADDR", ":8000"),
		CORSAllowedOrigins: splitCSV(s.getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SwaggerEnabled:     swaggerEnabled,
		LogLevel:           parseLogLevel(s.getEnv("APP_LOG_LEVEL", "info")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.LogConsole, err = s.getBool("APP_LOG_CONSOLE", "false"); err != nil {
		return Config{}, err
	}
	if cfg.ReadTimeout, err = s.getPositiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = s.getPositiveDuration("APP_WRITE_TIMEOUT", "60s"); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = s.getPositiveDuration("APP_SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}

	if err := s.loadCache(&cfg); err != nil {
		return Config{}, err
	}
	if err := s.loadStatsBomb(&cfg); err != nil {
		return Config{}, err
	}
	if err := s.loadLLM(&cfg); err != nil {
		return Config{}, err
	}
	if err := s.loadStorage(&cfg); err != nil {
		return Config{}, err
	}
	if err := s.loadObservability(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (s *source) loadCache(cfg *Config) error {
	var err error
	if cfg.CacheEnabled, err = s.getBool("CACHE_ENABLED", "true"); err != nil {
		return err
	}
	if cfg.CacheTTL, err = s.getPositiveDuration("CACHE_TTL", "10m"); err != nil {
		return err
	}
	if cfg.CacheMaxEntries, err = s.getPositiveInt("CACHE_MAX_ENTRIES", 512); err != nil {
		return err
	}

	if cfg.RedisEnabled, err = s.getBool("REDIS_ENABLED", "false"); err != nil {
		return err
	}
	cfg.RedisAddr = strings.TrimSpace(s.getEnv("REDIS_ADDR", "localhost:6379"))
	cfg.RedisPassword = s.getEnv("REDIS_PASSWORD", "")
	cfg.RedisKeyPrefix = strings.TrimSpace(s.getEnv("REDIS_KEY_PREFIX", "statsbomb:"))
	if cfg.RedisDB, err = s.getEnvAsInt("REDIS_DB", 0); err != nil {
		return fmt.Errorf("parse REDIS_DB: %w", err)
	}
	if cfg.RedisDB < 0 {
		return fmt.Errorf("REDIS_DB must be >= 0")
	}
	if cfg.RedisTTL, err = s.getPositiveDuration("REDIS_TTL", "24h"); err != nil {
		return err
	}
	if cfg.RedisEnabled && cfg.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required when REDIS_ENABLED=true")
	}
	return nil
}

func (s *source) loadStatsBomb(cfg *Config) error {
	var err error
	if cfg.StatsBombEnabled, err = s.getBool("STATSBOMB_ENABLED", "true"); err != nil {
		return err
	}
	cfg.StatsBombBaseURL = strings.TrimSpace(s.getEnv("STATSBOMB_BASE_URL", "https://raw.githubusercontent.com/statsbomb/open-data/master/data"))
	if cfg.StatsBombEnabled && cfg.StatsBombBaseURL == "" {
		return fmt.Errorf("STATSBOMB_BASE_URL is required when STATSBOMB_ENABLED=true")
	}
	if cfg.StatsBombTimeout, err = s.getPositiveDuration("STATSBOMB_TIMEOUT", "30s"); err != nil {
		return err
	}
	if cfg.StatsBombMaxRetries, err = s.getNonNegativeInt("STATSBOMB_MAX_RETRIES", 2); err != nil {
		return err
	}
	if cfg.StatsBombRetryDelay, err = s.getPositiveDuration("STATSBOMB_RETRY_DELAY", "500ms"); err != nil {
		return err
	}
	if cfg.StatsBombCircuit, err = s.getCircuit("STATSBOMB"); err != nil {
		return err
	}
	if cfg.StatsBombCatalog, err = parseCatalog(s.getEnv("STATSBOMB_CATALOG", "43:3,55:43")); err != nil {
		return fmt.Errorf("parse STATSBOMB_CATALOG: %w", err)
	}

	defaultMatchID, err := strconv.ParseInt(strings.TrimSpace(s.getEnv("DEFAULT_MATCH_ID", strconv.FormatInt(DefaultMatchID, 10))), 10, 64)
	if err != nil {
		return fmt.Errorf("parse DEFAULT_MATCH_ID: %w", err)
	}
	if defaultMatchID <= 0 {
		return fmt.Errorf("DEFAULT_MATCH_ID must be > 0")
	}
	cfg.DefaultMatchID = defaultMatchID
	return nil
}

func (s *source) loadLLM(cfg *Config) error {
	var err error
	cfg.LLMProviders = splitCSV(strings.ToLower(s.getEnv("LLM_PROVIDERS", "openai,gemini")))
	for _, provider := range cfg.LLMProviders {
		if provider != "openai" && provider != "gemini" {
			return fmt.Errorf("invalid LLM_PROVIDERS item %q: valid values are openai, gemini", provider)
		}
	}
	cfg.OpenAIAPIKey = strings.TrimSpace(s.getEnv("OPENAI_API_KEY", ""))
	cfg.OpenAIBaseURL = strings.TrimSpace(s.getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"))
	cfg.OpenAIModel = strings.TrimSpace(s.getEnv("OPENAI_MODEL", "gpt-3.5-turbo"))
	cfg.GoogleAPIKey = strings.TrimSpace(s.getEnv("GOOGLE_API_KEY", ""))
	cfg.GeminiBaseURL = strings.TrimSpace(s.getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"))
	cfg.GeminiModel = strings.TrimSpace(s.getEnv("GEMINI_MODEL", "gemini-1.5-flash"))

	if cfg.LLMTimeout, err = s.getPositiveDuration("LLM_TIMEOUT", "30s"); err != nil {
		return err
	}
	if cfg.LLMMaxRetries, err = s.getNonNegativeInt("LLM_MAX_RETRIES", 1); err != nil {
		return err
	}
	if cfg.LLMMaxTokens, err = s.getPositiveInt("LLM_MAX_TOKENS", 500); err != nil {
		return err
	}
	temperature, err := strconv.ParseFloat(strings.TrimSpace(s.getEnv("LLM_TEMPERATURE", "0.7")), 64)
	if err != nil {
		return fmt.Errorf("parse LLM_TEMPERATURE: %w", err)
	}
	if temperature < 0 || temperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2")
	}
	cfg.LLMTemperature = temperature
	if cfg.LLMCircuit, err = s.getCircuit("LLM"); err != nil {
		return err
	}
	return nil
}

func (s *source) loadStorage(cfg *Config) error {
	var err error
	if cfg.NarrationArchiveEnabled, err = s.getBool("NARRATION_ARCHIVE_ENABLED", "false"); err != nil {
		return err
	}
	if cfg.NarrationMemoryLimit, err = s.getPositiveInt("NARRATION_MEMORY_LIMIT", 100); err != nil {
		return err
	}
	cfg.DBURL = strings.TrimSpace(s.getEnv("DB_URL", ""))
	if cfg.NarrationArchiveEnabled && cfg.DBURL == "" {
		return fmt.Errorf("DB_URL is required when NARRATION_ARCHIVE_ENABLED=true")
	}
	if cfg.DBDisablePreparedBinary, err = s.getBool("DB_DISABLE_PREPARED_BINARY_RESULT", "true"); err != nil {
		return err
	}
	if cfg.DBMaxOpenConns, err = s.getPositiveInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return err
	}

	cfg.InternalJobToken = strings.TrimSpace(s.getEnv("INTERNAL_JOB_TOKEN", ""))
	if cfg.WarmCacheWorkers, err = s.getPositiveInt("WARM_CACHE_WORKERS", 4); err != nil {
		return err
	}
	return nil
}

func (s *source) loadObservability(cfg *Config) error {
	var err error
	if cfg.MetricsEnabled, err = s.getBool("METRICS_ENABLED", "true"); err != nil {
		return err
	}

	if cfg.PprofEnabled, err = s.getBool("PPROF_ENABLED", "false"); err != nil {
		return err
	}
	cfg.PprofAddr = strings.TrimSpace(s.getEnv("PPROF_ADDR", ":6060"))
	if cfg.PprofAddr == "" {
		cfg.PprofAddr = ":6060"
	}

	if cfg.UptraceEnabled, err = s.getBool("UPTRACE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.UptraceDSN = strings.TrimSpace(s.getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(s.getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.UptraceLogsEnabled, err = s.getBool("UPTRACE_LOGS_ENABLED", "true"); err != nil {
		return err
	}
	if cfg.UptraceCaptureRequestBody, err = s.getBool("UPTRACE_CAPTURE_REQUEST_BODY", "true"); err != nil {
		return err
	}
	if cfg.UptraceRequestBodyMaxBytes, err = s.getPositiveInt("UPTRACE_REQUEST_BODY_MAX_BYTES", 8192); err != nil {
		return err
	}

	if cfg.PyroscopeEnabled, err = s.getBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(s.getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(s.getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(s.getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(s.getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(s.getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = s.getPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}
	return nil
}

func (s *source) getCircuit(prefix string) (CircuitConfig, error) {
	var (
		out CircuitConfig
		err error
	)
	if out.Enabled, err = s.getBool(prefix+"_CIRCUIT_ENABLED", "true"); err != nil {
		return CircuitConfig{}, err
	}
	if out.FailureCount, err = s.getPositiveInt(prefix+"_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return CircuitConfig{}, err
	}
	if out.OpenTimeout, err = s.getPositiveDuration(prefix+"_CIRCUIT_OPEN_TIMEOUT", "15s"); err != nil {
		return CircuitConfig{}, err
	}
	if out.HalfOpenMaxReq, err = s.getPositiveInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", 2); err != nil {
		return CircuitConfig{}, err
	}
	return out, nil
}

func (s *source) getEnv(key, fallback string) string {
	value := s.k.String(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func (s *source) getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(s.k.String(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func (s *source) getBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(strings.TrimSpace(s.getEnv(key, fallback)))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func (s *source) getPositiveInt(key string, fallback int) (int, error) {
	out, err := s.getEnvAsInt(key, fallback)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func (s *source) getNonNegativeInt(key string, fallback int) (int, error) {
	out, err := s.getEnvAsInt(key, fallback)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out < 0 {
		return 0, fmt.Errorf("%s must be >= 0", key)
	}
	return out, nil
}

func (s *source) getPositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(strings.TrimSpace(s.getEnv(key, fallback)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
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

// parseCatalog reads "competition:season" pairs.
func parseCatalog(raw string) ([]SeasonRef, error) {
	var out []SeasonRef
	for _, item := range splitCSV(raw) {
		competition, season, ok := strings.Cut(item, ":")
		if !ok {
			return nil, fmt.Errorf("invalid catalog item %q, expected competition_id:season_id", item)
		}
		competitionID, err := strconv.ParseInt(strings.TrimSpace(competition), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid competition id in item %q: %w", item, err)
		}
		seasonID, err := strconv.ParseInt(strings.TrimSpace(season), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid season id in item %q: %w", item, err)
		}
		if competitionID <= 0 || seasonID <= 0 {
			return nil, fmt.Errorf("ids must be > 0 in item %q", item)
		}
		out = append(out, SeasonRef{CompetitionID: competitionID, SeasonID: seasonID})
	}
	return out, nil
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
