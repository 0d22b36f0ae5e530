package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_CONFIG_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8000" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.DefaultMatchID != DefaultMatchID {
		t.Fatalf("unexpected DefaultMatchID: %d", cfg.DefaultMatchID)
	}
	if len(cfg.StatsBombCatalog) != 2 || cfg.StatsBombCatalog[1] != (SeasonRef{CompetitionID: 55, SeasonID: 43}) {
		t.Fatalf("unexpected catalog: %+v", cfg.StatsBombCatalog)
	}
	if len(cfg.LLMProviders) != 2 || cfg.LLMProviders[0] != "openai" {
		t.Fatalf("unexpected providers: %+v", cfg.LLMProviders)
	}
	if cfg.LLMMaxTokens != 500 || cfg.LLMTemperature != 0.7 {
		t.Fatalf("unexpected llm settings: tokens=%d temperature=%v", cfg.LLMMaxTokens, cfg.LLMTemperature)
	}
	if !cfg.StatsBombCircuit.Enabled || cfg.StatsBombCircuit.FailureCount != 5 || cfg.StatsBombCircuit.OpenTimeout != 15*time.Second {
		t.Fatalf("unexpected circuit: %+v", cfg.StatsBombCircuit)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("dev enables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
	})
}

func TestLoad_CatalogParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("accepts spaced pairs", func(t *testing.T) {
		t.Setenv("STATSBOMB_CATALOG", " 11:90 , 2:44 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.StatsBombCatalog) != 2 || cfg.StatsBombCatalog[0].CompetitionID != 11 || cfg.StatsBombCatalog[1].SeasonID != 44 {
			t.Fatalf("unexpected catalog: %+v", cfg.StatsBombCatalog)
		}
	})

	t.Run("rejects malformed pairs", func(t *testing.T) {
		for _, raw := range []string{"55", "55:x", "0:43"} {
			t.Setenv("STATSBOMB_CATALOG", raw)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for STATSBOMB_CATALOG=%q", raw)
			}
		}
	})
}

func TestLoad_LLMValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("LLM_PROVIDERS", "openai,claude")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown provider")
		}
	})

	t.Run("temperature out of range", func(t *testing.T) {
		t.Setenv("LLM_TEMPERATURE", "3")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for LLM_TEMPERATURE=3")
		}
	})

	t.Run("max tokens must be positive", func(t *testing.T) {
		t.Setenv("LLM_MAX_TOKENS", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for LLM_MAX_TOKENS=0")
		}
	})
}

func TestLoad_NarrationArchiveRequiresDBURL(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("NARRATION_ARCHIVE_ENABLED", "true")
	t.Setenv("DB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when NARRATION_ARCHIVE_ENABLED=true without DB_URL")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-other=1, uptrace-dsn='https://token@api.uptrace.dev?grpc=4317'")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_YAMLFileIsOverriddenByEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("APP_HTTP_ADDR: \":9090\"\nLLM_MAX_TOKENS: 300\nSTATSBOMB_ENABLED: false\nAPP_LOG_LEVEL: debug\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_CONFIG_FILE", path)
	t.Setenv("APP_HTTP_ADDR", "")
	t.Setenv("LLM_MAX_TOKENS", "250")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("expected file value for blank env, got %q", cfg.HTTPAddr)
	}
	if cfg.LLMMaxTokens != 250 {
		t.Fatalf("expected env to win, got %d", cfg.LLMMaxTokens)
	}
	if cfg.StatsBombEnabled {
		t.Fatalf("expected STATSBOMB_ENABLED=false from file")
	}
	if cfg.LogLevel != logging.LevelDebug {
		t.Fatalf("expected debug level from file, got %s", cfg.LogLevel)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
