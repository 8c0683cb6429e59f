package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("expected memory storage by default, got %q", cfg.StorageDriver)
	}
	if !cfg.AuctionBudget.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected budget 500, got %s", cfg.AuctionBudget)
	}
	if cfg.AuctionRosterSize != 12 {
		t.Fatalf("expected roster size 12, got %d", cfg.AuctionRosterSize)
	}
	if cfg.AuctionAutoResolve != ResolveInline {
		t.Fatalf("expected inline auto resolve, got %q", cfg.AuctionAutoResolve)
	}
	if cfg.NATSEnabled || cfg.QStashEnabled {
		t.Fatalf("expected nats and qstash disabled by default")
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout: %s", cfg.ShutdownTimeout)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
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

func TestLoad_StorageDriverValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", "mysql")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown STORAGE_DRIVER")
	}

	t.Setenv("STORAGE_DRIVER", "Postgres")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StoragePostgres {
		t.Fatalf("expected postgres storage, got %q", cfg.StorageDriver)
	}
}

func TestLoad_QStashRequirements(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("QSTASH_ENABLED", "true")
	t.Setenv("QSTASH_TOKEN", "tok")
	t.Setenv("QSTASH_TARGET_BASE_URL", "https://auction.example.com")
	t.Setenv("INTERNAL_JOB_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when QSTASH_ENABLED=true without INTERNAL_JOB_TOKEN")
	}

	t.Setenv("INTERNAL_JOB_TOKEN", "secret")
	t.Setenv("QSTASH_CIRCUIT_FAILURE_COUNT", "3")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.QStashCircuitFailureCount != 3 || !cfg.QStashCircuitEnabled {
		t.Fatalf("unexpected qstash circuit config: %+v", cfg)
	}
}

func TestLoad_AuctionSettings(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{name: "custom budget and size", env: map[string]string{"AUCTION_BUDGET": "750.50", "AUCTION_ROSTER_SIZE": "9"}},
		{name: "budget must be positive", env: map[string]string{"AUCTION_BUDGET": "0"}, wantErr: true},
		{name: "budget must be a number", env: map[string]string{"AUCTION_BUDGET": "lots"}, wantErr: true},
		{name: "roster size must be positive", env: map[string]string{"AUCTION_ROSTER_SIZE": "0"}, wantErr: true},
		{name: "unknown resolve mode", env: map[string]string{"AUCTION_AUTO_RESOLVE": "later"}, wantErr: true},
		{name: "queue mode needs qstash", env: map[string]string{"AUCTION_AUTO_RESOLVE": "queue"}, wantErr: true},
		{name: "off mode", env: map[string]string{"AUCTION_AUTO_RESOLVE": "OFF"}},
		{name: "sweep workers must be positive", env: map[string]string{"AUCTION_SWEEP_WORKERS": "0"}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("load config: %v", err)
			}
			if v, ok := tc.env["AUCTION_BUDGET"]; ok && !cfg.AuctionBudget.Equal(decimal.RequireFromString(v)) {
				t.Fatalf("unexpected budget: %s", cfg.AuctionBudget)
			}
			if _, ok := tc.env["AUCTION_AUTO_RESOLVE"]; ok && cfg.AuctionAutoResolve != ResolveOff {
				t.Fatalf("unexpected resolve mode: %q", cfg.AuctionAutoResolve)
			}
		})
	}
}

func TestLoad_NATSSettings(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("NATS_URL", "nats://broker:4222")
	t.Setenv("NATS_STREAM", "RACE")
	t.Setenv("NATS_RECONNECT_WAIT", "500ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.NATSURL != "nats://broker:4222" || cfg.NATSStream != "RACE" || cfg.NATSSubjectPrefix != "auction.events" {
		t.Fatalf("unexpected nats config: %+v", cfg)
	}
	if cfg.NATSReconnectWait != 500*time.Millisecond {
		t.Fatalf("unexpected reconnect wait: %s", cfg.NATSReconnectWait)
	}

	t.Setenv("NATS_RECONNECT_WAIT", "0s")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero NATS_RECONNECT_WAIT")
	}
}
