package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/cycling-auction/internal/config"
	"github.com/riskibarqy/cycling-auction/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:              config.EnvDev,
		ServiceName:         "cycling-auction-api",
		HTTPAddr:            ":0",
		StorageDriver:       config.StorageMemory,
		CacheEnabled:        true,
		CacheTTL:            time.Minute,
		CORSAllowedOrigins:  []string{"*"},
		InternalJobToken:    "secret",
		AuctionBudget:       decimal.NewFromInt(500),
		AuctionRosterSize:   12,
		AuctionAutoResolve:  config.ResolveInline,
		AuctionSweepWorkers: 2,
	}
}

func TestBuild_MemoryStorage(t *testing.T) {
	ctx := context.Background()
	c, err := Build(ctx, memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build container: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	items, err := c.Cyclists.ListCyclists(ctx)
	if err != nil {
		t.Fatalf("list cyclists: %v", err)
	}
	if len(items) == 0 {
		t.Fatalf("expected embedded seed cyclists")
	}

	result, err := c.Auctions.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.LeagueCount != 0 {
		t.Fatalf("expected no leagues, got %d", result.LeagueCount)
	}
}

func TestBuild_RejectsUnknownResolveMode(t *testing.T) {
	cfg := memoryConfig()
	cfg.AuctionAutoResolve = "eventually"

	if _, err := Build(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for unknown resolve mode")
	}
}

func TestNewHTTPServer_ServesHealthz(t *testing.T) {
	c, err := Build(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build container: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	srv, err := NewHTTPServer(memoryConfig(), c, logging.NewNop())
	if err != nil {
		t.Fatalf("new http server: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = ""
	if _, err := NewHTTPServer(cfg, &Container{}, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
