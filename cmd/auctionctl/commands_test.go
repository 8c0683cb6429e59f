package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/cycling-auction/internal/app"
	"github.com/riskibarqy/cycling-auction/internal/config"
	"github.com/riskibarqy/cycling-auction/internal/platform/logging"
)

// sharedEnvironment returns the same in-memory container for every command so
// state survives across invocations within a test.
func sharedEnvironment(t *testing.T) environmentFunc {
	t.Helper()

	cfg := config.Config{
		StorageDriver:       config.StorageMemory,
		CacheEnabled:        true,
		CacheTTL:            time.Minute,
		AuctionBudget:       decimal.NewFromInt(500),
		AuctionRosterSize:   12,
		AuctionAutoResolve:  config.ResolveOff,
		AuctionSweepWorkers: 1,
	}
	c, err := app.Build(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build container: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	return func(context.Context) (*app.Container, error) {
		// Close is a no-op for the memory driver, so the container can be reused.
		return c, nil
	}
}

func execute(t *testing.T, env environmentFunc, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(env)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeCSV(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cyclists.csv")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestImportCyclists(t *testing.T) {
	env := sharedEnvironment(t)
	path := writeCSV(t, "Coureur,Équipe,Prix min\nNew Rider,Team Z,12\nOther Rider,Team Z,\"7,5\"\n")

	out, err := execute(t, env, "import-cyclists", path)
	if err != nil {
		t.Fatalf("import-cyclists: %v (%s)", err, out)
	}
	if !strings.Contains(out, `"created": 2`) {
		t.Fatalf("expected two created cyclists, got %s", out)
	}

	out, err = execute(t, env, "import-cyclists", path)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if !strings.Contains(out, `"updated": 2`) {
		t.Fatalf("expected re-import to update, got %s", out)
	}
}

func TestImportCyclists_DryRun(t *testing.T) {
	env := func(context.Context) (*app.Container, error) {
		t.Fatalf("dry run must not build the container")
		return nil, nil
	}
	path := writeCSV(t, "Coureur,Équipe,Prix min\nNew Rider,Team Z,12\n")

	out, err := execute(t, env, "import-cyclists", "--dry-run", path)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !strings.Contains(out, "parsed 1 cyclist(s)") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestImportCyclists_RequiresPath(t *testing.T) {
	if _, err := execute(t, sharedEnvironment(t), "import-cyclists"); err == nil {
		t.Fatalf("expected error without csv path")
	}
}

func TestResolve_RequiresLeague(t *testing.T) {
	if _, err := execute(t, sharedEnvironment(t), "resolve", "--round", "1"); err == nil {
		t.Fatalf("expected error without --league")
	}
}

func TestResolve_UnknownLeague(t *testing.T) {
	if _, err := execute(t, sharedEnvironment(t), "resolve", "--league", "missing", "--round", "1"); err == nil {
		t.Fatalf("expected error for unknown league")
	}
}

func TestSweep_NoLeagues(t *testing.T) {
	out, err := execute(t, sharedEnvironment(t), "sweep")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if !strings.Contains(out, `"league_count": 0`) {
		t.Fatalf("unexpected sweep output: %s", out)
	}
}
