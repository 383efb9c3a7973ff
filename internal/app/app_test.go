package app

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/league-scoreboard/internal/config"
	"github.com/riskibarqy/league-scoreboard/internal/domain/roster"
	"github.com/riskibarqy/league-scoreboard/internal/platform/logging"
	"github.com/riskibarqy/league-scoreboard/internal/usecase"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		ServiceName:    "league-scoreboard",
		HTTPAddr:       ":0",
		StorageBackend: config.BackendFile,
		StorageDir:     t.TempDir(),
		StorageKey:     "matches_test",
		StorageTimeout: time.Second,
		StorageWorkers: 2,
	}
}

func TestNew_FileBackendSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	first, err := New(ctx, cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	teams := first.Scoreboard.Teams(ctx)
	if len(teams) != len(roster.DefaultTeams()) {
		t.Fatalf("expected default roster, got %d teams", len(teams))
	}
	if _, err := first.Scoreboard.AddMatch(ctx, usecase.AddMatchInput{
		Team1:  teams[0].Name,
		Team2:  teams[1].Name,
		Result: "2:0",
	}); err != nil {
		t.Fatalf("add match: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := New(ctx, cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("reopen app: %v", err)
	}
	defer second.Close()

	if got := len(second.Scoreboard.ListMatches(ctx)); got != 1 {
		t.Fatalf("expected persisted match after restart, got %d", got)
	}
}

func TestNew_MemoryWithFileMirror(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.StorageBackend = config.BackendMemory
	cfg.StorageMirrors = []string{config.BackendFile}
	cfg.Roster = []roster.Team{{Name: "Lions"}, {Name: "Tigers"}}

	a, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	if _, err := a.Scoreboard.AddMatch(ctx, usecase.AddMatchInput{Team1: "Lions", Team2: "Tigers", Result: "1:1"}); err != nil {
		t.Fatalf("add match: %v", err)
	}

	mirrorCfg := cfg
	mirrorCfg.StorageMirrors = nil
	mirrorCfg.StorageBackend = config.BackendFile
	fromMirror, err := New(ctx, mirrorCfg, nil)
	if err != nil {
		t.Fatalf("open mirror: %v", err)
	}
	defer fromMirror.Close()

	if got := len(fromMirror.Scoreboard.ListMatches(ctx)); got != 1 {
		t.Fatalf("expected mirrored match, got %d", got)
	}
}

func TestNew_Errors(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig(t)
	cfg.StorageBackend = "sqlite"
	if _, err := New(ctx, cfg, nil); err == nil {
		t.Fatalf("expected error for unsupported backend")
	}

	cfg = testConfig(t)
	cfg.Roster = []roster.Team{{Name: "Lions"}, {Name: "Lions"}}
	if _, err := New(ctx, cfg, nil); err == nil {
		t.Fatalf("expected error for duplicate roster team")
	}

	cfg = testConfig(t)
	cfg.StorageBackend = config.BackendRedis
	cfg.RedisURL = "not-a-url"
	if _, err := New(ctx, cfg, nil); err == nil {
		t.Fatalf("expected error for invalid redis url")
	}
}

func TestNewHTTPServer(t *testing.T) {
	cfg := testConfig(t)
	cfg.StorageBackend = config.BackendMemory
	a, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	srv, err := a.NewHTTPServer()
	if err != nil {
		t.Fatalf("new http server: %v", err)
	}
	if srv.Addr != ":0" || srv.Handler == nil {
		t.Fatalf("unexpected server: addr=%q", srv.Addr)
	}

	a.cfg.HTTPAddr = ""
	if _, err := a.NewHTTPServer(); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
