package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/league-scoreboard/internal/config"
	"github.com/riskibarqy/league-scoreboard/internal/domain/roster"
	"github.com/riskibarqy/league-scoreboard/internal/interfaces/httpapi"
	"github.com/riskibarqy/league-scoreboard/internal/platform/logging"
	"github.com/riskibarqy/league-scoreboard/internal/usecase"
)

// App holds the scoreboard service and the resources behind its storage.
type App struct {
	cfg        config.Config
	logger     *logging.Logger
	Scoreboard *usecase.ScoreboardService
	closers    []func() error
}

// New builds the storage chain and the scoreboard service, then loads the
// persisted match log.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	teams := cfg.Roster
	if len(teams) == 0 {
		teams = roster.DefaultTeams()
	}
	r, err := roster.New(teams)
	if err != nil {
		return nil, fmt.Errorf("build roster: %w", err)
	}

	a := &App{cfg: cfg, logger: logger}
	repo, err := a.buildMatchRepository(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Scoreboard = usecase.NewScoreboardService(r, repo, logger)
	loaded := a.Scoreboard.Load(ctx)
	logger.InfoContext(ctx, "scoreboard ready",
		"teams", r.Len(),
		"matches", loaded,
		"storage", cfg.StorageBackend,
		"mirrors", cfg.StorageMirrors,
	)

	return a, nil
}

func (a *App) NewHTTPServer() (*http.Server, error) {
	if a.cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(a.Scoreboard, a.logger)
	router := httpapi.NewRouter(handler, a.logger, httpapi.RouterOptions{
		ServiceName:        a.cfg.ServiceName,
		CORSAllowedOrigins: a.cfg.CORSAllowedOrigins,
	})

	return &http.Server{
		Addr:         a.cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
	}, nil
}

// Close releases storage resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}
