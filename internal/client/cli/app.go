// Package cli wires the client components together and drives them from an
// interactive prompt.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"oceanwatch/internal/client/api"
	"oceanwatch/internal/client/config"
	"oceanwatch/internal/client/connectivity"
	"oceanwatch/internal/client/services"
	"oceanwatch/internal/client/store"
	"oceanwatch/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	store   *store.Store
	api     *api.HTTPClient
	watcher *connectivity.Watcher
	capture *services.CaptureService
	engine  *services.SyncEngine
	log     logging.Logger
	reader  *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	st, err := store.Open(ctx, cfg.StoreDSN, log)
	if err != nil {
		return nil, err
	}
	if st.Degraded() {
		log.Warn(ctx, "running without durable storage; offline reports will not survive a restart")
	}

	apiClient := api.NewHTTPClient(cfg.ServerBaseURL, cfg.SubmitTimeout, st.Cache, log)
	watcher := connectivity.NewWatcher(apiClient, cfg.ProbeInterval, log)
	capture := services.NewCaptureService(apiClient, st, watcher, cfg.MaxImageBytes, log)
	engine := services.NewSyncEngine(apiClient, st.Reports, st.SOS, cfg.SyncRecordTimeout, log)

	return &App{
		config:  cfg,
		store:   st,
		api:     apiClient,
		watcher: watcher,
		capture: capture,
		engine:  engine,
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the connectivity watcher and the sync engine, then blocks in
// the command prompt until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := a.watcher.Subscribe()
	go a.watcher.Run(ctx)
	go a.engine.Run(ctx, events)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.promptStatus, scanner)

	if err := a.store.Close(); err != nil {
		a.log.Error(ctx, "failed to close store", "error", err)
	}
}

// promptStatus renders "online" / "offline (3 queued)" for the prompt.
func (a *App) promptStatus() string {
	status := string(a.watcher.Status())
	n, err := a.store.Reports.Count(context.Background())
	if err != nil {
		return status
	}
	m, err := a.store.SOS.Count(context.Background())
	if err != nil {
		return status
	}
	if n+m == 0 {
		return status
	}
	return fmt.Sprintf("%s, syncing (%d)", status, n+m)
}
