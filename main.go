package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JoaoCarvalho515/coup/config"
	"github.com/JoaoCarvalho515/coup/server"
	"github.com/JoaoCarvalho515/coup/storage"
	"github.com/JoaoCarvalho515/coup/storage/sqlite"
	"github.com/JoaoCarvalho515/coup/telemetry"
)

// Coup 房间服务：HTTP 上的 WebSocket 房间，设置 COUP_DB_PATH 时房间持久化到 SQLite
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}
	if err := server.InitLogger(server.LogOptions{File: cfg.LogFile, Level: cfg.LogLevel, Console: cfg.LogConsole}); err != nil {
		return err
	}
	defer server.SyncLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "coup", cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			server.Log.Warnw("tracing shutdown", "error", err)
		}
	}()

	var store storage.RoomStore
	if cfg.DBPath != "" {
		db, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		store = db
		server.Log.Infow("using sqlite room store", "path", cfg.DBPath)
	} else {
		store = storage.NewMemoryStore()
		server.Log.Info("using in-memory room store")
	}

	rooms := server.NewRoomManager(store, server.RoomOptions{SaveTimeout: cfg.SaveTimeout})
	defer rooms.Close()
	codes := server.NewCodeGenerator(nil, nil, rooms.Has)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.NewServer(rooms, codes, cfg.AllowedOrigins).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		server.Log.Infof("coup listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	server.Log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}
