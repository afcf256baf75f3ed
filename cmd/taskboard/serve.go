package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nhle/taskboard/internal/httpapi"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// stop signal.
const shutdownTimeout = 10 * time.Second

func runServe(args []string) error {
	var g globalFlags
	fs := newFlagSet("serve", &g)
	fs.String("addr", "", "listen address (overrides http.addr)")
	fs.String("storage", "", "attachment storage directory (overrides storage.dir)")
	if help, err := parse(fs, args); help || err != nil {
		return err
	}

	e, err := openEnv(&g, fs)
	if err != nil {
		return err
	}
	defer e.close()

	ts, ps, err := e.services()
	if err != nil {
		return err
	}

	api := httpapi.New(httpapi.Config{
		Tasks:          ts,
		Projects:       ps,
		Users:          e.store,
		Logger:         e.logger,
		UserHeader:     e.cfg.Auth.UserHeader,
		MaxUploadBytes: e.cfg.MaxUploadBytes(),
		Location:       e.location,
	})
	srv := &http.Server{
		Addr:              e.cfg.HTTP.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		e.logger.Info("http server listening",
			"addr", srv.Addr,
			"storage", e.cfg.Storage.Dir,
			"user_header", e.cfg.Auth.UserHeader,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	e.logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}
