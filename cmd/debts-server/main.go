package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/Makepad-fr/debts/internal/devserver"
	"github.com/Makepad-fr/debts/internal/logging"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", envOr("DEBTS_SERVER_ADDR", ":5000"), "listen address")
	dsn := flag.String("db", envOr("DEBTS_SERVER_DB", "debts-dev.db"), "sqlite database path or DSN")
	level := flag.String("log-level", envOr("DEBTS_LOG_LEVEL", "info"), "log level")
	flag.Parse()

	if err := run(*addr, *dsn, *level); err != nil {
		fmt.Fprintln(os.Stderr, "debts-server:", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func run(addr, dsn, level string) error {
	log, err := logging.New(logging.Config{Level: level})
	if err != nil {
		return err
	}
	defer log.Close()

	secret := os.Getenv("DEBTS_SERVER_SECRET")
	if secret == "" {
		// tokens will not survive a restart
		secret = uuid.NewString()
		log.Warn().Msg("DEBTS_SERVER_SECRET not set, using a random secret")
	}

	db, err := devserver.Open(dsn)
	if err != nil {
		return err
	}
	gin.SetMode(gin.ReleaseMode)
	srv, err := devserver.New(db, devserver.Config{Secret: secret}, log.Logger)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("db", dsn).Msg("listening")
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
