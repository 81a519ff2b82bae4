// Command static-server serves a directory over HTTP/1.1.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"static-server/application/fileserver"
	"static-server/application/http/server"
	"static-server/config"
	"static-server/transport/tcp"

	"github.com/benbjohnson/clock"
)

var (
	configPath = flag.String("config", "config.json", "path of the configuration file")
	addr       = flag.String("addr", "", "listen address, overrides host and port of the configuration")
	verbose    = flag.Bool("v", false, "enable debug logging")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	fs, err := fileserver.New(cfg)
	if err != nil {
		return err
	}

	listenAddr := cfg.Addr()
	if *addr != "" {
		listenAddr = *addr
	}

	l, err := tcp.Listen(listenAddr)
	if err != nil {
		return err
	}

	srv := server.New(l, logger, clock.New(), fs.Handle, cfg.ServerOptions())
	srv.Start()

	logger.Info("serving",
		"addr", srv.Addr().String(),
		"root", cfg.RootDirectory,
		"redirects", len(cfg.RedirectMap),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	return srv.Close()
}
