package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/StoreStation/BetaCraft/pkg/config"
	"github.com/StoreStation/BetaCraft/pkg/logging"
	"github.com/StoreStation/BetaCraft/pkg/protocol"
	"github.com/StoreStation/BetaCraft/pkg/server"
	"github.com/StoreStation/BetaCraft/pkg/world"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file")
	address := flag.String("address", "", "Server address to listen on (overrides the config file)")
	logLevel := flag.String("log-level", "", "Log level: trace, debug, info, warn, error")
	worldDB := flag.String("world-db", "", "SQLite file the world is saved to (overrides the config file)")
	flag.Parse()

	cfg, err := resolveConfig(*configPath, *address, *logLevel, *worldDB)
	if err != nil {
		boot := logging.New(logging.Options{App: "betacraft"})
		boot.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
	}

	log := logging.New(logging.Options{App: "betacraft", Level: cfg.LogLevel})

	opts := []server.Option{server.WithLogger(log)}
	if cfg.DropsFile != "" {
		drops, err := world.LoadDrops(cfg.DropsFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DropsFile).Msg("failed to load drop table")
		}
		opts = append(opts, server.WithDrops(drops))
	}
	motd, err := config.LoadMOTD(cfg.MOTDFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.MOTDFile).Msg("failed to load motd")
	}
	opts = append(opts, server.WithMOTD(motd))

	srv := server.New(cfg, opts...)
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
	logStarted(log, cfg)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	if err := srv.Stop(); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}

// resolveConfig loads the config file, if any, and applies the command-line
// overrides on top of it.
func resolveConfig(path, address, logLevel, worldDB string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if address != "" {
		cfg.Address = address
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if worldDB != "" {
		cfg.WorldDB = worldDB
	}
	return cfg, nil
}

func logStarted(log zerolog.Logger, cfg config.Config) {
	log.Info().
		Int("protocol", protocol.ProtocolVersion).
		Str("address", cfg.Address).
		Int("max_players", cfg.MaxPlayers).
		Str("world_db", cfg.WorldDB).
		Msg("BetaCraft server started")
}
