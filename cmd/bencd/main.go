package main

import (
	"flag"

	"github.com/danmuck/benc/internal/logging"
	"github.com/danmuck/benc/internal/observability"
	"github.com/danmuck/benc/internal/scripthost"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "cmd/bencd/config.toml", "path to the bencd toml config; empty runs on defaults")
	flag.Parse()

	logging.ConfigureRuntime()
	cfg, err := loadServiceConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load bencd config")
	}
	observability.InitLogger(cfg.ID)
	log.Info().Str("path", *configPath).Msg("loaded bencd config")

	host := scripthost.Appear(scripthost.Options{
		ID:          cfg.ID,
		Addr:        cfg.Listen,
		ScriptsDir:  cfg.ScriptsDir,
		CORSOrigins: cfg.CORSOrigins,
		MaxDepth:    cfg.MaxDepth,
		ReadTimeout: cfg.ReadTimeout,
	})

	log.Info().Str("id", cfg.ID).Str("addr", cfg.Listen).Str("scripts", cfg.ScriptsDir).Msg("bencd started")
	if err := host.Serve(); err != nil {
		log.Fatal().Err(err).Msg("bencd stopped")
	}
}
