package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/cgplocate/config"
	"github.com/domino14/cgplocate/shell"
)

var configPath = flag.String("config", "", "path to an optional config file")

func main() {
	flag.Parse()

	cfg := &config.Config{}
	if err := cfg.Load(*configPath); err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	sc := shell.NewShellController(cfg)
	sc.Loop()
}
