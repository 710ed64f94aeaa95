package main

import (
	"github.com/rs/zerolog/log"

	"github.com/d-morgun/proto-bank/cmd/httpserver"
	"github.com/d-morgun/proto-bank/internal/middleware"
	"github.com/d-morgun/proto-bank/pkg/configpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	server := httpserver.New(logger, config)

	err = server.Run()
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
