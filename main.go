package main

import (
	"log"
	"net/http"

	"github.com/NYTimes/gziphandler"
	"github.com/cbsinteractive/keyframes/config"
	"github.com/cbsinteractive/keyframes/service"
	"github.com/google/gops/agent"
	"github.com/gorilla/handlers"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := cfg.Log.Logger()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.EnableGops {
		if err := agent.Listen(agent.Options{}); err != nil {
			logger.Warnf("starting gops agent: %v", err)
		}
		defer agent.Close()
	}

	srv, err := service.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("unable to initialize service: ", err)
	}

	h := srv.Handler()
	h = gziphandler.GzipHandler(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger),
		handlers.PrintRecoveryStack(true),
	)(h)

	logger.WithField("addr", cfg.Addr).Info("serving keyframe channels")
	if err := http.ListenAndServe(cfg.Addr, h); err != nil {
		logger.Fatal("server encountered a fatal error: ", err)
	}
}
