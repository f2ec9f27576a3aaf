package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/pressgate-dev/pressgate/internal/config"
	"github.com/pressgate-dev/pressgate/internal/logger"
	"github.com/pressgate-dev/pressgate/internal/setup"
)

func main() {
	configFolder := flag.String("config_folder", "./config", "folder with public.yaml")
	flag.Parse()

	cfg := config.MustLoad(*configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps, err := setup.Setup(cfg)
	if err != nil {
		logger.Log.Error("setup failed", "error", err)
		os.Exit(1)
	}
	defer deps.Cleanup()

	addr := fmt.Sprintf(":%d", cfg.Public.Port)
	logger.Log.Info("listening", "addr", addr)
	if err := http.ListenAndServe(addr, deps.Router); err != nil {
		logger.Log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
