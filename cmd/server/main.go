package main

import (
	"log"
	"os"

	"github.com/muliwe/go-chunk-entropy/internal/config"
	"github.com/muliwe/go-chunk-entropy/internal/server"
)

func main() {
	cfg := config.DefaultConfig()

	// Optional YAML config file
	if path := os.Getenv("ENTROPY_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	// PORT, DEBUG, TLS_CERT, TLS_KEY, LOG_DIR and ENTROPY_* overrides
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}

	srvCfg := server.DefaultConfig()
	srvCfg.Addr = cfg.Server.Addr
	srvCfg.ReadTimeout = cfg.Server.ReadTimeout
	srvCfg.WriteTimeout = cfg.Server.WriteTimeout
	srvCfg.IdleTimeout = cfg.Server.IdleTimeout
	srvCfg.EnableDebug = cfg.Server.EnableDebug
	srvCfg.LoggerConfig = cfg.Logger
	srvCfg.ClassifierCfg = cfg.Classifier
	if cfg.Server.TLSCertFile != "" && cfg.Server.TLSKeyFile != "" {
		srvCfg.TLSEnabled = true
		srvCfg.TLSCertFile = cfg.Server.TLSCertFile
		srvCfg.TLSKeyFile = cfg.Server.TLSKeyFile
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
