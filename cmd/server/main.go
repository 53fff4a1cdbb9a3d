package main

import (
	"context"
	"flag"

	"courseapi/internal/config"
	"courseapi/internal/database"
	"courseapi/internal/server"

	"github.com/golang/glog"
	"github.com/joho/godotenv"
)

func main() {
	// glog writes to files under /tmp unless told otherwise.
	_ = flag.Set("logtostderr", "true")
	flag.Parse()
	defer glog.Flush()

	if err := godotenv.Load(); err != nil {
		glog.Infof("🙂️ No .env file found. Reading configuration from the environment.")
	}

	cfg, err := config.Load()
	if err != nil {
		glog.Fatalf("❌ Missing or invalid configuration: %v", err)
	}

	connect, err := database.NewConnector(cfg)
	if err != nil {
		glog.Fatalf("❌ %v", err)
	}
	manager := database.NewManager(connect, cfg.ConnectTimeout)

	if !cfg.LazyConnect {
		if _, err := manager.Acquire(context.Background()); err != nil {
			glog.Fatalf("❌ Could not connect to the %s store: %v", cfg.StoreDriver, err)
		}
	}

	if err := server.Start(cfg, manager); err != nil {
		glog.Fatalf("%v", err)
	}
}
