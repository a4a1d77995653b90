// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/quotedesk/internal/client"
	"github.com/quotedesk/internal/logger"
	"github.com/quotedesk/internal/watcher"
)

var (
	configPath = flag.String("config", "", "Path to config file (default: ~/.quotedesk/config.yaml)")
	serverAddr = flag.String("server", "", "QuoteDesk server address (overrides config)")
	watchDirs  = flag.String("watch-dirs", "", "Comma-separated list of directories to watch (overrides config)")
)

func main() {
	flag.Parse()

	if _, err := logger.Init(""); err != nil {
		os.Exit(1)
	}

	config, err := watcher.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	var watchDirList []string
	if *watchDirs != "" {
		for _, dir := range strings.Split(*watchDirs, ",") {
			if dir = strings.TrimSpace(dir); dir != "" {
				watchDirList = append(watchDirList, dir)
			}
		}
	}
	watcher.ApplyCLIFlags(config, *serverAddr, watchDirList)

	logger.Printf("Loaded configuration:")
	logger.Printf("  Server: %s", config.Server.Address)
	logger.Printf("  Watch paths: %v", config.WatchPaths)
	logger.Printf("  Client ID: %s", config.ClientID)

	uploader := client.NewUploader(config.Server.Address)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := uploader.Health(ctx); err != nil {
		logger.Warnf("Server not reachable at %s: %v (uploads will fail until it comes up)", config.Server.Address, err)
	}
	cancel()

	// Server-side events (async extractions finishing) surface as desktop
	// notifications.
	listener := client.NewEventListener(config.Server.Address, config.ClientID, func(n client.NotificationMessage) {
		logger.Printf("Server event: [%s] %s", n.Type, n.Message)
		if config.Notify {
			if err := beeep.Notify("QuoteDesk", n.Message, ""); err != nil {
				logger.Debugf("Failed to show notification: %v", err)
			}
		}
	})
	if err := listener.Connect(); err != nil {
		logger.Warnf("Event stream unavailable: %v", err)
	}
	defer listener.Close()

	watcherMgr := watcher.NewManager(config.WatchPaths, uploader, config.Notify)
	if err := watcherMgr.Start(); err != nil {
		logger.Fatalf("Failed to start watcher: %v", err)
	}
	defer watcherMgr.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Printf("Watch client running. Press Ctrl+C to stop.")
	<-sigChan

	logger.Printf("Shutting down...")
}
