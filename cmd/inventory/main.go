package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/zgpcy/azure-inventory-exporter/internal/azure"
	"github.com/zgpcy/azure-inventory-exporter/internal/config"
	"github.com/zgpcy/azure-inventory-exporter/internal/export"
	"github.com/zgpcy/azure-inventory-exporter/internal/inventory"
	"github.com/zgpcy/azure-inventory-exporter/internal/logger"
	"github.com/zgpcy/azure-inventory-exporter/internal/version"
)

var (
	configPath  = flag.String("config", "config.yaml", "Path to configuration file (optional)")
	outputPath  = flag.String("output", "", "Path of the xlsx report to write (overrides config)")
	showVersion = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		for k, v := range version.Info() {
			fmt.Printf("%s: %s\n", k, v)
		}
		return
	}

	// Load configuration first (need log level from config)
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *outputPath != "" {
		cfg.OutputPath = *outputPath
	}

	// Initialize structured logger
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info("Azure Inventory Exporter starting",
		"version", version.Version,
		"config_path", *configPath,
		"output_path", cfg.OutputPath)

	// Authentication failure is fatal; nothing can be listed without it.
	cred, err := azure.NewCredential()
	if err != nil {
		logger.Error("Failed to authenticate", "error", err)
		os.Exit(1)
	}

	client, err := azure.NewClient(cred, cfg, logger)
	if err != nil {
		logger.Error("Failed to create Azure client", "error", err)
		os.Exit(1)
	}

	// Deletes any stale report at the target path before collecting.
	workbook, err := export.NewWorkbook(cfg.OutputPath)
	if err != nil {
		logger.Error("Failed to prepare output workbook", "error", err)
		os.Exit(1)
	}

	collector := inventory.NewCollector(client, workbook, cfg, logger)

	summary, err := collector.Run(context.Background())
	if err != nil {
		logger.Error("Inventory run failed", "error", err)
		os.Exit(1)
	}

	if err := workbook.Close(); err != nil {
		logger.Error("Failed to save workbook", "error", err)
		os.Exit(1)
	}

	logger.Info("Inventory run complete",
		"subscriptions", summary.Subscriptions,
		"storage_accounts", summary.StorageAccounts,
		"databases", summary.Databases,
		"vms", summary.VMs,
		"skipped", len(summary.Skips))

	if summary.StorageAccounts+summary.Databases+summary.VMs == 0 {
		logger.Warn("No qualifying resources found; no report file was written")
	}
}
