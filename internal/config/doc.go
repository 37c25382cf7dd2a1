// Package config provides configuration management for the Azure Inventory Exporter.
//
// This package handles loading configuration from YAML files, applying
// environment variable overrides, setting defaults, and validating the
// configuration. The config file is optional: when it is absent the tool
// runs entirely on defaults, so a plain `inventory` invocation works with
// no setup beyond Azure credentials.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (highest priority)
//  2. YAML configuration file
//  3. Default values (lowest priority)
//
// Supported environment variables:
//   - AZURE_INVENTORY_OUTPUT: Path of the xlsx workbook to write
//   - AZURE_INVENTORY_LOG_LEVEL: Log level (debug, info, warn, error)
//   - AZURE_INVENTORY_LOG_FORMAT: Log format (text, json)
//   - AZURE_INVENTORY_API_TIMEOUT: Azure API timeout in seconds (1-300)
//   - AZURE_INVENTORY_BATCH_SIZE: Records buffered per sheet before a flush (minimum: 1)
//   - AZURE_INVENTORY_METRIC_WINDOW: Metric lookback window in minutes (minimum: 1)
//   - AZURE_INVENTORY_SUBSCRIPTIONS: Comma-separated subscription ID allow-list
//
// Example configuration file (config.yaml):
//
//	output_path: "reports/azure-inventory.xlsx"
//	log_level: "info"
//	log_format: "text"
//	api_timeout: 30
//	batch_size: 50
//	metric_window_minutes: 60
//	subscriptions:
//	  - "00000000-0000-0000-0000-000000000001"
//	  - "00000000-0000-0000-0000-000000000002"
//
// Example usage:
//
//	cfg, err := config.Load("config.yaml")
//	if err != nil {
//		log.Fatalf("Failed to load config: %v", err)
//	}
//
//	fmt.Printf("Writing report to %s\n", cfg.OutputPath)
package config
