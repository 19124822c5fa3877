// Package config provides centralized configuration management for the
// Strykers ticket analytics tools.
//
// # Configuration Sources
//
// Configuration is layered, later sources winning:
//
//	1. Built-in defaults (Default)
//	2. Optional YAML file (config.yaml, configs/config.yaml or STRYKERS_CONFIG_FILE)
//	3. Environment variables (STRYKERS_*)
//
// # Environment Variables
//
//	STRYKERS_SERVER_PORT=8080
//	STRYKERS_DATA_INPUTS=/srv/tickets.csv,data.csv
//	STRYKERS_ANALYSIS_BUYER_POLICY=report
//	STRYKERS_FINANCE_RETENTION_RATE=0.85
//	STRYKERS_LOGGING_LEVEL=debug
//
// # Path Management
//
// Paths resolves the data, reports and assets directories relative to the
// executable and produces the ordered list of input CSV candidates:
//
//	paths := config.NewPaths(baseDir, cfg.Data)
//	candidates := paths.InputCandidates(cfg.Data.Inputs)
package config
