package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"strykerscli/internal/app"
	"strykerscli/internal/config"
	"strykerscli/pkg/contracts"
)

func main() {
	cfg, err := loadConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	// Create application instance
	application, err := app.NewApplication(cfg, nil)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start application
	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// loadConfig parses the command line and loads the configuration it
// points at. Flags override the file and the environment.
func loadConfig(args []string, stderr io.Writer) (*config.Config, error) {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "YAML config file (default: config.yaml lookup)")
	port := fs.Int("port", 0, "listen port (default from config)")
	input := fs.String("input", "", "transaction CSV path (default: built-in candidates)")
	policy := fs.String("policy", "", "buyer segmentation policy: dashboard|a or report|b")
	version := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *version {
		fmt.Fprintln(stderr, contracts.GetVersionString())
		return nil, flag.ErrHelp
	}

	var (
		cfg *config.Config
		err error
	)
	if *configFile != "" {
		cfg, err = config.LoadFrom(*configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return nil, err
	}

	if *port != 0 {
		if *port < 0 || *port > 65535 {
			err := fmt.Errorf("invalid port: %d", *port)
			fmt.Fprintln(stderr, err)
			return nil, err
		}
		cfg.Server.Port = *port
	}
	if *input != "" {
		cfg.Data.Inputs = []string{*input}
	}
	if *policy != "" {
		cfg.Analysis.BuyerPolicy = *policy
	}
	return cfg, nil
}
