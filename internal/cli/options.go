package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/cartridge/internal/config"
	"github.com/aretw0/cartridge/internal/logging"
)

// Options holds the persistent flags shared by every command.
type Options struct {
	ConfigPath string
	Dir        string
	Remote     string
	Redis      string
	Debug      bool
}

// Resolve loads the configuration file and environment, then applies flags on top.
func Resolve(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("error loading config: %w", err)
	}
	if opts.Dir != "" {
		cfg.Candidates = append([]string{opts.Dir}, cfg.Candidates...)
	}
	if opts.Remote != "" {
		cfg.BaseURL = opts.Remote
	}
	if opts.Redis != "" {
		cfg.Redis.Addr = opts.Redis
	}
	if opts.Debug {
		cfg.Debug = true
	}
	return cfg, nil
}

// createLogger configures the application logger.
func createLogger(debug bool) *slog.Logger {
	return logging.ForDebug(debug)
}
