// Package config loads CLI settings from cartridge.yaml and CARTRIDGE_* variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/cartridge/pkg/adapters/local"
	"github.com/aretw0/cartridge/pkg/adapters/remote"
	"github.com/aretw0/cartridge/pkg/domain"
	"github.com/aretw0/cartridge/pkg/sandbox"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no explicit path is given.
const DefaultFile = "cartridge.yaml"

// EnvPrefix marks environment variables that override file settings.
const EnvPrefix = "CARTRIDGE_"

// Redis holds the connection settings for shared track storage.
type Redis struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
	Prefix   string `mapstructure:"prefix" yaml:"prefix"`
}

// Config is the resolved CLI configuration.
type Config struct {
	Candidates   []string      `mapstructure:"candidates" yaml:"candidates"`
	BaseURL      string        `mapstructure:"base_url" yaml:"base_url"`
	BasePath     string        `mapstructure:"base_path" yaml:"base_path"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" yaml:"fetch_timeout"`
	EvalTimeout  time.Duration `mapstructure:"eval_timeout" yaml:"eval_timeout"`
	Concurrency  int           `mapstructure:"concurrency" yaml:"concurrency"`
	Redis        Redis         `mapstructure:"redis" yaml:"redis"`
	Listen       string        `mapstructure:"listen" yaml:"listen"`
	Debug        bool          `mapstructure:"debug" yaml:"debug"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Candidates:   append([]string(nil), local.DefaultCandidates...),
		BasePath:     domain.DefaultRemotePath,
		FetchTimeout: remote.DefaultTimeout,
		EvalTimeout:  sandbox.DefaultEvalTimeout,
		Concurrency:  4,
		Listen:       ":8080",
	}
}

// Load reads path (DefaultFile when empty) and applies the process environment.
// A missing file is not an error: defaults and environment still apply.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.Environ())
}

// LoadWithEnv is Load with an explicit environment, as returned by os.Environ.
func LoadWithEnv(path string, environ []string) (Config, error) {
	if path == "" {
		path = DefaultFile
	}

	raw := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}

	applyEnv(raw, environ)

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ZeroFields:       true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv overlays CARTRIDGE_* variables. CARTRIDGE_REDIS_ADDR sets redis.addr.
func applyEnv(raw map[string]any, environ []string) {
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(k, EnvPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
		if field, ok := strings.CutPrefix(key, "redis_"); ok {
			section, _ := raw["redis"].(map[string]any)
			if section == nil {
				section = map[string]any{}
				raw["redis"] = section
			}
			section[field] = v
			continue
		}
		raw[key] = v
	}
}
