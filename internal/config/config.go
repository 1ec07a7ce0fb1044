package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
)

const appName = "docrender"

type PlatformConfig struct {
	Name    string           `mapstructure:"name"`
	Version semantic.Version `mapstructure:"version"`
	Beta    bool             `mapstructure:"beta"`
}

type CacheConfig struct {
	// Path is the zstd-compressed precompute cache file.
	Path string `mapstructure:"path"`
	// Store is the SQLite database precomputed references are persisted to.
	Store string `mapstructure:"store"`
}

type Config struct {
	Workers   int              `mapstructure:"workers"`
	Cache     CacheConfig      `mapstructure:"cache"`
	Platforms []PlatformConfig `mapstructure:"platforms"`
}

// CurrentPlatforms returns the configured platform versions keyed by name.
// Later entries win.
func (c *Config) CurrentPlatforms() semantic.CurrentPlatforms {
	out := make(semantic.CurrentPlatforms, len(c.Platforms))
	for _, p := range c.Platforms {
		out[p.Name] = semantic.PlatformVersion{Version: p.Version, Beta: p.Beta}
	}
	return out
}

// cacheBase returns the base cache directory for docrender.
// Checks XDG_CACHE_HOME, then ~/.cache, then the temp dir as fallback.
func cacheBase() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".cache", appName)
	}
	return filepath.Join(os.TempDir(), appName)
}

// CachePath returns the default precompute cache file.
func CachePath() string {
	return filepath.Join(cacheBase(), "references.json.zst")
}

// StorePath returns the default SQLite reference store.
func StorePath() string {
	return filepath.Join(cacheBase(), "references.db")
}

func InitializeViper() error {
	return initialize(viper.GetViper())
}

func initialize(v *viper.Viper) error {
	v.SetConfigName(appName)
	v.SetConfigType("toml")

	v.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, appName))
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", appName))
	}

	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("cache.path", CachePath())
	v.SetDefault("cache.store", "")
	v.SetDefault("platforms", []map[string]any{})

	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// stringToVersionHookFunc decodes "14.0"-style strings into semantic.Version.
func stringToVersionHookFunc() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf(semantic.Version{}) || f.Kind() != reflect.String {
			return data, nil
		}
		v, err := semantic.ParseVersion(data.(string))
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

func Load() (*Config, error) {
	if err := InitializeViper(); err != nil {
		return nil, err
	}
	return decode(viper.GetViper())
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringToVersionHookFunc(),
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Workers < 1 {
		config.Workers = 1
	}
	config.Cache.Path = expandHome(config.Cache.Path)
	config.Cache.Store = expandHome(config.Cache.Store)
	return &config, nil
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, p[2:])
	}
	return p
}
