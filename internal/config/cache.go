package config

import (
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// MethodSet is a set of upper-cased HTTP methods read from a comma separated
// env value such as "get, head".
type MethodSet map[string]bool

// SetValue implements cleanenv.Setter.
func (m *MethodSet) SetValue(s string) error {
	set := MethodSet{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToUpper(strings.TrimSpace(part)); part != "" {
			set[part] = true
		}
	}
	*m = set
	return nil
}

// CacheConfig drives the public response cache. KeyStrategy is one of route,
// route_query (default), method_route or method_route_query. Responses larger
// than MaxBodyBytes are served but never stored.
type CacheConfig struct {
	Enabled      bool          `env:"CACHE_ENABLED" env-default:"true"`
	Methods      MethodSet     `env:"CACHE_METHODS" env-default:"GET"`
	TTL          time.Duration `env:"CACHE_TTL" env-default:"30s"`
	KeyStrategy  string        `env:"CACHE_KEY_STRATEGY" env-default:"route_query"`
	Prefix       string        `env:"CACHE_PREFIX" env-default:"cache"`
	MaxBodyBytes int           `env:"CACHE_MAX_BODY_BYTES" env-default:"1048576"`
}

func LoadCacheConfig() (CacheConfig, error) {
	var cfg CacheConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return CacheConfig{}, err
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Second
	}
	return cfg, nil
}
