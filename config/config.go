// Package config provides the server configuration.
package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/configloader"
	"github.com/effective-security/x/values"
	"github.com/go-playground/validator/v10"
)

// ErrMissingCredentials is returned when the customer or the auth key is not set.
var ErrMissingCredentials = errors.New("customer and auth_key are required")

// Defaults
const (
	DefaultTransport    = "stdio"
	DefaultHTTPAddr     = ":8080"
	DefaultHTTPEndpoint = "/mcp"
	DefaultCacheKind    = "none"
	DefaultCacheTTL     = "10m"
	DefaultCachePrefix  = "expressmcp"
	DefaultLogLevel     = "INFO"
	DefaultQueryMethod  = "POST"
)

// Config of the express MCP server
type Config struct {
	// Customer is the customer ID of the tracking API
	Customer string `json:"customer" yaml:"customer"`
	// AuthKey is the authorization key of the tracking API
	AuthKey string `json:"auth_key" yaml:"auth_key"`

	Server   ServerConfig   `json:"server" yaml:"server"`
	Tracking TrackingConfig `json:"tracking" yaml:"tracking"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`

	// LogLevel specifies the level for all packages:
	// TRACE|DEBUG|INFO|NOTICE|WARNING|ERROR|CRITICAL
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=TRACE DEBUG INFO NOTICE WARNING ERROR CRITICAL"`
}

// ServerConfig specifies the MCP transport
type ServerConfig struct {
	// Transport is stdio or http
	Transport string `json:"transport,omitempty" yaml:"transport,omitempty" validate:"omitempty,oneof=stdio http"`
	// Addr is the listen address of the http transport
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
	// Endpoint is the path of the http transport
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// TrackingConfig specifies the tracking API client
type TrackingConfig struct {
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	// Method is GET or POST
	Method string `json:"method,omitempty" yaml:"method,omitempty" validate:"omitempty,oneof=GET POST"`
	// Timeout of the HTTP requests, as Go duration
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// CacheConfig specifies the tracking cache
type CacheConfig struct {
	// Kind is none, memory or redis
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty" validate:"omitempty,oneof=none memory redis"`
	// TTL of the cached responses, as Go duration
	TTL string `json:"ttl,omitempty" yaml:"ttl,omitempty"`
	// RedisURL is the redis connection URL, for example redis://localhost:6379/0
	RedisURL string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`
	// Prefix of the cache keys
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// Load returns the configuration from file, with environment variables expanded.
// Empty file returns the default configuration.
func Load(file string) (*Config, error) {
	cfg := new(Config)
	if file != "" {
		if err := configloader.UnmarshalAndExpand(file, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to load config %q", file)
		}
	}
	cfg.SetDefaults()
	return cfg, nil
}

// SetDefaults sets the default values for the empty fields.
func (c *Config) SetDefaults() {
	c.Server.Transport = strings.ToLower(values.StringsCoalesce(c.Server.Transport, DefaultTransport))
	c.Server.Addr = values.StringsCoalesce(c.Server.Addr, DefaultHTTPAddr)
	c.Server.Endpoint = values.StringsCoalesce(c.Server.Endpoint, DefaultHTTPEndpoint)
	c.Tracking.Method = strings.ToUpper(values.StringsCoalesce(c.Tracking.Method, DefaultQueryMethod))
	c.Cache.Kind = strings.ToLower(values.StringsCoalesce(c.Cache.Kind, DefaultCacheKind))
	c.Cache.TTL = values.StringsCoalesce(c.Cache.TTL, DefaultCacheTTL)
	c.Cache.Prefix = values.StringsCoalesce(c.Cache.Prefix, DefaultCachePrefix)
	c.LogLevel = strings.ToUpper(values.StringsCoalesce(c.LogLevel, DefaultLogLevel))
}

var validate = validator.New()

// Validate returns an error if the configuration can not be used to start the server.
func (c *Config) Validate() error {
	if c.Customer == "" || c.AuthKey == "" {
		return errors.WithStack(ErrMissingCredentials)
	}
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if _, err := c.Cache.Duration(); err != nil {
		return err
	}
	if _, err := c.Tracking.Duration(); err != nil {
		return err
	}
	if c.Cache.Kind == "redis" && c.Cache.RedisURL == "" {
		return errors.New("cache.redis_url is required for redis cache")
	}
	return nil
}

// Duration returns the cache TTL.
func (c *CacheConfig) Duration() (time.Duration, error) {
	return parseDuration("cache.ttl", c.TTL)
}

// Duration returns the HTTP timeout, zero means no timeout.
func (c *TrackingConfig) Duration() (time.Duration, error) {
	return parseDuration("tracking.timeout", c.Timeout)
}

func parseDuration(name, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", name)
	}
	if d < 0 {
		return 0, errors.Errorf("invalid %s: negative duration", name)
	}
	return d, nil
}
