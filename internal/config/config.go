// Package config loads the reebsmooth TOML configuration file.
//
// Lookup order: an explicit path (the --config flag), then
// $XDG_CONFIG_HOME/reebsmooth/config.toml, then
// ~/.config/reebsmooth/config.toml. A missing default file is not an error;
// a missing explicit file is.
//
//	[smooth]
//	precision = 6
//	epsilon = "0.5"
//
//	[cache]
//	dir = "/var/cache/reebsmooth"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//	request_timeout = "30s"
//
//	[sweep]
//	steps = 12
package config

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/reebsmooth/pkg/errors"
	"github.com/matzehuels/reebsmooth/pkg/level"
	"github.com/matzehuels/reebsmooth/pkg/pipeline"
	"github.com/matzehuels/reebsmooth/pkg/server"
)

// FileName is the configuration file name inside the config directory.
const FileName = "config.toml"

// Duration is a time.Duration written as a Go duration string ("90s").
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Config is the whole configuration file.
type Config struct {
	Smooth Smooth `toml:"smooth"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
	Sweep  Sweep  `toml:"sweep"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// Smooth holds smoothing defaults.
type Smooth struct {
	Precision int    `toml:"precision"`
	Epsilon   string `toml:"epsilon"`
	MaxPasses int    `toml:"max_passes"`
}

// Cache selects and tunes the result cache. RedisURL takes precedence over
// Dir.
type Cache struct {
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
	Disabled bool     `toml:"disabled"`
}

// Server holds HTTP server settings.
type Server struct {
	Addr           string   `toml:"addr"`
	ReadTimeout    Duration `toml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout"`
	RequestTimeout Duration `toml:"request_timeout"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
}

// Sweep holds sweep defaults.
type Sweep struct {
	Steps int `toml:"steps"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Smooth: Smooth{
			Precision: int(level.DefaultPlaces),
			Epsilon:   pipeline.DefaultEpsilon,
		},
		Cache: Cache{
			TTL: Duration{24 * time.Hour},
		},
		Server: Server{
			Addr:           server.DefaultAddr,
			ReadTimeout:    Duration{server.DefaultReadTimeout},
			WriteTimeout:   Duration{server.DefaultWriteTimeout},
			RequestTimeout: Duration{server.DefaultRequestTimeout},
			MaxBodyBytes:   server.DefaultMaxBodyBytes,
		},
		Sweep: Sweep{Steps: pipeline.DefaultSweepSteps},
	}
}

// DefaultPath returns the per-user configuration file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "reebsmooth", FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "reebsmooth", FileName), nil
}

// Load reads the configuration at path, or at [DefaultPath] when path is
// empty. Values absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if stderrors.Is(err, fs.ErrNotExist) {
		if explicit {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown key %s", path, undecoded[0])
	}
	cfg.Path = path
	return cfg, cfg.Validate()
}

// Validate checks every section.
func (c Config) Validate() error {
	p, err := errors.ValidatePrecision(c.Smooth.Precision)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[smooth] precision")
	}
	if _, err := errors.ValidateEpsilon(c.Smooth.Epsilon, p); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[smooth] epsilon")
	}
	if c.Smooth.MaxPasses < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[smooth] max_passes must not be negative")
	}
	if c.Cache.RedisURL != "" {
		if err := errors.ValidateCacheURL(c.Cache.RedisURL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[cache] redis_url")
		}
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] ttl must not be negative")
	}
	if err := errors.ValidateSweepSteps(c.Sweep.Steps, pipeline.MaxSweepSteps); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[sweep] steps")
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "[server] addr cannot be empty")
	}
	return nil
}

// ServerConfig converts the [server] section.
func (c Config) ServerConfig() server.Config {
	return server.Config{
		Addr:           c.Server.Addr,
		ReadTimeout:    c.Server.ReadTimeout.Duration,
		WriteTimeout:   c.Server.WriteTimeout.Duration,
		RequestTimeout: c.Server.RequestTimeout.Duration,
		MaxBodyBytes:   c.Server.MaxBodyBytes,
	}
}

// String renders the effective configuration as TOML.
func (c Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err.Error()
	}
	return buf.String()
}
