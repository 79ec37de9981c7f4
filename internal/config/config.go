// Package config loads the server configuration from an optional YAML file
// and the environment.
//
// Precedence, lowest first: server.DefaultConfig, the YAML file, environment
// variables. Watch reloads the file whenever it changes.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/muliwe/go-triangle-classifier/internal/server"
)

// Config is the full configuration of the server binary.
type Config struct {
	Server server.Config `yaml:"server"`

	// Verbose enables debug-level console logging.
	Verbose bool `yaml:"verbose"`
}

// Default returns the configuration used when no file or environment is set.
func Default() Config {
	return Config{Server: server.DefaultConfig()}
}

// Load reads the YAML file at path over the defaults. An empty path yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse yaml: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables looked up with getenv.
//
//	PORT       listen port, keeps the configured host
//	DEBUG      "true" enables the debug endpoint and verbose logging
//	TLS_CERT   with TLS_KEY, enables TLS
//	TLS_KEY
//	LOG_DIR    request log directory
func (c *Config) ApplyEnv(getenv func(string) string) {
	if port := getenv("PORT"); port != "" {
		host, _, err := net.SplitHostPort(c.Server.Addr)
		if err != nil {
			host = ""
		}
		c.Server.Addr = net.JoinHostPort(host, port)
	}

	if debug := getenv("DEBUG"); debug != "" {
		on, err := strconv.ParseBool(debug)
		if err == nil {
			c.Server.EnableDebug = on
			c.Verbose = on
		}
	}

	tlsCert := getenv("TLS_CERT")
	tlsKey := getenv("TLS_KEY")
	if tlsCert != "" && tlsKey != "" {
		c.Server.TLSCertFile = tlsCert
		c.Server.TLSKeyFile = tlsKey
	}

	if dir := getenv("LOG_DIR"); dir != "" {
		c.Server.LoggerConfig.LogDir = dir
	}

	c.normalize()
}

// normalize derives TLSEnabled from the certificate settings.
func (c *Config) normalize() {
	if c.Server.TLSCertFile != "" && c.Server.TLSKeyFile != "" {
		c.Server.TLSEnabled = true
	}
}

// Validate checks all configuration fields for correctness.
// It returns an error if any field is invalid, or nil if all fields are valid.
func (c *Config) Validate() error {
	var errs []error

	if _, port, err := net.SplitHostPort(c.Server.Addr); err != nil {
		errs = append(errs, fmt.Errorf("invalid server.addr %q: %w", c.Server.Addr, err))
	} else if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		errs = append(errs, fmt.Errorf("invalid server.addr port %q (must be 0..65535)", port))
	}

	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}
	if c.Server.IdleTimeout <= 0 {
		errs = append(errs, errors.New("server.idle_timeout must be positive"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}

	if c.Server.TLSEnabled && (c.Server.TLSCertFile == "" || c.Server.TLSKeyFile == "") {
		errs = append(errs, errors.New("server.tls requires both tls_cert and tls_key"))
	}

	if c.Server.LoggerConfig.LogDir == "" {
		errs = append(errs, errors.New("server.log.dir is required"))
	}
	if c.Server.LoggerConfig.FileName == "" {
		errs = append(errs, errors.New("server.log.file is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
