package config

import (
	"crypto/x509"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "HTTPC"

// host names in dns.static_hosts contain dots
const keyDelimiter = "::"

// Config holds the client configuration loaded from files and environment variables.
type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Verbose  bool          `mapstructure:"verbose"`

	TLS    TLSConfig    `mapstructure:"tls"`
	DNS    DNSConfig    `mapstructure:"dns"`
	Status StatusConfig `mapstructure:"status"`
}

type TLSConfig struct {
	VerifyHostname bool   `mapstructure:"verify_hostname"`
	CAFile         string `mapstructure:"ca_file"`
}

type DNSConfig struct {
	Server      string            `mapstructure:"server"`
	Network     string            `mapstructure:"network"`
	StaticHosts map[string]string `mapstructure:"static_hosts"`
}

type StatusConfig struct {
	Compat bool `mapstructure:"compat"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("verbose", false)
	v.SetDefault("tls::verify_hostname", true)
	v.SetDefault("tls::ca_file", "")
	v.SetDefault("dns::server", "")
	v.SetDefault("dns::network", "ip")
	v.SetDefault("dns::static_hosts", map[string]string{})
	v.SetDefault("status::compat", false)
}

// Load reads configuration from the config file at path (skipped when
// empty) and HTTPC_ prefixed environment variables, which .env may add to.
// Environment wins over the file. Changed flags in flags win over both,
// flag names are matched against top level keys.
func Load(path string, flags ...*pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	defaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))
	v.AutomaticEnv()

	for _, fs := range flags {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s (must not be negative)", c.Timeout)
	}
	switch c.DNS.Network {
	case "", "ip", "ip4", "ip6":
	default:
		return fmt.Errorf("invalid dns.network %q (one of ip, ip4, ip6)", c.DNS.Network)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

// RootCAs loads the configured CA file. It returns nil, meaning the system
// roots, when no file is configured.
func (c TLSConfig) RootCAs() (*x509.CertPool, error) {
	if c.CAFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.CAFile)
	if err != nil {
		return nil, fmt.Errorf("read tls.ca_file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, fmt.Errorf("tls.ca_file %s: no certificates found", c.CAFile)
	}
	return pool, nil
}
