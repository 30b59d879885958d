package config

import (
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/frankli0324/go-httpc/internal/fixture"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.False(t, cfg.Verbose)
	assert.True(t, cfg.TLS.VerifyHostname)
	assert.Equal(t, "ip", cfg.DNS.Network)
	assert.False(t, cfg.Status.Compat)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "httpc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
timeout: 5s
tls:
  verify_hostname: false
dns:
  network: ip4
  static_hosts:
    api.example.com: 192.0.2.1
status:
  compat: true
`), 0o600))

	t.Setenv("HTTPC_TIMEOUT", "2s")
	t.Setenv("HTTPC_VERBOSE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.True(t, cfg.Verbose)
	assert.False(t, cfg.TLS.VerifyHostname)
	assert.Equal(t, "ip4", cfg.DNS.Network)
	assert.Equal(t, map[string]string{"api.example.com": "192.0.2.1"}, cfg.DNS.StaticHosts)
	assert.True(t, cfg.Status.Compat)
}

func TestLoadFlagsWin(t *testing.T) {
	t.Setenv("HTTPC_LOG_LEVEL", "error")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log_level", "info", "")
	require.NoError(t, fs.Parse([]string{"--log_level=debug"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	type tCase struct {
		cfg Config
		ok  bool
	}
	cases := map[string]tCase{
		"Zero":            {Config{}, true},
		"NegativeTimeout": {Config{Timeout: -time.Second}, false},
		"BadNetwork":      {Config{DNS: DNSConfig{Network: "tcp"}}, false},
		"IPv6":            {Config{DNS: DNSConfig{Network: "ip6"}}, true},
		"BadLevel":        {Config{LogLevel: "loud"}, false},
	}
	for name, cas := range cases {
		tCase := cas
		t.Run(name, func(t *testing.T) {
			err := tCase.cfg.Validate()
			if tCase.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestRootCAs(t *testing.T) {
	pool, err := TLSConfig{}.RootCAs()
	require.NoError(t, err)
	assert.Nil(t, pool)

	path := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0o600))
	_, err = TLSConfig{CAFile: path}.RootCAs()
	assert.Error(t, err)

	_, err = TLSConfig{CAFile: path + ".missing"}.RootCAs()
	assert.Error(t, err)
}

func TestRootCAsFromFile(t *testing.T) {
	pki, err := fixture.NewPKI()
	require.NoError(t, err)
	path, err := pki.WriteRootFile(t.TempDir())
	require.NoError(t, err)

	pool, err := TLSConfig{CAFile: path}.RootCAs()
	require.NoError(t, err)
	_, err = pki.Root.Verify(x509.VerifyOptions{Roots: pool})
	assert.NoError(t, err)
}
