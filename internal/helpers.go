package internal

import (
	"crypto/tls"
	"io"

	"github.com/frankli0324/go-httpc/internal/config"
	"github.com/frankli0324/go-httpc/internal/dialer"
	"github.com/frankli0324/go-httpc/internal/status"
	"github.com/frankli0324/go-httpc/internal/transport"
	"go.uber.org/zap"
)

// UseDialer replaces the dialer with the result of fn, which receives the
// current one. The default is passed in when none was set.
func (c *Client) UseDialer(fn func(Dialer) Dialer) {
	d := c.dialer
	if d == nil {
		d = defaultDialer.Clone()
	}
	c.dialer = fn(d)
}

// UseCoreDialer calls fn with every [dialer.CoreDialer] in the dialer chain.
// It reports whether one was found.
func (c *Client) UseCoreDialer(fn func(*dialer.CoreDialer)) (ok bool) {
	c.UseDialer(func(d Dialer) Dialer {
		for cd := d; cd != nil; cd = cd.Unwrap() {
			if core, isCore := cd.(*dialer.CoreDialer); isCore {
				fn(core)
				ok = true
			}
		}
		return d
	})
	return
}

func (c *Client) UseTransport(t transport.Transport) {
	c.transport = t
}

func (c *Client) UsePolicy(p *status.Policy) {
	c.policy = p
}

// UseOutput directs diagnostics, the certificate log and headers to w.
func (c *Client) UseOutput(w io.Writer) {
	if c.policy == nil {
		c.policy = &status.Policy{Logger: c.logger}
	}
	c.policy.Out = w
}

// UseLogger sets the logger of the client and of everything it owns that
// logs, including a CoreDialer in the dialer chain.
func (c *Client) UseLogger(log *zap.Logger) {
	c.logger = log
	if c.policy != nil {
		c.policy.Logger = log
	}
	c.UseCoreDialer(func(d *dialer.CoreDialer) {
		d.Logger = log
	})
}

// NewClient builds a client from cfg. Diagnostics of the status policy are
// discarded until a policy with an output is set.
func NewClient(cfg *config.Config, log *zap.Logger) (*Client, error) {
	roots, err := cfg.TLS.RootCAs()
	if err != nil {
		return nil, err
	}

	c := &Client{
		Verbose: cfg.Verbose,
		Timeout: cfg.Timeout,
		dialer: &dialer.CoreDialer{
			ResolveConfig: &dialer.ResolveConfig{
				CustomDNSServer: cfg.DNS.Server,
				Network:         cfg.DNS.Network,
				StaticHosts:     cfg.DNS.StaticHosts,
			},
			TLSConfig: &tls.Config{
				RootCAs:    roots,
				MinVersion: tls.VersionTLS12,
			},
			VerifyHostname: cfg.TLS.VerifyHostname,
		},
		policy: &status.Policy{Compat: cfg.Status.Compat},
	}
	c.UseLogger(log)
	return c, nil
}
