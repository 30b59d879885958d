package dialer

import (
	"context"
	"crypto/tls"
	"net/netip"

	"github.com/frankli0324/go-httpc/internal/transport"
	"go.uber.org/zap"
)

// Target names the peer of one exchange.
type Target struct {
	Host    string
	Service string // port number or service name, e.g. "443" or "https"
	Secure  bool
}

// Endpoint is a connectable address produced by a [Resolver].
type Endpoint = netip.AddrPort

// Resolver turns a host and service into endpoints, in the order they
// should be tried. It fails rather than returning an empty list.
type Resolver interface {
	Resolve(ctx context.Context, host, service string) ([]Endpoint, error)
}

// Inspector is called once per peer certificate during the TLS handshake
// with the outcome of chain verification and the certificate's subject.
// Its result is the verification decision for that certificate.
type Inspector func(preverified bool, subject string) bool

// PassThrough is the default [Inspector], it accepts exactly what chain
// verification accepted.
func PassThrough(preverified bool, _ string) bool {
	return preverified
}

// Dialers produce a connected, single-use [transport.Conn] for a [Target],
// including resolving the host and, for secure targets, the TLS handshake.
//
// A Dialer MUST NOT hold connection state, every call returns a connection
// owned solely by the caller.
type Dialer interface {
	Dial(ctx context.Context, t Target) (*transport.Conn, error)
	Unwrap() Dialer
}

type CoreDialer struct {
	ResolveConfig *ResolveConfig
	Resolver      Resolver // replaces ResolveConfig based lookups if set

	TLSConfig *tls.Config // the config to use, RootCAs nil means system roots

	// VerifyHostname makes chain verification also match the certificate
	// against the server name, so preverified covers both.
	VerifyHostname bool
	Inspect        Inspector

	Logger *zap.Logger
}

func (d *CoreDialer) Clone() *CoreDialer {
	return &CoreDialer{
		ResolveConfig:  d.ResolveConfig.Clone(),
		Resolver:       d.Resolver,
		TLSConfig:      d.TLSConfig.Clone(),
		VerifyHostname: d.VerifyHostname,
		Inspect:        d.Inspect,
		Logger:         d.Logger,
	}
}

func (d *CoreDialer) Unwrap() Dialer {
	return nil
}

func (d *CoreDialer) resolver() Resolver {
	if d.Resolver != nil {
		return d.Resolver
	}
	return d.ResolveConfig
}

func (d *CoreDialer) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
