package dialer

import (
	"github.com/frankli0324/go-httpc/internal/dialer"
)

// Dialers are responsible for producing the single-use connection a request
// is written to and its response read from, for example a raw TCP
// connection or a TLS session on top of one.
//
// A Dialer MUST NOT hold active connection states, which means a Dialer must
// be able to be swapped out from a Client without pain. It SHOULD hold the
// connection related configs like [ResolveConfig] or *[crypto/tls.Config].
type Dialer = dialer.Dialer

// CoreDialer is the default implementation of the [Dialer] interface. It would
// be used by a zero value Client.
type CoreDialer = dialer.CoreDialer

// we need a dedicated resolver to customize the DNS server used for
// resolving hostnames.
//
// the standard library didn't provide a intuitive way of setting DNS server
// addresses since it only follows the system configuration (e.g.
// /etc/resolv.conf), leaving us only one option of using [net.Resolver.Dial]
// hook with a Go Resolver.
type ResolveConfig = dialer.ResolveConfig

type Resolver = dialer.Resolver
type Endpoint = dialer.Endpoint

// Inspector sees every certificate the server presents, in order, together
// with the result of chain verification, and decides whether to go on.
type Inspector = dialer.Inspector

type CertificateError = dialer.CertificateError

// PassThrough accepts exactly the certificates chain verification accepted.
var PassThrough Inspector = dialer.PassThrough
