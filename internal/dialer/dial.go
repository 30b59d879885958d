package dialer

import (
	"context"
	"crypto/tls"
	"errors"
	"net"

	"github.com/frankli0324/go-httpc/internal/model"
	"github.com/frankli0324/go-httpc/internal/transport"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var zeroDialer net.Dialer

func (d *CoreDialer) Dial(ctx context.Context, t Target) (*transport.Conn, error) {
	log := d.logger().With(zap.String("host", t.Host), zap.String("service", t.Service), zap.Bool("secure", t.Secure))

	eps, err := d.resolver().Resolve(ctx, t.Host, t.Service)
	if err != nil {
		log.Warn("resolve failed", zap.Error(err))
		return nil, err
	}

	conn, err := d.Connect(ctx, eps)
	if err != nil {
		log.Warn("connect failed", zap.Error(err))
		return nil, err
	}
	if !t.Secure {
		return transport.NewConn(conn, transport.ModePlain, nil, d.Logger), nil
	}

	certs := &transport.CertificateLog{}
	c := tls.Client(conn, d.tlsConfig(t.Host, certs, log))
	if err := c.HandshakeContext(ctx); err != nil {
		conn.Close()
		log.Warn("tls handshake failed", zap.Error(err), zap.Strings("certificates", certs.Names()))
		return nil, &model.Error{Kind: model.ConnectionFailure, Op: "tls handshake", Reason: transport.Describe(err), Err: err}
	}
	state := c.ConnectionState()
	log.Debug("tls handshake complete",
		zap.String("version", tls.VersionName(state.Version)),
		zap.String("cipher", tls.CipherSuiteName(state.CipherSuite)),
		zap.Strings("certificates", certs.Names()))
	return transport.NewConn(c, transport.ModeTLS, certs, d.Logger), nil
}

// Connect tries eps in order and returns the first connection that could
// be established. It fails only when every endpoint failed, the error then
// combines all attempts.
func (d *CoreDialer) Connect(ctx context.Context, eps []Endpoint) (net.Conn, error) {
	log := d.logger()
	if len(eps) == 0 {
		return nil, model.NewError(model.ConnectionFailure, "connect", errors.New("no endpoints to connect to"))
	}

	var errs error
	for _, ep := range eps {
		conn, err := zeroDialer.DialContext(ctx, "tcp", ep.String())
		if err == nil {
			log.Debug("connected", zap.Stringer("endpoint", ep))
			return conn, nil
		}
		log.Debug("endpoint failed", zap.Stringer("endpoint", ep), zap.String("reason", transport.Describe(err)), zap.Error(err))
		errs = multierr.Append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, model.NewError(model.ConnectionFailure, "connect", errs)
}
