package internal

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/frankli0324/go-httpc/internal/dialer"
	"github.com/frankli0324/go-httpc/internal/model"
	"github.com/frankli0324/go-httpc/internal/status"
	"github.com/frankli0324/go-httpc/internal/transport"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type (
	Target   = dialer.Target
	Dialer   = dialer.Dialer
	Exchange = model.Exchange
)

// Client runs one request per call over a fresh connection. The zero value
// dials with system trust roots and the platform resolver, and discards
// diagnostics.
type Client struct {
	// Verbose prints the certificate log before the request is sent and the
	// header block once the status was accepted. It also changes which
	// diagnostics the status policy prints.
	Verbose bool

	// Timeout bounds a whole exchange, zero means no limit beyond ctx.
	Timeout time.Duration

	dialer    Dialer
	transport transport.Transport
	policy    *status.Policy
	logger    *zap.Logger
}

var defaultDialer = &dialer.CoreDialer{VerifyHostname: true}

func (c *Client) dial(ctx context.Context, t Target) (*transport.Conn, error) {
	if c.dialer != nil {
		return c.dialer.Dial(ctx, t)
	}
	return defaultDialer.Dial(ctx, t)
}

func (c *Client) log() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}

func (c *Client) out() io.Writer {
	if c.policy == nil || c.policy.Out == nil {
		return io.Discard
	}
	return c.policy.Out
}

func (c *Client) roundTrip(conn *transport.Conn, request []byte) (*model.Response, error) {
	if c.transport != nil {
		return c.transport.RoundTrip(conn, request)
	}
	return transport.HTTP1{Logger: c.logger}.RoundTrip(conn, request)
}

// Do sends request to t and reads the response off the same connection until
// the peer closes it. Only a 200 response yields an [Exchange], any other
// status fails with [model.RejectedStatus]. The connection is closed before
// Do returns.
func (c *Client) Do(ctx context.Context, t Target, request []byte) (ex *Exchange, err error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	log := c.log().With(zap.String("host", t.Host), zap.String("service", t.Service))

	conn, err := c.dial(ctx, t)
	if err != nil {
		return nil, err
	}
	defer func() {
		// a close error only matters if the exchange failed anyway, the body
		// is fully buffered by then
		if cerr := conn.Close(); cerr != nil {
			log.Debug("close after exchange", zap.Error(cerr))
			if err != nil {
				err = multierr.Append(err, cerr)
			}
		}
	}()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, model.NewError(model.IOFailure, "set deadline", err)
		}
	}

	if c.Verbose && conn.Mode() == transport.ModeTLS {
		io.WriteString(c.out(), conn.Certificates().String()) //nolint:errcheck
	}

	resp, err := c.roundTrip(conn, request)
	if err != nil {
		log.Warn("exchange failed", zap.Error(err))
		return nil, err
	}

	headers := resp.Headers()
	if !c.policy.Classify(resp.Status.Code, headers, c.Verbose) {
		return nil, &model.Error{Kind: model.RejectedStatus, Op: "classify", StatusCode: resp.Status.Code}
	}
	if c.Verbose {
		fmt.Fprintf(c.out(), "%s\n", headers)
	}
	log.Debug("exchange accepted", zap.Int("body", resp.Body.Len()))
	return model.NewExchange(resp, conn.Certificates().Names()), nil
}

// ReadString runs [Client.Do] and returns the body as text.
func (c *Client) ReadString(ctx context.Context, t Target, request []byte) (string, error) {
	ex, err := c.Do(ctx, t, request)
	if err != nil {
		return "", err
	}
	if ex.IsBufferEmpty() {
		return "", model.NewError(model.EmptyBody, "read string", nil)
	}
	return ex.ReadToString(), nil
}

// ReadJSON runs [Client.Do] and decodes the body into v.
func (c *Client) ReadJSON(ctx context.Context, t Target, request []byte, v interface{}) error {
	ex, err := c.Do(ctx, t, request)
	if err != nil {
		return err
	}
	return ex.ReadToJSON(v)
}
