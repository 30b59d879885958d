package transport

import (
	"errors"
	"io"
	"net"
	"os"
	"time"

	"github.com/frankli0324/go-httpc/internal/model"
	"go.uber.org/zap"
)

type Mode int

const (
	ModePlain Mode = iota
	ModeTLS
)

func (m Mode) String() string {
	if m == ModeTLS {
		return "tls"
	}
	return "plain"
}

const readChunk = 4096

type connState int

const (
	stateIdle connState = iota
	stateSent
	stateClosed
)

// Conn owns a single connected stream for exactly one request. Every read
// appends into the connection's [model.Buffer], which the framer consumes
// from. Once a request has been written the Conn refuses another one: there
// is no body framing that would tell where a second response starts.
type Conn struct {
	rw    io.ReadWriteCloser
	mode  Mode
	buf   *model.Buffer
	certs *CertificateLog
	state connState

	scratch []byte
	log     *zap.Logger
}

// NewConn takes ownership of rw. certs is the log filled during the TLS
// handshake and is nil for plain connections.
func NewConn(rw io.ReadWriteCloser, mode Mode, certs *CertificateLog, log *zap.Logger) *Conn {
	if log == nil {
		log = zap.NewNop()
	}
	return &Conn{
		rw:    rw,
		mode:  mode,
		buf:   &model.Buffer{},
		certs: certs,
		log:   log,
	}
}

func (c *Conn) Mode() Mode { return c.mode }

func (c *Conn) Buffer() *model.Buffer { return c.buf }

// Certificates returns the handshake log, nil for plain connections.
func (c *Conn) Certificates() *CertificateLog { return c.certs }

// SetDeadline applies t to the underlying stream if it supports deadlines.
func (c *Conn) SetDeadline(t time.Time) error {
	if d, ok := c.rw.(interface{ SetDeadline(time.Time) error }); ok {
		return d.SetDeadline(t)
	}
	return nil
}

// Write sends the request bytes verbatim. It may only succeed once per Conn.
func (c *Conn) Write(p []byte) (int, error) {
	switch c.state {
	case stateSent:
		return 0, model.NewError(model.ConnUsed, "write", nil)
	case stateClosed:
		return 0, ioError("write", net.ErrClosed)
	}
	c.state = stateSent
	n, err := c.rw.Write(p)
	if err != nil {
		return n, ioError("write", err)
	}
	c.log.Debug("request written", zap.Int("bytes", n), zap.Stringer("mode", c.mode))
	return n, nil
}

// ReadUntil reads until the unread part of the buffer contains delim and
// returns the number of unread bytes up to and including it. Nothing is
// consumed. A clean end of stream before delim is reported as [io.EOF].
func (c *Conn) ReadUntil(delim []byte) (int, error) {
	for {
		if n := c.buf.Index(delim); n >= 0 {
			return n, nil
		}
		if err := c.fill(); err != nil {
			if n := c.buf.Index(delim); n >= 0 {
				return n, nil
			}
			if errors.Is(err, io.EOF) {
				return 0, io.EOF
			}
			return 0, ioError("read", err)
		}
	}
}

// ReadAll reads until the peer closes the stream. Only a clean end of
// stream counts as success.
func (c *Conn) ReadAll() error {
	for {
		if err := c.fill(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return ioError("read", err)
		}
	}
}

func (c *Conn) fill() error {
	if c.state == stateClosed {
		return net.ErrClosed
	}
	if c.scratch == nil {
		c.scratch = make([]byte, readChunk)
	}
	n, err := c.rw.Read(c.scratch)
	c.buf.Write(c.scratch[:n])
	return err
}

// Close releases the stream. Calling it more than once is a no-op.
func (c *Conn) Close() error {
	if c.state == stateClosed {
		return nil
	}
	c.state = stateClosed
	err := c.rw.Close()
	c.log.Debug("connection closed", zap.Stringer("mode", c.mode), zap.Error(err))
	return err
}

func ioError(op string, err error) *model.Error {
	return &model.Error{Kind: model.IOFailure, Op: op, Reason: Describe(err), Err: err}
}

func describeCommon(err error) string {
	switch {
	case errors.Is(err, os.ErrDeadlineExceeded):
		return "deadline exceeded"
	case errors.Is(err, net.ErrClosed):
		return "use of closed connection"
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "unexpected end of stream"
	}
	return ""
}
