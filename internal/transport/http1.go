package transport

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/frankli0324/go-httpc/internal/model"
	"go.uber.org/zap"
)

var (
	crlf = []byte("\r\n")
	lf   = []byte("\n")
)

// HTTP1 frames a single HTTP/1.x response whose body is delimited by the
// peer closing the connection. Content-Length and Transfer-Encoding are
// not interpreted; the request is expected to carry "Connection: close".
type HTTP1 struct {
	Logger *zap.Logger
}

// RoundTrip writes request verbatim and reads the response off c.
func (t HTTP1) RoundTrip(c *Conn, request []byte) (*model.Response, error) {
	if _, err := c.Write(request); err != nil {
		return nil, err
	}
	return t.ReadResponse(c)
}

// ReadResponse runs the status line, header block and body stages in order.
// On return the connection buffer holds nothing but the body. The connection
// is left open on failure, closing it is up to the caller.
func (t HTTP1) ReadResponse(c *Conn) (*model.Response, error) {
	log := t.Logger
	if log == nil {
		log = zap.NewNop()
	}

	status, err := readStatusLine(c)
	if err != nil {
		return nil, err
	}
	log.Debug("status line read", zap.String("proto", status.Proto), zap.Int("code", status.Code))

	header, err := readHeader(c)
	if err != nil {
		return nil, err
	}
	log.Debug("header block read", zap.Int("lines", len(header)))

	if err := c.ReadAll(); err != nil {
		return nil, err
	}
	log.Debug("body drained", zap.Int("bytes", c.Buffer().Len()))

	return &model.Response{Status: status, Header: header, Body: c.Buffer()}, nil
}

func readStatusLine(c *Conn) (model.StatusLine, error) {
	n, err := c.ReadUntil(crlf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = model.NewError(model.ProtocolParseFailure, "read status line", io.ErrUnexpectedEOF)
		}
		return model.StatusLine{}, err
	}
	return parseStatusLine(string(c.Buffer().Next(n)))
}

// parseStatusLine takes the first whitespace separated token as protocol
// and the second as status code, e.g.:
//
//	HTTP/1.1 200 OK\r\n
func parseStatusLine(line string) (model.StatusLine, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "HTTP") {
		return model.StatusLine{}, model.NewError(model.ProtocolParseFailure, "parse status line",
			fmt.Errorf("invalid response from server: %q", strings.TrimRight(line, "\r\n")))
	}
	if len(fields) < 2 {
		return model.StatusLine{}, model.NewError(model.ProtocolParseFailure, "parse status line",
			errors.New("missing status code"))
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil || code < 0 {
		return model.StatusLine{}, model.NewError(model.ProtocolParseFailure, "parse status line",
			errors.New("malformed HTTP status code "+fields[1]))
	}
	return model.StatusLine{
		Proto:  fields[0],
		Code:   code,
		Reason: strings.Join(fields[2:], " "),
	}, nil
}

// readHeader collects lines up to the first empty one. A bare "\n" ends
// the block as well as "\r\n".
func readHeader(c *Conn) (model.HeaderBlock, error) {
	var block model.HeaderBlock
	for {
		n, err := c.ReadUntil(lf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = model.NewError(model.ProtocolParseFailure, "read header",
					errors.New("stream ended before header terminator"))
			}
			return nil, err
		}
		line := string(c.Buffer().Next(n))
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if line == "" {
			return block, nil
		}
		block = append(block, line)
	}
}
