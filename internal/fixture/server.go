package fixture

import (
	"bytes"
	"crypto/tls"
	"io"
	"net"
	"strconv"
	"time"
)

// Server accepts exactly one connection on 127.0.0.1.
type Server struct {
	Host string
	Port string

	ln      net.Listener
	done    chan struct{}
	request []byte
}

// Serve reads the request head off the first connection, answers with
// response and closes the connection. tlsConfig nil serves plain TCP.
func Serve(tlsConfig *tls.Config, response string) (*Server, error) {
	return serve(tlsConfig, func(s *Server, c net.Conn) {
		s.request = ReadHead(c)
		io.WriteString(c, response) //nolint:errcheck
	})
}

// ServeFunc hands the first accepted connection to fn and closes it once
// fn returns.
func ServeFunc(tlsConfig *tls.Config, fn func(net.Conn)) (*Server, error) {
	return serve(tlsConfig, func(_ *Server, c net.Conn) { fn(c) })
}

func serve(tlsConfig *tls.Config, fn func(*Server, net.Conn)) (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	if tlsConfig != nil {
		ln = tls.NewListener(ln, tlsConfig)
	}

	addr := ln.Addr().(*net.TCPAddr)
	s := &Server{
		Host: addr.IP.String(),
		Port: strconv.Itoa(addr.Port),
		ln:   ln,
		done: make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.SetDeadline(time.Now().Add(10 * time.Second)) //nolint:errcheck
		if tc, ok := conn.(*tls.Conn); ok {
			if err := tc.Handshake(); err != nil {
				return
			}
		}
		fn(s, conn)
	}()
	return s, nil
}

// Request waits for the connection to be served and returns the request
// head it carried.
func (s *Server) Request() string {
	<-s.done
	return string(s.request)
}

// Close stops accepting and waits for the served connection, if any.
func (s *Server) Close() {
	s.ln.Close()
	<-s.done
}

// ReadHead reads from r up to and including the empty line ending a
// request head. It returns what was read when r fails first.
func ReadHead(r io.Reader) []byte {
	var head []byte
	b := make([]byte, 1)
	for !bytes.HasSuffix(head, []byte("\r\n\r\n")) {
		if _, err := io.ReadFull(r, b); err != nil {
			break
		}
		head = append(head, b[0])
	}
	return head
}
