package transport

import (
	"github.com/frankli0324/go-httpc/internal/model"
)

type Transport interface {
	RoundTrip(c *Conn, request []byte) (*model.Response, error)
}
