package httpc

import (
	"github.com/frankli0324/go-httpc/internal"
	"github.com/frankli0324/go-httpc/internal/config"
	"github.com/frankli0324/go-httpc/internal/model"
	"github.com/frankli0324/go-httpc/internal/status"
)

// Client sends one request per call over its own connection and reads the
// response until the server closes it. A zero value Client is ready to use.
type Client = internal.Client

type Target = internal.Target
type Exchange = model.Exchange
type Config = config.Config
type Policy = status.Policy

// NewClient builds a Client from configuration, see [LoadConfig].
var NewClient = internal.NewClient

// LoadConfig reads configuration from the file at path (may be empty) and
// HTTPC_ prefixed environment variables.
var LoadConfig = config.Load
