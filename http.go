package httpc

import "github.com/frankli0324/go-httpc/internal/model"

// Error is returned by every failing exchange. Match the failure class
// with errors.Is, e.g. errors.Is(err, httpc.RejectedStatus).
type Error = model.Error
type Kind = model.Kind

const (
	ResolveFailure       = model.ResolveFailure
	ConnectionFailure    = model.ConnectionFailure
	ProtocolParseFailure = model.ProtocolParseFailure
	IOFailure            = model.IOFailure
	RejectedStatus       = model.RejectedStatus
	EmptyBody            = model.EmptyBody
	DecodeFailure        = model.DecodeFailure
	ConnUsed             = model.ConnUsed
)
