package model

import (
	"fmt"
	"strings"
)

// Kind classifies why an exchange failed. Every failure is terminal for the
// request it happened in.
type Kind int

const (
	ResolveFailure Kind = iota + 1
	ConnectionFailure
	ProtocolParseFailure
	IOFailure
	RejectedStatus
	EmptyBody
	DecodeFailure
	ConnUsed
)

func (k Kind) Error() string {
	switch k {
	case ResolveFailure:
		return "endpoint resolution failed"
	case ConnectionFailure:
		return "connection failed"
	case ProtocolParseFailure:
		return "malformed HTTP response"
	case IOFailure:
		return "i/o failure"
	case RejectedStatus:
		return "status code rejected"
	case EmptyBody:
		return "null message body"
	case DecodeFailure:
		return "body is not valid JSON"
	case ConnUsed:
		return "connection already used for a request"
	default:
		return fmt.Sprintf("unknown failure kind: %d", int(k))
	}
}

// Error carries a [Kind] together with the operation that failed and the
// underlying cause, if any. errors.Is(err, kind) matches on Kind.
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int    // set for RejectedStatus
	Reason     string // short OS level reason for I/O failures, may be empty

	Err error
}

func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Kind.Error())
	if e.Kind == RejectedStatus {
		fmt.Fprintf(&sb, " (%d)", e.StatusCode)
	}
	if e.Reason != "" {
		sb.WriteString(" [")
		sb.WriteString(e.Reason)
		sb.WriteString("]")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}
