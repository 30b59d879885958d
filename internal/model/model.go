package model

import (
	"strconv"
	"strings"
)

// StatusLine is the first line of a response. Only the protocol token and
// the numeric code take part in framing, Reason is informational.
type StatusLine struct {
	Proto  string
	Code   int
	Reason string
}

// String renders the status line the way it is reported back to callers,
// e.g. "HTTP/1.1 200". The reason phrase is not included.
func (s StatusLine) String() string {
	return s.Proto + " " + strconv.Itoa(s.Code)
}

// HeaderBlock holds the raw header lines between the status line and the
// terminating empty line, in wire order and without their line endings.
// Lines are not split into keys and values.
type HeaderBlock []string

func (h HeaderBlock) String() string {
	return strings.Join(h, "\n")
}

type Response struct {
	Status StatusLine
	Header HeaderBlock
	Body   *Buffer
}

// Headers returns the status line followed by the header block, separated
// by newlines:
//
//	HTTP/1.1 200
//	Content-Type: text/plain
func (r *Response) Headers() string {
	if len(r.Header) == 0 {
		return r.Status.String()
	}
	return r.Status.String() + "\n" + r.Header.String()
}

// Exchange is the outcome of an accepted request/response round trip. The
// connection it was read from is already closed, only the buffered body
// remains.
type Exchange struct {
	Status       StatusLine
	Headers      string
	Certificates []string

	body *Buffer
}

func NewExchange(resp *Response, certificates []string) *Exchange {
	return &Exchange{
		Status:       resp.Status,
		Headers:      resp.Headers(),
		Certificates: certificates,
		body:         resp.Body,
	}
}

func (e *Exchange) IsBufferEmpty() bool {
	return e.body == nil || e.body.Len() == 0
}

// ReadToString consumes the body, see [Buffer.ReadToString].
func (e *Exchange) ReadToString() string {
	if e.body == nil {
		return ""
	}
	return e.body.ReadToString()
}

// ReadToJSON consumes the body and decodes it into v.
func (e *Exchange) ReadToJSON(v interface{}) error {
	if e.IsBufferEmpty() {
		return NewError(EmptyBody, "decode", nil)
	}
	return e.body.Decode(v)
}
