// package transport contains the single-use connection type and the HTTP/1.x
// response framing that runs on top of it.
//
// Message syntax follows HTTP/1.1 (RFC9112) only as far as the status line
// and header block go. The body is whatever arrives until the server closes
// the connection, so a [Conn] carries exactly one request and neither
// Content-Length nor chunked decoding exists here.

package transport
