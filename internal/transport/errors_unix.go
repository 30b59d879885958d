//go:build unix

package transport

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Describe returns a short reason for a socket level failure, or an empty
// string when err carries nothing recognizable.
func Describe(err error) string {
	if s := describeCommon(err); s != "" {
		return s
	}
	switch {
	case errors.Is(err, unix.ECONNRESET):
		return "connection reset by peer"
	case errors.Is(err, unix.EPIPE):
		return "broken pipe"
	case errors.Is(err, unix.ECONNREFUSED):
		return "connection refused"
	case errors.Is(err, unix.ETIMEDOUT):
		return "timed out"
	case errors.Is(err, unix.EHOSTUNREACH), errors.Is(err, unix.ENETUNREACH):
		return "unreachable"
	}
	return ""
}
