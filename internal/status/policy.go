package status

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Policy decides whether a response status code is acceptable. Only 200
// is. Rejections may print a diagnostic line or the header block to Out,
// depending on the code and on verbose.
type Policy struct {
	// Out receives diagnostics and, in verbose mode, headers. Nil discards.
	Out io.Writer

	// Compat keeps the historic handling of 201, which ends up in the 301
	// branch and reports "moved permanently" when not verbose. Without it
	// 201 is reported like any other unexpected code. 201 is rejected
	// either way.
	Compat bool

	Logger *zap.Logger
}

// Classify reports whether code is accepted. headers is the rendered
// status line and header block, printed for some codes in verbose mode.
func (p *Policy) Classify(code int, headers string, verbose bool) bool {
	out := io.Discard
	log := zap.NewNop()
	compat := false
	if p != nil {
		if p.Out != nil {
			out = p.Out
		}
		if p.Logger != nil {
			log = p.Logger
		}
		compat = p.Compat
	}

	switch code {
	case 200:
		return true
	case 201:
		if verbose {
			fmt.Fprintf(out, "%s\n", headers)
		} else if compat {
			fmt.Fprintf(out, "response returned with status code 301: moved permanently\n")
		} else {
			fmt.Fprintf(out, "response returned with status code %d\n", code)
		}
	case 301:
		if !verbose {
			fmt.Fprintf(out, "response returned with status code 301: moved permanently\n")
		}
	case 403:
		if !verbose {
			fmt.Fprintf(out, "response returned with status code 403: forbidden\n")
		}
	default:
		if verbose && code < 200 {
			fmt.Fprintf(out, "%s\n", headers)
		}
		if !verbose {
			fmt.Fprintf(out, "response returned with status code %d\n", code)
		}
	}
	log.Debug("status rejected", zap.Int("code", code), zap.Bool("verbose", verbose), zap.Bool("compat", compat))
	return false
}
