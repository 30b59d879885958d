package status

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

const headers = "HTTP/1.1 XXX\nContent-Type: text/plain"

func TestClassifyAcceptsOnly200(t *testing.T) {
	p := &Policy{}
	for _, verbose := range []bool{false, true} {
		assert.True(t, p.Classify(200, headers, verbose))

		for _, code := range []int{0, 100, 101, 199, 201, 202, 204, 206, 299, 301, 302, 304, 400, 403, 404, 500, 503} {
			assert.False(t, p.Classify(code, headers, verbose), "code %d verbose %v", code, verbose)
		}
	}
}

func TestClassifyDiagnostics(t *testing.T) {
	type tCase struct {
		code    int
		verbose bool
		compat  bool
		out     string
	}
	cases := []tCase{
		{code: 200, out: ""},
		{code: 200, verbose: true, out: ""},
		{code: 201, out: "response returned with status code 201\n"},
		{code: 201, compat: true, out: "response returned with status code 301: moved permanently\n"},
		{code: 201, verbose: true, out: headers + "\n"},
		{code: 201, verbose: true, compat: true, out: headers + "\n"},
		{code: 301, out: "response returned with status code 301: moved permanently\n"},
		{code: 301, verbose: true, out: ""},
		{code: 403, out: "response returned with status code 403: forbidden\n"},
		{code: 403, verbose: true, out: ""},
		{code: 101, out: "response returned with status code 101\n"},
		{code: 101, verbose: true, out: headers + "\n"},
		{code: 404, out: "response returned with status code 404\n"},
		{code: 404, verbose: true, out: ""},
		{code: 500, compat: true, out: "response returned with status code 500\n"},
	}

	for _, c := range cases {
		cas := c
		t.Run(fmt.Sprintf("%d/verbose=%v/compat=%v", cas.code, cas.verbose, cas.compat), func(t *testing.T) {
			var out bytes.Buffer
			p := &Policy{Out: &out, Compat: cas.compat}
			p.Classify(cas.code, headers, cas.verbose)
			assert.Equal(t, cas.out, out.String())
		})
	}
}

func TestClassifyNilPolicy(t *testing.T) {
	var p *Policy
	assert.True(t, p.Classify(200, "", false))
	assert.False(t, p.Classify(403, "", false))
}
