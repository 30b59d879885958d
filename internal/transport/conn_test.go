package transport

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/frankli0324/go-httpc/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStream struct {
	io.Reader
	bytes.Buffer // what the client wrote

	closes int
}

func (f *fakeStream) Write(p []byte) (int, error) { return f.Buffer.Write(p) }

func (f *fakeStream) Read(p []byte) (int, error) { return f.Reader.Read(p) }

func (f *fakeStream) Close() error {
	f.closes++
	return nil
}

func newFakeConn(r io.Reader) (*Conn, *fakeStream) {
	s := &fakeStream{Reader: r}
	return NewConn(s, ModePlain, nil, nil), s
}

func TestConnWriteOnce(t *testing.T) {
	c, s := newFakeConn(strings.NewReader(""))

	n, err := c.Write([]byte("GET / HTTP/1.1\r\n\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 18, n)
	assert.Equal(t, "GET / HTTP/1.1\r\n\r\n", s.String())

	_, err = c.Write([]byte("GET /again HTTP/1.1\r\n\r\n"))
	assert.True(t, errors.Is(err, model.ConnUsed))
	assert.Equal(t, "GET / HTTP/1.1\r\n\r\n", s.String())
}

func TestConnReadUntil(t *testing.T) {
	c, _ := newFakeConn(iotest.OneByteReader(strings.NewReader("HTTP/1.1 200 OK\r\nrest")))

	n, err := c.ReadUntil(crlf)
	require.NoError(t, err)
	assert.Equal(t, 17, n)
	// nothing is consumed by ReadUntil
	assert.GreaterOrEqual(t, c.Buffer().Len(), 17)
	assert.Equal(t, "HTTP/1.1 200 OK\r\n", string(c.Buffer().Next(n)))

	_, err = c.ReadUntil(crlf)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, "rest", string(c.Buffer().ReadAll()))
}

func TestConnReadUntilDataWithEOF(t *testing.T) {
	c, _ := newFakeConn(iotest.DataErrReader(strings.NewReader("a\r\n")))

	n, err := c.ReadUntil(crlf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestConnReadAll(t *testing.T) {
	t.Run("CleanEOF", func(t *testing.T) {
		c, _ := newFakeConn(iotest.HalfReader(strings.NewReader("body bytes")))
		require.NoError(t, c.ReadAll())
		assert.Equal(t, "body bytes", string(c.Buffer().ReadAll()))
	})

	t.Run("Failure", func(t *testing.T) {
		boom := errors.New("boom")
		c, _ := newFakeConn(io.MultiReader(strings.NewReader("partial"), iotest.ErrReader(boom)))

		err := c.ReadAll()
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.IOFailure))
		assert.True(t, errors.Is(err, boom))
	})
}

func TestConnClose(t *testing.T) {
	c, s := newFakeConn(strings.NewReader("data"))

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Equal(t, 1, s.closes)

	_, err := c.Write([]byte("x"))
	assert.True(t, errors.Is(err, model.IOFailure))

	_, err = c.ReadUntil(crlf)
	assert.True(t, errors.Is(err, model.IOFailure))
}

func TestCertificateLog(t *testing.T) {
	var nilLog *CertificateLog
	assert.Zero(t, nilLog.Len())
	assert.Nil(t, nilLog.Names())
	assert.Empty(t, nilLog.String())

	l := &CertificateLog{}
	l.Append("CN=leaf")
	l.Append("CN=root")
	assert.Equal(t, []string{"CN=leaf", "CN=root"}, l.Names())
	assert.Equal(t, "CN=leaf\nCN=root\n", l.String())
}
