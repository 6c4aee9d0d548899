package aduana

import (
	"errors"
	"io"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapTransportError(t *testing.T) {
	t.Run("dial failure maps to ConnectionError", func(t *testing.T) {
		err := wrapTransportError(&url.Error{
			Op:  "Get",
			URL: "http://registry:5000/v2/_catalog",
			Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
		})

		var connErr *ConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.Equal(t, "http://registry:5000/v2/_catalog", connErr.URL)
		assert.Contains(t, connErr.Reason, "connection refused")
	})

	t.Run("DNS failure maps to ConnectionError", func(t *testing.T) {
		err := wrapTransportError(&url.Error{
			Op:  "Get",
			URL: "http://no-such-host/v2/_catalog",
			Err: &net.DNSError{Err: "no such host", Name: "no-such-host"},
		})

		var connErr *ConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.Equal(t, "http://no-such-host/v2/_catalog", connErr.URL)
	})

	t.Run("mid-transfer failure maps to RuntimeError", func(t *testing.T) {
		err := wrapTransportError(&url.Error{
			Op:  "Get",
			URL: "http://registry:5000/v2/_catalog",
			Err: io.ErrUnexpectedEOF,
		})

		var runtimeErr *RuntimeError
		require.ErrorAs(t, err, &runtimeErr)
		assert.Contains(t, runtimeErr.Message, "http://registry:5000/v2/_catalog")
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("unrecognized error maps to RuntimeError", func(t *testing.T) {
		cause := errors.New("boom")
		err := wrapTransportError(cause)

		var runtimeErr *RuntimeError
		require.ErrorAs(t, err, &runtimeErr)
		assert.ErrorIs(t, err, cause)
	})
}

func TestConnectionError_Error(t *testing.T) {
	err := &ConnectionError{URL: "http://registry:5000", Reason: "connection refused"}
	assert.Equal(t, "cannot connect to http://registry:5000: connection refused", err.Error())
}

func TestRuntimeError_Error(t *testing.T) {
	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("unexpected EOF")
		err := &RuntimeError{Message: "failed to parse catalog response", Err: cause}

		assert.Equal(t, "failed to parse catalog response: unexpected EOF", err.Error())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("without cause", func(t *testing.T) {
		err := &RuntimeError{Message: "failed to parse PEM certificate"}
		assert.Equal(t, "failed to parse PEM certificate", err.Error())
		assert.NoError(t, err.Unwrap())
	})
}
