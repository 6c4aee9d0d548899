package aduana

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// ConnectionError reports that the registry could not be reached: a DNS or
// TCP dial failure, a TLS handshake failure, or a request that could not be
// constructed at all. URL is the offending URL, or the literal "invalid"
// when none could be derived (for example when the configured base URL does
// not parse).
type ConnectionError struct {
	URL    string
	Reason string
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to %s: %s", e.URL, e.Reason)
}

// RuntimeError reports a failure after the registry was reached, or a local
// setup failure before any network attempt: a response body that does not
// decode against the expected shape, an unparsable PEM certificate, or an
// HTTP client that could not be built.
type RuntimeError struct {
	Message string
	Err     error
}

func (e *RuntimeError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// wrapTransportError classifies an error returned by http.Client.Do.
// Connect-phase failures become ConnectionError; everything else collapses
// into RuntimeError with the original cause attached.
func wrapTransportError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if isConnectError(urlErr.Err) {
			return &ConnectionError{URL: urlErr.URL, Reason: urlErr.Err.Error()}
		}
		return &RuntimeError{
			Message: fmt.Sprintf("request to %s failed", urlErr.URL),
			Err:     err,
		}
	}
	return &RuntimeError{Message: "request failed", Err: err}
}

// isConnectError reports whether err happened while establishing the
// connection, as opposed to while using it.
func isConnectError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	var recordErr tls.RecordHeaderError
	return errors.As(err, &recordErr)
}
