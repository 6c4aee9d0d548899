// Package aduana provides a read-only client for the Docker Registry HTTP
// API v2. It enumerates the repositories hosted on a registry, lists their
// tags, and resolves per-tag image metadata by following a manifest to its
// configuration blob.
//
// Typical use:
//
//	inspector := aduana.NewInspector("http://localhost:5000")
//	images, err := inspector.Images(ctx)
//	if err != nil {
//		return err
//	}
//	for _, image := range images {
//		for _, tag := range image.Tags() {
//			details, err := image.Details(ctx, tag)
//			...
//		}
//	}
//
// The client is strictly read-only: it never pushes, deletes, or mutates
// tags, and it performs no authentication. Registries serving HTTPS with a
// private CA are supported by attaching the CA certificate with
// Inspector.WithCert.
package aduana

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fdeantoni/aduana/internal/slogger"
)

// manifestV2MediaType is the Accept value for manifest resolution. Without
// it, registries answer with a schema v1 manifest that carries no config
// digest.
const manifestV2MediaType = "application/vnd.docker.distribution.manifest.v2+json"

// registryConfig is the immutable connection configuration shared between an
// Inspector and the Images it produces. Images hold it by value, so they
// remain usable regardless of what happens to the Inspector.
type registryConfig struct {
	url  string
	cert []byte
}

// client builds an HTTP client for one batch of requests, trusting the
// configured certificate when one is set.
func (c registryConfig) client() (*http.Client, error) {
	if len(c.cert) == 0 {
		return &http.Client{}, nil
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(c.cert) {
		return nil, &RuntimeError{Message: "failed to parse PEM certificate"}
	}

	return &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{RootCAs: pool},
		},
	}, nil
}

// getJSON performs a single GET round trip and decodes the response body
// into out. what names the expected shape in decode failures.
func getJSON(ctx context.Context, client *http.Client, url, accept string, out any, what string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		// The URL never made it into a request, typically because the
		// configured base URL does not parse.
		return &ConnectionError{URL: "invalid", Reason: err.Error()}
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	res, err := client.Do(req)
	if err != nil {
		slogger.L(ctx).Error("registry request failed", "url", url, "error", err)
		return wrapTransportError(err)
	}
	defer res.Body.Close() //nolint:errcheck // read-only body

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &RuntimeError{
			Message: fmt.Sprintf("unexpected status %s from %s", res.Status, url),
		}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &RuntimeError{
			Message: fmt.Sprintf("failed to parse %s response", what),
			Err:     err,
		}
	}
	return nil
}

// Inspector is a configured connection to one registry and the entry point
// for repository enumeration. The zero value is not usable; construct with
// NewInspector.
type Inspector struct {
	config registryConfig
}

// NewInspector creates an Inspector for the registry at url, for example
// "http://localhost:5000" or "https://registry.example.com". The URL is not
// validated here; a malformed URL surfaces as a ConnectionError on first
// use.
func NewInspector(url string) *Inspector {
	return &Inspector{config: registryConfig{url: url}}
}

// WithCert returns a copy of the Inspector that trusts the given
// PEM-encoded certificate as an additional root for TLS verification,
// enabling registries signed by a private CA:
//
//	inspector := aduana.NewInspector("https://registry:5000").WithCert(pem)
//
// The certificate is not parsed until the first request is made.
func (i *Inspector) WithCert(pem []byte) *Inspector {
	next := *i
	next.config.cert = bytes.Clone(pem)
	return &next
}

// URL returns the configured base URL.
func (i *Inspector) URL() string {
	return i.config.url
}

// Images enumerates every repository on the registry, returning one Image
// per repository in the order the catalog reports them. Each repository
// costs one extra round trip for its tag list; a failure on any of them
// aborts the whole enumeration with no partial result.
func (i *Inspector) Images(ctx context.Context) ([]*Image, error) {
	client, err := i.config.client()
	if err != nil {
		return nil, err
	}

	var catalog catalogResponse
	if err := getJSON(ctx, client, i.config.url+"/v2/_catalog", "", &catalog, "catalog"); err != nil {
		return nil, err
	}
	slogger.L(ctx).Debug("fetched catalog", "repositories", len(catalog.Repositories))

	images := make([]*Image, 0, len(catalog.Repositories))
	for _, name := range catalog.Repositories {
		url := fmt.Sprintf("%s/v2/%s/tags/list", i.config.url, name)

		var tags tagListResponse
		if err := getJSON(ctx, client, url, "", &tags, "tag list"); err != nil {
			return nil, err
		}

		images = append(images, &Image{
			config: i.config,
			name:   tags.Name,
			tags:   tags.Tags,
		})
	}
	return images, nil
}
