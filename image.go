package aduana

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fdeantoni/aduana/internal/slogger"
)

// Image is a handle to one repository on the registry: its name and the tags
// known at enumeration time. Images are produced by Inspector.Images and
// carry their own copy of the connection configuration.
type Image struct {
	config registryConfig
	name   string
	tags   []string
}

// Name returns the repository name.
func (img *Image) Name() string {
	return img.name
}

// Tags returns the tags the registry reported for this repository, in
// registry order.
func (img *Image) Tags() []string {
	return img.tags
}

// Details resolves the full metadata for one tag. It fetches the tag's
// manifest, extracts the config blob digest from it, fetches that blob, and
// merges both into an ImageDetails. Two sequential round trips, no caching.
//
// The tag is not checked against Tags(); an unknown tag is forwarded to the
// registry and whatever it answers (or fails with) is surfaced.
func (img *Image) Details(ctx context.Context, tag string) (*ImageDetails, error) {
	client, err := img.config.client()
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v2/%s/manifests/%s", img.config.url, img.name, tag)
	slogger.L(ctx).Debug("fetching manifest", "image", img.name, "tag", tag)

	var manifest manifestResponse
	if err := getJSON(ctx, client, url, manifestV2MediaType, &manifest, "manifest"); err != nil {
		return nil, err
	}

	blob, err := img.retrieveBlob(ctx, client, manifest.Config.Digest)
	if err != nil {
		return nil, err
	}

	details := &ImageDetails{
		Name:         img.name,
		Tag:          tag,
		User:         blob.Config.User,
		Env:          blob.Config.Env,
		Cmd:          blob.Config.Cmd,
		WorkingDir:   blob.Config.WorkingDir,
		Labels:       blob.Config.Labels,
		Architecture: blob.Architecture,
		Created:      blob.Created,
	}

	// Null or missing collections in the blob decode to nil; callers always
	// see empty collections instead.
	if details.Env == nil {
		details.Env = []string{}
	}
	if details.Cmd == nil {
		details.Cmd = []string{}
	}
	if details.Labels == nil {
		details.Labels = map[string]string{}
	}
	return details, nil
}

// retrieveBlob fetches the config blob the manifest points at.
func (img *Image) retrieveBlob(ctx context.Context, client *http.Client, digest string) (*configBlobResponse, error) {
	url := fmt.Sprintf("%s/v2/%s/blobs/%s", img.config.url, img.name, digest)
	slogger.L(ctx).Debug("fetching config blob", "image", img.name, "digest", digest)

	var blob configBlobResponse
	if err := getJSON(ctx, client, url, "", &blob, "config blob"); err != nil {
		return nil, err
	}
	return &blob, nil
}

// ImageDetails is the fully resolved metadata for one (repository, tag)
// pair. Env, Cmd, and Labels are never nil; User and WorkingDir are empty
// strings when the image config does not set them. Created is the creation
// timestamp exactly as the registry returned it (ISO 8601).
type ImageDetails struct {
	Name         string
	Tag          string
	User         string
	Env          []string
	Cmd          []string
	WorkingDir   string
	Labels       map[string]string
	Architecture string
	Created      string
}
