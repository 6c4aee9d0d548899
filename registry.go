package aduana

// Wire shapes for the four registry endpoints this client consumes. The
// catalog, tag list, and manifest bodies use the registry API's camelCase
// field names, while the config object nested inside a config blob uses the
// image spec's PascalCase names. The asymmetry is part of the wire format.

type catalogResponse struct {
	Repositories []string `json:"repositories"`
}

type tagListResponse struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

type manifestResponse struct {
	Config manifestConfig `json:"config"`
}

type manifestConfig struct {
	Digest string `json:"digest"`
}

type configBlobResponse struct {
	Architecture string        `json:"architecture"`
	Created      string        `json:"created"`
	Config       configDetails `json:"config"`
}

// configDetails is the runtime configuration embedded in a config blob. Any
// of these fields may be absent or explicitly null in the source JSON; both
// decode to the Go zero value and are normalized to empty collections when
// merged into ImageDetails.
type configDetails struct {
	User       string            `json:"User"`
	Env        []string          `json:"Env"`
	Cmd        []string          `json:"Cmd"`
	WorkingDir string            `json:"WorkingDir"`
	Labels     map[string]string `json:"Labels"`
}
