package config

import (
	"os"

	"github.com/cockroachdb/errors"
)

// HTTPVersion selects the transport protocol for the remote client.
type HTTPVersion string

const (
	HTTPAuto HTTPVersion = "auto"
	HTTP1    HTTPVersion = "http1"
	HTTP2    HTTPVersion = "http2"
)

// ParseHTTPVersion validates a protocol selection flag value.
func ParseHTTPVersion(s string) (HTTPVersion, error) {
	switch HTTPVersion(s) {
	case HTTPAuto, HTTP1, HTTP2:
		return HTTPVersion(s), nil
	case "http3":
		return "", errors.New("http3 transport is not supported")
	default:
		return "", errors.Newf("unknown http version %q (want auto, http1 or http2)", s)
	}
}

// EmitMode selects how the aggregated metadata map is serialized.
type EmitMode int

const (
	// EmitOff disables metadata emission.
	EmitOff EmitMode = iota
	// EmitCompact writes the map as compact JSON.
	EmitCompact
	// EmitPretty writes the map as indented JSON.
	EmitPretty
)

// StderrSink is the reserved metadata path that redirects emission to the
// diagnostic stream instead of a file.
const StderrSink = "-"

// Config carries one run's validated configuration. The core consumes it
// opaquely; all validation happens once, before any network activity.
type Config struct {
	OutputDir string
	Tags      []string

	// Credential pair: both set or both empty.
	APIKey string
	UserID string

	EmitMode EmitMode
	// EmitPath is relative to OutputDir unless it is StderrSink.
	EmitPath string

	HTTPVersion HTTPVersion
	Insecure    bool
	NoKeepAlive bool
}

// Validate checks the configuration invariants. Any error here is a
// configuration error: fatal, reported before any network activity.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory is required")
	}
	if info, err := os.Stat(c.OutputDir); err == nil && !info.IsDir() {
		return errors.Newf("not a directory: %s", c.OutputDir)
	}
	if (c.APIKey == "") != (c.UserID == "") {
		return errors.New("api_key and user_id must be specified together")
	}
	if c.HTTPVersion == "" {
		c.HTTPVersion = HTTPAuto
	}
	if c.EmitMode != EmitOff && c.EmitPath == "" {
		c.EmitPath = "posts.json"
	}
	return nil
}
