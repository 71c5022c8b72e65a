package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey is the key of a raw HTTP response body.
	HTTPKey(namespace, key string) string

	// SummariesKey is the key of the year summaries of a source.
	SummariesKey(source string) string

	// DatasetKey is the key of one year's dataset from a source.
	DatasetKey(source string, year int) string

	// ArtifactKey is the key of one rendered chart.
	ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render settings that change an artifact.
type ArtifactKeyOpts struct {
	Chart  string  `json:"chart"`
	Format string  `json:"format"`
	Width  float64 `json:"width"`
	Popups bool    `json:"popups"`
	Brush  string  `json:"brush,omitempty"`
}

// DefaultKeyer produces readable prefixes with hashed payloads.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return fmt.Sprintf("http:%s:%s", namespace, key)
}

// SummariesKey hashes the source URI.
func (DefaultKeyer) SummariesKey(source string) string {
	return hashKey("summaries", source)
}

// DatasetKey hashes the source URI and year.
func (DefaultKeyer) DatasetKey(source string, year int) string {
	return hashKey("dataset", source, year)
}

// ArtifactKey hashes the dataset hash and render settings.
func (DefaultKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", datasetHash, opts)
}

var _ Keyer = DefaultKeyer{}

// hashKey returns "<prefix>:<sha256 of the JSON-encoded parts>".
func hashKey(prefix string, parts ...any) string {
	buf, _ := json.Marshal(parts)
	sum := sha256.Sum256(buf)
	return prefix + ":" + hex.EncodeToString(sum[:])
}
