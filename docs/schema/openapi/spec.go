// Package openapi embeds the hackledger HTTP API description for runtime
// distribution.
package openapi

import _ "embed"

// APISpec contains the hackledger OpenAPI YAML.
//
//go:embed hackledger.yaml
var APISpec []byte

// Spec returns a defensive copy of the embedded OpenAPI YAML.
func Spec() []byte {
	return append([]byte(nil), APISpec...)
}
