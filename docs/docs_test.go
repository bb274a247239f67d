package docs

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refPattern = regexp.MustCompile(`"\$ref":\s*"#/definitions/([^"]+)"`)

// The committed spec must render to valid JSON with resolvable refs
// and non-empty schemas, or the served docs carry no model shapes.
func TestSpecDefinitions(t *testing.T) {
	doc := SwaggerInfo.ReadDoc()

	var spec struct {
		Definitions map[string]struct {
			Type       string                     `json:"type"`
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &spec))
	require.NotEmpty(t, spec.Definitions)

	for name, def := range spec.Definitions {
		assert.NotEmpty(t, def.Properties, "definition %s has no schema", name)
	}

	for _, m := range refPattern.FindAllStringSubmatch(doc, -1) {
		_, ok := spec.Definitions[m[1]]
		assert.True(t, ok, "unresolved ref #/definitions/%s", m[1])
	}
}
