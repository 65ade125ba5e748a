package mapdata

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaSource string

var schema = jsonschema.MustCompileString("mapdata.schema.json", schemaSource)

// Schema returns the JSON Schema MapData documents are checked against.
func Schema() string {
	return schemaSource
}

// MarshalJSON encodes md as indented JSON. A nil map encodes to no output.
func MarshalJSON(md *MapData) ([]byte, error) {
	if md == nil {
		return nil, nil
	}
	return json.MarshalIndent(md, "", "  ")
}

// UnmarshalJSON decodes and checks a MapData document. Blank input yields
// ErrEmpty; malformed or schema-violating input yields ErrInvalid.
func UnmarshalJSON(data []byte) (*MapData, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	var md MapData
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := md.Validate(); err != nil {
		return nil, err
	}
	return &md, nil
}
