package conduct

import (
	"encoding/json"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Codec decodes raw definition bytes. JSON, YAML, and TOML are built in;
// implement Codec for anything else the definition source speaks.
type Codec interface {
	Unmarshal(data []byte, v any) error

	// ContentType names the format for signals and debugging.
	ContentType() string
}

// JSONCodec decodes JSON definitions. The Loader's default.
type JSONCodec struct{}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (JSONCodec) ContentType() string { return "application/json" }

// YAMLCodec decodes YAML definitions.
type YAMLCodec struct{}

func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

func (YAMLCodec) ContentType() string { return "application/x-yaml" }

// TOMLCodec decodes TOML definitions.
type TOMLCodec struct{}

func (TOMLCodec) Unmarshal(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}

func (TOMLCodec) ContentType() string { return "application/toml" }

var (
	_ Codec = JSONCodec{}
	_ Codec = YAMLCodec{}
	_ Codec = TOMLCodec{}
)
