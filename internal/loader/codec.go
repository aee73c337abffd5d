package loader

import (
	"encoding/json"

	"github.com/BurntSushi/toml"
)

func init() {
	builtinCodecs["json"] = decodeJSON
}

func decodeJSON(data []byte) (map[string]any, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return asMapping(doc)
}

// decodeTOML is not registered by default; see WithTOML.
func decodeTOML(data []byte) (map[string]any, error) {
	doc := map[string]any{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return asMapping(doc)
}
