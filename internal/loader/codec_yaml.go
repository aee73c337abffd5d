//go:build !appcfg_noyaml

package loader

import "gopkg.in/yaml.v3"

func init() {
	builtinCodecs["yml"] = decodeYAML
	builtinCodecs["yaml"] = decodeYAML
}

func decodeYAML(data []byte) (map[string]any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return asMapping(doc)
}
