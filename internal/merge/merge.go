// Package merge deep-merges configuration mappings.
package merge

import "github.com/knadh/koanf/maps"

// Merge returns a new mapping holding base overlaid with override.
// When both sides hold a mapping under the same key the two are merged
// recursively; any other override value replaces the base value, sequences
// included. Neither argument is modified and the result shares no mappings
// or sequences with them.
func Merge(base, override map[string]any) map[string]any {
	out := Clone(base)
	if out == nil {
		out = make(map[string]any, len(override))
	}
	if len(override) == 0 {
		return out
	}

	// maps.Merge keeps references into its first argument, hence the copy.
	maps.Merge(maps.Copy(override), out)
	return out
}

// Clone deep-copies a mapping. A nil mapping clones to nil.
func Clone(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	return maps.Copy(src)
}
