// Package envvars turns an env-vars template into configuration overrides.
//
// A template mirrors the layout of the configuration it overrides, but its
// leaves name process variables instead of holding values:
//
//	database:
//	  password: DB_PASSWORD
//
// Validate drops leaves that cannot be variable names and Compile replaces
// the remaining leaves with the variables' values. Both work in place.
package envvars

import (
	"os"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

const (
	reasonNotString  = "value is not a string"
	reasonWhitespace = "variable name contains whitespace"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Validate prunes every leaf of template that is not a usable variable name
// and logs one warning per pruned leaf. It returns the dotted paths of the
// pruned leaves. Mappings emptied by pruning are kept.
func Validate(template map[string]any, logger *zap.Logger) []string {
	if logger == nil {
		logger = zap.NewNop()
	}

	var pruned []string
	validate(template, "", logger, &pruned)
	return pruned
}

func validate(node map[string]any, prefix string, logger *zap.Logger, pruned *[]string) {
	for _, key := range sortedKeys(node) {
		path := joinPath(prefix, key)

		var reason string
		switch value := node[key].(type) {
		case map[string]any:
			validate(value, path, logger, pruned)
			continue
		case string:
			if !strings.ContainsFunc(value, unicode.IsSpace) {
				continue
			}
			reason = reasonWhitespace
		default:
			reason = reasonNotString
		}

		delete(node, key)
		*pruned = append(*pruned, path)
		logger.Warn("ignoring env-vars template entry",
			zap.String("path", path),
			zap.String("reason", reason),
		)
	}
}

// Compile replaces each leaf of a validated template with the value of the
// variable it names. Leaves naming unset variables are removed, and so are
// nested mappings left empty afterwards. The template root is never removed.
// A nil lookup falls back to os.LookupEnv.
func Compile(template map[string]any, lookup LookupFunc) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	compile(template, lookup)
}

func compile(node map[string]any, lookup LookupFunc) {
	for key, value := range node {
		switch v := value.(type) {
		case map[string]any:
			compile(v, lookup)
			if len(v) == 0 {
				delete(node, key)
			}
		case string:
			resolved, ok := lookup(v)
			if !ok {
				delete(node, key)
				continue
			}
			node[key] = resolved
		default:
			// Validate removes these; an unvalidated template loses them here.
			delete(node, key)
		}
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func sortedKeys(node map[string]any) []string {
	keys := make([]string, 0, len(node))
	for key := range node {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
