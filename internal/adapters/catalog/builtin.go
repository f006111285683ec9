package catalog

import (
	_ "embed"
	"fmt"
)

//go:embed builtin.yaml
var builtinYAML []byte

// BuiltinSource names the embedded catalog in Definition.Source
const BuiltinSource = "builtin"

// Builtin returns the embedded production catalog
func Builtin() (*Definition, error) {
	def, err := Parse(builtinYAML, FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("built-in catalog is invalid: %w", err)
	}
	def.Source = BuiltinSource
	return def, nil
}

// MustBuiltin is Builtin for callers that cannot recover
func MustBuiltin() *Definition {
	def, err := Builtin()
	if err != nil {
		panic(err)
	}
	return def
}
