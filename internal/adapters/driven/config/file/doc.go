// Package file provides a TOML-backed configuration store.
//
// Configuration lives in ~/.inkwell/config.toml by default. Nested
// tables flatten to dot-notation keys, so [llm] provider = "anthropic"
// reads as "llm.provider".
package file
