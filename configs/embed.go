// Package configs provides the embedded configuration template for
// kbindex. The template is embedded at build time so `kbindex init`
// works in every distribution, source builds included.
package configs

import _ "embed"

// ConfigTemplate is written by `kbindex init` as kbindex.yaml in the
// working directory. Every field mirrors a built-in default; edit and
// rebuild to change what init produces.
//
//go:embed kbindex.yaml
var ConfigTemplate string
