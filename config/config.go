// Package config decodes the optional YAML configuration file hvmllex
// accepts for knobs that don't belong on the command line: the flush
// threshold, extra named character references, and the default charset.
package config

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/hvml-lang/tokenizer/util"
)

// Options holds tokenizer-wide knobs that are legitimately config-file
// material: a flush threshold for the temp buffer, extra named
// character-reference entries beyond the built-in table, and the charset
// assumed when the input declares none.
type Options struct {
	FlushThreshold       int               `yaml:"flush_threshold"`
	ExtraNamedReferences map[string]string `yaml:"extra_named_references"`
	DefaultCharset       string            `yaml:"default_charset"`
}

// namedReferenceSink is the subset of *tokenizer.Tokenizer this package
// configures; kept as an interface so config doesn't import tokenizer and
// risk a cycle (tokenizer never imports config).
type namedReferenceSink interface {
	SetFlushThreshold(int)
	SetExtraNamedReferences(map[string]string)
	SetDefaultCharset(string)
}

// ApplyTo pushes the decoded options onto t.
func (o Options) ApplyTo(t namedReferenceSink) {
	t.SetFlushThreshold(o.FlushThreshold)
	t.SetExtraNamedReferences(o.ExtraNamedReferences)
	t.SetDefaultCharset(o.DefaultCharset)
}

// Load reads and decodes the YAML config file at path. An empty path
// returns the zero Options rather than an error, treating "no config file
// given" as a normal case.
func Load(path string) (Options, error) {
	if path == "" {
		return Options{}, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return Options{}, err
	}
	return ParseString(string(buf))
}

// ParseString decodes a YAML document already held in memory, split out
// from Load so callers embedding a config block (rather than a standalone
// file) can reuse the same decoding path.
func ParseString(yamlDoc string) (Options, error) {
	var o Options
	if yamlDoc == "" {
		return o, nil
	}
	if err := yaml.Unmarshal([]byte(yamlDoc), &o); err != nil {
		return Options{}, err
	}
	return o, nil
}

// SortedExtraReferenceNames returns the names in ExtraNamedReferences in
// sorted order, so --verbose output listing a config's overrides doesn't
// vary from run to run with Go's randomized map iteration.
func (o Options) SortedExtraReferenceNames() []string {
	return util.SortedKeys(o.ExtraNamedReferences)
}

// Merge layers override onto base, with any non-zero field in override
// taking precedence over the corresponding field in base.
func Merge(base, override Options) Options {
	result := base
	if override.FlushThreshold != 0 {
		result.FlushThreshold = override.FlushThreshold
	}
	if override.ExtraNamedReferences != nil {
		result.ExtraNamedReferences = override.ExtraNamedReferences
	}
	if override.DefaultCharset != "" {
		result.DefaultCharset = override.DefaultCharset
	}
	return result
}
