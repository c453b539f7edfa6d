package static

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Rule maps a host or host/path pattern to a license.
// An empty License records that the resource is known to be unlicensed.
type Rule struct {
	Pattern string `yaml:"pattern" toml:"pattern" json:"pattern"`
	License string `yaml:"license" toml:"license" json:"license"`
}

type ruleFile struct {
	Rules []Rule `yaml:"rules" toml:"rules" json:"rules"`
}

// LoadRules reads a rules file. The format follows the extension:
// .yaml/.yml, .toml or .json.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	rules, err := ParseRules(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// ParseRules decodes and validates rules in the given format.
func ParseRules(data []byte, format string) ([]Rule, error) {
	var file ruleFile
	var err error

	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &file)
	case "toml":
		err = toml.Unmarshal(data, &file)
	case "json":
		err = sonic.Unmarshal(data, &file)
	default:
		return nil, fmt.Errorf("unsupported rules format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	if err := validate(file.Rules); err != nil {
		return nil, err
	}
	return file.Rules, nil
}

func validate(rules []Rule) error {
	for i := range rules {
		rules[i].Pattern = strings.ToLower(strings.TrimSpace(rules[i].Pattern))
		rules[i].License = strings.TrimSpace(rules[i].License)
		if rules[i].Pattern == "" {
			return fmt.Errorf("rule %d: pattern is required", i)
		}
		if !doublestar.ValidatePattern(rules[i].Pattern) {
			return fmt.Errorf("rule %d: invalid pattern %q", i, rules[i].Pattern)
		}
	}
	return nil
}
