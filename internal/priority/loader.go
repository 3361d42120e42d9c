package priority

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ruleFile mirrors the on-disk YAML layout of a rule set.
type ruleFile struct {
	KeywordRules []KeywordRule `yaml:"keyword_rules"`
	ComboRules   []ComboRule   `yaml:"combo_rules"`
	TagWeights   []TagWeight   `yaml:"tag_weights"`
	GeneralRules []KeywordRule `yaml:"general_rules"`
}

// LoadRules reads a YAML rule file. An empty path returns DefaultRules.
func LoadRules(path string) (*RuleSet, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes a YAML rule document and validates it. Keywords, combo
// terms and tag labels are lower-cased since matching runs on lower-cased text.
func ParseRules(data []byte) (*RuleSet, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rules yaml: %w", err)
	}

	rs := &RuleSet{
		Keywords: lowerKeywordRules(file.KeywordRules),
		General:  lowerKeywordRules(file.GeneralRules),
		Tags:     make(map[string]int, len(file.TagWeights)),
	}
	for _, combo := range file.ComboRules {
		terms := make([][]string, 0, len(combo.AllOf))
		for _, term := range combo.AllOf {
			terms = append(terms, lowerAll(term))
		}
		rs.Combos = append(rs.Combos, ComboRule{AllOf: terms, Weight: combo.Weight, Reason: combo.Reason})
	}
	for _, tw := range file.TagWeights {
		rs.Tags[strings.ToLower(tw.Tag)] = tw.Weight
	}

	if err := rs.Validate(); err != nil {
		return nil, fmt.Errorf("validate rules: %w", err)
	}
	return rs, nil
}

func lowerKeywordRules(rules []KeywordRule) []KeywordRule {
	out := make([]KeywordRule, 0, len(rules))
	for _, rule := range rules {
		out = append(out, KeywordRule{Keywords: lowerAll(rule.Keywords), Weight: rule.Weight, Reason: rule.Reason})
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
