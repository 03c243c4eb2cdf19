// Package categorize suggests a spending category for an SMS transaction
// from merchant names and keywords.
package categorize

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/NgigiN/smswallet/internal/smsparse"
	"gopkg.in/yaml.v3"
)

var _ smsparse.CategorySuggester = (*KeywordSuggester)(nil)

// Rule assigns Category when the extracted merchant or the message text
// names one of Merchants, or the text contains one of Keywords.
type Rule struct {
	Category  string   `yaml:"category"`
	Merchants []string `yaml:"merchants"`
	Keywords  []string `yaml:"keywords"`
}

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

func DefaultRules() []Rule {
	return []Rule{
		{Category: "food", Merchants: []string{"swiggy", "zomato", "dominos", "mcdonalds", "starbucks"}, Keywords: []string{"restaurant", "cafe", "food"}},
		{Category: "groceries", Merchants: []string{"bigbasket", "big bazaar", "dmart", "blinkit", "zepto", "reliance fresh"}, Keywords: []string{"grocery", "supermarket"}},
		{Category: "shopping", Merchants: []string{"amazon", "flipkart", "myntra", "ajio", "nykaa"}, Keywords: []string{"shopping"}},
		{Category: "travel", Merchants: []string{"uber", "ola", "rapido", "irctc", "makemytrip", "indigo"}, Keywords: []string{"fastag", "metro", "railway"}},
		{Category: "fuel", Merchants: []string{"hpcl", "iocl", "bpcl", "indian oil", "shell"}, Keywords: []string{"petrol", "fuel", "diesel"}},
		{Category: "bills", Merchants: []string{"airtel", "jio", "vodafone", "bescom", "tata power"}, Keywords: []string{"electricity", "recharge", "broadband", "bill"}},
		{Category: "emi", Keywords: []string{"emi", "loan"}},
		{Category: "salary", Keywords: []string{"salary", "payroll"}},
		{Category: "transfers", Keywords: []string{"neft", "imps", "rtgs", "upi", "transfer"}},
	}
}

// LoadRules reads a YAML rules file of the form:
//
//	rules:
//	  - category: food
//	    merchants: [swiggy, zomato]
//	    keywords: [restaurant]
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category rules: %w", err)
	}
	return ParseRules(data)
}

func ParseRules(data []byte) ([]Rule, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse category rules: %w", err)
	}
	for i, r := range f.Rules {
		if strings.TrimSpace(r.Category) == "" {
			return nil, fmt.Errorf("rule %d has no category", i+1)
		}
		if len(r.Merchants) == 0 && len(r.Keywords) == 0 {
			return nil, fmt.Errorf("rule %d (%s) has no merchants or keywords", i+1, r.Category)
		}
	}
	return f.Rules, nil
}

type KeywordSuggester struct {
	rules []compiledRule
}

type compiledRule struct {
	category  string
	merchants []*regexp.Regexp
	keywords  []*regexp.Regexp
}

// NewKeywordSuggester keeps rule order. Names match as whole words,
// case-insensitively, and merchant matches are tried across all rules
// before any text match.
func NewKeywordSuggester(rules []Rule) *KeywordSuggester {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		compiled = append(compiled, compiledRule{
			category:  strings.ToLower(strings.TrimSpace(r.Category)),
			merchants: wordPatterns(r.Merchants),
			keywords:  wordPatterns(r.Keywords),
		})
	}
	return &KeywordSuggester{rules: compiled}
}

func wordPatterns(words []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
		}
	}
	return out
}

func anyMatch(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// Categories lists every category the rules can produce, in rule order.
func (s *KeywordSuggester) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range s.rules {
		if !seen[r.category] {
			seen[r.category] = true
			out = append(out, r.category)
		}
	}
	return out
}

func (s *KeywordSuggester) SuggestCategory(ctx context.Context, text, merchant string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if merchant != "" {
		for _, r := range s.rules {
			if anyMatch(r.merchants, merchant) {
				return r.category, nil
			}
		}
	}
	for _, r := range s.rules {
		if anyMatch(r.merchants, text) || anyMatch(r.keywords, text) {
			return r.category, nil
		}
	}
	return "", nil
}
