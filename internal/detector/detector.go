package detector

import (
	"log"
	"strings"
	"unicode/utf8"

	"typoguard/pkg/options"
)

// Detector scans text against an ordered rule list. It is immutable once
// built and safe for concurrent use.
type Detector struct {
	rules  []Rule
	radius int
}

var defaultDetector = New()

// New builds a detector over the built-in catalog, or the catalog given by
// options.WithCatalog, followed by any extra rules. Rules with an empty
// original or an unknown category are dropped.
func New(opts ...options.Options) *Detector {
	conf := options.Apply(opts...)
	d := &Detector{radius: conf.ContextRadius}
	if conf.Catalog != nil {
		d.rules = appendSpecs(d.rules, conf.Catalog)
	} else {
		d.rules = Catalog()
	}
	d.rules = appendSpecs(d.rules, conf.ExtraRules)
	return d
}

func appendSpecs(dst []Rule, specs []options.RuleSpec) []Rule {
	for _, s := range specs {
		if s.Original == "" {
			log.Printf("detector: skipping rule with empty original (corrected %q)", s.Corrected)
			continue
		}
		cat, err := ParseCategory(s.Category)
		if err != nil {
			log.Printf("detector: skipping rule %q: %v", s.Original, err)
			continue
		}
		dst = append(dst, Rule{Original: s.Original, Corrected: s.Corrected, Category: cat})
	}
	return dst
}

// Spec converts a rule into the form accepted by the options package.
func (r Rule) Spec() options.RuleSpec {
	return options.RuleSpec{Original: r.Original, Corrected: r.Corrected, Category: r.Category.Name()}
}

// Specs converts rules for options.WithExtraRules / options.WithCatalog.
func Specs(rules []Rule) []options.RuleSpec {
	out := make([]options.RuleSpec, len(rules))
	for i, r := range rules {
		out[i] = r.Spec()
	}
	return out
}

// Rules returns a copy of the rules in scan order.
func (d *Detector) Rules() []Rule {
	out := make([]Rule, len(d.rules))
	copy(out, d.rules)
	return out
}

// Scan reports every occurrence of every rule's original phrase. Findings are
// grouped by rule in rule order, and ascend by position within a rule.
// After a hit the search resumes one character later, so overlapping
// occurrences are all reported. The result is never nil.
func (d *Detector) Scan(text string) []Finding {
	findings := make([]Finding, 0)
	idx := charIndex{text: text}
	for _, r := range d.rules {
		if r.Original == "" {
			continue
		}
		for from := 0; from < len(text); {
			i := strings.Index(text[from:], r.Original)
			if i < 0 {
				break
			}
			p := from + i
			end := p + len(r.Original)
			findings = append(findings, Finding{
				Category:  r.Category,
				Original:  r.Original,
				Corrected: r.Corrected,
				Context:   text[backChars(text, p, d.radius):forwardChars(text, end, d.radius)],
				Position:  idx.at(p),
			})
			_, size := utf8.DecodeRuneInString(text[p:])
			from = p + size
		}
	}
	return findings
}

// DetectTypos scans text with the built-in catalog.
func DetectTypos(text string) []Finding {
	return defaultDetector.Scan(text)
}
