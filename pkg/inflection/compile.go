package inflection

import (
	"regexp"
	"strings"

	"inflectd/internal/titlecase"
)

// matcher is one case variant of an authored rule.
type matcher struct {
	re      *regexp.Regexp
	replace string
}

// apply replaces the first match in word. The unmatched prefix and suffix are
// kept verbatim.
func (m matcher) apply(word string) (string, bool) {
	loc := m.re.FindStringSubmatchIndex(word)
	if loc == nil {
		return word, false
	}
	out := make([]byte, 0, len(word)+len(m.replace))
	out = append(out, word[:loc[0]]...)
	out = m.re.ExpandString(out, m.replace, word, loc)
	out = append(out, word[loc[1]:]...)
	return string(out), true
}

type compiler struct {
	matchers []matcher
	err      error
}

func (c *compiler) add(kind, pattern, replace string) {
	if c.err != nil {
		return
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		c.err = &PatternError{Kind: kind, Pattern: pattern, Err: err}
		return
	}
	c.matchers = append(c.matchers, matcher{re: re, replace: replace})
}

func (c *compiler) uncountable(word string) {
	c.add("uncountable", "^(?i)("+word+")$", "${1}")
}

// irregular compiles from -> to anchored at the end of the word so compounds
// like "salesperson" keep their prefix.
func (c *compiler) irregular(from, to string) {
	c.add("irregular", strings.ToUpper(from)+"$", strings.ToUpper(to))
	c.add("irregular", titlecase.String(from)+"$", titlecase.String(to))
	c.add("irregular", from+"$", to)
}

func (c *compiler) regex(kind string, r RegexRule) {
	c.add(kind, strings.ToUpper(r.Find), strings.ToUpper(r.Replace))
	c.add(kind, r.Find, r.Replace)
	c.add(kind, "(?i)"+r.Find, r.Replace)
}

// compileDirection builds the full ordered matcher list for one direction:
// uncountables, irregulars in insertion order, then regex rules newest first.
func compileDirection(dir Direction, uncountables []string, irregulars []IrregularPair, rules []RegexRule) ([]matcher, error) {
	c := &compiler{matchers: make([]matcher, 0, len(uncountables)+3*(len(irregulars)+len(rules)))}
	for _, w := range uncountables {
		c.uncountable(w)
	}
	for _, p := range irregulars {
		if dir == ToPlural {
			c.irregular(p.Singular, p.Plural)
		} else {
			c.irregular(p.Plural, p.Singular)
		}
	}
	kind := dir.String()
	for i := len(rules) - 1; i >= 0; i-- {
		c.regex(kind, rules[i])
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.matchers, nil
}

// ValidateRegexRule reports whether every case variant of r compiles.
func ValidateRegexRule(kind string, r RegexRule) error {
	c := &compiler{}
	c.regex(kind, r)
	return c.err
}

// ValidateIrregular reports whether every case variant of p compiles in both directions.
func ValidateIrregular(p IrregularPair) error {
	c := &compiler{}
	c.irregular(p.Singular, p.Plural)
	c.irregular(p.Plural, p.Singular)
	return c.err
}

// ValidateUncountable reports whether word compiles as an uncountable matcher.
func ValidateUncountable(word string) error {
	c := &compiler{}
	c.uncountable(word)
	return c.err
}
