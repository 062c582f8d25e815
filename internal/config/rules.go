package config

import (
	"fmt"

	"inflectd/pkg/inflection"
)

// Empty reports whether no rules are configured.
func (r *RulesConfig) Empty() bool {
	return len(r.Plural) == 0 && len(r.Singular) == 0 && len(r.Irregular) == 0 && len(r.Uncountable) == 0
}

// ApplyTo loads the configured rules into engine. With ReplaceDefaults each
// non-empty list replaces the matching built-in list; otherwise entries are
// appended after the built-ins.
func (r *RulesConfig) ApplyTo(engine *inflection.Engine) error {
	if r.ReplaceDefaults {
		return r.replace(engine)
	}
	for _, rule := range r.Plural {
		if err := engine.AddPlural(rule.Find, rule.Replace); err != nil {
			return fmt.Errorf("rules.plural: %w", err)
		}
	}
	for _, rule := range r.Singular {
		if err := engine.AddSingular(rule.Find, rule.Replace); err != nil {
			return fmt.Errorf("rules.singular: %w", err)
		}
	}
	for _, pair := range r.Irregular {
		if err := engine.AddIrregular(pair.Singular, pair.Plural); err != nil {
			return fmt.Errorf("rules.irregular: %w", err)
		}
	}
	if err := engine.AddUncountable(r.Uncountable...); err != nil {
		return fmt.Errorf("rules.uncountable: %w", err)
	}
	return nil
}

func (r *RulesConfig) replace(engine *inflection.Engine) error {
	if len(r.Plural) > 0 {
		if err := engine.SetPluralRules(r.Plural); err != nil {
			return fmt.Errorf("rules.plural: %w", err)
		}
	}
	if len(r.Singular) > 0 {
		if err := engine.SetSingularRules(r.Singular); err != nil {
			return fmt.Errorf("rules.singular: %w", err)
		}
	}
	if len(r.Irregular) > 0 {
		if err := engine.SetIrregulars(r.Irregular); err != nil {
			return fmt.Errorf("rules.irregular: %w", err)
		}
	}
	if len(r.Uncountable) > 0 {
		if err := engine.SetUncountables(r.Uncountable); err != nil {
			return fmt.Errorf("rules.uncountable: %w", err)
		}
	}
	return nil
}
