// Package inflection pluralizes and singularizes English nouns.
//
// Rules come in three layers: uncountable words, irregular singular/plural
// pairs, and ordered regular-expression rules. Each rule is compiled into
// UPPERCASE, Titlecase and original-case variants so that "person", "Person"
// and "PERSON" inflect to "people", "People" and "PEOPLE". Uncountables win
// over irregulars, which win over regex rules; regex rules added later win
// over earlier ones.
//
// The package-level functions operate on a process-wide default Engine.
// Programs that need isolated rule sets should construct their own with New.
package inflection

import "sync"

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the process-wide Engine used by the package-level functions.
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = New()
	})
	return defaultEngine
}

// Plural converts word to its plural form using the default engine.
func Plural(word string) string {
	return Default().Plural(word)
}

// Singular converts word to its singular form using the default engine.
func Singular(word string) string {
	return Default().Singular(word)
}

// AddPlural adds a plural rule to the default engine. It panics if find is
// not a valid regular expression.
func AddPlural(find, replace string) {
	must(Default().AddPlural(find, replace))
}

// AddSingular adds a singular rule to the default engine. It panics if find is
// not a valid regular expression.
func AddSingular(find, replace string) {
	must(Default().AddSingular(find, replace))
}

// AddIrregular adds an irregular pair to the default engine.
func AddIrregular(singular, plural string) {
	must(Default().AddIrregular(singular, plural))
}

// AddUncountable adds uncountable words to the default engine.
func AddUncountable(words ...string) {
	must(Default().AddUncountable(words...))
}

// GetPlural returns a copy of the default engine's plural rules.
func GetPlural() []RegexRule { return Default().PluralRules() }

// GetSingular returns a copy of the default engine's singular rules.
func GetSingular() []RegexRule { return Default().SingularRules() }

// GetIrregular returns a copy of the default engine's irregular pairs.
func GetIrregular() []IrregularPair { return Default().Irregulars() }

// GetUncountable returns a copy of the default engine's uncountable words.
func GetUncountable() []string { return Default().Uncountables() }

// SetPlural replaces the default engine's plural rules.
func SetPlural(rules []RegexRule) { must(Default().SetPluralRules(rules)) }

// SetSingular replaces the default engine's singular rules.
func SetSingular(rules []RegexRule) { must(Default().SetSingularRules(rules)) }

// SetIrregular replaces the default engine's irregular pairs.
func SetIrregular(pairs []IrregularPair) { must(Default().SetIrregulars(pairs)) }

// SetUncountable replaces the default engine's uncountable words.
func SetUncountable(words []string) { must(Default().SetUncountables(words)) }

func must(err error) {
	if err != nil {
		panic(err)
	}
}
