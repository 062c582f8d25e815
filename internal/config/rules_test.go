package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inflectd/pkg/inflection"
)

func TestRulesApplyTo_Appends(t *testing.T) {
	engine := inflection.New()
	before := len(engine.PluralRules())

	rules := RulesConfig{
		Plural:      []inflection.RegexRule{{Find: "(octop)us$", Replace: "${1}odes"}},
		Irregular:   []inflection.IrregularPair{{Singular: "cactus", Plural: "cacti"}},
		Uncountable: []string{"aircraft"},
	}
	require.NoError(t, rules.ApplyTo(engine))

	assert.Len(t, engine.PluralRules(), before+1)
	assert.Equal(t, "octopodes", engine.Plural("octopus"))
	assert.Equal(t, "cacti", engine.Plural("cactus"))
	assert.Equal(t, "aircraft", engine.Plural("aircraft"))
	assert.Equal(t, "people", engine.Plural("person"))
}

func TestRulesApplyTo_Replaces(t *testing.T) {
	engine := inflection.New()
	singulars := engine.SingularRules()

	rules := RulesConfig{
		ReplaceDefaults: true,
		Irregular:       []inflection.IrregularPair{{Singular: "cactus", Plural: "cacti"}},
	}
	require.NoError(t, rules.ApplyTo(engine))

	assert.Equal(t, []inflection.IrregularPair{{Singular: "cactus", Plural: "cacti"}}, engine.Irregulars())
	assert.Equal(t, singulars, engine.SingularRules(), "unconfigured lists keep the built-ins")
	assert.Equal(t, "persons", engine.Plural("person"))
}

func TestRulesApplyTo_ReportsField(t *testing.T) {
	engine := inflection.New()
	rules := RulesConfig{Singular: []inflection.RegexRule{{Find: "(bad", Replace: ""}}}

	err := rules.ApplyTo(engine)
	require.Error(t, err)
	assert.ErrorIs(t, err, inflection.ErrInvalidPattern)
	assert.Contains(t, err.Error(), "rules.singular")
}
