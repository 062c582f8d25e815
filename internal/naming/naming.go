package naming

import (
	"log/slog"

	"inflectd/pkg/inflection"
)

// Namer resolves plural and singular forms, consulting the configured
// overrides before the inflection engine.
type Namer struct {
	config    Config
	logger    *slog.Logger
	inflector inflection.Inflector
}

// New creates a Namer backed by inflector. A nil inflector uses the
// package-level default engine.
func New(cfg Config, inflector inflection.Inflector, logger *slog.Logger) *Namer {
	if logger == nil {
		logger = slog.Default()
	}
	if inflector == nil {
		inflector = inflection.Default()
	}
	if cfg.PluralOverrides == nil {
		cfg.PluralOverrides = make(map[string]string)
	}
	if cfg.SingularOverrides == nil {
		cfg.SingularOverrides = make(map[string]string)
	}
	return &Namer{
		config:    cfg,
		logger:    logger,
		inflector: inflector,
	}
}

// Default returns a Namer with default configuration
func Default() *Namer {
	return New(DefaultConfig(), nil, nil)
}

// Pluralize converts a singular word to its plural form.
// Checks custom overrides first, then falls back to the inflection engine.
func (n *Namer) Pluralize(word string) string {
	if override, ok := n.config.PluralOverrides[word]; ok {
		n.logger.Debug("plural override applied",
			slog.String("word", word),
			slog.String("result", override),
		)
		return override
	}
	return n.inflector.Plural(word)
}

// Singularize converts a plural word to its singular form.
// Checks custom overrides first, then falls back to the inflection engine.
func (n *Namer) Singularize(word string) string {
	if override, ok := n.config.SingularOverrides[word]; ok {
		n.logger.Debug("singular override applied",
			slog.String("word", word),
			slog.String("result", override),
		)
		return override
	}
	return n.inflector.Singular(word)
}

// Inflect converts word in the given direction.
func (n *Namer) Inflect(word string, dir inflection.Direction) string {
	if dir == inflection.ToSingular {
		return n.Singularize(word)
	}
	return n.Pluralize(word)
}

// Overrides returns copies of the configured override maps.
func (n *Namer) Overrides() (plural, singular map[string]string) {
	return copyMap(n.config.PluralOverrides), copyMap(n.config.SingularOverrides)
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
