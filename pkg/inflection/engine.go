package inflection

import (
	"log/slog"
	"sync"
	"time"
)

// Observer receives engine events. Implementations must be safe for
// concurrent use.
type Observer interface {
	ObserveCompile(dir Direction, matchers int, took time.Duration)
	ObserveLookup(dir Direction, matched bool)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for recompilation events.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObserver attaches an Observer, typically a metrics recorder.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// Engine owns the four rule stores and the two compiled caches derived from
// them. All methods are safe for concurrent use.
type Engine struct {
	// writeMu serialises mutations so that each one compiles against a
	// stable view of the stores it does not touch.
	writeMu sync.Mutex

	plurals      *store[RegexRule]
	singulars    *store[RegexRule]
	irregulars   *store[IrregularPair]
	uncountables *store[string]

	pluralCache   cache
	singularCache cache

	logger   *slog.Logger
	observer Observer
}

// New returns an Engine seeded with the built-in English rules.
func New(opts ...Option) *Engine {
	e, err := newEngine(defaultPlurals(), defaultSingulars(), defaultIrregulars(), defaultUncountables(), opts)
	if err != nil {
		panic(err)
	}
	return e
}

// NewEmpty returns an Engine with no rules; every lookup is the identity until
// rules are added.
func NewEmpty(opts ...Option) *Engine {
	e, _ := newEngine(nil, nil, nil, nil, opts)
	return e
}

func newEngine(plurals, singulars []RegexRule, irregulars []IrregularPair, uncountables []string, opts []Option) (*Engine, error) {
	e := &Engine{
		plurals:      newStore(plurals),
		singulars:    newStore(singulars),
		irregulars:   newStore(irregulars),
		uncountables: newStore(uncountables),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	if err := e.commit(pending{}, ToPlural, ToSingular); err != nil {
		return nil, err
	}
	return e, nil
}

// Plural converts word to its plural form.
func (e *Engine) Plural(word string) string {
	return e.Apply(word, ToPlural)
}

// Singular converts word to its singular form.
func (e *Engine) Singular(word string) string {
	return e.Apply(word, ToSingular)
}

// Apply runs the first matching compiled rule for dir against word. A word no
// rule matches, or a dir other than ToPlural or ToSingular, is returned
// unchanged.
func (e *Engine) Apply(word string, dir Direction) (result string) {
	if !dir.Valid() {
		return word
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("inflection lookup failed",
				slog.String("word", word),
				slog.String("direction", dir.String()),
				slog.Any("panic", r),
			)
			result = word
		}
	}()

	for _, m := range e.cacheFor(dir).load() {
		if out, ok := m.apply(word); ok {
			e.observeLookup(dir, true)
			return out
		}
	}
	e.observeLookup(dir, false)
	return word
}

// AddPlural appends a plural rule. Later rules are tried before earlier ones.
func (e *Engine) AddPlural(find, replace string) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	rules := append(e.plurals.snapshot(), RegexRule{Find: find, Replace: replace})
	return e.commit(pending{plurals: rules}, ToPlural)
}

// AddSingular appends a singular rule. Later rules are tried before earlier ones.
func (e *Engine) AddSingular(find, replace string) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	rules := append(e.singulars.snapshot(), RegexRule{Find: find, Replace: replace})
	return e.commit(pending{singulars: rules}, ToSingular)
}

// AddIrregular appends an irregular pair used by both directions.
func (e *Engine) AddIrregular(singular, plural string) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	pairs := append(e.irregulars.snapshot(), IrregularPair{Singular: singular, Plural: plural})
	return e.commit(pending{irregulars: pairs}, ToPlural, ToSingular)
}

// AddUncountable appends words that inflect to themselves.
func (e *Engine) AddUncountable(words ...string) error {
	if len(words) == 0 {
		return nil
	}
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	all := append(e.uncountables.snapshot(), words...)
	return e.commit(pending{uncountables: all}, ToPlural, ToSingular)
}

// SetPluralRules replaces every plural rule.
func (e *Engine) SetPluralRules(rules []RegexRule) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	return e.commit(pending{plurals: cloneOrEmpty(rules)}, ToPlural, ToSingular)
}

// SetSingularRules replaces every singular rule.
func (e *Engine) SetSingularRules(rules []RegexRule) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	return e.commit(pending{singulars: cloneOrEmpty(rules)}, ToPlural, ToSingular)
}

// SetIrregulars replaces every irregular pair.
func (e *Engine) SetIrregulars(pairs []IrregularPair) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	return e.commit(pending{irregulars: cloneOrEmpty(pairs)}, ToPlural, ToSingular)
}

// SetUncountables replaces every uncountable word.
func (e *Engine) SetUncountables(words []string) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	return e.commit(pending{uncountables: cloneOrEmpty(words)}, ToPlural, ToSingular)
}

// PluralRules returns a copy of the plural rules in insertion order.
func (e *Engine) PluralRules() []RegexRule {
	return e.plurals.snapshot()
}

// SingularRules returns a copy of the singular rules in insertion order.
func (e *Engine) SingularRules() []RegexRule {
	return e.singulars.snapshot()
}

// Irregulars returns a copy of the irregular pairs in insertion order.
func (e *Engine) Irregulars() []IrregularPair {
	return e.irregulars.snapshot()
}

// Uncountables returns a copy of the uncountable words in insertion order.
func (e *Engine) Uncountables() []string {
	return e.uncountables.snapshot()
}

// MatcherCount returns how many compiled matchers dir currently tries.
func (e *Engine) MatcherCount(dir Direction) int {
	return len(e.cacheFor(dir).load())
}

// pending carries replacement store contents; nil means unchanged.
type pending struct {
	plurals      []RegexRule
	singulars    []RegexRule
	irregulars   []IrregularPair
	uncountables []string
}

// commit compiles dirs from the prospective store contents and, only if that
// succeeds, publishes the new stores and caches. Callers hold writeMu.
func (e *Engine) commit(p pending, dirs ...Direction) error {
	uncountables := orSnapshot(p.uncountables, e.uncountables)
	irregulars := orSnapshot(p.irregulars, e.irregulars)

	compiled := make(map[Direction][]matcher, len(dirs))
	took := make(map[Direction]time.Duration, len(dirs))
	for _, dir := range dirs {
		start := time.Now()
		var rules []RegexRule
		if dir == ToPlural {
			rules = orSnapshot(p.plurals, e.plurals)
		} else {
			rules = orSnapshot(p.singulars, e.singulars)
		}
		matchers, err := compileDirection(dir, uncountables, irregulars, rules)
		if err != nil {
			e.logger.Error("inflection rule compilation failed",
				slog.String("direction", dir.String()),
				slog.String("error", err.Error()),
			)
			return err
		}
		compiled[dir] = matchers
		took[dir] = time.Since(start)
	}

	// Store locks first, then cache locks; never the reverse.
	unlock := e.assignLocked(p)
	for _, dir := range dirs {
		e.cacheFor(dir).swap(compiled[dir])
	}
	unlock()

	for _, dir := range dirs {
		e.logger.Debug("inflection rules compiled",
			slog.String("direction", dir.String()),
			slog.Int("matchers", len(compiled[dir])),
			slog.Duration("duration", took[dir]),
		)
		if e.observer != nil {
			e.observer.ObserveCompile(dir, len(compiled[dir]), took[dir])
		}
	}
	return nil
}

// assignLocked write-locks every store p replaces, assigns the new contents
// and returns the matching unlock.
func (e *Engine) assignLocked(p pending) func() {
	var unlocks []func()
	if p.uncountables != nil {
		e.uncountables.mu.Lock()
		e.uncountables.items = p.uncountables
		unlocks = append(unlocks, e.uncountables.mu.Unlock)
	}
	if p.irregulars != nil {
		e.irregulars.mu.Lock()
		e.irregulars.items = p.irregulars
		unlocks = append(unlocks, e.irregulars.mu.Unlock)
	}
	if p.plurals != nil {
		e.plurals.mu.Lock()
		e.plurals.items = p.plurals
		unlocks = append(unlocks, e.plurals.mu.Unlock)
	}
	if p.singulars != nil {
		e.singulars.mu.Lock()
		e.singulars.items = p.singulars
		unlocks = append(unlocks, e.singulars.mu.Unlock)
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}

func (e *Engine) cacheFor(dir Direction) *cache {
	if dir == ToSingular {
		return &e.singularCache
	}
	return &e.pluralCache
}

func (e *Engine) observeLookup(dir Direction, matched bool) {
	if e.observer != nil {
		e.observer.ObserveLookup(dir, matched)
	}
}

func orSnapshot[T any](items []T, s *store[T]) []T {
	if items != nil {
		return items
	}
	return s.snapshot()
}

func cloneOrEmpty[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
