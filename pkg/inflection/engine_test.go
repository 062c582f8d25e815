package inflection

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"inflectd/internal/titlecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var inflections = map[string]string{
	"star":        "stars",
	"bus":         "buses",
	"fish":        "fish",
	"mouse":       "mice",
	"query":       "queries",
	"ability":     "abilities",
	"agency":      "agencies",
	"movie":       "movies",
	"archive":     "archives",
	"index":       "indices",
	"wife":        "wives",
	"safe":        "saves",
	"half":        "halves",
	"move":        "moves",
	"salesperson": "salespeople",
	"person":      "people",
	"spokesman":   "spokesmen",
	"man":         "men",
	"woman":       "women",
	"basis":       "bases",
	"diagnosis":   "diagnoses",
	"diagnosis_a": "diagnosis_as",
	"datum":       "data",
	"medium":      "media",
	"stadium":     "stadia",
	"analysis":    "analyses",
	"node_child":  "node_children",
	"child":       "children",
	"experience":  "experiences",
	"day":         "days",
	"comment":     "comments",
	"foobar":      "foobars",
	"newsletter":  "newsletters",
	"old_news":    "old_news",
	"news":        "news",
	"series":      "series",
	"species":     "species",
	"quiz":        "quizzes",
	"perspective": "perspectives",
	"ox":          "oxen",
	"photo":       "photos",
	"buffalo":     "buffaloes",
	"tomato":      "tomatoes",
	"dwarf":       "dwarves",
	"elf":         "elves",
	"information": "information",
	"equipment":   "equipment",
	"criterion":   "criteria",
	"foot":        "feet",
	"goose":       "geese",
	"moose":       "moose",
	"tooth":       "teeth",
	"milk":        "milk",
	"salt":        "salt",
	"time":        "time",
	"water":       "water",
	"paper":       "paper",
	"music":       "music",
	"help":        "help",
	"luck":        "luck",
	"oil":         "oil",
	"progress":    "progress",
	"rain":        "rain",
	"research":    "research",
	"shopping":    "shopping",
	"software":    "software",
	"traffic":     "traffic",
	"zombie":      "zombies",
	"campus":      "campuses",
	"harddrive":   "harddrives",
	"drive":       "drives",
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := New()
	require.NoError(t, e.AddIrregular("criterion", "criteria"))
	return e
}

func TestPlural(t *testing.T) {
	e := newTestEngine(t)

	for singular, plural := range inflections {
		t.Run(singular, func(t *testing.T) {
			assert.Equal(t, strings.ToUpper(plural), e.Plural(strings.ToUpper(singular)))
			assert.Equal(t, titlecase.String(plural), e.Plural(titlecase.String(singular)))
			assert.Equal(t, plural, e.Plural(singular))
		})
	}
}

func TestSingular(t *testing.T) {
	e := newTestEngine(t)

	for singular, plural := range inflections {
		t.Run(plural, func(t *testing.T) {
			assert.Equal(t, strings.ToUpper(singular), e.Singular(strings.ToUpper(plural)))
			assert.Equal(t, titlecase.String(singular), e.Singular(titlecase.String(plural)))
			assert.Equal(t, singular, e.Singular(plural))
		})
	}
}

func TestLiteralScenarios(t *testing.T) {
	e := New()

	assert.Equal(t, "people", e.Plural("person"))
	assert.Equal(t, "People", e.Plural("Person"))
	assert.Equal(t, "PEOPLE", e.Plural("PERSON"))
	assert.Equal(t, "buses", e.Plural("bus"))
	assert.Equal(t, "BUSES", e.Plural("BUS"))
	assert.Equal(t, "Buses", e.Plural("Bus"))
	assert.Equal(t, "FancyPeople", e.Plural("FancyPerson"))
	assert.Equal(t, "mouse", e.Singular("mice"))
	assert.Equal(t, "quizzes", e.Plural("quiz"))
	assert.Equal(t, "FancyPerson", e.Singular("FancyPeople"))
	assert.Equal(t, "person", e.Singular("people"))
	assert.Equal(t, "PERSON", e.Singular("PEOPLE"))
	assert.Equal(t, "bus", e.Singular("buses"))
	assert.Equal(t, "Bus", e.Singular("Buses"))
}

func TestRoundTripRegulars(t *testing.T) {
	e := New()

	for _, word := range []string{"day", "star", "comment", "query", "box", "church", "wish", "photo", "wife"} {
		t.Run(word, func(t *testing.T) {
			assert.Equal(t, word, e.Singular(e.Plural(word)))
		})
	}
}

func TestUncountableFixpoint(t *testing.T) {
	e := New()

	for _, word := range e.Uncountables() {
		for _, variant := range []string{word, strings.ToUpper(word), titlecase.String(word)} {
			assert.Equal(t, variant, e.Plural(variant), "plural(%q)", variant)
			assert.Equal(t, variant, e.Singular(variant), "singular(%q)", variant)
		}
	}
	assert.Equal(t, "Fish", e.Plural("Fish"))
	assert.Equal(t, "fIsH", e.Plural("fIsH"))
}

func TestIrregularCasePreservation(t *testing.T) {
	e := New()

	for _, pair := range e.Irregulars() {
		assert.Equal(t, pair.Plural, e.Plural(pair.Singular))
		assert.Equal(t, strings.ToUpper(pair.Plural), e.Plural(strings.ToUpper(pair.Singular)))
		assert.Equal(t, titlecase.String(pair.Plural), e.Plural(titlecase.String(pair.Singular)))
		assert.Equal(t, pair.Singular, e.Singular(pair.Plural))
		assert.Equal(t, strings.ToUpper(pair.Singular), e.Singular(strings.ToUpper(pair.Plural)))
		assert.Equal(t, titlecase.String(pair.Singular), e.Singular(titlecase.String(pair.Plural)))
	}
}

func TestNoMatchReturnsInput(t *testing.T) {
	e := NewEmpty()

	assert.Equal(t, "person", e.Plural("person"))
	assert.Equal(t, "", e.Singular(""))

	e = New()
	assert.Equal(t, "", e.Plural(""))
	assert.Equal(t, "123", e.Plural("123"))
}

func TestAddPluralTakesPrecedence(t *testing.T) {
	e := New()
	before := len(e.PluralRules())

	require.NoError(t, e.AddPlural("aaaaa", "bbbbb"))

	assert.Len(t, e.PluralRules(), before+1)
	assert.Equal(t, "bbbbb", e.Plural("aaaaa"))
	assert.Equal(t, "BBBBB", e.Plural("AAAAA"))

	// A later rule beats a built-in one that would also match.
	require.NoError(t, e.AddPlural("(ox)$", "${1}es"))
	assert.Equal(t, "boxes", e.Plural("box"))
	assert.Equal(t, "oxes", e.Plural("ox"))
}

func TestAddSingular(t *testing.T) {
	e := New()
	before := len(e.SingularRules())

	require.NoError(t, e.AddSingular("(octop)odes$", "${1}us"))

	assert.Len(t, e.SingularRules(), before+1)
	assert.Equal(t, "octopus", e.Singular("octopodes"))
	assert.Equal(t, "OCTOPUS", e.Singular("OCTOPODES"))
	assert.Equal(t, "Octopus", e.Singular("Octopodes"))
}

func TestAddIrregular(t *testing.T) {
	e := New()
	before := len(e.Irregulars())

	require.NoError(t, e.AddIrregular("cactus", "cacti"))

	assert.Len(t, e.Irregulars(), before+1)
	assert.Equal(t, "cacti", e.Plural("cactus"))
	assert.Equal(t, "Cacti", e.Plural("Cactus"))
	assert.Equal(t, "cactus", e.Singular("cacti"))
	assert.Equal(t, "CACTUS", e.Singular("CACTI"))
}

func TestAddUncountable(t *testing.T) {
	e := New()
	before := len(e.Uncountables())

	require.NoError(t, e.AddUncountable("aircraft"))

	assert.Len(t, e.Uncountables(), before+1)
	assert.Equal(t, "aircraft", e.Plural("aircraft"))
	assert.Equal(t, "Aircraft", e.Singular("Aircraft"))

	require.NoError(t, e.AddUncountable())
	assert.Len(t, e.Uncountables(), before+1)
}

func TestUncountableBeatsIrregular(t *testing.T) {
	e := New()
	require.NoError(t, e.AddUncountable("person"))

	assert.Equal(t, "person", e.Plural("person"))
	assert.Equal(t, "salespeople", e.Plural("salesperson"))
}

func TestInvalidPatternLeavesEngineUntouched(t *testing.T) {
	e := New()
	rules := e.PluralRules()

	err := e.AddPlural("(unclosed", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPattern)

	var patternErr *PatternError
	require.ErrorAs(t, err, &patternErr)
	assert.Equal(t, "plural", patternErr.Kind)

	assert.Equal(t, rules, e.PluralRules())
	assert.Equal(t, "people", e.Plural("person"))

	err = e.SetIrregulars([]IrregularPair{{Singular: "a(", Plural: "b"}})
	assert.ErrorIs(t, err, ErrInvalidPattern)
	assert.NotEmpty(t, e.Irregulars())

	err = e.SetUncountables([]string{"[fish"})
	assert.ErrorIs(t, err, ErrInvalidPattern)
	assert.Contains(t, e.Uncountables(), "fish")
}

func TestSetReplacesStores(t *testing.T) {
	e := New()

	require.NoError(t, e.SetPluralRules([]RegexRule{{Find: "([a-z])$", Replace: "${1}z"}}))
	require.NoError(t, e.SetIrregulars(nil))
	require.NoError(t, e.SetUncountables([]string{}))

	assert.Equal(t, []RegexRule{{Find: "([a-z])$", Replace: "${1}z"}}, e.PluralRules())
	assert.Empty(t, e.Irregulars())
	assert.Empty(t, e.Uncountables())
	assert.Equal(t, "personz", e.Plural("person"))
	assert.Equal(t, "fishz", e.Plural("fish"))

	require.NoError(t, e.SetSingularRules([]RegexRule{{Find: "z$", Replace: ""}}))
	assert.Equal(t, "fish", e.Singular("fishz"))
}

func TestSnapshotsAreCopies(t *testing.T) {
	e := New()

	rules := e.PluralRules()
	rules[0] = RegexRule{Find: "changed", Replace: "changed"}
	assert.NotEqual(t, rules[0], e.PluralRules()[0])

	words := e.Uncountables()
	words[0] = "changed"
	assert.NotEqual(t, "changed", e.Uncountables()[0])

	input := []RegexRule{{Find: "x$", Replace: "y"}}
	require.NoError(t, e.SetSingularRules(input))
	input[0].Replace = "changed"
	assert.Equal(t, "y", e.SingularRules()[0].Replace)
}

func TestApplyReplacesOnlyFirstMatch(t *testing.T) {
	e := NewEmpty()
	require.NoError(t, e.AddPlural("aa", "b"))

	assert.Equal(t, "xbaay", e.Apply("xaaaay", ToPlural))
	assert.Equal(t, "xaaaay", e.Apply("xaaaay", ToSingular))
}

type recordingObserver struct {
	mu       sync.Mutex
	compiles map[Direction]int
	lookups  map[bool]int
}

func (o *recordingObserver) ObserveCompile(dir Direction, _ int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.compiles[dir]++
}

func (o *recordingObserver) ObserveLookup(_ Direction, matched bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lookups[matched]++
}

func TestObserverAndLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := &recordingObserver{compiles: map[Direction]int{}, lookups: map[bool]int{}}

	e := New(WithLogger(logger), WithObserver(obs))
	assert.Equal(t, 1, obs.compiles[ToPlural])
	assert.Equal(t, 1, obs.compiles[ToSingular])

	require.NoError(t, e.AddPlural("aaaaa", "bbbbb"))
	assert.Equal(t, 2, obs.compiles[ToPlural])
	assert.Equal(t, 1, obs.compiles[ToSingular])

	require.NoError(t, e.AddIrregular("aaaaa", "bbbbb"))
	assert.Equal(t, 3, obs.compiles[ToPlural])
	assert.Equal(t, 2, obs.compiles[ToSingular])

	e.Plural("person")
	e.Plural("")
	assert.Equal(t, 1, obs.lookups[true])
	assert.Equal(t, 1, obs.lookups[false])

	assert.Contains(t, buf.String(), "inflection rules compiled")
}

func TestConcurrentLookupsAndMutations(t *testing.T) {
	e := New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				assert.Equal(t, "people", e.Plural("person"))
				assert.Equal(t, "mouse", e.Singular("mice"))
				_ = e.PluralRules()
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				assert.NoError(t, e.AddPlural("zzzzz", "yyyyy"))
				assert.NoError(t, e.AddUncountable("aircraft"))
				assert.NoError(t, e.SetSingularRules(e.SingularRules()))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, "yyyyy", e.Plural("zzzzz"))
	assert.Equal(t, "aircraft", e.Plural("aircraft"))
}

func TestDirection(t *testing.T) {
	assert.Equal(t, "plural", ToPlural.String())
	assert.Equal(t, "singular", ToSingular.String())
	assert.Equal(t, "unknown", Direction(7).String())

	dir, ok := ParseDirection("singular")
	assert.True(t, ok)
	assert.Equal(t, ToSingular, dir)

	_, ok = ParseDirection("dual")
	assert.False(t, ok)

	assert.True(t, ToPlural.Valid())
	assert.True(t, ToSingular.Valid())
	assert.False(t, Direction(7).Valid())
	assert.False(t, Direction(-1).Valid())
}

func TestApplyUnknownDirectionIsIdentity(t *testing.T) {
	e := New()

	assert.Equal(t, "person", e.Apply("person", Direction(7)))
	assert.Equal(t, "mice", e.Apply("mice", Direction(-1)))
	assert.Equal(t, "people", e.Apply("person", ToPlural))
	assert.Equal(t, "mouse", e.Apply("mice", ToSingular))
}
