package inflection

// RegexRule is an ordered find/replace transformation. Find must be a valid
// regular expression; Replace may reference its capture groups (${1}).
type RegexRule struct {
	Find    string `json:"find" yaml:"find" mapstructure:"find"`
	Replace string `json:"replace" yaml:"replace" mapstructure:"replace"`
}

// IrregularPair maps a singular form to a plural form that no suffix rule derives.
type IrregularPair struct {
	Singular string `json:"singular" yaml:"singular" mapstructure:"singular"`
	Plural   string `json:"plural" yaml:"plural" mapstructure:"plural"`
}

// Direction selects which compiled list a lookup consults.
type Direction int

const (
	ToPlural Direction = iota
	ToSingular
)

func (d Direction) String() string {
	switch d {
	case ToPlural:
		return "plural"
	case ToSingular:
		return "singular"
	default:
		return "unknown"
	}
}

// Valid reports whether d is ToPlural or ToSingular.
func (d Direction) Valid() bool {
	return d == ToPlural || d == ToSingular
}

// ParseDirection accepts "plural" or "singular".
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "plural":
		return ToPlural, true
	case "singular":
		return ToSingular, true
	default:
		return 0, false
	}
}

// Inflector is the read side of an Engine.
type Inflector interface {
	Plural(word string) string
	Singular(word string) string
}
