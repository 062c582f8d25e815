// Package httpapi exposes the inflection engine over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"inflectd/internal/logging"
	"inflectd/internal/middleware"
	"inflectd/internal/naming"
	"inflectd/pkg/inflection"
)

const maxBodyBytes = 1 << 20

// Result is one looked-up word.
type Result struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// LookupResponse is returned by /v1/plural and /v1/singular.
type LookupResponse struct {
	Direction string   `json:"direction"`
	Results   []Result `json:"results"`
}

// RulesResponse is a snapshot of every rule store.
type RulesResponse struct {
	Plural      []inflection.RegexRule     `json:"plural"`
	Singular    []inflection.RegexRule     `json:"singular"`
	Irregular   []inflection.IrregularPair `json:"irregular"`
	Uncountable []string                   `json:"uncountable"`
}

// Options tunes request handling.
type Options struct {
	MaxWords int
}

// API serves lookups through a Namer and rule administration on the Engine
// behind it.
type API struct {
	engine   *inflection.Engine
	namer    *naming.Namer
	maxWords int
}

// New creates an API. namer must wrap engine for admin changes to be visible
// in lookups.
func New(engine *inflection.Engine, namer *naming.Namer, opts Options) *API {
	if opts.MaxWords <= 0 {
		opts.MaxWords = 100
	}
	return &API{engine: engine, namer: namer, maxWords: opts.MaxWords}
}

// Register mounts the read-only routes.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/plural", a.lookup(inflection.ToPlural))
	mux.HandleFunc("GET /v1/singular", a.lookup(inflection.ToSingular))
	mux.HandleFunc("GET /v1/rules", a.rules)
}

// RegisterAdmin mounts the rule mutation routes behind auth.
func (a *API) RegisterAdmin(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	mux.Handle("POST /admin/rules/{kind}", auth(http.HandlerFunc(a.appendRule)))
	mux.Handle("PUT /admin/rules/{kind}", auth(http.HandlerFunc(a.replaceRules)))
}

// Snapshot returns the current contents of every rule store.
func (a *API) Snapshot() RulesResponse {
	return RulesResponse{
		Plural:      a.engine.PluralRules(),
		Singular:    a.engine.SingularRules(),
		Irregular:   a.engine.Irregulars(),
		Uncountable: a.engine.Uncountables(),
	}
}

func (a *API) lookup(dir inflection.Direction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		words := r.URL.Query()["word"]
		if len(words) == 0 {
			middleware.WriteJSONError(w, http.StatusBadRequest, "missing word parameter")
			return
		}
		if len(words) > a.maxWords {
			middleware.WriteJSONError(w, http.StatusBadRequest,
				fmt.Sprintf("too many words: %d exceeds limit of %d", len(words), a.maxWords))
			return
		}

		trace.SpanFromContext(r.Context()).SetAttributes(
			attribute.String("inflection.direction", dir.String()),
			attribute.Int("inflection.words", len(words)),
		)

		resp := LookupResponse{Direction: dir.String(), Results: make([]Result, len(words))}
		for i, word := range words {
			resp.Results[i] = Result{Input: word, Output: a.namer.Inflect(word, dir)}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (a *API) rules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.Snapshot())
}

func (a *API) appendRule(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	var err error

	switch kind {
	case "plural", "singular":
		var rule inflection.RegexRule
		if !decodeBody(w, r, &rule) {
			return
		}
		if msg := checkRule(rule); msg != "" {
			middleware.WriteJSONError(w, http.StatusBadRequest, msg)
			return
		}
		if kind == "plural" {
			err = a.engine.AddPlural(rule.Find, rule.Replace)
		} else {
			err = a.engine.AddSingular(rule.Find, rule.Replace)
		}
	case "irregular":
		var pair inflection.IrregularPair
		if !decodeBody(w, r, &pair) {
			return
		}
		if msg := checkPair(pair); msg != "" {
			middleware.WriteJSONError(w, http.StatusBadRequest, msg)
			return
		}
		err = a.engine.AddIrregular(pair.Singular, pair.Plural)
	case "uncountable":
		var body struct {
			Words []string `json:"words"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if len(body.Words) == 0 {
			middleware.WriteJSONError(w, http.StatusBadRequest, "words must be non-empty")
			return
		}
		if msg := checkEach(body.Words, checkWord); msg != "" {
			middleware.WriteJSONError(w, http.StatusBadRequest, msg)
			return
		}
		err = a.engine.AddUncountable(body.Words...)
	default:
		middleware.WriteJSONError(w, http.StatusNotFound, fmt.Sprintf("unknown rule kind %q", kind))
		return
	}

	a.finishMutation(w, r, "append", kind, err)
}

func (a *API) replaceRules(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	var err error

	switch kind {
	case "plural", "singular":
		var rules []inflection.RegexRule
		if !decodeBody(w, r, &rules) {
			return
		}
		if msg := checkEach(rules, checkRule); msg != "" {
			middleware.WriteJSONError(w, http.StatusBadRequest, msg)
			return
		}
		if kind == "plural" {
			err = a.engine.SetPluralRules(rules)
		} else {
			err = a.engine.SetSingularRules(rules)
		}
	case "irregular":
		var pairs []inflection.IrregularPair
		if !decodeBody(w, r, &pairs) {
			return
		}
		if msg := checkEach(pairs, checkPair); msg != "" {
			middleware.WriteJSONError(w, http.StatusBadRequest, msg)
			return
		}
		err = a.engine.SetIrregulars(pairs)
	case "uncountable":
		var words []string
		if !decodeBody(w, r, &words) {
			return
		}
		if msg := checkEach(words, checkWord); msg != "" {
			middleware.WriteJSONError(w, http.StatusBadRequest, msg)
			return
		}
		err = a.engine.SetUncountables(words)
	default:
		middleware.WriteJSONError(w, http.StatusNotFound, fmt.Sprintf("unknown rule kind %q", kind))
		return
	}

	a.finishMutation(w, r, "replace", kind, err)
}

func (a *API) finishMutation(w http.ResponseWriter, r *http.Request, op, kind string, err error) {
	logger := logging.FromContext(r.Context())
	if err != nil {
		if errors.Is(err, inflection.ErrInvalidPattern) {
			middleware.WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("rule update failed", slog.String("kind", kind), slog.String("error", err.Error()))
		middleware.WriteJSONError(w, http.StatusInternalServerError, "rule update failed")
		return
	}

	logger.Info("rules updated",
		slog.String("operation", op),
		slog.String("kind", kind),
		slog.Bool("admin_authenticated", middleware.IsAdmin(r.Context())),
		slog.String("remote_addr", r.RemoteAddr),
	)
	writeJSON(w, http.StatusOK, a.Snapshot())
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		middleware.WriteJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// Entry checks shared by append and replace. Each returns an empty string
// when the entry is acceptable.

func checkRule(rule inflection.RegexRule) string {
	if rule.Find == "" {
		return "find is required"
	}
	return ""
}

// checkPair rejects empty sides; an empty side would compile to a bare "$"
// and match every word.
func checkPair(pair inflection.IrregularPair) string {
	if strings.TrimSpace(pair.Singular) == "" || strings.TrimSpace(pair.Plural) == "" {
		return "singular and plural are required"
	}
	return ""
}

func checkWord(word string) string {
	if strings.TrimSpace(word) == "" {
		return "words must be non-empty"
	}
	return ""
}

// checkEach reports the first rejected entry, prefixed with its index.
func checkEach[T any](items []T, check func(T) string) string {
	for i, item := range items {
		if msg := check(item); msg != "" {
			return fmt.Sprintf("entry %d: %s", i, msg)
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
