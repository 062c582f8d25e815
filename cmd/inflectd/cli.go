package main

import (
	"context"
	"fmt"
	"io"

	"inflectd/internal/config"
	"inflectd/internal/naming"
	"inflectd/internal/serverapp"
	"inflectd/pkg/inflection"

	"gopkg.in/yaml.v3"
)

// cliApp is the engine and namer a one-shot command runs against.
type cliApp struct {
	engine *inflection.Engine
	namer  *naming.Namer
}

// withEngine builds the configured engine, logging to stderr so stdout only
// carries command output, and runs fn against it.
func withEngine(cfg *config.Config, stderr io.Writer, fn func(*cliApp) error) error {
	logger, loggerProvider, err := serverapp.InitLogger(cfg, stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if loggerProvider != nil {
		defer func() { _ = loggerProvider.Shutdown(context.Background(), logger.Logger) }()
	}

	engine, err := serverapp.BuildEngine(cfg, logger, nil)
	if err != nil {
		return fmt.Errorf("failed to build inflection engine: %w", err)
	}
	return fn(&cliApp{engine: engine, namer: serverapp.BuildNamer(cfg, logger, engine)})
}

// rulesFile mirrors the rules section of the config file, so a dump can be
// edited and loaded back with replace_defaults set.
type rulesFile struct {
	Rules rulesSection `yaml:"rules"`
}

type rulesSection struct {
	ReplaceDefaults bool                       `yaml:"replace_defaults"`
	Plural          []inflection.RegexRule     `yaml:"plural"`
	Singular        []inflection.RegexRule     `yaml:"singular"`
	Irregular       []inflection.IrregularPair `yaml:"irregular"`
	Uncountable     []string                   `yaml:"uncountable"`
}

func dumpRules(w io.Writer, engine *inflection.Engine) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rulesFile{Rules: rulesSection{
		ReplaceDefaults: true,
		Plural:          engine.PluralRules(),
		Singular:        engine.SingularRules(),
		Irregular:       engine.Irregulars(),
		Uncountable:     engine.Uncountables(),
	}}); err != nil {
		return fmt.Errorf("failed to encode rules: %w", err)
	}
	return enc.Close()
}
