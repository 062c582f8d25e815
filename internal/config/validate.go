package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"inflectd/internal/naming"
	"inflectd/pkg/inflection"
)

// ValidationError represents a configuration validation error with context.
type ValidationError struct {
	Field   string
	Message string
	Hint    string
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (hint: %s)", e.Field, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Field   string
	Message string
	Hint    string
}

// ValidationResult contains the results of configuration validation.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Error returns a combined error message if there are validation errors.
func (r *ValidationResult) Error() string {
	if !r.HasErrors() {
		return ""
	}
	var msgs []string
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for errors and returns validation results.
// It returns both errors (fatal) and warnings (non-fatal issues).
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{}

	c.Server.validate(result)
	c.Observability.validate(result)
	c.Rules.validate(result)
	validateNamingConfig(result, c.Naming)

	return result
}

func (s *ServerConfig) validate(result *ValidationResult) {
	if s.Port < 1 || s.Port > 65535 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port %d is out of valid range (1-65535)", s.Port),
		})
	}

	if s.MaxWordsPerRequest < 1 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "server.max_words_per_request",
			Message: "max_words_per_request must be at least 1",
		})
	}

	if s.RateLimitEnabled {
		if s.RateLimitRPS <= 0 {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "server.rate_limit_rps",
				Message: "rate_limit_rps must be greater than 0 when rate limiting is enabled",
			})
		}
		if s.RateLimitBurst <= 0 {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "server.rate_limit_burst",
				Message: "rate_limit_burst must be greater than 0 when rate limiting is enabled",
			})
		}
	}

	if !s.RateLimitEnabled && (s.RateLimitRPS > 0 || s.RateLimitBurst > 0) {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "server.rate_limit_enabled",
			Message: "rate limit values are set but rate limiting is disabled",
			Hint:    "enable server.rate_limit_enabled to apply rate limits",
		})
	}

	if s.Admin.RulesEnabled && strings.TrimSpace(s.Admin.AuthToken) == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "server.admin.auth_token",
			Message: "an auth token is required when admin rule endpoints are enabled",
			Hint:    "set server.admin.auth_token, server.admin.auth_token_file or server.admin.auth_token_prompt",
		})
	}
	if !s.Admin.RulesEnabled && s.Admin.AuthToken != "" {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "server.admin.auth_token",
			Message: "admin auth token is set but admin rule endpoints are disabled",
			Hint:    "enable server.admin.rules_enabled to expose /admin/rules",
		})
	}

	for field, d := range map[string]int64{
		"server.read_timeout":     int64(s.ReadTimeout),
		"server.write_timeout":    int64(s.WriteTimeout),
		"server.idle_timeout":     int64(s.IdleTimeout),
		"server.shutdown_timeout": int64(s.ShutdownTimeout),
	} {
		if d < 0 {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field,
				Message: "timeout cannot be negative",
			})
		}
	}
}

func (o *ObservabilityConfig) validate(result *ValidationResult) {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[o.Logging.Level] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "observability.logging.level",
			Message: fmt.Sprintf("invalid log level %q", o.Logging.Level),
			Hint:    "valid values are: debug, info, warn, error",
		})
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[o.Logging.Format] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "observability.logging.format",
			Message: fmt.Sprintf("invalid log format %q", o.Logging.Format),
			Hint:    "valid values are: json, text",
		})
	}

	if o.TraceSampleRatio < 0 || o.TraceSampleRatio > 1 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "observability.trace_sample_ratio",
			Message: fmt.Sprintf("trace_sample_ratio %v is outside 0.0-1.0", o.TraceSampleRatio),
		})
	}

	o.OTLP.validate("observability.otlp", result)
	if o.Traces != nil {
		o.Traces.validate("observability.traces", result)
	}
	if o.Logs != nil {
		o.Logs.validate("observability.logs", result)
	}
}

func (o *OTLPConfig) validate(prefix string, result *ValidationResult) {
	validProtocols := map[string]bool{"": true, "grpc": true, "http/protobuf": true}
	if !validProtocols[o.Protocol] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   prefix + ".protocol",
			Message: fmt.Sprintf("invalid OTLP protocol %q", o.Protocol),
			Hint:    "valid values are: grpc, http/protobuf",
		})
	}

	if o.Protocol == "http/protobuf" && !validOTLPEndpoint(o.Endpoint) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   prefix + ".endpoint",
			Message: fmt.Sprintf("invalid OTLP endpoint %q for http/protobuf", o.Endpoint),
			Hint:    "use host:port or a full URL",
		})
	}

	validCompressions := map[string]bool{"": true, "none": true, "gzip": true}
	if !validCompressions[o.Compression] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   prefix + ".compression",
			Message: fmt.Sprintf("invalid OTLP compression %q", o.Compression),
			Hint:    "valid values are: none, gzip",
		})
	}
}

func validOTLPEndpoint(endpoint string) bool {
	if endpoint == "" {
		return false
	}
	if strings.Contains(endpoint, "://") {
		parsed, err := url.Parse(endpoint)
		if err != nil {
			return false
		}
		return parsed.Host != ""
	}
	_, _, err := net.SplitHostPort(endpoint)
	return err == nil
}

// validate compiles every configured rule in all its case variants so a bad
// pattern is reported before the engine is touched.
func (r *RulesConfig) validate(result *ValidationResult) {
	for i, rule := range r.Plural {
		if err := inflection.ValidateRegexRule("plural", rule); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("rules.plural[%d]", i),
				Message: err.Error(),
			})
		}
	}
	for i, rule := range r.Singular {
		if err := inflection.ValidateRegexRule("singular", rule); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("rules.singular[%d]", i),
				Message: err.Error(),
			})
		}
	}
	for i, pair := range r.Irregular {
		field := fmt.Sprintf("rules.irregular[%d]", i)
		if pair.Singular == "" || pair.Plural == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field,
				Message: "irregular pairs need both singular and plural",
			})
			continue
		}
		if err := inflection.ValidateIrregular(pair); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field,
				Message: err.Error(),
			})
		}
	}
	for i, word := range r.Uncountable {
		field := fmt.Sprintf("rules.uncountable[%d]", i)
		if strings.TrimSpace(word) == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field,
				Message: "uncountable word cannot be empty",
			})
			continue
		}
		if err := inflection.ValidateUncountable(word); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field,
				Message: err.Error(),
			})
		}
	}
	if r.ReplaceDefaults && r.Empty() {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "rules.replace_defaults",
			Message: "replace_defaults is set but no rules are configured",
			Hint:    "built-in rules stay in effect until a list is configured",
		})
	}
}

func validateNamingConfig(result *ValidationResult, cfg naming.Config) {
	for word, override := range cfg.PluralOverrides {
		if strings.TrimSpace(word) == "" || strings.TrimSpace(override) == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "naming.plural_overrides",
				Message: fmt.Sprintf("override %q -> %q has an empty side", word, override),
			})
		}
	}
	for word, override := range cfg.SingularOverrides {
		if strings.TrimSpace(word) == "" || strings.TrimSpace(override) == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "naming.singular_overrides",
				Message: fmt.Sprintf("override %q -> %q has an empty side", word, override),
			})
		}
	}
}
