package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path, overlays environment
// variables and returns a validated [Config].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, overlays environment
// variables and validates the result. Useful in tests where configs are
// constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	if cfg.Room.URL == "" {
		errs = append(errs, errors.New("room.url is required"))
	}
	if cfg.Hall.CatalogPath == "" {
		errs = append(errs, errors.New("hall.catalog_path is required"))
	}
	if cfg.Hall.SlideDwell < 0 {
		errs = append(errs, fmt.Errorf("hall.slide_dwell %s must not be negative", cfg.Hall.SlideDwell))
	}
	if cfg.Hall.FrameRate < 0 {
		errs = append(errs, fmt.Errorf("hall.frame_rate %d must not be negative", cfg.Hall.FrameRate))
	}

	errs = append(errs, validateCue("cues.idle", cfg.Cues.Idle)...)
	errs = append(errs, validateCue("cues.alert", cfg.Cues.Alert)...)

	errs = append(errs, validateRule("access", cfg.Access)...)
	errs = append(errs, validateRule("escape", cfg.Escape)...)

	if cfg.Pipeline.LLMTemperature < 0 || cfg.Pipeline.LLMTemperature > 2 {
		errs = append(errs, fmt.Errorf("pipeline.llm_temperature %.2f is out of range [0, 2]", cfg.Pipeline.LLMTemperature))
	}

	return errors.Join(errs...)
}

func validateCue(prefix string, c CueConfig) []error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}
	if c.Volume < 0 || c.Volume > 1 {
		errs = append(errs, fmt.Errorf("%s.volume %.2f is out of range [0, 1]", prefix, c.Volume))
	}
	return errs
}

func validateRule(prefix string, r PhraseRuleConfig) []error {
	if len(r.Literals) == 0 && len(r.OrderedTokens) == 0 {
		return []error{fmt.Errorf("%s needs at least one literal or ordered token list", prefix)}
	}
	var errs []error
	for i, lit := range r.Literals {
		if lit == "" {
			errs = append(errs, fmt.Errorf("%s.literals[%d] is empty", prefix, i))
		}
	}
	for i, tok := range r.OrderedTokens {
		if tok == "" {
			errs = append(errs, fmt.Errorf("%s.ordered_tokens[%d] is empty", prefix, i))
		}
	}
	return errs
}
