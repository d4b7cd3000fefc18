package search

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the scoring constants of the Searcher.
// The defaults are untuned; they are kept as named values so deployments can adjust them.
type Config struct {
	// TitleMatchWeight weights title similarity in the fuzzy relevance score.
	// Default: 0.7
	TitleMatchWeight float64 `yaml:"title_match_weight"`

	// ContentMatchWeight weights content similarity in the fuzzy relevance score.
	// Default: 0.3
	ContentMatchWeight float64 `yaml:"content_match_weight"`

	// SimilarityThreshold is the minimum relevance score a fuzzy candidate needs to be kept.
	// Default: 0.5
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// MaxFuzzyCandidates caps the candidate set fetched for fuzzy scoring.
	// Default: 100
	MaxFuzzyCandidates int `yaml:"max_fuzzy_candidates"`

	// RelatedTitleWeight weights title similarity in the related-question score.
	// Default: 0.5
	RelatedTitleWeight float64 `yaml:"related_title_weight"`

	// RelatedContentWeight weights content similarity in the related-question score.
	// Default: 0.3
	RelatedContentWeight float64 `yaml:"related_content_weight"`

	// RelatedTagWeight weights the Jaccard overlap of normalized tags in the related-question score.
	// Default: 0.2
	RelatedTagWeight float64 `yaml:"related_tag_weight"`

	// SubjectBonus is added to the related score when both questions share a subject.
	// Default: 0.2
	SubjectBonus float64 `yaml:"subject_bonus"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithMatchWeights sets the title and content weights of the fuzzy relevance score.
// Defaults: 0.7 title, 0.3 content
func WithMatchWeights(title, content float64) ConfigOption {
	return func(c *Config) {
		c.TitleMatchWeight = title
		c.ContentMatchWeight = content
	}
}

// WithSimilarityThreshold sets the minimum relevance score a fuzzy candidate needs.
// Must be within [0,1]. Default: 0.5
func WithSimilarityThreshold(threshold float64) ConfigOption {
	return func(c *Config) {
		c.SimilarityThreshold = threshold
	}
}

// WithMaxFuzzyCandidates caps the candidate set fetched for fuzzy scoring.
// Must be positive. Default: 100
func WithMaxFuzzyCandidates(max int) ConfigOption {
	return func(c *Config) {
		c.MaxFuzzyCandidates = max
	}
}

// WithRelatedWeights sets the title, content and tag weights of the related-question score.
// Defaults: 0.5 title, 0.3 content, 0.2 tags
func WithRelatedWeights(title, content, tags float64) ConfigOption {
	return func(c *Config) {
		c.RelatedTitleWeight = title
		c.RelatedContentWeight = content
		c.RelatedTagWeight = tags
	}
}

// WithSubjectBonus sets the related-score bonus for questions sharing a subject.
// Default: 0.2
func WithSubjectBonus(bonus float64) ConfigOption {
	return func(c *Config) {
		c.SubjectBonus = bonus
	}
}

// DefaultConfig returns the scoring configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{
		TitleMatchWeight:     0.7,
		ContentMatchWeight:   0.3,
		SimilarityThreshold:  0.5,
		MaxFuzzyCandidates:   100,
		RelatedTitleWeight:   0.5,
		RelatedContentWeight: 0.3,
		RelatedTagWeight:     0.2,
		SubjectBonus:         0.2,
	}
}

// NewConfig creates a configuration with the given options applied over the defaults.
// The result is not validated; call Validate or pass it to WithConfig.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is usable.
// Weights and the subject bonus must not be negative, the similarity threshold must lie
// within [0,1] and MaxFuzzyCandidates must be positive. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	weights := map[string]float64{
		"title_match_weight":     c.TitleMatchWeight,
		"content_match_weight":   c.ContentMatchWeight,
		"related_title_weight":   c.RelatedTitleWeight,
		"related_content_weight": c.RelatedContentWeight,
		"related_tag_weight":     c.RelatedTagWeight,
		"subject_bonus":          c.SubjectBonus,
	}
	for name, w := range weights {
		if w < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %g", ErrInvalidConfig, name, w)
		}
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity_threshold must be within [0,1], got %g", ErrInvalidConfig, c.SimilarityThreshold)
	}
	if c.MaxFuzzyCandidates <= 0 {
		return fmt.Errorf("%w: max_fuzzy_candidates must be positive, got %d", ErrInvalidConfig, c.MaxFuzzyCandidates)
	}
	return nil
}

// LoadConfig reads a YAML file on top of the defaults.
// ${VAR} and ${VAR:-default} references are expanded from the environment before parsing.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	data = expandEnvVars(data)

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
