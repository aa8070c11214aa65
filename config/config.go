// Package config loads the switchboard application configuration from a
// YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/switchboard/ai"
	"github.com/poiesic/switchboard/indexing"
	"github.com/poiesic/switchboard/synth"
	"go.yaml.in/yaml/v3"
)

// Corpus backends.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey        = "SWITCHBOARD_API_KEY"
	EnvLLMHost       = "SWITCHBOARD_LLM_HOST"
	EnvEmbeddingHost = "SWITCHBOARD_EMBEDDING_HOST"
	EnvOpenAIKey     = "OPENAI_API_KEY"
)

// Config is the root application configuration.
type Config struct {
	Organization Organization `yaml:"organization"`
	AI           ai.Config    `yaml:"ai"`
	Corpus       Corpus       `yaml:"corpus"`
	Retrieval    Retrieval    `yaml:"retrieval"`
	Router       Router       `yaml:"router"`
	Synthesis    Synthesis    `yaml:"synthesis"`
	Tools        Tools        `yaml:"tools"`
	Metrics      Metrics      `yaml:"metrics"`
	Indexing     Indexing     `yaml:"indexing"`
}

// Organization names the company the assistant answers for.
type Organization struct {
	Name    string `yaml:"name"`
	Website string `yaml:"website"`
}

// Corpus selects the article store.
type Corpus struct {
	Backend string `yaml:"backend"` // badger or sqlite
	Path    string `yaml:"path"`    // badger directory or sqlite file
}

// Retrieval tunes article search.
type Retrieval struct {
	TopK        int `yaml:"top_k"`
	PrefixRunes int `yaml:"prefix_runes"` // near-duplicate fingerprint length
	Dimension   int `yaml:"dimension"`    // 0 accepts any embedding length
	Candidates  int `yaml:"candidates"`   // 0 ranks the whole corpus
}

// Router tunes tool selection.
type Router struct {
	Temperature float64 `yaml:"temperature"`
}

// Synthesis tunes answer generation and its fallbacks.
type Synthesis struct {
	Temperature float64  `yaml:"temperature"`
	Marker      string   `yaml:"marker"`
	MinLength   int      `yaml:"min_length"`
	Messages    Messages `yaml:"messages"`
}

// Messages override the fixed replies. Empty values keep the defaults.
type Messages struct {
	Referral string `yaml:"referral"`
	Apology  string `yaml:"apology"`
	NoSource string `yaml:"no_source"`
}

// Tools locates the data behind each tool. A tool whose file is unset is
// not registered.
type Tools struct {
	TeamFile     string `yaml:"team_file"`
	JobsFile     string `yaml:"jobs_file"`
	ServicesFile string `yaml:"services_file"`
	CareersURL   string `yaml:"careers_url"`
}

// Metrics configures the Prometheus textfile export.
type Metrics struct {
	Textfile string `yaml:"textfile"` // empty disables the export
}

// Indexing tunes the embedding backfill.
type Indexing struct {
	BatchSize   int           `yaml:"batch_size"`
	PoolSize    int           `yaml:"pool_size"`
	MaxAttempts int           `yaml:"max_attempts"`
	RetryDelay  time.Duration `yaml:"retry_delay"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	idx := indexing.DefaultConfig()
	return &Config{
		Organization: Organization{Name: "our company", Website: "https://example.com"},
		AI:           *ai.DefaultConfig(),
		Corpus:       Corpus{Backend: BackendBadger, Path: "data/corpus"},
		Retrieval:    Retrieval{TopK: 3, PrefixRunes: 200},
		Router:       Router{Temperature: 0.2},
		Synthesis: Synthesis{
			Temperature: 0.7,
			Marker:      synth.DefaultMarker,
			MinLength:   synth.DefaultMinLength,
		},
		Indexing: Indexing{
			BatchSize:   idx.BatchSize,
			PoolSize:    idx.PoolSize,
			MaxAttempts: idx.Retry.MaxAttempts,
			RetryDelay:  idx.Retry.BaseDelay,
		},
	}
}

// Load reads path over the defaults. Fields absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnv loads a dotenv file into the process environment without
// overriding variables already set. An empty path tries ./.env and
// ignores its absence.
func LoadEnv(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv copies environment overrides into the AI settings.
func (c *Config) ApplyEnv() {
	if host := os.Getenv(EnvLLMHost); host != "" {
		c.AI.CompletionHost = host
	}
	if host := os.Getenv(EnvEmbeddingHost); host != "" {
		c.AI.EmbeddingHost = host
	}
	switch {
	case os.Getenv(EnvAPIKey) != "":
		c.AI.APIToken = os.Getenv(EnvAPIKey)
	case os.Getenv(EnvOpenAIKey) != "":
		c.AI.APIToken = os.Getenv(EnvOpenAIKey)
	}
}

// Validate checks the configuration. It normalizes the AI hosts.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Organization.Name) == "" {
		errs = append(errs, errors.New("organization.name is required"))
	}
	if strings.TrimSpace(c.Organization.Website) == "" {
		errs = append(errs, errors.New("organization.website is required"))
	}
	if err := c.AI.Validate(); err != nil {
		errs = append(errs, err)
	}
	switch c.Corpus.Backend {
	case BackendBadger, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("corpus.backend %q: must be %s or %s", c.Corpus.Backend, BackendBadger, BackendSQLite))
	}
	if c.Corpus.Path == "" {
		errs = append(errs, errors.New("corpus.path is required"))
	}
	if c.Retrieval.TopK <= 0 {
		errs = append(errs, errors.New("retrieval.top_k must be greater than 0"))
	}
	if c.Retrieval.PrefixRunes <= 0 {
		errs = append(errs, errors.New("retrieval.prefix_runes must be greater than 0"))
	}
	if c.Retrieval.Dimension < 0 || c.Retrieval.Candidates < 0 {
		errs = append(errs, errors.New("retrieval.dimension and retrieval.candidates must not be negative"))
	}
	if !validTemperature(c.Router.Temperature) || !validTemperature(c.Synthesis.Temperature) {
		errs = append(errs, errors.New("temperatures must be between 0 and 2"))
	}
	if err := c.Policy().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Indexing.BatchSize <= 0 || c.Indexing.MaxAttempts <= 0 {
		errs = append(errs, errors.New("indexing.batch_size and indexing.max_attempts must be greater than 0"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func validTemperature(t float64) bool {
	return t >= 0 && t <= 2
}

// Policy returns the answer confidence policy.
func (c *Config) Policy() synth.Policy {
	return synth.Policy{Marker: c.Synthesis.Marker, MinLength: c.Synthesis.MinLength}
}

// Messages returns the configured fallback replies. Empty fields are
// filled by the synthesizer.
func (c *Config) Messages() synth.Messages {
	m := c.Synthesis.Messages
	return synth.Messages{Referral: m.Referral, Apology: m.Apology, NoSource: m.NoSource}
}

// IndexerConfig returns the backfill settings. force re-embeds every chunk.
func (c *Config) IndexerConfig(force bool) indexing.Config {
	return indexing.Config{
		BatchSize:      c.Indexing.BatchSize,
		Dimension:      c.Retrieval.Dimension,
		PoolSize:       c.Indexing.PoolSize,
		ReportInterval: c.Indexing.BatchSize,
		Retry:          indexing.RetryPolicy{MaxAttempts: c.Indexing.MaxAttempts, BaseDelay: c.Indexing.RetryDelay},
		Force:          force,
	}
}
