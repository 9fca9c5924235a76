// Package config loads and validates pipeline configuration from YAML files
// with environment-variable overrides. It provides typed structs for every
// stage (Queries, Postings, Index, Search) plus logging and metrics.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level pipeline configuration.
type Config struct {
	Queries  QueriesConfig  `yaml:"queries"`
	Postings PostingsConfig `yaml:"postings"`
	Index    IndexConfig    `yaml:"index"`
	Search   SearchConfig   `yaml:"search"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// QueriesConfig holds the query-processor stage file paths.
type QueriesConfig struct {
	Input     string `yaml:"input"`     // query set XML
	Processed string `yaml:"processed"` // QueryNumber;QueryText table
	Expected  string `yaml:"expected"`  // QueryNumber;DocNumber;DocVotes table
}

// PostingsConfig holds the inverted-list stage settings.
type PostingsConfig struct {
	Inputs     []string `yaml:"inputs"`     // corpus record XML files
	Output     string   `yaml:"output"`     // Word;RecordNumbers table
	Stopwords  string   `yaml:"stopwords"`  // newline-delimited list; empty = built-in set
	UseStemmer bool     `yaml:"useStemmer"`
}

// IndexConfig holds the term-document matrix stage settings.
type IndexConfig struct {
	Input  string      `yaml:"input"`  // postings table
	Output string      `yaml:"output"` // matrix table
	Store  StoreConfig `yaml:"store"`
}

// StoreConfig selects where index artifacts are persisted.
type StoreConfig struct {
	Driver string `yaml:"driver"` // "csv" or "sqlite"
	Path   string `yaml:"path"`   // sqlite database file
}

// SearchConfig holds the search stage settings.
type SearchConfig struct {
	Model       string `yaml:"model"`   // matrix table
	Queries     string `yaml:"queries"` // processed queries table
	Results     string `yaml:"results"` // SearchNumber;Results table
	Stopwords   string `yaml:"stopwords"`
	UseStemmer  bool   `yaml:"useStemmer"`
	TopK        int    `yaml:"topK"`        // <= 0 means unbounded
	Parallelism int    `yaml:"parallelism"` // concurrent query rankings
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with defaults for missing values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Queries: QueriesConfig{
			Input:     "data/cfquery.xml",
			Processed: "result/consultas.csv",
			Expected:  "result/esperados.csv",
		},
		Postings: PostingsConfig{
			Inputs: []string{"data/cf74.xml"},
			Output: "result/lista_invertida.csv",
		},
		Index: IndexConfig{
			Input:  "result/lista_invertida.csv",
			Output: "result/modelo.csv",
			Store:  StoreConfig{Driver: "csv"},
		},
		Search: SearchConfig{
			Model:       "result/modelo.csv",
			Queries:     "result/consultas.csv",
			Results:     "result/resultados.csv",
			TopK:        40,
			Parallelism: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads VS_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VS_QUERIES_INPUT"); v != "" {
		cfg.Queries.Input = v
	}
	if v := os.Getenv("VS_POSTINGS_INPUTS"); v != "" {
		cfg.Postings.Inputs = strings.Split(v, ",")
	}
	if v := os.Getenv("VS_POSTINGS_STOPWORDS"); v != "" {
		cfg.Postings.Stopwords = v
		cfg.Search.Stopwords = v
	}
	if v := os.Getenv("VS_USE_STEMMER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Postings.UseStemmer = b
			cfg.Search.UseStemmer = b
		}
	}
	if v := os.Getenv("VS_SEARCH_TOPK"); v != "" {
		if k, err := strconv.Atoi(v); err == nil {
			cfg.Search.TopK = k
		}
	}
	if v := os.Getenv("VS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("VS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("VS_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
}

// Validate checks cross-field constraints before any stage runs.
func (c *Config) Validate() error {
	if len(c.Postings.Inputs) == 0 {
		return fmt.Errorf("postings: at least one input file is required")
	}
	switch c.Index.Store.Driver {
	case "", "csv":
	case "sqlite":
		if c.Index.Store.Path == "" {
			return fmt.Errorf("index.store: sqlite driver requires a path")
		}
	default:
		return fmt.Errorf("index.store: unknown driver %q", c.Index.Store.Driver)
	}
	if c.Search.Parallelism < 0 {
		return fmt.Errorf("search: parallelism must be >= 0")
	}
	if c.Postings.UseStemmer != c.Search.UseStemmer {
		return fmt.Errorf("stemmer flag must match between postings and search stages")
	}
	return nil
}
