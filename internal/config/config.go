// Package config loads mathquiz settings from an optional YAML file and
// MATHQUIZ_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/mathquiz/internal/llm"
	"github.com/abhisek/mathquiz/internal/problemgen"
	"github.com/abhisek/mathquiz/internal/quiz"
	"github.com/abhisek/mathquiz/internal/store"
)

// DefaultFileName is looked up in the working directory when no path is given.
const DefaultFileName = "mathquiz.yaml"

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Quiz   QuizConfig   `yaml:"quiz"`
	LLM    LLMConfig    `yaml:"llm"`
}

type ServerConfig struct {
	ListenAddr     string   `yaml:"listen_addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StoreConfig selects where questions live. Empty paths resolve under DataDir.
type StoreConfig struct {
	Backend       string `yaml:"backend"`
	DataDir       string `yaml:"data_dir"`
	QuestionsPath string `yaml:"questions_path"`
	DBPath        string `yaml:"db_path"`
}

type QuizConfig struct {
	ReuseProbability      float64 `yaml:"reuse_probability"`
	MaxDistractorAttempts int     `yaml:"max_distractor_attempts"`
	VerifyRemoteMath      bool    `yaml:"verify_remote_math"`
}

// LLMConfig picks the remote generator. API keys are read from the
// environment only.
type LLMConfig struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
		Store: StoreConfig{
			Backend: BackendFile,
			DataDir: store.DefaultDataDir,
		},
		Quiz: QuizConfig{
			ReuseProbability:      quiz.DefaultReuseProbability,
			MaxDistractorAttempts: problemgen.DefaultMaxDistractorAttempts,
		},
		LLM: LLMConfig{
			Timeout: llm.DefaultConfig().Timeout,
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path reads DefaultFileName when it exists.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overlays MATHQUIZ_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	str := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	str(&cfg.Server.ListenAddr, "MATHQUIZ_LISTEN_ADDR")
	str(&cfg.Store.Backend, "MATHQUIZ_STORE")
	str(&cfg.Store.DataDir, "MATHQUIZ_DATA_DIR")
	str(&cfg.Store.QuestionsPath, "MATHQUIZ_QUESTIONS_PATH")
	str(&cfg.Store.DBPath, "MATHQUIZ_DB")
	str(&cfg.LLM.Provider, "MATHQUIZ_LLM_PROVIDER")
	str(&cfg.LLM.Model, "MATHQUIZ_LLM_MODEL")

	if v := os.Getenv("MATHQUIZ_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.AllowedOrigins = origins
	}
	if v := os.Getenv("MATHQUIZ_REUSE_PROBABILITY"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("MATHQUIZ_REUSE_PROBABILITY: %w", err)
		}
		cfg.Quiz.ReuseProbability = p
	}
	if v := os.Getenv("MATHQUIZ_MAX_DISTRACTOR_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MATHQUIZ_MAX_DISTRACTOR_ATTEMPTS: %w", err)
		}
		cfg.Quiz.MaxDistractorAttempts = n
	}
	if v := os.Getenv("MATHQUIZ_VERIFY_REMOTE_MATH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MATHQUIZ_VERIFY_REMOTE_MATH: %w", err)
		}
		cfg.Quiz.VerifyRemoteMath = b
	}
	if v := os.Getenv("MATHQUIZ_LLM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MATHQUIZ_LLM_TIMEOUT: %w", err)
		}
		cfg.LLM.Timeout = d
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.Store.Backend)
	}
	if c.Quiz.ReuseProbability < 0 || c.Quiz.ReuseProbability > 1 {
		return fmt.Errorf("quiz.reuse_probability must be within [0,1], got %v", c.Quiz.ReuseProbability)
	}
	if c.Quiz.MaxDistractorAttempts < 0 {
		return fmt.Errorf("quiz.max_distractor_attempts must not be negative, got %d", c.Quiz.MaxDistractorAttempts)
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("llm.timeout must not be negative, got %s", c.LLM.Timeout)
	}
	return nil
}

// QuestionsPath returns the JSON question file location.
func (c Config) QuestionsPath() string {
	if c.Store.QuestionsPath != "" {
		return c.Store.QuestionsPath
	}
	return store.DefaultQuestionsPath(c.Store.DataDir)
}

// DBPath returns the SQLite database location and makes sure its directory exists.
func (c Config) DBPath() (string, error) {
	if c.Store.DBPath != "" {
		return c.Store.DBPath, store.EnsureDir(c.Store.DBPath)
	}
	return store.DefaultDBPath(c.Store.DataDir)
}

// ProviderConfig builds the provider configuration. It reports false when no API
// key is available for any provider, in which case the remote generator
// should stay disabled.
func (c Config) ProviderConfig() (llm.Config, bool) {
	lc := llm.ApplyEnv(llm.DefaultConfig())
	if c.LLM.Provider != "" {
		lc.Provider = c.LLM.Provider
	}
	lc.Timeout = c.LLM.Timeout
	lc, ok := llm.Discover(lc)
	lc.SetModel(c.LLM.Model)
	return lc, ok
}
