// Package file loads the application configuration from a TOML file,
// layered under environment variable overrides.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultConfigDirName = ".replyagent"
	DefaultConfigFile    = "config.toml"

	DefaultOllamaEndpoint = "http://localhost:11434"
	DefaultEmbedModel     = "mxbai-embed-large"
	DefaultFastModel      = "llama3.2:1b"
	DefaultStrongModel    = "llama3.1"
	DefaultOpenAIModel    = "gpt-4o-mini"

	DefaultIndexFile   = "email_index.jsonl"
	DefaultProfileFile = "style_profile.json"

	DefaultServerAddr = "127.0.0.1:8787"

	DefaultTopK              = 3
	DefaultEmbedRatePerSec   = 4.0
	DefaultMaxContextEntries = 3
)

// OllamaConfig configures the local model endpoint.
type OllamaConfig struct {
	Endpoint    string `toml:"endpoint"`
	EmbedModel  string `toml:"embed_model"`
	FastModel   string `toml:"fast_model"`
	StrongModel string `toml:"strong_model"`
}

// OpenAIConfig configures the cloud backend.
type OpenAIConfig struct {
	APIKey    string `toml:"api_key"`
	ChatModel string `toml:"chat_model"`
}

// PathsConfig locates the corpus and the generated artifacts.
type PathsConfig struct {
	CorpusDir   string `toml:"corpus_dir"`
	IndexFile   string `toml:"index_file"`
	ProfileFile string `toml:"profile_file"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// IndexConfig tunes index building and retrieval.
type IndexConfig struct {
	TopK            int     `toml:"top_k"`
	EmbedRatePerSec float64 `toml:"embed_rate_per_sec"`
}

// Config is the full application configuration.
type Config struct {
	Ollama OllamaConfig `toml:"ollama"`
	OpenAI OpenAIConfig `toml:"openai"`
	Paths  PathsConfig  `toml:"paths"`
	Server ServerConfig `toml:"server"`
	Index  IndexConfig  `toml:"index"`
}

// DefaultPath returns the standard config file location,
// ~/.replyagent/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultConfigDirName, DefaultConfigFile), nil
}

// Load reads the config file at path, fills defaults and applies
// environment overrides. A missing file is not an error; defaults and
// environment alone then make up the configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults only.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyDefaults(filepath.Dir(path))
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyDefaults(baseDir string) {
	if c.Ollama.Endpoint == "" {
		c.Ollama.Endpoint = DefaultOllamaEndpoint
	}
	if c.Ollama.EmbedModel == "" {
		c.Ollama.EmbedModel = DefaultEmbedModel
	}
	if c.Ollama.FastModel == "" {
		c.Ollama.FastModel = DefaultFastModel
	}
	if c.Ollama.StrongModel == "" {
		c.Ollama.StrongModel = DefaultStrongModel
	}
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = DefaultOpenAIModel
	}
	if c.Paths.IndexFile == "" {
		c.Paths.IndexFile = filepath.Join(baseDir, DefaultIndexFile)
	}
	if c.Paths.ProfileFile == "" {
		c.Paths.ProfileFile = filepath.Join(baseDir, DefaultProfileFile)
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Index.TopK <= 0 {
		c.Index.TopK = DefaultTopK
	}
	if c.Index.EmbedRatePerSec <= 0 {
		c.Index.EmbedRatePerSec = DefaultEmbedRatePerSec
	}
}

// applyEnv layers environment variables over the file values. The
// variable names match the ones the embedded tooling has always used.
func (c *Config) applyEnv() {
	setString := func(target *string, key string) {
		if v := os.Getenv(key); v != "" {
			*target = v
		}
	}

	setString(&c.Ollama.Endpoint, "OLLAMA_ENDPOINT")
	setString(&c.Ollama.EmbedModel, "OLLAMA_EMBED_MODEL")
	setString(&c.Ollama.FastModel, "OLLAMA_MODEL_FAST")
	setString(&c.Ollama.StrongModel, "OLLAMA_MODEL_STRONG")
	setString(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&c.OpenAI.ChatModel, "OPENAI_CHAT_MODEL")
	setString(&c.Paths.CorpusDir, "REPLYAGENT_CORPUS_DIR")
	setString(&c.Paths.IndexFile, "REPLYAGENT_INDEX_FILE")
	setString(&c.Paths.ProfileFile, "REPLYAGENT_PROFILE_FILE")
	setString(&c.Server.Addr, "REPLYAGENT_ADDR")

	if v := os.Getenv("RAG_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Index.TopK = n
		}
	}
}

// Save writes the configuration to path, creating the directory if
// needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
