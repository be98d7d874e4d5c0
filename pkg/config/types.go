package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config represents the persistent recall configuration stored as config.toml
// in the .recall/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Storage     StorageConfig     `toml:"storage"`
	API         APIConfig         `toml:"api"`
	Client      ClientConfig      `toml:"client"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	LLM         LLMConfig         `toml:"llm"`
	Chunker     ChunkerConfig     `toml:"chunker"`
	Retrieval   RetrievalConfig   `toml:"retrieval"`
	Summary     SummaryConfig     `toml:"summary"`
	Eventstream EventstreamConfig `toml:"eventstream"`
}

// StorageConfig holds the SQLite paths for the history and summary stores.
// Empty paths select the in-memory backends.
type StorageConfig struct {
	HistoryPath string `toml:"history_path,omitempty"`
	SummaryPath string `toml:"summary_path,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to the running
// API server (e.g. recall chat). Values are full URLs (scheme + host + port).
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
}

// VectorStoreConfig holds vector store settings. Target is the backend
// address: a database path for sqlite, a host for qdrant, or the environment
// for pinecone.
type VectorStoreConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Index      string `toml:"index,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
	APIKey     string `toml:"api_key,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
	Model    string `toml:"model,omitempty"`
	APIKey   string `toml:"api_key,omitempty"`
}

// LLMConfig holds the completion provider and the persona presented to users.
type LLMConfig struct {
	Provider string        `toml:"provider,omitempty"`
	Target   string        `toml:"target,omitempty"`
	Model    string        `toml:"model,omitempty"`
	APIKey   string        `toml:"api_key,omitempty"`
	Persona  PersonaConfig `toml:"persona"`
}

// PersonaConfig names the assistant and shapes its register.
type PersonaConfig struct {
	Name        string `toml:"name,omitempty"`
	Role        string `toml:"role,omitempty"`
	Description string `toml:"description,omitempty"`
}

// ChunkerConfig holds document chunking settings.
type ChunkerConfig struct {
	Size    int `toml:"size,omitempty"`
	Overlap int `toml:"overlap,omitempty"`
}

// RetrievalConfig holds context retrieval tuning.
type RetrievalConfig struct {
	TopK          int `toml:"top_k,omitempty"`
	HistoryWindow int `toml:"history_window,omitempty"`
}

// SummaryConfig holds summary merger tuning. An empty SkipPhrases selects the
// merger's built-in chit-chat set.
type SummaryConfig struct {
	CharBudget  int      `toml:"char_budget,omitempty"`
	SkipPhrases []string `toml:"skip_phrases,omitempty"`
}

// EventstreamConfig holds turn event publishing settings.
type EventstreamConfig struct {
	Provider string   `toml:"provider,omitempty"`
	Brokers  []string `toml:"brokers,omitempty"`
	Topic    string   `toml:"topic,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func intKey(get func(c *Config) *int, name string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if *get(c) == 0 {
				return ""
			}
			return strconv.Itoa(*get(c))
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*get(c) = n
			return nil
		},
	}
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.history_path": {
		get: func(c *Config) string { return c.Storage.HistoryPath },
		set: func(c *Config, v string) error { c.Storage.HistoryPath = v; return nil },
	},
	"storage.summary_path": {
		get: func(c *Config) string { return c.Storage.SummaryPath },
		set: func(c *Config, v string) error { c.Storage.SummaryPath = v; return nil },
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
	"vector_store.provider": {
		get: func(c *Config) string { return c.VectorStore.Provider },
		set: func(c *Config, v string) error { c.VectorStore.Provider = v; return nil },
	},
	"vector_store.target": {
		get: func(c *Config) string { return c.VectorStore.Target },
		set: func(c *Config, v string) error { c.VectorStore.Target = v; return nil },
	},
	"vector_store.index": {
		get: func(c *Config) string { return c.VectorStore.Index },
		set: func(c *Config, v string) error { c.VectorStore.Index = v; return nil },
	},
	"vector_store.dimensions": {
		get: func(c *Config) string {
			if c.VectorStore.Dimensions == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.VectorStore.Dimensions), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for vector_store.dimensions: %w", err)
			}
			c.VectorStore.Dimensions = uint(n)
			return nil
		},
	},
	"vector_store.api_key": {
		get: func(c *Config) string { return c.VectorStore.APIKey },
		set: func(c *Config, v string) error { c.VectorStore.APIKey = v; return nil },
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"embedding.api_key": {
		get: func(c *Config) string { return c.Embedding.APIKey },
		set: func(c *Config, v string) error { c.Embedding.APIKey = v; return nil },
	},
	"llm.provider": {
		get: func(c *Config) string { return c.LLM.Provider },
		set: func(c *Config, v string) error { c.LLM.Provider = v; return nil },
	},
	"llm.target": {
		get: func(c *Config) string { return c.LLM.Target },
		set: func(c *Config, v string) error { c.LLM.Target = v; return nil },
	},
	"llm.model": {
		get: func(c *Config) string { return c.LLM.Model },
		set: func(c *Config, v string) error { c.LLM.Model = v; return nil },
	},
	"llm.api_key": {
		get: func(c *Config) string { return c.LLM.APIKey },
		set: func(c *Config, v string) error { c.LLM.APIKey = v; return nil },
	},
	"llm.persona.name": {
		get: func(c *Config) string { return c.LLM.Persona.Name },
		set: func(c *Config, v string) error { c.LLM.Persona.Name = v; return nil },
	},
	"llm.persona.role": {
		get: func(c *Config) string { return c.LLM.Persona.Role },
		set: func(c *Config, v string) error { c.LLM.Persona.Role = v; return nil },
	},
	"llm.persona.description": {
		get: func(c *Config) string { return c.LLM.Persona.Description },
		set: func(c *Config, v string) error { c.LLM.Persona.Description = v; return nil },
	},
	"chunker.size":             intKey(func(c *Config) *int { return &c.Chunker.Size }, "chunker.size"),
	"chunker.overlap":          intKey(func(c *Config) *int { return &c.Chunker.Overlap }, "chunker.overlap"),
	"retrieval.top_k":          intKey(func(c *Config) *int { return &c.Retrieval.TopK }, "retrieval.top_k"),
	"retrieval.history_window": intKey(func(c *Config) *int { return &c.Retrieval.HistoryWindow }, "retrieval.history_window"),
	"summary.char_budget":      intKey(func(c *Config) *int { return &c.Summary.CharBudget }, "summary.char_budget"),
	"summary.skip_phrases": {
		get: func(c *Config) string { return strings.Join(c.Summary.SkipPhrases, ",") },
		set: func(c *Config, v string) error {
			var phrases []string
			for _, p := range strings.Split(v, ",") {
				if p = strings.TrimSpace(p); p != "" {
					phrases = append(phrases, p)
				}
			}
			c.Summary.SkipPhrases = phrases
			return nil
		},
	},
	"eventstream.provider": {
		get: func(c *Config) string { return c.Eventstream.Provider },
		set: func(c *Config, v string) error { c.Eventstream.Provider = v; return nil },
	},
	"eventstream.topic": {
		get: func(c *Config) string { return c.Eventstream.Topic },
		set: func(c *Config, v string) error { c.Eventstream.Topic = v; return nil },
	},
}
