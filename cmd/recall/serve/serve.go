// Package servecmder provides the serve command that runs the recall API server.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/loomworksco/recall/api"
	apimcp "github.com/loomworksco/recall/api/mcp"
	"github.com/loomworksco/recall/pkg/config"
	embeddingutils "github.com/loomworksco/recall/pkg/embeddings/utils"
	eventstreamutils "github.com/loomworksco/recall/pkg/eventstream/utils"
	"github.com/loomworksco/recall/pkg/history"
	historyinmemory "github.com/loomworksco/recall/pkg/history/inmemory"
	historysqlite "github.com/loomworksco/recall/pkg/history/sqlite"
	"github.com/loomworksco/recall/pkg/ingest"
	"github.com/loomworksco/recall/pkg/llm"
	llmutils "github.com/loomworksco/recall/pkg/llm/utils"
	"github.com/loomworksco/recall/pkg/logger"
	"github.com/loomworksco/recall/pkg/retrieval"
	"github.com/loomworksco/recall/pkg/summary"
	summaryinmemory "github.com/loomworksco/recall/pkg/summary/inmemory"
	summarysqlite "github.com/loomworksco/recall/pkg/summary/sqlite"
	"github.com/loomworksco/recall/pkg/turn"
	"github.com/loomworksco/recall/pkg/vector"
	vectorutils "github.com/loomworksco/recall/pkg/vector/utils"
)

// ensureIndexTimeout bounds index creation against hosted vector backends.
const ensureIndexTimeout = 60 * time.Second

type ServeCommander struct {
	apiListen       string
	historyPath     string
	summaryPath     string
	vectorStoreProv string
	vectorStoreTgt  string
	vectorStoreIdx  string
	vectorStoreDims uint
	embeddingProv   string
	embeddingTgt    string
	embeddingModel  string
	llmProv         string
	llmModel        string

	debug  bool
	v      *viper.Viper
	logger *zap.Logger
}

// serveFlags defines the flags the serve command registers and the viper keys
// they bind to.
var serveFlags = config.FlagSet{
	config.FlagAPIListen: {
		Name: "api-listen", Shorthand: "a", ViperKey: "api.listen",
		Description: "Address for the API server to listen on",
	},
	config.FlagHistoryPath: {
		Name: "history-path", ViperKey: "storage.history_path",
		Description: "Path to the history SQLite database (default: in-memory)",
	},
	config.FlagSummaryPath: {
		Name: "summary-path", ViperKey: "storage.summary_path",
		Description: "Path to the summary SQLite database (default: in-memory)",
	},
	config.FlagVectorStoreProv: {
		Name: "vector-store-provider", ViperKey: "vector_store.provider",
		Description: "Vector store backend (sqlite, qdrant, pinecone)",
	},
	config.FlagVectorStoreTgt: {
		Name: "vector-store-target", ViperKey: "vector_store.target",
		Description: "Vector store target (db path, host:port, or environment)",
	},
	config.FlagVectorStoreIdx: {
		Name: "vector-store-index", ViperKey: "vector_store.index",
		Description: "Vector store index/collection name",
	},
	config.FlagVectorStoreDims: {
		Name: "vector-store-dimensions", ViperKey: "vector_store.dimensions",
		Description: "Embedding dimensionality of the vector index",
	},
	config.FlagEmbeddingProv: {
		Name: "embedding-provider", ViperKey: "embedding.provider",
		Description: "Embedding provider (gemini, ollama)",
	},
	config.FlagEmbeddingTgt: {
		Name: "embedding-target", ViperKey: "embedding.target",
		Description: "Embedding provider base URL",
	},
	config.FlagEmbeddingModel: {
		Name: "embedding-model", ViperKey: "embedding.model",
		Description: "Embedding model name",
	},
	config.FlagLLMProv: {
		Name: "llm-provider", ViperKey: "llm.provider",
		Description: "LLM completion provider (gemini)",
	},
	config.FlagLLMModel: {
		Name: "llm-model", ViperKey: "llm.model",
		Description: "LLM completion model name",
	},
}

// serveFlagKeys lists the registry keys serve binds to viper.
var serveFlagKeys = []string{
	config.FlagAPIListen,
	config.FlagHistoryPath,
	config.FlagSummaryPath,
	config.FlagVectorStoreProv,
	config.FlagVectorStoreTgt,
	config.FlagVectorStoreIdx,
	config.FlagVectorStoreDims,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagLLMProv,
	config.FlagLLMModel,
}

const serveLongDesc string = `Run the recall API server.

The server exposes the chat, search, and ingest endpoints plus an MCP
endpoint at /mcp. Configuration follows the usual precedence: CLI flags
override RECALL_* environment variables, which override config.toml,
which overrides built-in defaults.

Examples:
  recall serve
  recall serve --api-listen :9090 --vector-store-provider qdrant --vector-store-target localhost:6334`

const serveShortDesc string = "Run the recall API server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("initializing config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, serveFlags, serveFlagKeys)
			cmder.v = v

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, serveFlags, config.FlagAPIListen, &cmder.apiListen)
	config.AddStringFlag(cmd, serveFlags, config.FlagHistoryPath, &cmder.historyPath)
	config.AddStringFlag(cmd, serveFlags, config.FlagSummaryPath, &cmder.summaryPath)
	config.AddStringFlag(cmd, serveFlags, config.FlagVectorStoreProv, &cmder.vectorStoreProv)
	config.AddStringFlag(cmd, serveFlags, config.FlagVectorStoreTgt, &cmder.vectorStoreTgt)
	config.AddStringFlag(cmd, serveFlags, config.FlagVectorStoreIdx, &cmder.vectorStoreIdx)
	config.AddUintFlag(cmd, serveFlags, config.FlagVectorStoreDims, &cmder.vectorStoreDims)
	config.AddStringFlag(cmd, serveFlags, config.FlagEmbeddingProv, &cmder.embeddingProv)
	config.AddStringFlag(cmd, serveFlags, config.FlagEmbeddingTgt, &cmder.embeddingTgt)
	config.AddStringFlag(cmd, serveFlags, config.FlagEmbeddingModel, &cmder.embeddingModel)
	config.AddStringFlag(cmd, serveFlags, config.FlagLLMProv, &cmder.llmProv)
	config.AddStringFlag(cmd, serveFlags, config.FlagLLMModel, &cmder.llmModel)

	return cmd
}

func (c *ServeCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	cfg := c.effectiveConfig()

	// Storage
	histories, err := c.createHistoryDriver(cfg)
	if err != nil {
		return err
	}
	defer histories.Close()

	summaries, err := c.createSummaryStore(cfg)
	if err != nil {
		return err
	}
	defer summaries.Close()

	// Vector store
	vectors, err := vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
		ProviderType: cfg.VectorStore.Provider,
		Target:       cfg.VectorStore.Target,
		Index:        cfg.VectorStore.Index,
		Dimensions:   cfg.VectorStore.Dimensions,
		APIKey:       cfg.VectorStore.APIKey,
		Logger:       c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating vector store: %w", err)
	}
	defer vectors.Close()

	ctx, cancel := context.WithTimeout(context.Background(), ensureIndexTimeout)
	err = vectors.EnsureIndex(ctx, cfg.VectorStore.Index, cfg.VectorStore.Dimensions, vector.MetricCosine)
	cancel()
	if err != nil {
		return fmt.Errorf("ensuring vector index: %w", err)
	}

	// Providers
	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
		APIKey:       cfg.Embedding.APIKey,
	})
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	defer embedder.Close()

	completer, err := llmutils.NewCompleter(&llmutils.NewCompleterOpts{
		ProviderType: cfg.LLM.Provider,
		TargetURL:    cfg.LLM.Target,
		Model:        cfg.LLM.Model,
		APIKey:       cfg.LLM.APIKey,
	})
	if err != nil {
		return fmt.Errorf("creating completer: %w", err)
	}
	defer completer.Close()

	publisher, err := eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{
		ProviderType: cfg.Eventstream.Provider,
		Brokers:      cfg.Eventstream.Brokers,
		Topic:        cfg.Eventstream.Topic,
	})
	if err != nil {
		return fmt.Errorf("creating event publisher: %w", err)
	}
	defer publisher.Close()

	// Pipeline
	retriever := retrieval.NewCoordinator(retrieval.CoordinatorConfig{
		Embedder:      embedder,
		Vectors:       vectors,
		History:       histories,
		TopK:          cfg.Retrieval.TopK,
		HistoryWindow: cfg.Retrieval.HistoryWindow,
		Logger:        c.logger,
	})

	engine := turn.NewEngine(turn.EngineConfig{
		Retriever: retriever,
		Completer: completer,
		Merger:    summary.NewMerger(cfg.Summary.CharBudget, cfg.Summary.SkipPhrases),
		Summaries: summaries,
		History:   histories,
		Publisher: publisher,
		Persona: llm.Persona{
			Name:        cfg.LLM.Persona.Name,
			Role:        cfg.LLM.Persona.Role,
			Description: cfg.LLM.Persona.Description,
		},
		Logger: c.logger,
	})

	pipeline := ingest.NewPipeline(ingest.PipelineConfig{
		Embedder:  embedder,
		Vectors:   vectors,
		ChunkSize: cfg.Chunker.Size,
		Overlap:   cfg.Chunker.Overlap,
		Logger:    c.logger,
	})

	mcpServer, err := apimcp.NewServer(apimcp.Config{
		VectorDriver: vectors,
		Embedder:     embedder,
		Engine:       engine,
		Logger:       c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	apiServer := api.NewServer(api.Config{
		ListenAddr:   cfg.API.Listen,
		Engine:       engine,
		Pipeline:     pipeline,
		Embedder:     embedder,
		VectorDriver: vectors,
		MCPHandler:   mcpServer.Handler(),
	}, c.logger)

	c.logger.Info("starting api server",
		zap.String("api_addr", cfg.API.Listen),
		zap.String("vector_store", cfg.VectorStore.Provider),
		zap.String("embedding", cfg.Embedding.Provider),
		zap.String("llm", cfg.LLM.Provider),
	)

	// Channel to capture errors from the server goroutine
	errChan := make(chan error, 1)

	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return apiServer.Shutdown()
	}
}

// effectiveConfig materializes the viper precedence chain (flags > env >
// config.toml > defaults) into a Config.
func (c *ServeCommander) effectiveConfig() *config.Config {
	if c.v == nil {
		// Tests may call run() without PreRunE; fall back to defaults.
		return config.NewDefaultConfig()
	}

	cfg := config.NewDefaultConfig()
	v := c.v

	cfg.Storage.HistoryPath = v.GetString("storage.history_path")
	cfg.Storage.SummaryPath = v.GetString("storage.summary_path")

	cfg.API.Listen = v.GetString("api.listen")

	cfg.VectorStore.Provider = v.GetString("vector_store.provider")
	cfg.VectorStore.Target = v.GetString("vector_store.target")
	cfg.VectorStore.Index = v.GetString("vector_store.index")
	cfg.VectorStore.Dimensions = v.GetUint("vector_store.dimensions")
	cfg.VectorStore.APIKey = v.GetString("vector_store.api_key")

	cfg.Embedding.Provider = v.GetString("embedding.provider")
	cfg.Embedding.Target = v.GetString("embedding.target")
	cfg.Embedding.Model = v.GetString("embedding.model")
	cfg.Embedding.APIKey = v.GetString("embedding.api_key")

	cfg.LLM.Provider = v.GetString("llm.provider")
	cfg.LLM.Target = v.GetString("llm.target")
	cfg.LLM.Model = v.GetString("llm.model")
	cfg.LLM.APIKey = v.GetString("llm.api_key")
	cfg.LLM.Persona.Name = v.GetString("llm.persona.name")
	cfg.LLM.Persona.Role = v.GetString("llm.persona.role")
	cfg.LLM.Persona.Description = v.GetString("llm.persona.description")

	cfg.Chunker.Size = v.GetInt("chunker.size")
	cfg.Chunker.Overlap = v.GetInt("chunker.overlap")

	cfg.Retrieval.TopK = v.GetInt("retrieval.top_k")
	cfg.Retrieval.HistoryWindow = v.GetInt("retrieval.history_window")

	cfg.Summary.CharBudget = v.GetInt("summary.char_budget")
	// A nil slice keeps the merger's built-in chit-chat set.
	if phrases := v.GetStringSlice("summary.skip_phrases"); len(phrases) > 0 {
		cfg.Summary.SkipPhrases = phrases
	}

	cfg.Eventstream.Provider = v.GetString("eventstream.provider")
	cfg.Eventstream.Brokers = v.GetStringSlice("eventstream.brokers")
	cfg.Eventstream.Topic = v.GetString("eventstream.topic")

	return cfg
}

func (c *ServeCommander) createHistoryDriver(cfg *config.Config) (history.Driver, error) {
	if cfg.Storage.HistoryPath != "" {
		driver, err := historysqlite.NewDriver(cfg.Storage.HistoryPath)
		if err != nil {
			return nil, fmt.Errorf("creating history store: %w", err)
		}
		c.logger.Info("using SQLite history storage", zap.String("path", cfg.Storage.HistoryPath))
		return driver, nil
	}

	c.logger.Info("using in-memory history storage")
	return historyinmemory.NewDriver(), nil
}

func (c *ServeCommander) createSummaryStore(cfg *config.Config) (summary.Store, error) {
	if cfg.Storage.SummaryPath != "" {
		store, err := summarysqlite.NewStore(cfg.Storage.SummaryPath)
		if err != nil {
			return nil, fmt.Errorf("creating summary store: %w", err)
		}
		c.logger.Info("using SQLite summary storage", zap.String("path", cfg.Storage.SummaryPath))
		return store, nil
	}

	c.logger.Info("using in-memory summary storage")
	return summaryinmemory.NewStore(), nil
}
