// Package configcmder provides the config command for managing persistent
// recall configuration stored in the .recall/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent recall configuration.

Configuration is stored as config.toml in the .recall/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  storage.history_path, storage.summary_path,
  api.listen, client.api_target,
  vector_store.provider, vector_store.target, vector_store.index,
  vector_store.dimensions, vector_store.api_key,
  embedding.provider, embedding.target, embedding.model, embedding.api_key,
  llm.provider, llm.target, llm.model, llm.api_key,
  llm.persona.name, llm.persona.role, llm.persona.description,
  chunker.size, chunker.overlap,
  retrieval.top_k, retrieval.history_window,
  summary.char_budget, summary.skip_phrases,
  eventstream.provider, eventstream.topic

Use subcommands to get, set, or list configuration values:
  recall config set <key> <value>    Set a configuration value
  recall config get <key>            Get a configuration value
  recall config list                 List all configuration values

Examples:
  recall config set vector_store.provider qdrant
  recall config set embedding.model embedding-001
  recall config get llm.persona.name
  recall config list`

const configShortDesc string = "Manage persistent recall configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
