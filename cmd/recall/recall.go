// Package recallcmder
package recallcmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/loomworksco/recall/cmd/recall/chat"
	configcmder "github.com/loomworksco/recall/cmd/recall/config"
	ingestcmder "github.com/loomworksco/recall/cmd/recall/ingest"
	servecmder "github.com/loomworksco/recall/cmd/recall/serve"
	versioncmder "github.com/loomworksco/recall/cmd/version"
)

const recallLongDesc string = `Recall is a context and memory pipeline for LLM dialogue agents.

Run the server using:
  recall serve         Run the API server

Talk to a running server using:
  recall chat          Interactive chat session
  recall ingest        Feed documents into the vector store`

const recallShortDesc string = "Recall - Conversational memory for LLM agents"

func NewRecallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recall",
		Short: recallShortDesc,
		Long:  recallLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .recall/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
