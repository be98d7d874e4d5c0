// Package chatcmder provides an interactive chat session against a running
// recall API server.
package chatcmder

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/loomworksco/recall/api"
	"github.com/loomworksco/recall/pkg/cliui"
	"github.com/loomworksco/recall/pkg/config"
	"github.com/loomworksco/recall/pkg/llm"
	"github.com/loomworksco/recall/pkg/logger"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true).Render("recall> ")
)

type chatCommander struct {
	apiTarget    string
	conversation string
	debug        bool
	logger       *zap.Logger
	client       *http.Client
}

const chatLongDesc string = `Start an interactive chat session against a running recall server.

Each message is sent to the server's /v1/chat endpoint. The server retrieves
relevant past context, answers through the configured LLM, and maintains a
running conversation summary.

Messages in the same conversation share history and summary. Use
--conversation to resume or isolate a thread.

Examples:
  recall chat
  recall chat --conversation project-notes
  recall chat --api-target http://localhost:8080`

const chatShortDesc string = "Interactive chat session against a recall server"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("api-target") {
				cmder.apiTarget = cfg.Client.APITarget
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.apiTarget, "api-target", "a", defaults.Client.APITarget, "Recall API server URL")
	cmd.Flags().StringVarP(&cmder.conversation, "conversation", "c", "default", "Conversation ID to chat in")

	return cmd
}

func (c *chatCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	c.client = &http.Client{Timeout: 5 * time.Minute}

	fmt.Println()
	fmt.Printf("  %s %s\n",
		cliui.KeyStyle.Render("Conversation:"),
		cliui.NameStyle.Render(c.conversation),
	)
	fmt.Printf("  %s %s\n\n",
		cliui.KeyStyle.Render("Server:"),
		cliui.ValueStyle.Render(c.apiTarget),
	)
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" || input == "exit" || input == "quit" {
			break
		}

		resp, err := c.sendTurn(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			continue
		}

		fmt.Printf("%s%s\n", assistantPrompt, resp.Answer)

		if c.debug {
			fmt.Printf("  %s\n", cliui.DimStyle.Render(
				fmt.Sprintf("tier=%s summary_v%d: %s", resp.RetrievalTier, resp.SummaryVersion, resp.Summary),
			))
		}
		fmt.Println()
	}

	fmt.Println()
	return nil
}

// sendTurn posts one user message to /v1/chat and returns the server's reply.
func (c *chatCommander) sendTurn(query string) (*api.ChatResponse, error) {
	reqBody := api.ChatRequest{
		ConversationID: c.conversation,
		Query:          query,
		Source:         llm.SourceTextChat,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	resp, err := c.client.Post(
		strings.TrimRight(c.apiTarget, "/")+"/v1/chat",
		"application/json",
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp api.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("server error: %s", errResp.Error)
		}
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var chatResp api.ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &chatResp, nil
}
