// Package ingestcmder feeds documents into a running recall server.
package ingestcmder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/loomworksco/recall/api"
	"github.com/loomworksco/recall/pkg/cliui"
	"github.com/loomworksco/recall/pkg/config"
	"github.com/loomworksco/recall/pkg/logger"
)

type ingestCommander struct {
	apiTarget string
	debug     bool
	logger    *zap.Logger
	client    *http.Client
}

const ingestLongDesc string = `Ingest documents into a running recall server.

Each file is chunked, embedded, and stored in the vector store by the server's
/v1/ingest endpoint, making its contents retrievable as chat context.
Directories are scanned (non-recursively) for .txt and .md files.

Examples:
  recall ingest notes.md
  recall ingest docs/ extra-notes.txt`

const ingestShortDesc string = "Ingest documents into a recall server"

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest <path> [path...]",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
		Args:  cobra.MinimumNArgs(1),
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
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(args)
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.apiTarget, "api-target", "a", defaults.Client.APITarget, "Recall API server URL")

	return cmd
}

func (c *ingestCommander) run(paths []string) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	c.client = &http.Client{Timeout: 5 * time.Minute}

	files, err := collectFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no ingestable files (.txt, .md) found in %s", strings.Join(paths, ", "))
	}

	fmt.Println()
	var failed int
	for _, file := range files {
		var resp *api.IngestResponse
		err := cliui.Step(os.Stdout, file, func() error {
			var ierr error
			resp, ierr = c.ingestFile(file)
			return ierr
		})
		if err != nil {
			failed++
			fmt.Printf("    %s\n", cliui.DimStyle.Render(err.Error()))
			continue
		}

		fmt.Printf("    %s\n",
			cliui.DimStyle.Render(fmt.Sprintf("%d chunks, %d stored, %d skipped",
				resp.Chunks, resp.Stored, resp.Skipped)),
		)
	}
	fmt.Println()

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to ingest", failed, len(files))
	}
	return nil
}

// collectFiles expands the given paths into a flat list of ingestable files.
// Directories are scanned one level deep for .txt and .md files.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", path, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if ext != ".txt" && ext != ".md" {
				continue
			}
			files = append(files, filepath.Join(path, entry.Name()))
		}
	}
	return files, nil
}

// ingestFile posts a single file's contents to /v1/ingest.
func (c *ingestCommander) ingestFile(path string) (*api.IngestResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	base := filepath.Base(path)
	sourceID := strings.TrimSuffix(base, filepath.Ext(base))

	payload, err := json.Marshal(api.IngestRequest{
		SourceID: sourceID,
		Text:     string(data),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	resp, err := c.client.Post(
		strings.TrimRight(c.apiTarget, "/")+"/v1/ingest",
		"application/json",
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp api.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("server error: %s", errResp.Error)
		}
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var ingestResp api.IngestResponse
	if err := json.NewDecoder(resp.Body).Decode(&ingestResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &ingestResp, nil
}
