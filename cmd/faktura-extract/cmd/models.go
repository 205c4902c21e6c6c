package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramirent/faktura-extract/internal/config"
	"github.com/ramirent/faktura-extract/internal/llm"
)

// apiModel represents a model from the OpenAI-compatible /models endpoint.
type apiModel struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

type modelsResponse struct {
	Object string     `json:"object"`
	Data   []apiModel `json:"data"`
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available AI Fallback models from the configured provider",
	Long: `Fetch and list available models from the AI Fallback provider
configured via ai.api_key / FAKTURA_AI_API_KEY.

Examples:
  faktura-extract models`,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Println("AI Fallback configuration:")
	fmt.Printf("  Provider: %s\n", orNotSet(cfg.AI.Provider))
	fmt.Printf("  Model:    %s\n", orNotSet(cfg.AI.Model))
	fmt.Printf("  API key:  %s\n", maskedKey(cfg.AI.APIKey))
	fmt.Println()

	if cfg.AI.APIKey == "" {
		fmt.Println("Set ai.api_key (or FAKTURA_AI_API_KEY) to fetch available models.")
		return nil
	}

	models, err := fetchModels(llm.DefaultBaseURL, cfg.AI.APIKey)
	if err != nil {
		fmt.Printf("could not fetch models: %v\n", err)
		return nil
	}
	if len(models) == 0 {
		fmt.Println("no models returned from provider")
		return nil
	}

	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL ID\tOWNER\tCREATED")
	fmt.Fprintln(w, "--------\t-----\t-------")
	for _, m := range models {
		created := ""
		if m.Created > 0 {
			created = time.Unix(m.Created, 0).Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.ID, m.OwnedBy, created)
	}
	return w.Flush()
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func maskedKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) > 8 {
		return key[:8] + "..."
	}
	return "set"
}

func fetchModels(baseURL, apiKey string) ([]apiModel, error) {
	url := strings.TrimSuffix(baseURL, "/") + "/models"

	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed modelsResponse
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Data) > 0 {
		return parsed.Data, nil
	}

	var models []apiModel
	if err := json.Unmarshal(body, &models); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return models, nil
}
