package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docqa/internal/vectordb"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Semantically search the indexed documents",
	Long:  `Searches the index using a natural language query and prints the most relevant chunks without calling the completion model.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 5, "maximum number of results")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	query := strings.Join(args, " ")

	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	col, _, err := loadCollection(ctx, cfg)
	if err != nil {
		return err
	}

	records, err := col.Nearest(ctx, query, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		return printSearchJSON(records)
	}
	fmt.Print(vectordb.FormatRecords(records))
	return nil
}

type searchResultJSON struct {
	Rank       int            `json:"rank"`
	Similarity float64        `json:"similarity"`
	Source     string         `json:"source"`
	Text       string         `json:"text"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func printSearchJSON(records []vectordb.Record) error {
	out := make([]searchResultJSON, 0, len(records))
	for i, r := range records {
		out = append(out, searchResultJSON{
			Rank:       i + 1,
			Similarity: float64(r.Similarity),
			Source:     r.Source,
			Text:       r.Text,
			Metadata:   r.Metadata,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
