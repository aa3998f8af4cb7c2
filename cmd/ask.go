package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docqa/internal/llm"
	"github.com/ziadkadry99/docqa/internal/qa"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the indexed documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().Bool("sources", false, "show the document excerpts the answer is based on")
	askCmd.Flags().Bool("json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	question := strings.Join(args, " ")

	withSources, _ := cmd.Flags().GetBool("sources")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	col, _, err := loadCollection(ctx, cfg)
	if err != nil {
		return err
	}
	answerer, err := newAnswerer(cfg)
	if err != nil {
		return err
	}

	res := answerer.Answer(ctx, question, col, withSources)
	if res == nil {
		return errors.New("could not answer the question; rerun with --verbose for details")
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printAnswer(res)
	return nil
}

func printAnswer(res *qa.Result) {
	fmt.Println(answerStyle.Render(strings.TrimSpace(res.Answer)))

	if len(res.Sources) > 0 {
		fmt.Println()
		fmt.Println(titleStyle.Render("Sources"))
		for i, src := range res.Sources {
			fmt.Printf("%s %s\n", sourceStyle.Render(fmt.Sprintf("[%d]", i+1)), src.Source)
			fmt.Printf("    %s\n", truncate(strings.ReplaceAll(src.Content, "\n", " "), 200))
		}
	}

	cost := llm.EstimateCost(res.Model, res.InputTokens, res.OutputTokens)
	fmt.Println()
	fmt.Println(dimStyle.Render(fmt.Sprintf("%s | tokens: %d in, %d out | est. cost $%.5f | %s",
		res.Model, res.InputTokens, res.OutputTokens, cost, res.Elapsed.Round(time.Millisecond))))
}
