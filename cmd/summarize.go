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

	"github.com/ziadkadry99/docqa/internal/extract"
	"github.com/ziadkadry99/docqa/internal/summarize"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a document, web page, video or text",
	Long: `Summarizes exactly one input given by --file, --url, --youtube or --text.
Long inputs are summarized chunk by chunk and the partial summaries combined.`,
	Args: cobra.NoArgs,
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().String("file", "", "local document (.pdf, .docx, .xlsx, .txt, .md, .csv)")
	summarizeCmd.Flags().String("url", "", "web page")
	summarizeCmd.Flags().String("youtube", "", "YouTube video")
	summarizeCmd.Flags().String("text", "", "literal text")
	summarizeCmd.Flags().Int("words", summarize.DefaultWordLimit, "approximate word limit of the summary")
	summarizeCmd.Flags().Bool("outline", false, "also extract a title, topics and key points")
	summarizeCmd.Flags().Bool("json", false, "output as JSON")
	summarizeCmd.MarkFlagsMutuallyExclusive("file", "url", "youtube", "text")
	rootCmd.AddCommand(summarizeCmd)
}

func summarizeInput(cmd *cobra.Command) (extract.Input, error) {
	file, _ := cmd.Flags().GetString("file")
	webURL, _ := cmd.Flags().GetString("url")
	videoURL, _ := cmd.Flags().GetString("youtube")
	text, _ := cmd.Flags().GetString("text")

	switch {
	case file != "":
		return extract.FileInput(file)
	case webURL != "":
		return extract.WebInput(webURL), nil
	case videoURL != "":
		return extract.VideoInput(videoURL), nil
	case text != "":
		return extract.TextInput(text, "text"), nil
	default:
		return extract.Input{}, errors.New("one of --file, --url, --youtube or --text is required")
	}
}

func runSummarize(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	words, _ := cmd.Flags().GetInt("words")
	withOutline, _ := cmd.Flags().GetBool("outline")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	in, err := summarizeInput(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	summarizer, err := newSummarizer(cfg)
	if err != nil {
		return err
	}

	doc, err := newExtractor(cfg).Extract(ctx, in)
	if err != nil {
		return err
	}
	if doc.IsEmpty() {
		return fmt.Errorf("no text could be extracted from %s", doc.Source)
	}

	sum, err := summarizer.Summarize(ctx, doc.Text, words)
	if err != nil {
		return err
	}

	var outline *summarize.Outline
	if withOutline {
		if outline, err = summarizer.Outline(ctx, doc.Text); err != nil {
			return err
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			*summarize.Summary
			Source  string             `json:"source"`
			Outline *summarize.Outline `json:"outline,omitempty"`
		}{sum, doc.Source, outline})
	}

	if outline != nil {
		fmt.Println(titleStyle.Render(outline.Title))
		if len(outline.Topics) > 0 {
			fmt.Println(dimStyle.Render("Topics: " + strings.Join(outline.Topics, ", ")))
		}
		for _, p := range outline.KeyPoints {
			fmt.Printf("  - %s\n", p)
		}
		fmt.Println()
	}
	fmt.Println(answerStyle.Render(sum.Text))
	if !sum.Unchanged {
		fmt.Println(dimStyle.Render(fmt.Sprintf("%d call(s) | tokens: %d in, %d out | %s",
			sum.Calls, sum.InputTokens, sum.OutputTokens, sum.Elapsed.Round(time.Millisecond))))
	}
	return nil
}
