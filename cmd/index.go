package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docqa/internal/embeddings"
	"github.com/ziadkadry99/docqa/internal/ingest"
	"github.com/ziadkadry99/docqa/internal/progress"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the vector index from the knowledge base",
	Long: `Extracts every supported file in the knowledge-base directory, plus an
optional web page and video transcript, splits them into chunks, embeds them
and persists the index. An unchanged knowledge base is not re-indexed unless
--force is given.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().String("url", "", "web page to include in the index")
	indexCmd.Flags().String("youtube", "", "YouTube video whose transcript to include")
	indexCmd.Flags().Bool("force", false, "rebuild even if nothing changed")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	webURL, _ := cmd.Flags().GetString("url")
	videoURL, _ := cmd.Flags().GetString("youtube")
	force, _ := cmd.Flags().GetBool("force")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	embedder, err := embeddings.New(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	files, err := ingest.DiscoverFiles(cfg)
	if err != nil {
		return fmt.Errorf("reading knowledge base %s: %w", cfg.KnowledgeBaseDir, err)
	}
	src := ingest.Sources{Files: files, WebURL: webURL, VideoURL: videoURL}

	pipeline := ingest.NewPipeline(cfg, newExtractor(cfg), embedder)
	if !force {
		upToDate, err := pipeline.UpToDate(src)
		if err != nil {
			return err
		}
		if upToDate {
			fmt.Println(dimStyle.Render("Index is up to date. Use --force to rebuild."))
			return nil
		}
	}

	fmt.Printf("Indexing %d file(s) from %s\n", len(files), cfg.KnowledgeBaseDir)
	pipeline.SetReporter(progress.NewReporter("Extracting"))

	res, err := pipeline.Run(ctx, src)
	if err != nil {
		return err
	}
	if res.Empty() {
		fmt.Println("No text found to index.")
		return nil
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("Indexed %d document(s) as %d chunk(s) in %s",
		res.Documents, res.Records, res.Duration.Round(time.Millisecond))))
	fmt.Println(dimStyle.Render("Index written to " + cfg.IndexDir))
	return nil
}
