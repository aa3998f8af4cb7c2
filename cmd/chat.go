package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docqa/internal/qa"
	"github.com/ziadkadry99/docqa/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with your documents in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

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

		ask := func(ctx context.Context, q string) *qa.Result {
			return answerer.Answer(ctx, q, col, false)
		}
		title := fmt.Sprintf("docqa · %d chunks · %s", col.Count(), cfg.Model)

		_, err = tea.NewProgram(tui.New(ctx, ask, title), tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
