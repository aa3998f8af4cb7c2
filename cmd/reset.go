package cmd

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docqa/internal/vectordb"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the persisted index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if !vectordb.Exists(cfg.IndexDir) {
			fmt.Println("Nothing to reset.")
			return nil
		}

		if !yes {
			prompt := promptui.Prompt{
				Label:     fmt.Sprintf("Delete the index at %s", cfg.IndexDir),
				IsConfirm: true,
			}
			if _, err := prompt.Run(); err != nil {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := vectordb.Reset(cfg.IndexDir); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Index deleted."))
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(resetCmd)
}
