package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var newwCmd = &cobra.Command{
	Use:   "neww <session>",
	Short: "Open a new window in a tmux session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg, nil)

		if err := client.NewWindow(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("New window created in '%s'.\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newwCmd)
}
