package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new detached tmux session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg, nil)

		if err := client.NewSession(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Session '%s' created.\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
