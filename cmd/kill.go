package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var killCmd = &cobra.Command{
	Use:   "kill <name>",
	Short: "Kill a tmux session",
	Long: `Kill the named tmux session.

Killing a session that does not exist is an error, not a no-op: tmux
reports it and muxman exits non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg, nil)

		if err := client.KillSession(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Session '%s' killed.\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(killCmd)
}
