package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var detachCmd = &cobra.Command{
	Use:   "detach <name>",
	Short: "Detach all clients from a tmux session",
	Long: `Detach every client attached to the named session.

Detaching a session with no attached clients is not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg, nil)

		if err := client.DetachSession(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Detached clients from '%s'.\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detachCmd)
}
