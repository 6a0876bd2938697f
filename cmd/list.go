package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tmux sessions",
	Long: `List all tmux sessions with their attach state and window count.

With --json, the full snapshot (sessions, windows, panes) is printed as
JSON for scripting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg, nil)

		snap, err := client.ListSessions(cmd.Context())
		if err != nil {
			return err
		}

		for _, w := range snap.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}

		if flagJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}

		if snap.Empty() {
			fmt.Println("No tmux sessions found.")
			return nil
		}
		fmt.Println("tmux sessions:")
		for _, sess := range snap.Sessions {
			fmt.Printf("  %s\n", sess.Summary())
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&flagJSON, "json", false, "print the full snapshot as JSON")
	rootCmd.AddCommand(listCmd)
}
