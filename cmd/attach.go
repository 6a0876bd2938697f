package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/muxman/muxman/internal/tmux"
)

var attachCmd = &cobra.Command{
	Use:   "attach <name>",
	Short: "Attach to a tmux session",
	Long: `Attach the terminal to the named tmux session.

Inside an existing tmux client this switches the client to the target
session instead of nesting a second one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg, nil)
		name := args[0]

		if tmux.InsideTmux() {
			return client.SwitchClient(cmd.Context(), name)
		}

		if err := tmux.ValidateName("session name", name); err != nil {
			return err
		}
		attach := client.AttachCommand(name)
		attach.Stdin = os.Stdin
		attach.Stdout = os.Stdout
		attach.Stderr = os.Stderr
		return attach.Run()
	},
}

func init() {
	rootCmd.AddCommand(attachCmd)
}
