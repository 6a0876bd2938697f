package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/muxman/muxman/internal/config"
	telem "github.com/muxman/muxman/internal/otel"
	"github.com/muxman/muxman/internal/tmux"
)

// Version is injected by the linker at release time.
var Version = "dev"

var (
	// Global flags. Empty values defer to config file / environment.
	flagTmux   string
	flagSocket string
)

var rootCmd = &cobra.Command{
	Use:   "muxman",
	Short: "Manage tmux sessions from the command line or an interactive UI",
	Long: `muxman presents and drives tmux session state.

Without a subcommand it launches the interactive session manager.
Scripting subcommands (list, new, kill, rename, attach, detach, neww)
run exactly one tmux operation each and map failures to a non-zero
exit status.

All session state lives in tmux itself; muxman re-reads it on every
refresh and persists nothing.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagTmux, "tmux", "", "tmux binary to invoke (default: from config, then \"tmux\")")
	rootCmd.PersistentFlags().StringVar(&flagSocket, "socket", "", "tmux socket name (tmux -L)")
	rootCmd.Version = Version
}

// loadConfig loads file/env configuration and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagTmux != "" {
		cfg.Tmux = flagTmux
	}
	if flagSocket != "" {
		cfg.Socket = flagSocket
	}
	return cfg, nil
}

// newClient builds the tmux adapter from resolved configuration.
func newClient(cfg *config.Config, metrics *telem.Metrics) *tmux.Client {
	return tmux.NewClient(tmux.Config{
		Binary:  cfg.Tmux,
		Socket:  cfg.Socket,
		Metrics: metrics,
	})
}
