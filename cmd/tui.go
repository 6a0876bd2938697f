package cmd

import (
	"github.com/spf13/cobra"

	telem "github.com/muxman/muxman/internal/otel"
	"github.com/muxman/muxman/internal/store"
	"github.com/muxman/muxman/internal/tmux"
	"github.com/muxman/muxman/internal/tui"
)

var (
	flagTheme     string
	flagNoConfirm bool
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive session manager (default)",
	Long: `Launch the full-screen interactive session manager.

This is also what muxman does when run without a subcommand.
Configuration is loaded from .muxman.yaml or MUXMAN_* environment
variables; see the README for all options.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

func init() {
	tuiCmd.Flags().StringVar(&flagTheme, "theme", "", "color theme: dark, light")
	tuiCmd.Flags().BoolVar(&flagNoConfirm, "no-confirm", false, "kill sessions without a confirmation prompt")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagTheme != "" {
		cfg.Theme = flagTheme
	}
	if flagNoConfirm {
		cfg.SkipConfirm = true
	}

	ctx := cmd.Context()

	telem.Version = Version
	telemetry, err := telem.Init(ctx, telem.Config{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		return err
	}
	defer telemetry.Shutdown(ctx)

	t := &tui.TUI{
		Client:          newClient(cfg, telemetry.Metrics),
		Store:           store.New(),
		RefreshInterval: cfg.RefreshDuration,
		SkipConfirm:     cfg.SkipConfirm,
		Theme:           tui.ThemeByName(cfg.Theme),
		Metrics:         telemetry.Metrics,
		InsideTmux:      tmux.InsideTmux(),
	}
	return t.Run(ctx)
}
