package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/chrisdamba/couriermatch/internal/simulator"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Play one courier search session in the terminal",
	RunE:  runSearch,
}

var printAssignment bool

func init() {
	addSearchFlags(searchCmd)
}

func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().String("region", "", "region hint passed to the session (postal code)")
	cmd.Flags().Float64("time-scale", 1.0, "playback speed; 2 plays twice as fast")
	cmd.Flags().Bool("progress", true, "draw the search as a progress bar")
	cmd.Flags().BoolVar(&printAssignment, "json", false, "print the final assignment as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	bindFlag(cmd.Flags().Lookup("region"), "region")
	bindFlag(cmd.Flags().Lookup("time-scale"), "time_scale")
	bindFlag(cmd.Flags().Lookup("progress"), "show_progress")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	renderer := simulator.NewConsoleRenderer(cmd.OutOrStdout(), a.cfg.ShowProgress)
	assignment, err := a.sequencer().Run(ctx, a.cfg.RegionHint, renderer.Observe)
	if errors.Is(err, context.Canceled) {
		a.logger.Info("search cancelled")
		return nil
	}
	if err != nil {
		return err
	}

	if printAssignment {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(assignment)
	}
	return nil
}
