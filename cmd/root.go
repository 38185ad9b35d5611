package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "couriermatch",
	Short: "Simulates the courier search shown to a customer after checkout",
	Long: `couriermatch plays a simulated courier search session: a radar-style search,
the assigned courier's card, the match confirmation and the delivery timeline.
Sessions can run in the terminal or be served over HTTP, and the catalog of
courier names and photos is managed with the drivers command.`,
	SilenceUsage: true,
	RunE:         runSearch,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./examples/config.json)")
	rootCmd.PersistentFlags().Int64("seed", 0, "random seed; 0 seeds from the clock")
	rootCmd.PersistentFlags().String("store", "memory", "photo store driver: memory, postgres or mongo")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")

	bindFlag(rootCmd.PersistentFlags().Lookup("seed"), "seed")
	bindFlag(rootCmd.PersistentFlags().Lookup("store"), "store.driver")
	bindFlag(rootCmd.PersistentFlags().Lookup("log-level"), "logging.level")
	bindFlag(rootCmd.PersistentFlags().Lookup("log-format"), "logging.format")

	addSearchFlags(rootCmd)
	rootCmd.AddCommand(searchCmd, serveCmd, driversCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
