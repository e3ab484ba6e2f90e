package cli

import (
	"fmt"
	"os"

	"github.com/LeJamon/goOracle/internal/config"
	"github.com/LeJamon/goOracle/internal/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configFile string
	debug      bool
	verbose    bool
	quiet      bool

	// Set by loadConfig before any command runs
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "oracled",
	Short: "oracled - credential-gated price oracle",
	Long: `oracled hosts price oracle components on a small ledger. Anyone can read
the price of an asset pair; only holders of the oracle's admin badge can
update it. Every update also records the reciprocal price of the reverse pair.`,
	Version:           "0.1.0-dev",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable normally suppressed debug logging")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output to console after startup")
}

// loadConfig reads the configuration file and environment, then builds the logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}

	l, err := log.New(log.Options{
		Level:   c.Log.Level,
		Format:  c.Log.Format,
		Debug:   debug,
		Verbose: verbose,
		Quiet:   quiet,
	})
	if err != nil {
		return err
	}

	cfg = c
	logger = l
	return nil
}
