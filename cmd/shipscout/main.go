package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose bool
	baseURL string
	timeout time.Duration
	expand  bool
	token   string
	csvPath string
	rawOnly bool

	// Logger for non-interactive commands
	logger *zap.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "shipscout",
	Short: "shipscout - shipment lookup for the ShipStream API",
	Long: `shipscout queries the ShipStream fulfillment API for a shipment by its
unique_id and renders the result as Shipment/Order/Merchant tables, raw
JSON, and a flattened table exportable as CSV.

Run without arguments to start the interactive page.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive page owns the terminal; no logger there.
		if cmd.Use == "shipscout" && cmd.CalledAs() == "shipscout" {
			return nil
		}

		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPage(baseURL)
	},
}

// lookupCmd runs one query and prints the result to stdout.
var lookupCmd = &cobra.Command{
	Use:   "lookup [unique_id]",
	Short: "Look up one shipment and print the result",
	Long: `Issues a single authenticated GET for the given unique_id and prints
the Shipment, Order and Merchant sections, the raw JSON, and the flattened
table. With --csv the flattened table is also written to disk.

Example:
  shipscout lookup 5900008555 --csv .`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Shipment API base URL (default: built-in endpoint)")

	lookupCmd.Flags().DurationVar(&timeout, "timeout", 0, "Request timeout, clamped to 5s-120s (default 30s)")
	lookupCmd.Flags().BoolVar(&expand, "expand", true, "Inline the related order (expand=order)")
	lookupCmd.Flags().StringVar(&token, "token", "", "Auth token (default: env, secrets file, config)")
	lookupCmd.Flags().StringVar(&csvPath, "csv", "", "Directory to write shipment_<unique_id>.csv into")
	lookupCmd.Flags().BoolVar(&rawOnly, "no-tables", false, "Print raw JSON only")

	rootCmd.AddCommand(lookupCmd)
}

func workingDir() (string, error) {
	return os.Getwd()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
