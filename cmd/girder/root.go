package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"girder/internal/config"
	"girder/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	cfgPath   string
	logLevel  string
	logFormat string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "girder",
	Short: "Connection geometry synthesis and clash validation for steel structures",
	Long: "Girder infers joints from a structural member set, synthesizes plates,\n" +
		"bolts, and welds, then detects and corrects geometric and code-compliance\n" +
		"clashes through a bounded revalidation loop.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if logFormat != "" {
			cfg.Log.Format = logFormat
		}
		logging.Init(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to girder.yaml (default: built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format override (text|json)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
