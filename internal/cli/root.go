package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mvp-joe/enumgen/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "enumgen",
	Short: "Enumgen - build-time enum table generator",
	Long: `Enumgen extracts enum definitions from C++ headers into reverse lookup
tables (value -> member name) and merges per-file message tables into a
single combined file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.enumgen/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the --config file when given, otherwise the project
// config in the working directory. Environment variables apply either way.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.NewFileLoader(cfgFile).Load()
		if err != nil {
			return nil, err
		}
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", cfgFile)
		}
		return cfg, nil
	}
	return config.LoadConfig()
}
