package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/js-analyzer/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "analyzer",
	Short: "Trace the notable constructs of JavaScript programs",
	Long: `analyzer parses JavaScript and reports, in source order, every variable
declaration, assignment, update, condition, loop, function declaration and
return statement it contains, with the line it starts on and a normalized
rendering of its condition or value.

Configuration is read from .analyzer/config.yml in the current directory,
or from the file given with --config. ANALYZER_* environment variables
override both.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .analyzer/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig returns the configuration selected by --config, falling back to
// the working directory's .analyzer/config.yml.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.NewFileLoader(cfgFile).Load()
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// debugf logs only when --verbose is set.
func debugf(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}
