/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/aquaevents/config"
	"github.com/tieubaoca/aquaevents/logger"
	"go.uber.org/zap"
)

var (
	cfgFile string
	verbose bool

	cfg *config.Config
	log *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aquaevents",
	Short: "Aquatic events directory site and its content tooling",
	Long: `aquaevents serves the multilingual aquatic events site and ships the
tooling around it: event collection inspection, slug backfill, FAQ
translation and sitemap generation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		l, err := logger.New(loaded.Log, verbose)
		if err != nil {
			return err
		}
		cfg, log = loaded, l
		zap.ReplaceGlobals(log)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if log != nil {
		if err != nil {
			log.Error("command failed", zap.Error(err))
		}
		_ = log.Sync()
	} else if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
