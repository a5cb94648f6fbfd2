package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mensio/brickstat/errors"
	"github.com/mensio/brickstat/logger"
	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "brickstat",
	Short: "Dimension statistics and range counts of masonry survey components",
	Long: `brickstat analyses the components (bricks, stones, ...) of a masonry survey.
It reads the attribute tables of the survey layer, where each component carries
the metrics of its oriented minimum bounding box, and writes statistics and
dimension range counts as result tables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Setup(cmd.Name(), viper.GetString("log-level"))
	},
}

// Execute runs the command line and exits with the code of the error, if any.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(errors.ExitCode(err))
	}
}

// config params used by >1 subcommands are listed here
// config params specific to only 1 command, go in the file for that command
var cfgFile string

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.brickstat.yaml)")
	flags.String("log-level", "info", "log level. panic|fatal|error|warning|info|debug")
	flags.String("profiles", "", "ini file with analysis profiles, on top of the built-in bricks and components profiles")
	flags.String("out", ".", "directory to write the result tables to")
	flags.String("format", "csv", "format of the result tables. csv|json|msgp|dump")
	flags.String("labels", "fixed", "format of the range labels. fixed (0.080 - 0.120) or compact (0.08 - 0.12)")
	flags.String("sqlite", "", "sqlite database to keep every run in (disabled if empty)")
	flags.String("metrics-file", "", "write run metrics to this file in the prometheus text format (disabled if empty)")
	flags.Bool("live", false, "show progress live on the terminal instead of logging each step")

	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(bricksCmd, componentsCmd, profilesCmd, runsCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(errors.CodeConfig)
		}

		// Search config in home directory with name ".brickstat" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".brickstat")
	}

	viper.SetEnvPrefix("brickstat")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debugf("using config file %s", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "failed to read config file %s: %s\n", cfgFile, err)
		os.Exit(errors.CodeConfig)
	}
}
