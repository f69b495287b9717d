package cmd

import (
	"github.com/spf13/cobra"

	"github.com/km-arc/go-modular/framework/config"
)

var (
	version  = "dev"
	cfgFile  string
	envFiles []string
)

var rootCmd = &cobra.Command{
	Use:   "modular",
	Short: "A service host with configuration-gated modules",
	Long: `Hosts the application modules compiled into the binary. Which modules run
is decided by Services:<FullTypeName>:Enabled flags read from the config file,
.env files and the environment.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./config.{yaml,json,toml} if present)")
	rootCmd.PersistentFlags().StringArrayVar(&envFiles, "env-file", nil,
		"dotenv file to load before reading the environment (repeatable, default: .env)")
}

func configOptions() config.Options {
	return config.Options{EnvFiles: envFiles, File: cfgFile}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
