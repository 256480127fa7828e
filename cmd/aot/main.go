package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fivetwenty-io/aot-client/cmd/aot/commands"
	"github.com/fivetwenty-io/aot-client/internal/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "aot",
	Short: "Array of Things API CLI",
	Long: `A command-line interface for the Array of Things API.

Query projects, nodes, sensors, observations and metrics, filter them with
field:op:value constraints, follow pagination and export whole collections
as JSON lines or to NATS.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.aot/config.yml)")
	rootCmd.PersistentFlags().StringP("api", "a", "", "API endpoint URL (default "+constants.DefaultHostname+")")
	rootCmd.PersistentFlags().StringP("output", "o", constants.OutputFormatTable, "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Duration("timeout", constants.DefaultHTTPTimeout, "timeout of each HTTP request")
	rootCmd.PersistentFlags().Int("retries", 0, "retries for connection errors, 429 and 5xx responses")

	// Bind flags to viper
	for _, name := range []string{"config", "api", "output", "verbose", "timeout", "retries"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewResourceCommands()...)
	rootCmd.AddCommand(commands.NewExportCommand())
}

func initConfig() {
	// A .env file in the working directory seeds AOT_* variables.
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.aot/config.yml
		viper.AddConfigPath(filepath.Join(home, ".aot"))
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match
	viper.SetEnvPrefix("AOT")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
