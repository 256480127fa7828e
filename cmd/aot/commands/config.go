package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fivetwenty-io/aot-client/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration file.
type Config struct {
	API     string        `json:"api,omitempty"      yaml:"api,omitempty"`
	Output  string        `json:"output,omitempty"   yaml:"output,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty"  yaml:"timeout,omitempty"`
	Retries int           `json:"retries,omitempty"  yaml:"retries,omitempty"`
	Verbose bool          `json:"verbose,omitempty"  yaml:"verbose,omitempty"`
	NATSURL string        `json:"nats_url,omitempty" yaml:"nats_url,omitempty"`
}

var configKeys = []string{"api", "output", "timeout", "retries", "verbose", "nats_url"}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the settings stored in the AoT CLI configuration file",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration after flags, environment and config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			config := loadConfig()

			if ok, err := writeStructured(cmd.OutOrStdout(), format, config); ok {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Setting", "Value")
			_ = table.Append("API", config.API)
			_ = table.Append("Output", config.Output)
			_ = table.Append("Timeout", config.Timeout.String())
			_ = table.Append("Retries", fmt.Sprint(config.Retries))
			_ = table.Append("Verbose", fmt.Sprint(config.Verbose))
			_ = table.Append("NATS URL", config.NATSURL)
			_ = table.Append("Config File", viper.ConfigFileUsed())

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value and save it to the configuration file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			if !slices.Contains(configKeys, key) {
				return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
			}

			if key == "output" {
				if _, err := parseOutputFormat(value); err != nil {
					return err
				}
			}

			viper.Set(key, value)

			path, err := saveConfig(loadConfig())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", key, path)

			return err
		},
	}
}

func loadConfig() *Config {
	return &Config{
		API:     viper.GetString("api"),
		Output:  viper.GetString("output"),
		Timeout: viper.GetDuration("timeout"),
		Retries: viper.GetInt("retries"),
		Verbose: viper.GetBool("verbose"),
		NATSURL: viper.GetString("nats_url"),
	}
}

// configFilePath returns the file in use, or $HOME/.aot/config.yml.
func configFilePath() (string, error) {
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".aot", "config.yml"), nil
}

func saveConfig(config *Config) (string, error) {
	configFile, err := configFilePath()
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configFile, nil
}
