package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pokereports/pokereports/internal/config"
	"github.com/pokereports/pokereports/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Show the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "# %s\n", used)
		}
		return output.NewFormatter(output.FormatYAML).Write(cmd.OutOrStdout(), cfg)
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Persist a setting in the config file",
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys(),
	Example: `  pokereports config set api-server http://reports.internal:8000
  pokereports config set lang es`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = viper.ConfigFileUsed()
		}
		if path == "" {
			path = config.GetConfigPath()
		}
		if err := config.Set(viper.GetViper(), path, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", args[0], path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
