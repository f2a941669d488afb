package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/fintab-cli/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and modify fintab configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		store, err := configfile.NewConfigStore(configDir)
		if err != nil {
			return err
		}

		val, ok := store.Get(args[0])
		if !ok {
			return fmt.Errorf("key %q is not set", args[0])
		}
		cmd.Printf("%v\n", val)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		store, err := configfile.NewConfigStore(configDir)
		if err != nil {
			return err
		}

		if err := store.Set(args[0], parseConfigValue(args[1])); err != nil {
			return fmt.Errorf("set %s: %w", args[0], err)
		}
		cmd.Printf("Set %s.\n", args[0])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cmd.SilenceUsage = true
		store, err := configfile.NewConfigStore(configDir)
		if err != nil {
			return err
		}
		cmd.Println(store.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// parseConfigValue gives TOML-friendly types to obvious literals so numeric
// and boolean settings round-trip with their natural type.
func parseConfigValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
