package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/banksim/bankconfig"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and validate configuration files",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Load and validate a config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigValidate,
}

var configDefaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Print the built-in default config as YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfigDefault,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configDefaultCmd)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := bankconfig.LoadFromFile(args[0])
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	fmt.Printf("%s is valid\n", args[0])
	return nil
}

func runConfigDefault(cmd *cobra.Command, args []string) error {
	cfg := bankconfig.Default()
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
