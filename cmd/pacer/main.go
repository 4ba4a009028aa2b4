package main

import (
	"fmt"
	"os"

	"github.com/oomph-ac/pacer/config"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pacer",
	Short: "Pacer - packet frequency anti-cheat proxy for Minecraft: Bedrock Edition",
	Long: `Pacer sits between Bedrock clients and a server and removes clients that send packets
faster than a legitimate client would.

Examples:
  # Write the default configuration
  pacer config default --config pacer.yaml

  # Run the proxy
  pacer run --config pacer.yaml
`,
	SilenceUsage: true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configDefaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Write the default configuration to the config path",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			return fmt.Errorf("no config path given")
		}
		if err := config.WriteDefault(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote default configuration to %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", getEnvOrDefault("PACER_CONFIG", "pacer.yaml"), "Path of the configuration file (.yaml, .yml or .toml)")

	configCmd.AddCommand(configDefaultCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
