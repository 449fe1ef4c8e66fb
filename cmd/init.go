package cmd

import (
	"fmt"
	"os"

	"github.com/gnolang/arbiter/batch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// initCmd: arbiter init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new configuration file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfigurationFile(cfgFile); err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			PrintError(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("Configuration file created/updated: %s\n", cfgFile)
	},
}

func initConfigurationFile(configurationPath string) error {
	if configurationPath == "" {
		configurationPath = batch.DefaultConfigFile
	}

	// Create a yaml file with every rule at its default severity
	d, err := yaml.Marshal(batch.DefaultConfig())
	if err != nil {
		return err
	}

	return os.WriteFile(configurationPath, d, 0o644)
}
