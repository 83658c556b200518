package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/splitthat/splitthat/internal/buildinfo"
	"github.com/splitthat/splitthat/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "splitthat",
		Short:   "Keep a list of expenses",
		Version: fmt.Sprintf("%s (commit: %s)", buildinfo.Version, buildinfo.Commit),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to the YAML configuration file")

	loadConfig := func() (config.Application, error) {
		return config.Load(configPath)
	}

	rootCmd.AddCommand(newServeCommand(loadConfig))
	rootCmd.AddCommand(newListCommand(loadConfig))
	rootCmd.AddCommand(newAddCommand(loadConfig))
	rootCmd.AddCommand(newRemoveLastCommand(loadConfig))

	return rootCmd
}
