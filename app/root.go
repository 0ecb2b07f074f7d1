// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/CodeCraft-Studio/studio-site/internal/config"
)

var (
	configPath string // Path to the configuration file
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "studio-site",
	Short: "studio-site serves the studio marketing site and its admin dashboard",
	Long: `studio-site serves the public marketing pages of the studio together with
an admin dashboard and JSON API for experts, services, industries and projects.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to an additional toml config file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() error {
	var err error

	cfg, err = config.ReadConfig(configPath)

	return err
}
