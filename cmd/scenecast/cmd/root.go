// Package cmd provides the CLI commands for SceneCast.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scenecast/scenecast/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "scenecast",
	Short: "SceneCast - remote control gateway for the compositor",
	Long: `SceneCast exposes a remote control interface for a media
compositor: scenes, inputs, and scene item placement, driven over an
authenticated HTTP protocol.

Quick start:
  1. Create a config file: scenecast.yaml
  2. Run: scenecast serve

Configuration:
  Config is loaded from scenecast.yaml in the current directory,
  $HOME/.scenecast/, or /etc/scenecast/.

  Environment variables can override config values with the SCENECAST_ prefix.
  Example: SCENECAST_SERVER_HTTP_ADDR=:4455

Commands:
  serve          Start the control server
  hash-password  Generate an Argon2id hash for the control password
  collection     Export or import the scene collection as YAML
  version        Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./scenecast.yaml)")
}

func initConfig() {
	config.InitViper(cfgFile)
}
