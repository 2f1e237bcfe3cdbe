package main

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "reminderbot",
	Short:        "Telegram reminder bot that understands Russian dates",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "yaml config filepath")
	rootCmd.AddCommand(serveCmd, parseCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
