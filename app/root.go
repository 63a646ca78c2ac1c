// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "servicedesk",
	Short: "servicedesk is the internal service request tracking system",
	Long: `servicedesk is a web-based helpdesk where staff submit IT service
requests and administrators review them, update their status and configure
email notification settings.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
