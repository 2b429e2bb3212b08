package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// version can be overridden at build time via:
	// go build -ldflags "-X github.com/missionctl/missionctl/internal/cli.version=1.2.3"
	version = "0.4.1"
	logo    = "\n" +
		"  __  __ _         _              ____ _        _\n" +
		" |  \\/  (_)___ ___(_) ___  _ __  / ___| |_ _ __| |\n" +
		" | |\\/| | / __/ __| |/ _ \\| '_ \\| |   | __| '__| |\n" +
		" | |  | | \\__ \\__ \\ | (_) | | | | |___| |_| |  | |\n" +
		" |_|  |_|_|___/___/_|\\___/|_| |_|\\____|\\__|_|  |_|\n"
)

var rootCmd = &cobra.Command{
	Use:   "missionctl",
	Short: "Mission Control - agent gateway dashboard",
	Long:  color.CyanString(logo) + "\nA self-hosted command center for AI agent sessions and cron jobs.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
}
