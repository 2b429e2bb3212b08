package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/missionctl/missionctl/internal/config"
	"github.com/missionctl/missionctl/internal/gateway"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("🏷️ Mission Control Version")
		fmt.Printf("Version: %s\n", version)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("📊 Mission Control Status")
		fmt.Printf("Version: %s\n", version)

		// Check config
		home, _ := os.UserHomeDir()
		configPath := filepath.Join(home, config.ConfigDir, config.ConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			fmt.Println("Config:  ✓ Found (" + configPath + ")")
		} else {
			fmt.Println("Config:  ✗ Not found (" + configPath + ")")
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Config:  ✗ Load error: %v\n", err)
			return
		}
		if cfg.Server.AccessKey != "" {
			fmt.Println("Access Key: ✓ Set")
		} else {
			fmt.Println("Access Key: ✗ Not set (login will fail)")
		}

		// Ping the upstream gateway with a lightweight tool call.
		client, err := gateway.NewClient(cfg.Gateway.URL, cfg.Gateway.Token, cfg.Gateway.Timeout)
		if err != nil {
			fmt.Println("Gateway: ✗ Not configured (set MISSIONCTL_GATEWAY_URL / _TOKEN)")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := client.SessionStatus(ctx); err != nil {
			fmt.Printf("Gateway: ✗ Unreachable (%v)\n", err)
			return
		}
		fmt.Println("Gateway: ✓ Online")
		fmt.Println("Status:  Ready")
	},
}
