package main

import (
	"log"
	"time"

	"panel-dashboard/internal/backend"
	"panel-dashboard/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "panelctl",
	Short: "Query the panel maintenance API from the terminal: tickets, overview, bus stops",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load(".env")
	},
}

var apiURL string

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "maintenance API base URL (default $API_URL)")
}

func client() *backend.Client {
	base := apiURL
	if base == "" {
		base = config.GetEnv("API_URL", "http://localhost:3000")
	}
	timeout, err := time.ParseDuration(config.GetEnv("API_TIMEOUT", "15s"))
	if err != nil {
		timeout = 15 * time.Second
	}
	return backend.NewClient(base, timeout)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
