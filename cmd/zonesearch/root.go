package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "zonesearch",
	Short: "Query the zone search API",
	Long: `A command line client for the zone search service.

Searches run as the user given with --user; users without the view-all
permission only see zones they own.`,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("server", envOrDefault("ZONESEARCH_SERVER", "http://localhost:8080"), "Base URL of the zone search service")
	rootCmd.PersistentFlags().String("token", os.Getenv("ZONESEARCH_TOKEN"), "API token")
	rootCmd.PersistentFlags().Int64("user", 0, "Requesting user id")
	rootCmd.PersistentFlags().Bool("json", false, "Print the raw JSON response")
}

func newClient(cmd *cobra.Command) (*client, error) {
	serverURL, err := cmd.Flags().GetString("server")
	if err != nil {
		return nil, err
	}
	token, err := cmd.Flags().GetString("token")
	if err != nil {
		return nil, err
	}
	user, err := cmd.Flags().GetInt64("user")
	if err != nil {
		return nil, err
	}

	return &client{
		baseURL: strings.TrimRight(strings.TrimSpace(serverURL), "/"),
		token:   strings.TrimSpace(token),
		userID:  user,
		http:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func envOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
