package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	userID  string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "finbook-cli",
		Short: "Finbook CLI tool",
		Long:  `A command line interface for interacting with the Finbook API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Finbook API")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "Tenant user id sent as X-User-ID")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(balancesCmd())
	rootCmd.AddCommand(consistencyCmd())
	rootCmd.AddCommand(eventsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func balancesCmd() *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Replay the event log and print balances",
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/balances"
			if asOf != "" {
				path += "?as_of=" + url.QueryEscape(asOf)
			}
			doGet(path)
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "Point in time (RFC 3339), defaults to now")

	return cmd
}

func consistencyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consistency",
		Short: "Consistency operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Walk the event log and report structural warnings",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/consistency/check")
		},
	})

	return cmd
}

func eventsCmd() *cobra.Command {
	var dateKey string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List events",
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/events/"
			if dateKey != "" {
				path += "?date_key=" + url.QueryEscape(dateKey)
			}
			doGet(path)
		},
	}

	cmd.Flags().StringVar(&dateKey, "date-key", "", "Restrict to one day bucket (YYYY-MM-DD)")

	return cmd
}

func doGet(path string) {
	doRequest(http.MethodGet, path)
}

func doRequest(method, path string) {
	req, err := newRequest(method, path)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

// newRequest builds an API request carrying the tenant header.
func newRequest(method, path string) (*http.Request, error) {
	req, err := http.NewRequest(method, baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	return req, nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to render response: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
