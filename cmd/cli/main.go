package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL  string
	timeout  time.Duration
	branchID int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tillbook-cli",
		Short: "Tillbook CLI tool",
		Long:  `A command line interface for interacting with the Tillbook API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Tillbook API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().Int64Var(&branchID, "branch", 1, "Branch ID")

	// Day commands
	dayCmd := &cobra.Command{
		Use:   "day",
		Short: "Close-day workflow operations",
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the branch's current day session",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON(fmt.Sprintf("%s/api/v1/branches/%d/day", baseURL, branchID))
		},
	}

	previewCmd := &cobra.Command{
		Use:   "preview <usd> <lbp>",
		Short: "Preview the closing gate for a counted amount",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			postCounted(fmt.Sprintf("%s/api/v1/branches/%d/day/close/preview", baseURL, branchID), args[0], args[1])
		},
	}

	closeCmd := &cobra.Command{
		Use:   "close <usd> <lbp>",
		Short: "Confirm the counted closing amount and close the day",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			postCounted(fmt.Sprintf("%s/api/v1/branches/%d/day/close/confirm", baseURL, branchID), args[0], args[1])
		},
	}

	dayCmd.AddCommand(statusCmd, previewCmd, closeCmd)
	rootCmd.AddCommand(dayCmd)

	// Credit commands
	creditsCmd := &cobra.Command{
		Use:   "credits",
		Short: "Credit operations",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the branch's outstanding credits",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON(fmt.Sprintf("%s/api/v1/branches/%d/credits", baseURL, branchID))
		},
	}

	creditsCmd.AddCommand(listCmd)
	rootCmd.AddCommand(creditsCmd)

	// Balance commands
	balancesCmd := &cobra.Command{
		Use:   "balances",
		Short: "Closed-day history operations",
	}

	latestCmd := &cobra.Command{
		Use:   "latest",
		Short: "Show the latest closing snapshot",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON(fmt.Sprintf("%s/api/v1/branches/%d/balances/latest", baseURL, branchID))
		},
	}

	balancesCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(balancesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func getJSON(url string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func postCounted(url, usd, lbp string) {
	body := fmt.Sprintf(`{"counted":{"usd":%q,"lbp":%q}}`, usd, lbp)

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty json.RawMessage = body
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(string(out))
}
