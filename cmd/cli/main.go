package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "treasury-cli",
		Short: "Treasury CLI tool",
		Long:  `A command line interface for the treasury desk API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the treasury API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		balancesCmd(),
		totalsCmd(),
		exportCmd(),
		importCmd(),
		groupCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func balancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show all asset balances",
		Run: func(cmd *cobra.Command, args []string) {
			body := get("/api/v1/balances")

			var resp struct {
				Balances map[string]string `json:"balances"`
			}
			if err := json.Unmarshal(body, &resp); err != nil {
				fail("failed to parse response: %v", err)
			}

			assets := make([]string, 0, len(resp.Balances))
			for asset := range resp.Balances {
				assets = append(assets, asset)
			}
			sort.Strings(assets)

			for _, asset := range assets {
				fmt.Printf("%-24s %s\n", asset, resp.Balances[asset])
			}
		},
	}
}

func totalsCmd() *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Show open debt and receivable totals",
		Run: func(cmd *cobra.Command, args []string) {
			for _, kind := range []string{"debts", "receivables"} {
				body := get("/api/v1/totals/" + kind + "?currency=" + currency)

				var resp struct {
					Currency string `json:"currency"`
					Total    string `json:"total"`
				}
				if err := json.Unmarshal(body, &resp); err != nil {
					fail("failed to parse response: %v", err)
				}
				fmt.Printf("%-12s %s %s\n", kind, resp.Total, resp.Currency)
			}
		},
	}
	cmd.Flags().StringVar(&currency, "currency", "USD", "Currency to total")
	return cmd
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Dump the full state document to stdout",
		Run: func(cmd *cobra.Command, args []string) {
			os.Stdout.Write(get("/api/v1/export"))
			fmt.Println()
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the full state from a document",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			data, err := os.ReadFile(args[0])
			if err != nil {
				fail("failed to read %s: %v", args[0], err)
			}

			post("/api/v1/import", data)
			fmt.Println("state imported")
		},
	}
}

func groupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Transaction group operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <group-id>",
		Short: "Reverse a transaction group",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			del("/api/v1/groups/" + args[0])
			fmt.Printf("group %s deleted\n", args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restore <group-id>",
		Short: "Re-apply a deleted transaction group",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/groups/"+args[0]+"/restore", nil)
			fmt.Printf("group %s restored\n", args[0])
		},
	})

	return cmd
}

func get(path string) []byte {
	return request(http.MethodGet, path, nil)
}

func post(path string, body []byte) []byte {
	return request(http.MethodPost, path, body)
}

func del(path string) []byte {
	return request(http.MethodDelete, path, nil)
}

func request(method, path string, body []byte) []byte {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(method, baseURL+path, bytes.NewReader(body))
	if err != nil {
		fail("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		fail("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= http.StatusBadRequest {
		fail("%s %s failed (status %d): %s", method, path, resp.StatusCode, data)
	}
	return data
}

func fail(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}
