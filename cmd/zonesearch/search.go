package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find zones by name or IP address",
	Long: `Find zones whose name matches the query.

With --reverse an IPv4 or IPv6 literal also matches zones whose name
contains the reversed address, e.g. 192.0.2.10 finds
10.2.0.192.in-addr.arpa. A query that is not an IP address searches by
name only.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolP("reverse", "r", false, "Also match reverse zones of an IP address")
	searchCmd.Flags().BoolP("wildcard", "w", false, "Match the query anywhere in the zone name")
	searchCmd.Flags().String("sort", "", "Sort by name, type, count_records or owner (prefix - for descending)")
	searchCmd.Flags().Int("limit", 0, "Maximum number of rows")
}

func runSearch(cmd *cobra.Command, args []string) error {
	c, err := newClient(cmd)
	if err != nil {
		return err
	}

	var p searchParams
	p.Query = args[0]
	if p.Reverse, err = cmd.Flags().GetBool("reverse"); err != nil {
		return err
	}
	if p.Wildcard, err = cmd.Flags().GetBool("wildcard"); err != nil {
		return err
	}
	if p.Sort, err = cmd.Flags().GetString("sort"); err != nil {
		return err
	}
	if p.Limit, err = cmd.Flags().GetInt("limit"); err != nil {
		return err
	}
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	body, err := c.search(cmd.Context(), p)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOut {
		_, err := cmd.OutOrStdout().Write(body)
		return err
	}

	var res searchResult
	if err := json.Unmarshal(body, &res); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return printZones(cmd.OutOrStdout(), res)
}

func printZones(w io.Writer, res searchResult) error {
	if len(res.Zones) == 0 {
		_, err := fmt.Fprintln(w, "no zones found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tRECORDS\tOWNER")
	for _, z := range res.Zones {
		records := "-"
		if z.CountRecords != nil {
			records = strconv.FormatInt(*z.CountRecords, 10)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", z.ID, z.Name, z.Type, records, z.FullName)
	}
	return tw.Flush()
}
