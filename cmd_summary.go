package main

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/spf13/cobra"

	"github.com/aryapratama/duittui/summary"
)

// summaryCmd represents the summary command.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the spending summary",
	Long:  `Show the server-computed spending summary: the overall total, the average per active day, and the per-category breakdown.`,
	RunE:  summaryRun,
}

func init() {
	summaryCmd.Flags().StringP("output", "o", tableOutputFormat, "Output format: table or json")
}

func summaryRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	outputFormat, _ := cmd.Flags().GetString("output")
	validFormats := []string{tableOutputFormat, jsonOutputFormat}
	if !slices.Contains(validFormats, outputFormat) {
		return fmt.Errorf("invalid output format: %s (must be one of %v)", outputFormat, validFormats)
	}

	report, err := client.GetSummary(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch summary: %w", err)
	}

	stats := summary.Compute(report)

	switch outputFormat {
	case jsonOutputFormat:
		return outputJSON(struct {
			Stats      summary.Stats `json:"stats"`
			Categories any           `json:"categories"`
		}{Stats: stats, Categories: report.Categories})
	case tableOutputFormat:
		fmt.Printf("Total spent:   %s\n", money.New(stats.TotalAll, money.IDR).Display())
		fmt.Printf("Average / day: %s over %d active days\n",
			money.New(int64(stats.AvgPerDay), money.IDR).Display(), stats.DistinctDays)
		fmt.Printf("Top category:  %s\n\n", stats.TopCategory)

		t := createStyledTable("CATEGORY", "TOTAL", "RECORDS")
		for _, c := range report.Categories {
			t.Row(c.CategoryName, money.New(c.Total, money.IDR).Display(), strconv.Itoa(len(c.Records)))
		}
		fmt.Println(t)
		return nil
	default:
		return errors.New("unsupported output format")
	}
}
