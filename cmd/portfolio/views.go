package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var viewsFormat string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Report how many records were read, labelled and skipped",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics, err := loadDataset(cmd)
		if err != nil {
			return err
		}
		stats := analytics.Stats()

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, key := range []string{"source", "sheet", "record_count", "labeled", "skipped", "land_types", "has_amount"} {
			fmt.Fprintf(tw, "%s\t%v\n", key, stats[key])
		}
		fmt.Fprintf(tw, "lands\t%v\n", analytics.Options().Lands)
		return tw.Flush()
	},
}

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "Print every aggregation view for a selection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics, err := loadDataset(cmd)
		if err != nil {
			return err
		}
		sel, err := validatedSelection(cmd, analytics)
		if err != nil {
			return err
		}
		return encodeViews(cmd.OutOrStdout(), viewsFormat, analytics.Views(sel))
	},
}

func encodeViews(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported --format: %s", format)
	}
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(viewsCmd)
	addSelectionFlags(viewsCmd)
	viewsCmd.Flags().StringVarP(&viewsFormat, "format", "o", "yaml", "output format: yaml or json")
}
