package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered portfolio as CSV",
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

		if exportOutput == "" || exportOutput == "-" {
			return analytics.ExportCSV(cmd.OutOrStdout(), sel)
		}

		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOutput, err)
		}
		if err := analytics.ExportCSV(f, sel); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d records to %s\n", len(analytics.Filter(sel)), exportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addSelectionFlags(exportCmd)
	exportCmd.Flags().StringVar(&exportOutput, "out", "", "output file (default stdout)")
}
