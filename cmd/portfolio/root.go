package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"royalpalm-dashboard/internal/config"
	"royalpalm-dashboard/internal/models"
	"royalpalm-dashboard/internal/services"
)

var (
	// Global flags; empty values fall back to configuration
	flagFile  string
	flagSheet string
	flagDebug bool

	// Selection flags shared by views and export
	flagMonths []string
	flagLands  []string
)

var rootCmd = &cobra.Command{
	Use:           "portfolio",
	Short:         "Inspect the Royal Palm portfolio workbook without starting the dashboard",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "portfolio workbook (default PORTFOLIO_FILE)")
	rootCmd.PersistentFlags().StringVarP(&flagSheet, "sheet", "s", "", "sheet name (default PORTFOLIO_SHEET)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "log loader progress to stderr")
}

// addSelectionFlags registers repeatable --month and --land flags. Values
// are taken verbatim so labels such as "July 2024" are never split.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&flagMonths, "month", "m", nil, "month_year label to include (repeatable)")
	cmd.Flags().StringArrayVarP(&flagLands, "land", "l", nil, "land type to include (repeatable)")
}

// selectionFromFlags maps unset flags to "all" and set flags to exactly the
// listed values.
func selectionFromFlags(cmd *cobra.Command) models.Selection {
	var sel models.Selection
	if cmd.Flags().Changed("month") {
		sel.Months = append([]string{}, flagMonths...)
	}
	if cmd.Flags().Changed("land") {
		sel.Lands = append([]string{}, flagLands...)
	}
	return services.NormalizeSelection(sel)
}

// loadDataset resolves the workbook location and loads it into a fresh
// analytics service.
func loadDataset(cmd *cobra.Command) (*services.Analytics, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	path, sheet := cfg.Data.PortfolioFile, cfg.Data.PortfolioSheet
	if flagFile != "" {
		path = flagFile
	}
	if flagSheet != "" {
		sheet = flagSheet
	}

	level := slog.LevelWarn
	if flagDebug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Data.LoadTimeout)
	defer cancel()

	analytics := services.NewAnalytics(services.NewWorkbookLoader(logger))
	if err := analytics.LoadFromWorkbook(ctx, path, sheet); err != nil {
		return nil, err
	}
	return analytics, nil
}

func validatedSelection(cmd *cobra.Command, analytics *services.Analytics) (models.Selection, error) {
	sel := selectionFromFlags(cmd)
	if err := analytics.Validate(sel); err != nil {
		return sel, fmt.Errorf("invalid selection: %w", err)
	}
	return sel, nil
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.ExecuteContext(ctx)
}
