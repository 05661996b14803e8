package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"searchpattern-service/internal/domain/entity"
	"searchpattern-service/internal/usecase"
	"searchpattern-service/pkg/logger"
	"searchpattern-service/pkg/utils"
)

type rootOptions struct {
	logLevel string
	format   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "routectl",
		Short:        "Aggregate product routes and look up matching search patterns",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "csv", "output format (csv or json)")

	cmd.AddCommand(newAggregateCmd(opts), newResolveCmd(opts), newFilterCmd(opts))
	return cmd
}

func newAggregateCmd(opts *rootOptions) *cobra.Command {
	var productsPath string

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Group a product file into routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewLogger(opts.logLevel)

			products, err := readTable(productsPath)
			if err != nil {
				return err
			}
			result, err := usecase.NewRouteAggregator(log).Aggregate(products)
			if err != nil {
				return err
			}

			if opts.format == "json" {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return utils.WriteCSV(cmd.OutOrStdout(), result.Table())
		},
	}
	cmd.Flags().StringVar(&productsPath, "products", "", "product CSV file")
	_ = cmd.MarkFlagRequired("products")
	return cmd
}

func newResolveCmd(opts *rootOptions) *cobra.Command {
	var productsPath, patternsPath, productID string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "List the search patterns that apply to a product id",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewLogger(opts.logLevel)

			products, err := readTable(productsPath)
			if err != nil {
				return err
			}
			patterns, err := readTable(patternsPath)
			if err != nil {
				return err
			}
			aggregation, err := usecase.NewRouteAggregator(log).Aggregate(products)
			if err != nil {
				return err
			}

			result := usecase.NewPatternResolver(log).Resolve(aggregation, patterns, productID)
			if opts.format == "json" {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			if result.NoRoutes {
				fmt.Fprintf(cmd.ErrOrStderr(), "no routes found for product id %q\n", productID)
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d routes, %d patterns\n", result.RouteCount, result.Rows.Len())
			return utils.WriteCSV(cmd.OutOrStdout(), result.Rows)
		},
	}
	cmd.Flags().StringVar(&productsPath, "products", "", "product CSV file")
	cmd.Flags().StringVar(&patternsPath, "patterns", "", "search pattern CSV file")
	cmd.Flags().StringVar(&productID, "product-id", "", "product id to look up")
	_ = cmd.MarkFlagRequired("products")
	_ = cmd.MarkFlagRequired("patterns")
	_ = cmd.MarkFlagRequired("product-id")
	return cmd
}

func newFilterCmd(opts *rootOptions) *cobra.Command {
	var patternsPath string
	var state entity.FilterState

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter a search pattern file by departure, arrival and provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns, err := readTable(patternsPath)
			if err != nil {
				return err
			}
			view := usecase.ApplyFilterState(patterns, state)
			if len(view.Columns) == 0 {
				return fmt.Errorf("select at least one column to display")
			}
			if opts.format == "json" {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			return utils.WriteCSV(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().StringVar(&patternsPath, "patterns", "", "search pattern CSV file")
	cmd.Flags().StringVar(&state.Departure, "departure", "", "departure city text")
	cmd.Flags().BoolVar(&state.IncludeBlankDeparture, "include-blank-departure", false, "also keep rows with a blank departure city")
	cmd.Flags().StringVar(&state.Arrival, "arrival", "", "arrival city text")
	cmd.Flags().BoolVar(&state.IncludeBlankArrival, "include-blank-arrival", false, "also keep rows with a blank arrival city")
	cmd.Flags().StringVar(&state.Provider, "provider", "", "provider name text")
	cmd.Flags().StringSliceVar(&state.Columns, "columns", nil, "columns to display (default all)")
	cmd.Flags().IntVar(&state.Limit, "limit", 0, "rows to display (0 for all)")
	_ = cmd.MarkFlagRequired("patterns")
	return cmd
}

func readTable(path string) (*entity.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return utils.ReadCSV(path, data)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
