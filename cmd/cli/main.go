package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"goclean/adapters/excel"
	"goclean/app"
	"goclean/internal/config"
	"goclean/internal/pipeline"
	"goclean/internal/testkit"
	"goclean/ports"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "goclean-cli",
		Short: "Clean and inspect tabular datasets",
	}

	rootCmd.AddCommand(
		newCleanCmd(),
		newAnalyzeCmd(),
		newGenerateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCleanCmd() *cobra.Command {
	var flags optionFlags
	var out string

	cmd := &cobra.Command{
		Use:   "clean [file]",
		Short: "Clean a CSV, XLSX or JSON dataset and print the result",
		Long: `Clean a dataset and print the result as JSON.

The input is a .csv, .xlsx or .json file, or a JSON payload on stdin
({"data": {...}, "options": {...}}). Flags override the options.

Example: goclean-cli clean herd.csv --remove-outliers --out herd_clean.xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, opts, err := loadInput(cmd, args, config.DefaultCleaningOptions())
			if err != nil {
				return err
			}
			opts, err = flags.apply(cmd, opts)
			if err != nil {
				return err
			}

			service := app.NewCleaningService(pipeline.NewPipeline(pipeline.DefaultConfig()), nil, app.DefaultCleaningServiceConfig())
			result, err := service.Clean(cmd.Context(), ds, opts)
			if err != nil {
				_ = printJSON(cmd, result)
				return err
			}

			if out != "" {
				var sink ports.DatasetSink = excel.NewDataWriter(out)
				if err := sink.Write(cmd.Context(), result.Data); err != nil {
					return err
				}
				result.Data = nil
			}
			return printJSON(cmd, result)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "Write the cleaned dataset to this .csv or .xlsx file")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var sentinels []string

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Report data quality issues without changing the data",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, opts, err := loadInput(cmd, args, config.DefaultCleaningOptions())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("missing-sentinels") {
				opts.MissingSentinels = sentinels
			}

			issues, err := pipeline.NewPipeline(pipeline.DefaultConfig()).Analyze(cmd.Context(), ds, opts)
			if err != nil {
				return err
			}
			if len(issues) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No data quality issues found")
				return nil
			}
			for _, issue := range issues {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", issue)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&sentinels, "missing-sentinels", nil, "Strings treated as missing values")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	farm := testkit.DefaultFarmConfig()
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a dirty livestock dataset for trying the cleaner",
		Long: `Generate a seeded livestock dataset with messy headers, numbers stored
as text, missing values, outliers and duplicate rows.

Example: goclean-cli generate --rows 500 --seed 7 --out herd.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := testkit.NewFarmGenerator(farm).Generate()
			if err != nil {
				return err
			}
			if out == "" {
				return excel.WriteCSV(cmd.OutOrStdout(), ds)
			}
			if !excel.IsSupported(out) {
				return fmt.Errorf("unsupported output file %q: use .csv or .xlsx", out)
			}
			if err := excel.NewDataWriter(out).Write(cmd.Context(), ds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d rows to %s\n", ds.NumRows(), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&farm.Rows, "rows", farm.Rows, "Number of animals to generate")
	cmd.Flags().Int64Var(&farm.Seed, "seed", farm.Seed, "Random seed for deterministic output")
	cmd.Flags().Float64Var(&farm.MissingRate, "missing-rate", farm.MissingRate, "Share of cells replaced by missing markers")
	cmd.Flags().Float64Var(&farm.OutlierRate, "outlier-rate", farm.OutlierRate, "Share of weaning weights inflated tenfold")
	cmd.Flags().IntVar(&farm.DuplicateRows, "duplicates", farm.DuplicateRows, "Number of duplicated rows appended")
	cmd.Flags().StringVar(&out, "out", "", "Output .csv or .xlsx file (default: CSV on stdout)")
	return cmd
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
