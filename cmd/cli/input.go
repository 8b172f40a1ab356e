package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	payloads "goclean/adapters/api"
	"goclean/adapters/excel"
	"goclean/domain/cleaning"
	"goclean/ports"
)

// loadInput reads the dataset named by args[0], or a JSON payload from
// stdin when no file is given. Only JSON payloads carry options.
func loadInput(cmd *cobra.Command, args []string, defaults cleaning.Options) (*cleaning.Dataset, cleaning.Options, error) {
	reader := payloads.NewPayloadReader(defaults)

	if len(args) == 0 {
		body, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, defaults, fmt.Errorf("failed to read stdin: %w", err)
		}
		return parsePayload(reader, body)
	}

	path := args[0]
	if strings.EqualFold(filepath.Ext(path), ".json") {
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, defaults, err
		}
		return parsePayload(reader, body)
	}

	if !excel.IsSupported(path) {
		return nil, defaults, fmt.Errorf("unsupported input file %q: use .csv, .xlsx or .json", path)
	}
	var source ports.DatasetSource = excel.NewDataReader(path, excel.DefaultReaderConfig())
	ds, err := source.Load(cmd.Context())
	if err != nil {
		return nil, defaults, err
	}
	return ds, defaults, nil
}

func parsePayload(reader *payloads.PayloadReader, body []byte) (*cleaning.Dataset, cleaning.Options, error) {
	payload, err := reader.Parse(body)
	if err != nil {
		return nil, cleaning.Options{}, err
	}
	return payload.Dataset, payload.Options, nil
}

// optionFlags mirrors cleaning.Options on the command line. Only flags the
// user sets override the loaded options.
type optionFlags struct {
	cleanColumnNames bool
	convertNumeric   bool
	handleMissing    bool
	missingStrategy  string
	removeOutliers   bool
	outlierFactor    float64
	outlierMethod    string
	outlierAction    string
	removeDuplicates bool
	missingSentinels []string
}

func (f *optionFlags) register(cmd *cobra.Command) {
	defaults := cleaning.DefaultOptions()
	flags := cmd.Flags()
	flags.BoolVar(&f.cleanColumnNames, "clean-column-names", defaults.CleanColumnNames, "Normalize column names to snake_case")
	flags.BoolVar(&f.convertNumeric, "convert-numeric", defaults.ConvertNumeric, "Convert numbers stored as text")
	flags.BoolVar(&f.handleMissing, "handle-missing", defaults.HandleMissing, "Impute missing values")
	flags.StringVar(&f.missingStrategy, "missing-strategy", string(defaults.MissingStrategy), "Numeric imputation: median, mean or zero")
	flags.BoolVar(&f.removeOutliers, "remove-outliers", defaults.RemoveOutliers, "Filter outliers in numeric columns")
	flags.Float64Var(&f.outlierFactor, "outlier-factor", defaults.OutlierFactor, "IQR multiplier or z-score threshold")
	flags.StringVar(&f.outlierMethod, "outlier-method", string(defaults.OutlierMethod), "Outlier bounds: iqr or zscore")
	flags.StringVar(&f.outlierAction, "outlier-action", string(defaults.OutlierAction), "Outlier handling: remove or cap")
	flags.BoolVar(&f.removeDuplicates, "remove-duplicates", defaults.RemoveDuplicates, "Drop fully identical rows")
	flags.StringSliceVar(&f.missingSentinels, "missing-sentinels", nil, "Strings treated as missing values")
}

func (f *optionFlags) apply(cmd *cobra.Command, opts cleaning.Options) (cleaning.Options, error) {
	changed := cmd.Flags().Changed
	if changed("clean-column-names") {
		opts.CleanColumnNames = f.cleanColumnNames
	}
	if changed("convert-numeric") {
		opts.ConvertNumeric = f.convertNumeric
	}
	if changed("handle-missing") {
		opts.HandleMissing = f.handleMissing
	}
	if changed("missing-strategy") {
		opts.MissingStrategy = cleaning.MissingStrategy(f.missingStrategy)
	}
	if changed("remove-outliers") {
		opts.RemoveOutliers = f.removeOutliers
	}
	if changed("outlier-factor") {
		opts.OutlierFactor = f.outlierFactor
	}
	if changed("outlier-method") {
		opts.OutlierMethod = cleaning.OutlierMethod(f.outlierMethod)
	}
	if changed("outlier-action") {
		opts.OutlierAction = cleaning.OutlierAction(f.outlierAction)
	}
	if changed("remove-duplicates") {
		opts.RemoveDuplicates = f.removeDuplicates
	}
	if changed("missing-sentinels") {
		opts.MissingSentinels = f.missingSentinels
	}
	return opts, opts.Validate()
}
