package api

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"goclean/domain/cleaning"
)

// ErrInvalidPayload is returned for bodies that are not a usable
// {"data": ..., "options": ...} document
var ErrInvalidPayload = errors.New("invalid payload")

// Payload is a decoded cleaning request
type Payload struct {
	Dataset *cleaning.Dataset
	Options cleaning.Options
}

// PayloadReader decodes JSON request bodies with gjson so that column order
// follows the document rather than Go map iteration.
type PayloadReader struct {
	defaults cleaning.Options
	dataPath string
}

// NewPayloadReader creates a reader that fills absent options from defaults
func NewPayloadReader(defaults cleaning.Options) *PayloadReader {
	return &PayloadReader{defaults: defaults, dataPath: "data"}
}

// Parse decodes a full payload. The data member may be columnar
// ({"col": [..]}) or a list of row objects ([{"col": v}, ..]).
func (r *PayloadReader) Parse(body []byte) (*Payload, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not valid JSON", ErrInvalidPayload)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: body must be a JSON object", ErrInvalidPayload)
	}

	data := root.Get(r.dataPath)
	if !data.Exists() {
		return nil, fmt.Errorf("%w: missing %q member", ErrInvalidPayload, r.dataPath)
	}
	ds, err := ParseDataset(data)
	if err != nil {
		return nil, err
	}

	opts, err := ParseOptions(root.Get("options"), r.defaults)
	if err != nil {
		return nil, err
	}
	return &Payload{Dataset: ds, Options: opts}, nil
}

// ParseOptionsJSON decodes a standalone options document, as sent in the
// options field of a multipart upload
func (r *PayloadReader) ParseOptionsJSON(raw string) (cleaning.Options, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return r.defaults, nil
	}
	if !gjson.Valid(raw) {
		return cleaning.Options{}, fmt.Errorf("%w: options are not valid JSON", ErrInvalidPayload)
	}
	return ParseOptions(gjson.Parse(raw), r.defaults)
}

// ParseDataset converts a gjson value into a dataset
func ParseDataset(data gjson.Result) (*cleaning.Dataset, error) {
	switch {
	case data.IsObject():
		return parseColumns(data)
	case data.IsArray():
		return parseRecords(data)
	default:
		return nil, fmt.Errorf("%w: data must be an object of columns or an array of rows", ErrInvalidPayload)
	}
}

func parseColumns(data gjson.Result) (*cleaning.Dataset, error) {
	ds := cleaning.NewDataset()
	var err error
	data.ForEach(func(key, column gjson.Result) bool {
		if !column.IsArray() {
			err = fmt.Errorf("%w: column %q is not an array", ErrInvalidPayload, key.String())
			return false
		}
		cells := column.Array()
		values := make([]cleaning.Value, len(cells))
		for i, cell := range cells {
			if values[i], err = cellValue(cell); err != nil {
				err = fmt.Errorf("column %q row %d: %w", key.String(), i, err)
				return false
			}
		}
		err = ds.AddColumn(key.String(), values)
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// parseRecords pivots row objects into columns. Column order is the order
// in which keys are first seen; a key absent from a row is a missing cell.
func parseRecords(data gjson.Result) (*cleaning.Dataset, error) {
	rows := data.Array()
	var names []string
	columns := make(map[string][]cleaning.Value)

	for i, row := range rows {
		if !row.IsObject() {
			return nil, fmt.Errorf("%w: row %d is not an object", ErrInvalidPayload, i)
		}
		var err error
		row.ForEach(func(key, cell gjson.Result) bool {
			name := key.String()
			col, seen := columns[name]
			if !seen {
				names = append(names, name)
				col = make([]cleaning.Value, len(rows))
				for k := range col {
					col[k] = cleaning.NewMissingValue()
				}
				columns[name] = col
			}
			if col[i], err = cellValue(cell); err != nil {
				err = fmt.Errorf("row %d column %q: %w", i, name, err)
				return false
			}
			return true
		})
		if err != nil {
			return nil, err
		}
	}

	ds := cleaning.NewDataset()
	for _, name := range names {
		if err := ds.AddColumn(name, columns[name]); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func cellValue(cell gjson.Result) (cleaning.Value, error) {
	switch cell.Type {
	case gjson.Null:
		return cleaning.NewMissingValue(), nil
	case gjson.Number:
		if math.IsInf(cell.Num, 0) || math.IsNaN(cell.Num) {
			return cleaning.Value{}, fmt.Errorf("%w: number %s is out of range", ErrInvalidPayload, cell.Raw)
		}
		return cleaning.NewNumericValue(cell.Num), nil
	case gjson.String:
		return cleaning.NewStringValue(cell.Str), nil
	case gjson.True, gjson.False:
		return cleaning.NewStringValue(cell.Raw), nil
	default:
		return cleaning.Value{}, fmt.Errorf("%w: nested values are not supported", ErrInvalidPayload)
	}
}

// option keys accept both the camelCase names and snake_case spellings
var optionAliases = map[string][]string{
	"cleanColumnNames": {"cleanColumnNames", "clean_column_names"},
	"convertNumeric":   {"convertNumeric", "convert_numeric"},
	"handleMissing":    {"handleMissing", "handle_missing"},
	"missingStrategy":  {"missingStrategy", "missing_strategy"},
	"removeOutliers":   {"removeOutliers", "remove_outliers"},
	"outlierFactor":    {"outlierFactor", "outlier_factor"},
	"outlierMethod":    {"outlierMethod", "outlier_method"},
	"outlierAction":    {"outlierAction", "outlier_action"},
	"removeDuplicates": {"removeDuplicates", "remove_duplicates"},
	"missingSentinels": {"missingSentinels", "missing_sentinels"},
}

func lookupOption(raw gjson.Result, name string) gjson.Result {
	for _, key := range optionAliases[name] {
		if v := raw.Get(key); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

// ParseOptions overlays the keys present in raw onto defaults. Unknown keys
// are ignored; present keys of the wrong JSON type are rejected.
func ParseOptions(raw gjson.Result, defaults cleaning.Options) (cleaning.Options, error) {
	opts := defaults
	if !raw.Exists() || raw.Type == gjson.Null {
		return opts, nil
	}
	if !raw.IsObject() {
		return cleaning.Options{}, fmt.Errorf("%w: options must be an object", ErrInvalidPayload)
	}

	bools := []struct {
		name   string
		target *bool
	}{
		{"cleanColumnNames", &opts.CleanColumnNames},
		{"convertNumeric", &opts.ConvertNumeric},
		{"handleMissing", &opts.HandleMissing},
		{"removeOutliers", &opts.RemoveOutliers},
		{"removeDuplicates", &opts.RemoveDuplicates},
	}
	for _, b := range bools {
		v := lookupOption(raw, b.name)
		if !v.Exists() {
			continue
		}
		if !v.IsBool() {
			return cleaning.Options{}, cleaning.NewInvalidOptionError(b.name, v.Raw)
		}
		*b.target = v.Bool()
	}

	strs := []struct {
		name string
		set  func(string)
	}{
		{"missingStrategy", func(s string) { opts.MissingStrategy = cleaning.MissingStrategy(s) }},
		{"outlierMethod", func(s string) { opts.OutlierMethod = cleaning.OutlierMethod(s) }},
		{"outlierAction", func(s string) { opts.OutlierAction = cleaning.OutlierAction(s) }},
	}
	for _, s := range strs {
		v := lookupOption(raw, s.name)
		if !v.Exists() {
			continue
		}
		if v.Type != gjson.String {
			return cleaning.Options{}, cleaning.NewInvalidOptionError(s.name, v.Raw)
		}
		s.set(strings.ToLower(strings.TrimSpace(v.Str)))
	}

	if v := lookupOption(raw, "outlierFactor"); v.Exists() {
		if v.Type != gjson.Number {
			return cleaning.Options{}, cleaning.NewInvalidOptionError("outlierFactor", v.Raw)
		}
		opts.OutlierFactor = v.Num
	}

	if v := lookupOption(raw, "missingSentinels"); v.Exists() {
		if !v.IsArray() {
			return cleaning.Options{}, cleaning.NewInvalidOptionError("missingSentinels", v.Raw)
		}
		sentinels := []string{}
		for _, s := range v.Array() {
			if s.Type != gjson.String {
				return cleaning.Options{}, cleaning.NewInvalidOptionError("missingSentinels", s.Raw)
			}
			sentinels = append(sentinels, s.Str)
		}
		opts.MissingSentinels = sentinels
	}

	return opts, opts.Validate()
}
