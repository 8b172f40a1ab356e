package coercer

import (
	"context"
	"testing"

	"goclean/domain/cleaning"
)

func textColumn(values ...string) []cleaning.Value {
	out := make([]cleaning.Value, len(values))
	for i, v := range values {
		out[i] = cleaning.NewStringValue(v)
	}
	return out
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"34", 34, true},
		{" 1,234.5 ", 1234.5, true},
		{"1 000", 1000, true},
		{"-12", -12, true},
		{"1e3", 1000, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"12kg", 0, false},
		{"Inf", 0, false},
		{"NaN", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseNumeric(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseNumeric(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseNumeric(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAnalyzeColumnThreshold(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig(), cleaning.DefaultMissingSentinels())

	tests := []struct {
		name       string
		values     []cleaning.Value
		numericTxt bool
	}{
		{"all numeric text", textColumn("1", "2", "3"), true},
		{"exactly 80 percent", textColumn("1", "2", "3", "4", "x"), true},
		{"below 80 percent", textColumn("1", "2", "3", "x", "y"), false},
		{"sentinels ignored in ratio", textColumn("1", "N/A", "", "2"), true},
		{"only missing", textColumn("", "N/A"), false},
		{"already numeric", []cleaning.Value{cleaning.NewNumericValue(1), cleaning.NewNumericValue(2)}, false},
		{"categorical", textColumn("NYC", "LA"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := c.AnalyzeColumn(tt.values)
			if got := c.IsNumericText(analysis); got != tt.numericTxt {
				t.Errorf("IsNumericText = %v, want %v (analysis %+v)", got, tt.numericTxt, analysis)
			}
		})
	}
}

func TestConvertNumericColumnsKeepsUnparseableText(t *testing.T) {
	ds, err := cleaning.NewDatasetFromColumns([]cleaning.Column{
		{Name: "weight", Values: textColumn("1,200", "980", "N/A", "1 050", "heavy", "1010")},
		{Name: "breed", Values: textColumn("Angus", "Hereford", "Angus", "", "Angus", "Wagyu")},
	})
	if err != nil {
		t.Fatal(err)
	}

	rep := cleaning.NewReportBuilder()
	c := NewTypeCoercer(DefaultCoercionConfig(), cleaning.DefaultMissingSentinels())
	out, err := c.ConvertNumericColumns(context.Background(), ds, rep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	weight, _ := out.Column("weight")
	want := []cleaning.Value{
		cleaning.NewNumericValue(1200),
		cleaning.NewNumericValue(980),
		cleaning.NewMissingValue(),
		cleaning.NewNumericValue(1050),
		cleaning.NewStringValue("heavy"),
		cleaning.NewNumericValue(1010),
	}
	for i := range want {
		if !weight[i].Equal(want[i]) {
			t.Errorf("weight[%d] = %v, want %v", i, weight[i], want[i])
		}
	}

	breed, _ := out.Column("breed")
	if !breed[3].IsString() || breed[3].StringVal != "" {
		t.Errorf("unconverted column must keep raw cells, got %#v", breed[3])
	}

	report := rep.Report()
	if len(report.ColumnsModified) != 1 || report.ColumnsModified[0] != "weight" {
		t.Errorf("ColumnsModified = %v, want [weight]", report.ColumnsModified)
	}
	if len(report.OperationsPerformed) != 1 || report.OperationsPerformed[0] != "Converted 'weight' to numeric" {
		t.Errorf("OperationsPerformed = %v", report.OperationsPerformed)
	}

	// input dataset is not mutated
	orig, _ := ds.Column("weight")
	if !orig[0].IsString() {
		t.Error("input dataset was mutated")
	}
}

func TestConvertNumericColumnsHonorsCancellation(t *testing.T) {
	ds, _ := cleaning.NewDatasetFromColumns([]cleaning.Column{{Name: "a", Values: textColumn("1")}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewTypeCoercer(DefaultCoercionConfig(), cleaning.DefaultMissingSentinels())
	if _, err := c.ConvertNumericColumns(ctx, ds, cleaning.NewReportBuilder()); err == nil {
		t.Error("expected context error")
	}
}
