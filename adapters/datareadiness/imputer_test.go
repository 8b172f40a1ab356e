package datareadiness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goclean/domain/cleaning"
)

func newImputer(strategy cleaning.MissingStrategy) *MissingValueImputer {
	config := DefaultImputerConfig()
	config.Strategy = strategy
	return NewMissingValueImputer(config, cleaning.DefaultMissingSentinels())
}

func TestHandleMissingValuesNumericMedian(t *testing.T) {
	age := nums(34, 29, 0, 41)
	age[2] = cleaning.NewMissingValue()
	ds := mustDataset(t,
		cleaning.Column{Name: "age", Values: age},
		cleaning.Column{Name: "city", Values: text("NYC", "LA", "NYC", "")},
	)

	rep := cleaning.NewReportBuilder()
	out, err := newImputer(cleaning.StrategyMedian).HandleMissingValues(context.Background(), ds, rep)
	require.NoError(t, err)

	filledAge := column(t, out, "age")
	want := []float64{34, 29, 34, 41}
	for i, w := range want {
		require.True(t, filledAge[i].IsNumeric(), "age[%d] is %v", i, filledAge[i])
		assert.Equal(t, w, filledAge[i].NumericVal)
	}

	city := column(t, out, "city")
	assert.Equal(t, "NYC", city[3].StringVal)

	report := rep.Report()
	assert.Equal(t, 2, report.RowsAffected)
	assert.Len(t, report.OperationsPerformed, 2)
	assert.Contains(t, report.OperationsPerformed[0], "age")
	assert.Contains(t, report.OperationsPerformed[1], "mode")

	// the input is untouched
	original, _ := ds.Column("city")
	assert.Equal(t, "", original[3].StringVal)
}

func TestHandleMissingValuesTextNumbersKeepObservedCell(t *testing.T) {
	ds := mustDataset(t, cleaning.Column{Name: "age", Values: text("34", "29", "N/A", "41")})

	out, err := newImputer(cleaning.StrategyMedian).HandleMissingValues(context.Background(), ds, cleaning.NewReportBuilder())
	require.NoError(t, err)

	age := column(t, out, "age")
	assert.True(t, age[2].IsString())
	assert.Equal(t, "34", age[2].StringVal)
}

func TestHandleMissingValuesEvenCountTakesUpperMiddle(t *testing.T) {
	ds := mustDataset(t, cleaning.Column{Name: "weight", Values: text("10", "40", "", "20", "30.0")})

	out, err := newImputer(cleaning.StrategyMedian).HandleMissingValues(context.Background(), ds, cleaning.NewReportBuilder())
	require.NoError(t, err)

	weight := column(t, out, "weight")
	assert.Equal(t, "30.0", weight[2].StringVal, "the observed spelling of the median is reused")
}

func TestHandleMissingValuesStrategies(t *testing.T) {
	tests := []struct {
		name     string
		strategy cleaning.MissingStrategy
		want     float64
	}{
		{"median", cleaning.StrategyMedian, 2},
		{"smart behaves as median", cleaning.StrategySmart, 2},
		{"mean", cleaning.StrategyMean, 3},
		{"zero", cleaning.StrategyZero, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := nums(1, 2, 6, 0)
			values[3] = cleaning.NewMissingValue()
			ds := mustDataset(t, cleaning.Column{Name: "weight", Values: values})

			out, err := newImputer(tt.strategy).HandleMissingValues(context.Background(), ds, cleaning.NewReportBuilder())
			require.NoError(t, err)

			got := column(t, out, "weight")[3]
			require.True(t, got.IsNumeric())
			assert.Equal(t, tt.want, got.NumericVal)
		})
	}
}

func TestHandleMissingValuesHighMissingColumn(t *testing.T) {
	ds := mustDataset(t, cleaning.Column{Name: "notes", Values: text("a", "", "N/A", "null", "b")})

	rep := cleaning.NewReportBuilder()
	out, err := newImputer(cleaning.StrategyMedian).HandleMissingValues(context.Background(), ds, rep)
	require.NoError(t, err)

	notes := column(t, out, "notes")
	assert.Equal(t, "", notes[1].StringVal, "sparse column must not be imputed")

	report := rep.Report()
	assert.Empty(t, report.OperationsPerformed)
	assert.Equal(t, 0, report.RowsAffected)
	assert.Equal(t,
		[]string{"notes: 60.0% missing values exceeds 50% threshold - recommend removing column"},
		report.DataQualityIssues)
}

func TestHandleMissingValuesModeTieGoesToFirstSeen(t *testing.T) {
	ds := mustDataset(t, cleaning.Column{Name: "breed", Values: text("Hereford", "Angus", "Angus", "Hereford", "")})

	out, err := newImputer(cleaning.StrategyMedian).HandleMissingValues(context.Background(), ds, cleaning.NewReportBuilder())
	require.NoError(t, err)
	assert.Equal(t, "Hereford", column(t, out, "breed")[4].StringVal)
}

func TestHandleMissingValuesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ds := mustDataset(t, cleaning.Column{Name: "a", Values: text("1", "")})
	_, err := newImputer(cleaning.StrategyMedian).HandleMissingValues(ctx, ds, cleaning.NewReportBuilder())
	assert.ErrorIs(t, err, context.Canceled)
}
