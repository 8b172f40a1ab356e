package datareadiness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goclean/domain/cleaning"
)

func newFilter(mutate func(*OutlierConfig)) *OutlierFilter {
	config := DefaultOutlierConfig()
	if mutate != nil {
		mutate(&config)
	}
	return NewOutlierFilter(config, cleaning.DefaultMissingSentinels())
}

func herd(t *testing.T) *cleaning.Dataset {
	return mustDataset(t,
		cleaning.Column{Name: "tag", Values: text("a", "b", "c", "d", "e")},
		cleaning.Column{Name: "weight", Values: nums(10, 12, 11, 13, 1000)},
	)
}

func TestRemoveOutliersKeepsRowsAligned(t *testing.T) {
	rep := cleaning.NewReportBuilder()
	out, err := newFilter(nil).Apply(context.Background(), herd(t), rep)
	require.NoError(t, err)

	assert.Equal(t, 4, out.NumRows())
	tags := column(t, out, "tag")
	weights := column(t, out, "weight")
	for i, want := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, want, tags[i].StringVal)
	}
	assert.Equal(t, 13.0, weights[3].NumericVal)

	report := rep.Report()
	assert.Equal(t, []string{"Removed 1 outlier rows using iqr bounds (factor 1.5)"}, report.OperationsPerformed)
	assert.Equal(t, 1, report.RowsAffected)
}

func TestRemoveOutliersUnionAcrossColumns(t *testing.T) {
	ds := mustDataset(t,
		cleaning.Column{Name: "weight", Values: nums(10, 12, 11, 13, 1000, 12)},
		cleaning.Column{Name: "height", Values: nums(-500, 50, 51, 52, 50, 51)},
	)

	out, err := newFilter(nil).RemoveOutliers(context.Background(), ds, cleaning.NewReportBuilder())
	require.NoError(t, err)

	assert.Equal(t, 4, out.NumRows())
	weights := column(t, out, "weight")
	heights := column(t, out, "height")
	assert.Equal(t, 12.0, weights[0].NumericVal)
	assert.Equal(t, 50.0, heights[0].NumericVal)
}

func TestRemoveOutliersSkipsShortColumns(t *testing.T) {
	ds := mustDataset(t, cleaning.Column{Name: "weight", Values: nums(10, 12, 11, 1000)})

	rep := cleaning.NewReportBuilder()
	out, err := newFilter(nil).Apply(context.Background(), ds, rep)
	require.NoError(t, err)
	assert.Equal(t, 4, out.NumRows())
	assert.Equal(t, 0, rep.Report().RowsAffected)
}

func TestRemoveOutliersIgnoresUnparseableAndMissing(t *testing.T) {
	weight := append(text("10", "12", "n/a-ish"), nums(11, 13, 1000)...)
	weight = append(weight, cleaning.NewMissingValue())
	ds := mustDataset(t, cleaning.Column{Name: "weight", Values: weight})

	out, err := newFilter(nil).Apply(context.Background(), ds, cleaning.NewReportBuilder())
	require.NoError(t, err)
	assert.Equal(t, 6, out.NumRows())
}

func TestZScoreOutliers(t *testing.T) {
	ds := mustDataset(t, cleaning.Column{Name: "weight", Values: nums(10, 10, 10, 10, 10, 10, 10, 10, 10, 100)})

	out, err := newFilter(func(c *OutlierConfig) {
		c.Method = cleaning.OutlierMethodZScore
		c.Factor = 2
	}).Apply(context.Background(), ds, cleaning.NewReportBuilder())
	require.NoError(t, err)
	assert.Equal(t, 9, out.NumRows())
}

func TestCapOutliers(t *testing.T) {
	rep := cleaning.NewReportBuilder()
	out, err := newFilter(func(c *OutlierConfig) {
		c.Action = cleaning.OutlierActionCap
	}).Apply(context.Background(), herd(t), rep)
	require.NoError(t, err)

	assert.Equal(t, 5, out.NumRows())
	assert.Equal(t, 16.0, column(t, out, "weight")[4].NumericVal)
	assert.Equal(t, []string{"Capped 1 outliers in weight using iqr bounds"}, rep.Report().OperationsPerformed)
}

func TestRemoveDuplicates(t *testing.T) {
	ds := mustDataset(t,
		cleaning.Column{Name: "tag", Values: text("a", "b", "a", "c", "b")},
		cleaning.Column{Name: "weight", Values: nums(1, 2, 1, 3, 5)},
	)

	rep := cleaning.NewReportBuilder()
	out, err := newFilter(func(c *OutlierConfig) {
		c.RemoveOutliers = false
		c.RemoveDuplicates = true
	}).Apply(context.Background(), ds, rep)
	require.NoError(t, err)

	assert.Equal(t, 4, out.NumRows())
	assert.Equal(t, []string{"Removed 1 duplicate rows"}, rep.Report().OperationsPerformed)
	assert.Equal(t, 5.0, column(t, out, "weight")[3].NumericVal)
}

func TestDuplicatesDistinguishTypes(t *testing.T) {
	ds := mustDataset(t, cleaning.Column{
		Name:   "code",
		Values: []cleaning.Value{cleaning.NewStringValue("1"), cleaning.NewNumericValue(1)},
	})

	out, err := newFilter(func(c *OutlierConfig) {
		c.RemoveOutliers = false
		c.RemoveDuplicates = true
	}).Apply(context.Background(), ds, cleaning.NewReportBuilder())
	require.NoError(t, err)
	assert.Equal(t, 2, out.NumRows())
}

func TestDuplicatesIgnoreSeparatorLookalikes(t *testing.T) {
	ds := mustDataset(t,
		cleaning.Column{Name: "a", Values: text("x\x1fs:y", "x")},
		cleaning.Column{Name: "b", Values: text("z", "y\x1fs:z")},
	)

	rep := cleaning.NewReportBuilder()
	out, err := newFilter(func(c *OutlierConfig) {
		c.RemoveOutliers = false
		c.RemoveDuplicates = true
	}).Apply(context.Background(), ds, rep)
	require.NoError(t, err)
	assert.Equal(t, 2, out.NumRows())
	assert.Empty(t, rep.Report().OperationsPerformed)
}

func TestRowKeyDistinguishesCellBoundaries(t *testing.T) {
	left := []cleaning.Value{cleaning.NewStringValue("ab"), cleaning.NewStringValue("c")}
	right := []cleaning.Value{cleaning.NewStringValue("a"), cleaning.NewStringValue("bc")}
	assert.NotEqual(t, rowKey(left), rowKey(right))
	assert.Equal(t, rowKey(left), rowKey([]cleaning.Value{cleaning.NewStringValue("ab"), cleaning.NewStringValue("c")}))
}
