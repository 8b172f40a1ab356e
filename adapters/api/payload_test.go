package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goclean/domain/cleaning"
)

func TestParseColumnarPayloadKeepsOrder(t *testing.T) {
	body := []byte(`{
		"data": {"Zeta": [1, "2", null], "Alpha": ["x", true, ""], "Mid": [1.5, -3, 1e3]},
		"options": {"removeOutliers": true, "outlier_factor": 3, "missingStrategy": "Mean"}
	}`)

	p, err := NewPayloadReader(cleaning.DefaultOptions()).Parse(body)
	require.NoError(t, err)

	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, p.Dataset.Names())

	zeta, _ := p.Dataset.Column("Zeta")
	assert.True(t, zeta[0].IsNumeric())
	assert.True(t, zeta[1].IsString())
	assert.True(t, zeta[2].IsMissing())

	alpha, _ := p.Dataset.Column("Alpha")
	assert.Equal(t, "true", alpha[1].StringVal)

	mid, _ := p.Dataset.Column("Mid")
	assert.Equal(t, 1000.0, mid[2].NumericVal)

	assert.True(t, p.Options.RemoveOutliers)
	assert.Equal(t, 3.0, p.Options.OutlierFactor)
	assert.Equal(t, cleaning.StrategyMean, p.Options.MissingStrategy)
	assert.True(t, p.Options.CleanColumnNames, "absent options keep their defaults")
}

func TestParseRecordPayload(t *testing.T) {
	body := []byte(`{"data": [
		{"tag": "a", "weight": 500},
		{"weight": 510, "tag": "b", "pen": "north"},
		{"tag": "c"}
	]}`)

	p, err := NewPayloadReader(cleaning.DefaultOptions()).Parse(body)
	require.NoError(t, err)

	assert.Equal(t, []string{"tag", "weight", "pen"}, p.Dataset.Names())
	assert.Equal(t, cleaning.Shape{Rows: 3, Columns: 3}, p.Dataset.Shape())

	pen, _ := p.Dataset.Column("pen")
	assert.True(t, pen[0].IsMissing())
	assert.Equal(t, "north", pen[1].StringVal)

	weight, _ := p.Dataset.Column("weight")
	assert.True(t, weight[2].IsMissing())
	assert.Equal(t, cleaning.DefaultOptions(), p.Options)
}

func TestParseRaggedColumnsSurviveDecoding(t *testing.T) {
	p, err := NewPayloadReader(cleaning.DefaultOptions()).Parse([]byte(`{"data": {"a": [1, 2], "b": [1]}}`))
	require.NoError(t, err)
	assert.ErrorIs(t, p.Dataset.Validate(), cleaning.ErrRaggedColumns)
}

func TestParseInvalidPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"not json", `{"data":`, ErrInvalidPayload},
		{"not an object", `[1,2]`, ErrInvalidPayload},
		{"no data", `{"rows": {}}`, ErrInvalidPayload},
		{"scalar data", `{"data": 4}`, ErrInvalidPayload},
		{"column not array", `{"data": {"a": 1}}`, ErrInvalidPayload},
		{"nested cell", `{"data": {"a": [[1]]}}`, ErrInvalidPayload},
		{"row not object", `{"data": [1]}`, ErrInvalidPayload},
		{"overflowing number", `{"data": {"a": [1, 1e400]}}`, ErrInvalidPayload},
		{"overflowing record number", `{"data": [{"a": -1e400}]}`, ErrInvalidPayload},
		{"bool option as string", `{"data": {"a": [1]}, "options": {"removeOutliers": "yes"}}`, cleaning.ErrInvalidOptions},
		{"unknown method", `{"data": {"a": [1]}, "options": {"outlierMethod": "mad"}}`, cleaning.ErrInvalidOptions},
		{"negative factor", `{"data": {"a": [1]}, "options": {"outlierFactor": -1}}`, cleaning.ErrInvalidOptions},
		{"overflowing factor", `{"data": {"a": [1]}, "options": {"outlierFactor": 1e400}}`, cleaning.ErrInvalidOptions},
		{"sentinels not strings", `{"data": {"a": [1]}, "options": {"missingSentinels": [1]}}`, cleaning.ErrInvalidOptions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPayloadReader(cleaning.DefaultOptions()).Parse([]byte(tt.body))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseOptionsJSON(t *testing.T) {
	r := NewPayloadReader(cleaning.DefaultOptions())

	opts, err := r.ParseOptionsJSON("")
	require.NoError(t, err)
	assert.Equal(t, cleaning.DefaultOptions(), opts)

	opts, err = r.ParseOptionsJSON(`{"missing_sentinels": ["", "-"], "remove_duplicates": true}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "-"}, opts.MissingSentinels)
	assert.True(t, opts.RemoveDuplicates)

	_, err = r.ParseOptionsJSON("{")
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
