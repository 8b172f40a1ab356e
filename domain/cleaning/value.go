package cleaning

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ValueType defines the storage type of a cell
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeNumeric ValueType = "numeric"
	ValueTypeMissing ValueType = "missing"
)

// Value is a single typed cell. Columns may legitimately mix numeric and
// string cells after numeric coercion.
type Value struct {
	Type       ValueType
	StringVal  string
	NumericVal float64
}

// NewStringValue creates a string value. Empty strings stay strings; whether
// they count as missing is decided by the MissingSentinels in effect.
func NewStringValue(s string) Value {
	return Value{Type: ValueTypeString, StringVal: s}
}

// NewNumericValue creates a numeric value. NaN and infinities become missing
// because they cannot round-trip through JSON.
func NewNumericValue(n float64) Value {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeNumeric, NumericVal: n}
}

// NewMissingValue creates a typed missing marker
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing}
}

// FromRaw converts a decoded JSON/CSV cell into a Value
func FromRaw(raw interface{}) Value {
	switch v := raw.(type) {
	case nil:
		return NewMissingValue()
	case Value:
		return v
	case string:
		return NewStringValue(v)
	case float64:
		return NewNumericValue(v)
	case float32:
		return NewNumericValue(float64(v))
	case int:
		return NewNumericValue(float64(v))
	case int32:
		return NewNumericValue(float64(v))
	case int64:
		return NewNumericValue(float64(v))
	case uint:
		return NewNumericValue(float64(v))
	case uint32:
		return NewNumericValue(float64(v))
	case uint64:
		return NewNumericValue(float64(v))
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return NewNumericValue(f)
		}
		return NewStringValue(v.String())
	case bool:
		return NewStringValue(strconv.FormatBool(v))
	default:
		return NewStringValue(fmt.Sprintf("%v", v))
	}
}

// IsNumeric returns true if the value holds a number
func (v Value) IsNumeric() bool { return v.Type == ValueTypeNumeric }

// IsString returns true if the value holds text
func (v Value) IsString() bool { return v.Type == ValueTypeString }

// IsMissing returns true for the typed missing marker only. Sentinel strings
// such as "N/A" are checked through MissingSentinels.
func (v Value) IsMissing() bool { return v.Type == ValueTypeMissing || v.Type == "" }

// AsFloat64 returns the numeric value, or 0 if not numeric
func (v Value) AsFloat64() float64 {
	if v.IsNumeric() {
		return v.NumericVal
	}
	return 0
}

// String returns the display form used in report entries
func (v Value) String() string {
	switch v.Type {
	case ValueTypeNumeric:
		return strconv.FormatFloat(v.NumericVal, 'f', -1, 64)
	case ValueTypeString:
		return v.StringVal
	default:
		return "<missing>"
	}
}

// Text returns the cell as it would appear in a CSV export; missing is empty
func (v Value) Text() string {
	if v.IsMissing() {
		return ""
	}
	return v.String()
}

// Key returns a type-qualified identity used for frequency counting and row
// comparison, so the number 1 and the text "1" stay distinct.
func (v Value) Key() string {
	switch v.Type {
	case ValueTypeNumeric:
		return "n:" + strconv.FormatFloat(v.NumericVal, 'g', -1, 64)
	case ValueTypeString:
		return "s:" + v.StringVal
	default:
		return "m:"
	}
}

// Equal reports whether two values have the same type and content
func (v Value) Equal(other Value) bool {
	return v.Key() == other.Key()
}

// MarshalJSON writes numbers as JSON numbers, text as strings and missing as null
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Type {
	case ValueTypeNumeric:
		return []byte(strconv.FormatFloat(v.NumericVal, 'f', -1, 64)), nil
	case ValueTypeString:
		return json.Marshal(v.StringVal)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts any JSON scalar
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.(type) {
	case map[string]interface{}, []interface{}:
		return fmt.Errorf("cell must be a scalar, got %s", string(data))
	}
	*v = FromRaw(raw)
	return nil
}
