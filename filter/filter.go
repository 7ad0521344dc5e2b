// Package filter evaluates a JSON-Schema-subset filter against a single
// extracted value (spec §4.2). The recognized vocabulary — type, const,
// enum, pattern, format, numeric bounds, minLength/maxLength, not — is
// split in two. type, const, enum, pattern, format and minLength/maxLength
// are compiled into a santhosh-tekuri/jsonschema/v5 document, whose draft
// 2020-12 semantics already match the spec. Numeric bounds (which accept a
// number or a numeric string on both the bound and the value side) and the
// date-bound extensions (formatMinimum/Maximum/formatExclusive*, which no
// JSON Schema draft defines) never reach the schema compiler; they are
// applied by hand afterward. Keys the Filter struct does not declare are
// dropped when a filter is decoded, so unknown keywords are ignored;
// `contains` is decoded but not evaluated.
package filter

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// OneOfNumberString is a numeric bound expressed as either a JSON number or
// a numeric string in the source filter document.
type OneOfNumberString struct {
	set bool
	val float64
}

// UnmarshalJSON accepts a JSON number or a string containing one.
func (n *OneOfNumberString) UnmarshalJSON(b []byte) error {
	var asNum float64
	if err := json.Unmarshal(b, &asNum); err == nil {
		n.set, n.val = true, asNum
		return nil
	}

	var asStr string
	if err := json.Unmarshal(b, &asStr); err != nil {
		return fmt.Errorf("minimum/maximum must be a number or numeric string: %w", err)
	}

	f, err := strconv.ParseFloat(asStr, 64)
	if err != nil {
		return fmt.Errorf("minimum/maximum string %q is not numeric: %w", asStr, err)
	}

	n.set, n.val = true, f

	return nil
}

// MarshalJSON round-trips as a bare JSON number.
func (n OneOfNumberString) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}

	return json.Marshal(n.val)
}

func (n OneOfNumberString) isSet() bool { return n.set }

// Filter is the JSON-Schema subset recognized by this evaluator (spec §4.2).
type Filter struct {
	Type             string             `json:"type,omitempty"`
	Const            interface{}        `json:"const,omitempty"`
	Enum             []interface{}      `json:"enum,omitempty"`
	Pattern          string             `json:"pattern,omitempty"`
	Format           string             `json:"format,omitempty"`
	FormatMinimum    string             `json:"formatMinimum,omitempty"`
	FormatMaximum    string             `json:"formatMaximum,omitempty"`
	FormatExclMin    bool               `json:"formatExclusiveMinimum,omitempty"`
	FormatExclMax    bool               `json:"formatExclusiveMaximum,omitempty"`
	Minimum          OneOfNumberString  `json:"minimum,omitempty"`
	Maximum          OneOfNumberString  `json:"maximum,omitempty"`
	ExclusiveMinimum OneOfNumberString  `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum OneOfNumberString  `json:"exclusiveMaximum,omitempty"`
	MinLength        *int               `json:"minLength,omitempty"`
	MaxLength        *int               `json:"maxLength,omitempty"`
	Not              *Filter            `json:"not,omitempty"`
	Contains         map[string]interface{} `json:"contains,omitempty"`
}

// Result is the outcome of evaluating a Filter against one value.
type Result struct {
	Matched bool
	Value   interface{}
}

// Evaluate applies f to value. It never returns an error: a type mismatch,
// an out-of-range bound, or any other disagreement simply yields
// Matched=false (spec §4.2: "never throws").
func Evaluate(f *Filter, value interface{}) Result {
	if f == nil {
		return Result{Matched: true, Value: value}
	}

	if f.Not != nil {
		inner := Evaluate(f.Not, value)
		return Result{Matched: !inner.Matched, Value: value}
	}

	if !schemaMatches(f, value) {
		return Result{Matched: false, Value: value}
	}

	if !numericBoundsMatch(f, value) {
		return Result{Matched: false, Value: value}
	}

	if !dateBoundsMatch(f, value) {
		return Result{Matched: false, Value: value}
	}

	return Result{Matched: true, Value: normalize(f, value)}
}

// schemaMatches compiles the draft-2020-12-expressible subset of f (type,
// const, enum, pattern, format, minLength, maxLength) and validates value
// against it.
func schemaMatches(f *Filter, value interface{}) bool {
	doc := map[string]interface{}{}

	if f.Type != "" {
		doc["type"] = f.Type
	}

	if f.Const != nil {
		doc["const"] = f.Const
	}

	if len(f.Enum) > 0 {
		doc["enum"] = f.Enum
	}

	if f.Pattern != "" {
		doc["pattern"] = f.Pattern
	}

	if f.Format != "" {
		doc["format"] = f.Format
	}

	if f.MinLength != nil {
		doc["minLength"] = *f.MinLength
	}

	if f.MaxLength != nil {
		doc["maxLength"] = *f.MaxLength
	}

	if len(doc) == 0 {
		return true
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return false
	}

	c := jsonschema.NewCompiler()
	c.AssertFormat = true

	const resourceName = "filter.json"
	if err := c.AddResource(resourceName, bytes.NewReader(raw)); err != nil {
		return false
	}

	schema, err := c.Compile(resourceName)
	if err != nil {
		return false
	}

	decoded, err := decodeWithNumbers(value)
	if err != nil {
		return false
	}

	return schema.Validate(decoded) == nil
}

// decodeWithNumbers round-trips value through JSON using encoding/json so
// the resulting json.Number values are the concrete type
// santhosh-tekuri/jsonschema's type-keyword check expects — it distinguishes
// integer from non-integer numbers by asserting encoding/json.Number, so
// this one decode must not go through goccy/go-json's distinct Number type.
func decodeWithNumbers(value interface{}) (interface{}, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	dec := stdjson.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	return v, nil
}

func numericBoundsMatch(f *Filter, value interface{}) bool {
	if !f.Minimum.isSet() && !f.Maximum.isSet() && !f.ExclusiveMinimum.isSet() && !f.ExclusiveMaximum.isSet() {
		return true
	}

	n, ok := asFloat(value)
	if !ok {
		return false
	}

	if f.Minimum.isSet() && n < f.Minimum.val {
		return false
	}

	if f.Maximum.isSet() && n > f.Maximum.val {
		return false
	}

	if f.ExclusiveMinimum.isSet() && n <= f.ExclusiveMinimum.val {
		return false
	}

	if f.ExclusiveMaximum.isSet() && n >= f.ExclusiveMaximum.val {
		return false
	}

	return true
}

// dateBoundsMatch applies formatMinimum/formatMaximum/formatExclusive* using
// lexicographic ISO-8601 comparison, which is valid for zero-padded
// date/date-time/time strings.
func dateBoundsMatch(f *Filter, value interface{}) bool {
	if f.FormatMinimum == "" && f.FormatMaximum == "" {
		return true
	}

	s, ok := value.(string)
	if !ok {
		return false
	}

	if f.FormatMinimum != "" {
		cmp := strings.Compare(s, f.FormatMinimum)
		if f.FormatExclMin {
			if cmp <= 0 {
				return false
			}
		} else if cmp < 0 {
			return false
		}
	}

	if f.FormatMaximum != "" {
		cmp := strings.Compare(s, f.FormatMaximum)
		if f.FormatExclMax {
			if cmp >= 0 {
				return false
			}
		} else if cmp > 0 {
			return false
		}
	}

	return true
}

// asFloat coerces a JSON number or a numeric string to float64 (the value
// side of OneOfNumberString: bounds may be declared as numbers or numeric
// strings, and so may the extracted value when the filter doesn't also
// assert `type`).
func asFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// normalize coerces a numeric-string value to a number when the filter
// asserts a numeric type, so downstream payloads carry typed values.
func normalize(f *Filter, value interface{}) interface{} {
	if f.Type != "number" && f.Type != "integer" {
		return value
	}

	if s, ok := value.(string); ok {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n
		}
	}

	return value
}
