package filter

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFilter(t *testing.T, js string) *Filter {
	t.Helper()

	var f Filter
	require.NoError(t, json.Unmarshal([]byte(js), &f))

	return &f
}

func TestEvaluateNilFilterMatchesAnything(t *testing.T) {
	r := Evaluate(nil, "anything")
	assert.True(t, r.Matched)
}

func TestEvaluateNumberMinimum(t *testing.T) {
	f := parseFilter(t, `{"type":"number","minimum":18}`)

	assert.True(t, Evaluate(f, 25.0).Matched)
	assert.False(t, Evaluate(f, 10.0).Matched)
}

func TestEvaluateTypeMismatchIsNoThrow(t *testing.T) {
	f := parseFilter(t, `{"type":"integer"}`)

	r := Evaluate(f, "25")
	assert.False(t, r.Matched)
}

func TestEvaluatePattern(t *testing.T) {
	f := parseFilter(t, `{"type":"string","pattern":"^did:example:"}`)

	assert.True(t, Evaluate(f, "did:example:123").Matched)
	assert.False(t, Evaluate(f, "did:other:123").Matched)
}

func TestEvaluateConst(t *testing.T) {
	f := parseFilter(t, `{"const":"US"}`)

	assert.True(t, Evaluate(f, "US").Matched)
	assert.False(t, Evaluate(f, "CA").Matched)
}

func TestEvaluateEnum(t *testing.T) {
	f := parseFilter(t, `{"enum":["US","CA"]}`)

	assert.True(t, Evaluate(f, "CA").Matched)
	assert.False(t, Evaluate(f, "MX").Matched)
}

func TestEvaluateNot(t *testing.T) {
	f := parseFilter(t, `{"not":{"const":"revoked"}}`)

	assert.True(t, Evaluate(f, "active").Matched)
	assert.False(t, Evaluate(f, "revoked").Matched)
}

func TestEvaluateFormatMinimumDate(t *testing.T) {
	f := parseFilter(t, `{"formatMinimum":"2020-01-01"}`)

	assert.True(t, Evaluate(f, "2021-06-01").Matched)
	assert.False(t, Evaluate(f, "2019-06-01").Matched)
}

func TestEvaluateNumericStringBound(t *testing.T) {
	f := parseFilter(t, `{"minimum":"18"}`)

	assert.True(t, Evaluate(f, 21.0).Matched)
	assert.False(t, Evaluate(f, 10.0).Matched)
}

func TestEvaluateMinLength(t *testing.T) {
	f := parseFilter(t, `{"minLength":3}`)

	assert.True(t, Evaluate(f, "abcd").Matched)
	assert.False(t, Evaluate(f, "ab").Matched)
}
