package jsonpathx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc() map[string]interface{} {
	return map[string]interface{}{
		"credentialSubject": map[string]interface{}{
			"id":  "did:example:123",
			"age": 25.0,
			"nested": []interface{}{
				map[string]interface{}{"name": "a"},
				map[string]interface{}{"name": "b"},
			},
		},
		"issuer": "did:example:issuer",
	}
}

func TestExtractDotPath(t *testing.T) {
	hits, err := Extract(doc(), "$.credentialSubject.age")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 25.0, hits[0].Value)
	assert.Equal(t, "$.credentialSubject.age", hits[0].Path)
}

func TestExtractBracketName(t *testing.T) {
	hits, err := Extract(doc(), "$['credentialSubject']['id']")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "did:example:123", hits[0].Value)
}

func TestExtractIndex(t *testing.T) {
	hits, err := Extract(doc(), "$.credentialSubject.nested[1].name")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].Value)
}

func TestExtractWildcard(t *testing.T) {
	hits, err := Extract(doc(), "$.credentialSubject.nested[*].name")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].Value)
	assert.Equal(t, "b", hits[1].Value)
	assert.Equal(t, "$.credentialSubject.nested[0].name", hits[0].Path)
}

func TestExtractRecursiveDescent(t *testing.T) {
	hits, err := Extract(doc(), "$..name")
	require.NoError(t, err)
	require.Len(t, hits, 2)
}

func TestExtractUnion(t *testing.T) {
	hits, err := Extract(doc(), "$['issuer', 'credentialSubject']")
	require.NoError(t, err)
	require.Len(t, hits, 2)
}

func TestExtractNoMatchIsEmptyNotError(t *testing.T) {
	hits, err := Extract(doc(), "$.credentialSubject.missing")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestExtractInvalidSyntax(t *testing.T) {
	_, err := Extract(doc(), "credentialSubject.age")
	assert.Error(t, err)
}

func TestCheckSyntax(t *testing.T) {
	assert.NoError(t, CheckSyntax("$.verifiableCredential[0]"))
	assert.Error(t, CheckSyntax("$.verifiableCredential["))
}
