package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignatureAlgorithmEqualFold(t *testing.T) {
	assert.True(t, EdDSA.EqualFold("eddsa"))
	assert.True(t, ES256.EqualFold("ES256"))
	assert.False(t, ES256.EqualFold("ES256K"))
}
