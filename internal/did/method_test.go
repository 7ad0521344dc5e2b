package did

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMethod(t *testing.T) {
	assert.Equal(t, "key", Method("did:key:z6Mk..."))
	assert.Equal(t, "ion", Method("did:ion:EiA..."))
	assert.Equal(t, "", Method("not-a-did"))
	assert.Equal(t, "", Method("did:"))
}
