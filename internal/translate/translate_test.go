package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert.Equal(t, "stack overflow", From("stack overflow"))
	assert.Equal(t, "address 0x1000", From("address 0x%X", 0x1000))
}
