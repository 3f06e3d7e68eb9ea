package random

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntnStaysInRange(t *testing.T) {
	r := New()
	for i := 0; i < 200; i++ {
		n := r.Intn(8)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 8)
	}
	assert.Equal(t, 0, r.Intn(0))
}

func TestStringUsesAlphabet(t *testing.T) {
	r := New()
	s := r.String(32, "AB")
	assert.Len(t, s, 32)
	assert.Empty(t, strings.Trim(s, "AB"))
	assert.Empty(t, r.String(0, "AB"))
	assert.Empty(t, r.String(4, ""))
}

func TestNewIDIsUUID(t *testing.T) {
	r := New()
	a, b := r.NewID(), r.NewID()
	_, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
