package uuidx

import (
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	id := New()
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.Equal(t, uuid.RFC4122, id.Variant())
	assert.NotEqual(t, id, New())
}

func TestNewString_TimeOrdered(t *testing.T) {
	ids := make([]string, 32)
	for i := range ids {
		ids[i] = NewString()
		_, err := uuid.Parse(ids[i])
		require.NoError(t, err)
	}
	assert.True(t, slices.IsSorted(ids))
}
