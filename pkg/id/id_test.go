package id

import (
	"sort"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAt_StampsDecisionTime(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 8, 1, 15, 4, 5, 0, time.UTC)
	u, err := ulid.ParseStrict(At(at))
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(at), u.Time())
}

func TestAt_SameMillisecondStaysOrdered(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 8, 1, 15, 4, 5, 0, time.UTC)
	ids := make([]string, 50)
	for i := range ids {
		ids[i] = At(at)
	}

	assert.True(t, sort.StringsAreSorted(ids))
}
