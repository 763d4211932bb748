package refresher

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/models"
)

func TestNewScheduler(t *testing.T) {
	r := New(&fakeStore{}, &fakeRepricer{}, 1)

	t.Run("accepts descriptors", func(t *testing.T) {
		s, err := NewScheduler(r, "@every 15m")
		require.NoError(t, err)
		assert.Len(t, s.cron.Entries(), 1)
	})

	t.Run("accepts five field expressions", func(t *testing.T) {
		_, err := NewScheduler(r, "*/10 13-21 * * 1-5")
		assert.NoError(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := NewScheduler(r, "every now and then")
		assert.Error(t, err)
	})
}

func TestSchedulerTickRunsRefresh(t *testing.T) {
	var calls atomic.Int32
	repricer := &fakeRepricer{repriceFn: func(context.Context, string) error {
		calls.Add(1)
		return nil
	}}
	store := &fakeStore{batches: [][]models.Assets{users("u", 4)}}

	s, err := NewScheduler(New(store, repricer, 2), "@hourly")
	require.NoError(t, err)

	s.tick()

	assert.Equal(t, int32(4), calls.Load())
}
