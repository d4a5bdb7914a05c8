package countstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemCountStoreBasics(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	cs := NewMemCountStore()

	c, err := cs.GetCount(ctx, "accepted", "post", PeriodTotal)
	assert.NoError(err)
	assert.Equal(0, c)
	assert.NoError(cs.Increment(ctx, "accepted", "post"))
	assert.NoError(cs.Increment(ctx, "accepted", "post"))

	for _, period := range AllPeriods {
		c, err = cs.GetCount(ctx, "accepted", "post", period)
		assert.NoError(err)
		assert.Equal(2, c)
	}

	assert.NoError(cs.IncrementDistinct(ctx, "callers", "post", "alice"))
	assert.NoError(cs.IncrementDistinct(ctx, "callers", "post", "alice"))
	assert.NoError(cs.IncrementDistinct(ctx, "callers", "post", "bob"))
	for _, period := range AllPeriods {
		c, err = cs.GetCountDistinct(ctx, "callers", "post", period)
		assert.NoError(err)
		assert.Equal(2, c)
	}
}

func TestMemCountStorePeriods(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	now := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	cs := NewMemCountStore()
	cs.Now = func() time.Time { return now }

	assert.NoError(cs.Increment(ctx, "rejected", "caller1"))

	// next hour, same day
	now = now.Add(time.Hour)
	assert.NoError(cs.Increment(ctx, "rejected", "caller1"))

	c, _ := cs.GetCount(ctx, "rejected", "caller1", PeriodHour)
	assert.Equal(1, c)
	c, _ = cs.GetCount(ctx, "rejected", "caller1", PeriodDay)
	assert.Equal(2, c)

	// next day
	now = now.Add(24 * time.Hour)
	c, _ = cs.GetCount(ctx, "rejected", "caller1", PeriodDay)
	assert.Equal(0, c)
	c, _ = cs.GetCount(ctx, "rejected", "caller1", PeriodTotal)
	assert.Equal(2, c)
}

func TestMemCountStoreConcurrent(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	cs := NewMemCountStore()

	var wg sync.WaitGroup
	fnInc := func(name, val string, times int) {
		defer wg.Done()
		for i := 0; i < times; i++ {
			assert.NoError(cs.Increment(ctx, name, val))
			assert.NoError(cs.IncrementDistinct(ctx, name, name, val))
		}
	}
	wg.Add(4)
	go fnInc("accepted", "post", 10)
	go fnInc("accepted", "post", 10)
	go fnInc("accepted", "reply", 6)
	go fnInc("accepted", "reply", 6)
	wg.Wait()

	c, err := cs.GetCount(ctx, "accepted", "post", PeriodTotal)
	assert.NoError(err)
	assert.Equal(20, c)
	c, err = cs.GetCount(ctx, "accepted", "reply", PeriodTotal)
	assert.NoError(err)
	assert.Equal(12, c)

	c, err = cs.GetCountDistinct(ctx, "accepted", "accepted", PeriodTotal)
	assert.NoError(err)
	assert.Equal(2, c)
}
