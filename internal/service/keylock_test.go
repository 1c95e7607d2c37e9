package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/timetable/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyLocker_ExclusiveAndReleased(t *testing.T) {
	locker := newKeyLocker()
	key := lockKey{dim: model.DimensionTeacher, resourceID: "T1", weekday: model.Monday}

	unlock, err := locker.Lock(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, 1, locker.size())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, key)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock() // повторный вызов безопасен
	assert.Zero(t, locker.size())

	unlock, err = locker.Lock(context.Background(), key)
	require.NoError(t, err)
	unlock()
}

func TestKeyLocker_DifferentKeysDoNotBlock(t *testing.T) {
	locker := newKeyLocker()

	unlockA, err := locker.Lock(context.Background(), lockKey{dim: model.DimensionTeacher, resourceID: "T1", weekday: model.Monday})
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	unlockB, err := locker.Lock(ctx,
		lockKey{dim: model.DimensionTeacher, resourceID: "T1", weekday: model.Tuesday},
		lockKey{dim: model.DimensionGroup, resourceID: "T1", weekday: model.Monday},
	)
	require.NoError(t, err)
	unlockB()
}

func TestKeyLocker_FailedAcquireReleasesPrefix(t *testing.T) {
	locker := newKeyLocker()
	teacher := lockKey{dim: model.DimensionTeacher, resourceID: "T1", weekday: model.Monday}
	room := lockKey{dim: model.DimensionRoom, resourceID: "R1", weekday: model.Monday}

	unlockRoom, err := locker.Lock(context.Background(), room)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, teacher, room)
	require.Error(t, err)

	// Учитель должен быть снова свободен
	unlockTeacher, err := locker.Lock(context.Background(), teacher)
	require.NoError(t, err)
	unlockTeacher()
	unlockRoom()
	assert.Zero(t, locker.size())
}

func TestKeyLocker_SerializesCriticalSection(t *testing.T) {
	locker := newKeyLocker()
	key := lockKey{dim: model.DimensionGroup, resourceID: "G1", weekday: model.Friday}

	var (
		wg      sync.WaitGroup
		inside  int
		maxSeen int
		mu      sync.Mutex
	)

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), key)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Zero(t, locker.size())
}
