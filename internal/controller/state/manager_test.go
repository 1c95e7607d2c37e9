package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManager(t *testing.T) {
	m := NewManager(time.Minute)
	now := time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	assert.Equal(t, StateNone, m.GetState(1))

	m.SetState(1, StateAddLesson)
	assert.Equal(t, StateAddLesson, m.GetState(1))
	assert.Equal(t, StateNone, m.GetState(2))

	assert.Equal(t, StateAddLesson, m.Take(1))
	assert.Equal(t, StateNone, m.GetState(1))

	m.SetState(1, StateRemoveLesson)
	m.ClearState(1)
	assert.Equal(t, StateNone, m.GetState(1))
}

func TestManager_Expires(t *testing.T) {
	m := NewManager(time.Minute)
	now := time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	m.SetState(1, StateAddLesson)
	now = now.Add(2 * time.Minute)

	assert.Equal(t, StateNone, m.GetState(1))
	assert.Equal(t, StateNone, m.Take(1))
}
