package state

import (
	"sync"
	"time"
)

// Manager управляет состояниями пользователей
type Manager struct {
	mu     sync.RWMutex
	states map[int64]userData // telegramID -> userData
	ttl    time.Duration
	now    func() time.Time
}

// NewManager создаёт новый менеджер состояний
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		states: make(map[int64]userData),
		ttl:    ttl,
		now:    time.Now,
	}
}

// GetState получает текущее состояние пользователя. Устаревшее состояние считается пустым
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	data, exists := sm.states[telegramID]
	if !exists || sm.now().Sub(data.updatedAt) > sm.ttl {
		return StateNone
	}
	return data.state
}

// SetState устанавливает состояние пользователя
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		delete(sm.states, telegramID)
		return
	}
	sm.states[telegramID] = userData{state: state, updatedAt: sm.now()}
}

// ClearState очищает состояние пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.SetState(telegramID, StateNone)
}

// Take возвращает состояние и сразу очищает его
func (sm *Manager) Take(telegramID int64) UserState {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	data, exists := sm.states[telegramID]
	delete(sm.states, telegramID)
	if !exists || sm.now().Sub(data.updatedAt) > sm.ttl {
		return StateNone
	}
	return data.state
}
