package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/Freeeeeet/timetable/internal/model"
	"golang.org/x/sync/semaphore"
)

// lockKey - ключ взаимного исключения (измерение, ресурс, день недели)
type lockKey struct {
	dim        model.Dimension
	resourceID string
	weekday    model.Weekday
}

func (k lockKey) String() string {
	return fmt.Sprintf("%s:%s:%d", k.dim, k.resourceID, k.weekday)
}

type lockEntry struct {
	sem  *semaphore.Weighted
	refs int
}

// keyLocker выдаёт эксклюзивные блокировки по ключам.
// Записи живут пока на них есть ссылки, затем удаляются
type keyLocker struct {
	mu    sync.Mutex
	locks map[lockKey]*lockEntry
}

func newKeyLocker() *keyLocker {
	return &keyLocker{locks: make(map[lockKey]*lockEntry)}
}

// Lock захватывает все ключи в переданном порядке и возвращает функцию освобождения.
// Ключи отпускаются только вместе. При отмене ctx уже захваченные ключи освобождаются
func (l *keyLocker) Lock(ctx context.Context, keys ...lockKey) (func(), error) {
	acquired := make([]lockKey, 0, len(keys))

	release := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			l.release(acquired[i])
		}
	}

	for _, key := range keys {
		entry := l.ref(key)
		if err := entry.sem.Acquire(ctx, 1); err != nil {
			l.unref(key)
			release()
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		acquired = append(acquired, key)
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

func (l *keyLocker) ref(key lockKey) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.locks[key]
	if !ok {
		entry = &lockEntry{sem: semaphore.NewWeighted(1)}
		l.locks[key] = entry
	}
	entry.refs++
	return entry
}

func (l *keyLocker) unref(key lockKey) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := l.locks[key]
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, key)
	}
}

func (l *keyLocker) release(key lockKey) {
	l.mu.Lock()
	entry := l.locks[key]
	l.mu.Unlock()

	entry.sem.Release(1)
	l.unref(key)
}

// size возвращает число живых записей. Для тестов
func (l *keyLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
