package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/timetable/internal/model"
	"github.com/google/uuid"
)

// resourceKey - составной ключ индекса (измерение, ресурс, день недели)
type resourceKey struct {
	dim        model.Dimension
	resourceID string
	weekday    model.Weekday
}

// MemoryReservationRepository хранит занятия в памяти процесса.
// Используется в тестах и при STORAGE=memory
type MemoryReservationRepository struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*model.Reservation
	index map[resourceKey]map[uuid.UUID]struct{}
	now   func() time.Time
}

// NewMemoryReservationRepository создаёт пустое хранилище
func NewMemoryReservationRepository() *MemoryReservationRepository {
	return &MemoryReservationRepository{
		byID:  make(map[uuid.UUID]*model.Reservation),
		index: make(map[resourceKey]map[uuid.UUID]struct{}),
		now:   time.Now,
	}
}

// FindByResource возвращает окна всех занятий ресурса в указанный день недели
func (r *MemoryReservationRepository) FindByResource(ctx context.Context, dim model.Dimension, resourceID string, weekday model.Weekday) ([]model.Interval, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if resourceID == "" {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.index[resourceKey{dim: dim, resourceID: resourceID, weekday: weekday}]
	intervals := make([]model.Interval, 0, len(ids))
	for id := range ids {
		intervals = append(intervals, r.byID[id].Interval())
	}

	return intervals, nil
}

// Insert сохраняет копию занятия, назначая ID
func (r *MemoryReservationRepository) Insert(ctx context.Context, reservation *model.Reservation) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	reservation.ID = uuid.New()
	reservation.CreatedAt = r.now()

	stored := cloneReservation(reservation)
	r.byID[stored.ID] = stored
	for _, key := range keysOf(stored) {
		ids, ok := r.index[key]
		if !ok {
			ids = make(map[uuid.UUID]struct{})
			r.index[key] = ids
		}
		ids[stored.ID] = struct{}{}
	}

	return stored.ID, nil
}

// DeleteByID удаляет занятие. Отсутствующий ID - не ошибка, возвращает false
func (r *MemoryReservationRepository) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return false, nil
	}

	delete(r.byID, id)
	for _, key := range keysOf(stored) {
		delete(r.index[key], id)
		if len(r.index[key]) == 0 {
			delete(r.index, key)
		}
	}

	return true, nil
}

// GetByID получает занятие по ID
func (r *MemoryReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneReservation(stored), nil
}

// ListByResource получает все занятия ресурса, отсортированные по дню и времени начала
func (r *MemoryReservationRepository) ListByResource(ctx context.Context, dim model.Dimension, resourceID string) ([]*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if resourceID == "" {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var reservations []*model.Reservation
	for _, stored := range r.byID {
		if stored.ResourceID(dim) == resourceID {
			reservations = append(reservations, cloneReservation(stored))
		}
	}
	sortReservations(reservations)

	return reservations, nil
}

// ListAll получает все занятия
func (r *MemoryReservationRepository) ListAll(ctx context.Context) ([]*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	reservations := make([]*model.Reservation, 0, len(r.byID))
	for _, stored := range r.byID {
		reservations = append(reservations, cloneReservation(stored))
	}
	sortReservations(reservations)

	return reservations, nil
}

func keysOf(reservation *model.Reservation) []resourceKey {
	keys := make([]resourceKey, 0, len(model.Dimensions))
	for _, dim := range model.Dimensions {
		if id := reservation.ResourceID(dim); id != "" {
			keys = append(keys, resourceKey{dim: dim, resourceID: id, weekday: reservation.Weekday})
		}
	}
	return keys
}

func cloneReservation(reservation *model.Reservation) *model.Reservation {
	clone := *reservation
	if reservation.RoomID != nil {
		room := *reservation.RoomID
		clone.RoomID = &room
	}
	return &clone
}

func sortReservations(reservations []*model.Reservation) {
	sort.Slice(reservations, func(i, j int) bool {
		a, b := reservations[i], reservations[j]
		if a.Weekday != b.Weekday {
			return a.Weekday < b.Weekday
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID.String() < b.ID.String()
	})
}
