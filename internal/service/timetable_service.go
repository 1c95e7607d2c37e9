package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/timetable/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReservationStore - хранилище занятий. Бизнес-правил не содержит
type ReservationStore interface {
	FindByResource(ctx context.Context, dim model.Dimension, resourceID string, weekday model.Weekday) ([]model.Interval, error)
	Insert(ctx context.Context, reservation *model.Reservation) (uuid.UUID, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	ListByResource(ctx context.Context, dim model.Dimension, resourceID string) ([]*model.Reservation, error)
	ListAll(ctx context.Context) ([]*model.Reservation, error)
}

// TimetableService - единственный путь создания занятий.
// Проверяет окно и конфликты по учителю, группе и аудитории
type TimetableService struct {
	store  ReservationStore
	locks  *keyLocker
	logger *zap.Logger
}

func NewTimetableService(store ReservationStore, logger *zap.Logger) *TimetableService {
	return &TimetableService{
		store:  store,
		locks:  newKeyLocker(),
		logger: logger,
	}
}

// ProposeReservation проверяет кандидата и сохраняет его, если конфликтов нет.
// Ошибки: model.ErrInvalidWindow, *model.ValidationError, *model.ConflictError
// или ошибка хранилища
func (s *TimetableService) ProposeReservation(ctx context.Context, candidate model.ReservationCandidate) (*model.Reservation, error) {
	// Самая дешёвая проверка, до любого обращения к хранилищу
	if candidate.StartTime >= candidate.EndTime {
		s.logger.Info("Reservation rejected: invalid window",
			zap.String("start_time", candidate.StartTime.String()),
			zap.String("end_time", candidate.EndTime.String()))
		return nil, model.ErrInvalidWindow
	}

	if verr := validateCandidate(candidate); verr.HasErrors() {
		s.logger.Info("Reservation rejected: invalid candidate", zap.Error(verr))
		return nil, verr
	}

	dims := dimensionsOf(candidate)

	keys := make([]lockKey, 0, len(dims))
	for _, dim := range dims {
		keys = append(keys, lockKey{dim: dim, resourceID: candidate.ResourceID(dim), weekday: candidate.Weekday})
	}

	unlock, err := s.locks.Lock(ctx, keys...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	window := candidate.Interval()
	for _, dim := range dims {
		conflict, err := s.hasConflict(ctx, dim, candidate.ResourceID(dim), candidate.Weekday, window)
		if err != nil {
			return nil, err
		}
		if conflict {
			s.logger.Info("Reservation rejected: conflict",
				zap.String("dimension", string(dim)),
				zap.String("resource_id", candidate.ResourceID(dim)),
				zap.Int("weekday", int(candidate.Weekday)),
				zap.String("start_time", candidate.StartTime.String()),
				zap.String("end_time", candidate.EndTime.String()))
			return nil, &model.ConflictError{Dimension: dim}
		}
	}

	reservation := candidate.Reservation()
	if _, err := s.store.Insert(ctx, reservation); err != nil {
		// Другой процесс успел занять ресурс, хранилище отклонило вставку
		var conflict *model.ConflictError
		if errors.As(err, &conflict) {
			return nil, conflict
		}
		s.logger.Error("Failed to insert reservation", zap.Error(err))
		return nil, fmt.Errorf("insert reservation: %w", err)
	}

	s.logger.Info("Reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("teacher_id", reservation.TeacherID),
		zap.String("group_id", reservation.GroupID),
		zap.Int("weekday", int(reservation.Weekday)),
		zap.String("start_time", reservation.StartTime.String()),
		zap.String("end_time", reservation.EndTime.String()))

	return reservation, nil
}

// hasConflict проверяет пересечение окна с занятиями ресурса в этот день
func (s *TimetableService) hasConflict(ctx context.Context, dim model.Dimension, resourceID string, weekday model.Weekday, window model.Interval) (bool, error) {
	intervals, err := s.store.FindByResource(ctx, dim, resourceID, weekday)
	if err != nil {
		return false, fmt.Errorf("find reservations by %s: %w", dim, err)
	}

	for _, existing := range intervals {
		if model.Overlaps(window, existing) {
			return true, nil
		}
	}
	return false, nil
}

// DeleteReservation удаляет занятие без проверок: удаление не может создать конфликт
func (s *TimetableService) DeleteReservation(ctx context.Context, id uuid.UUID) (bool, error) {
	removed, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete reservation: %w", err)
	}

	s.logger.Info("Reservation delete requested",
		zap.String("reservation_id", id.String()),
		zap.Bool("removed", removed))

	return removed, nil
}

// GetReservation получает занятие по ID, model.ErrNotFound если его нет
func (s *TimetableService) GetReservation(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	reservation, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	if reservation == nil {
		return nil, model.ErrNotFound
	}
	return reservation, nil
}

// ListByTeacher возвращает расписание учителя
func (s *TimetableService) ListByTeacher(ctx context.Context, teacherID string) ([]*model.Reservation, error) {
	return s.ListByResource(ctx, model.DimensionTeacher, teacherID)
}

// ListByGroup возвращает расписание группы
func (s *TimetableService) ListByGroup(ctx context.Context, groupID string) ([]*model.Reservation, error) {
	return s.ListByResource(ctx, model.DimensionGroup, groupID)
}

// ListByRoom возвращает расписание аудитории
func (s *TimetableService) ListByRoom(ctx context.Context, roomID string) ([]*model.Reservation, error) {
	return s.ListByResource(ctx, model.DimensionRoom, roomID)
}

// ListByResource возвращает расписание ресурса по измерению
func (s *TimetableService) ListByResource(ctx context.Context, dim model.Dimension, resourceID string) ([]*model.Reservation, error) {
	reservations, err := s.store.ListByResource(ctx, dim, resourceID)
	if err != nil {
		return nil, fmt.Errorf("list reservations by %s: %w", dim, err)
	}
	return reservations, nil
}

// dimensionsOf возвращает измерения для проверки в фиксированном порядке.
// Аудитория проверяется только если назначена
func dimensionsOf(candidate model.ReservationCandidate) []model.Dimension {
	dims := make([]model.Dimension, 0, len(model.Dimensions))
	for _, dim := range model.Dimensions {
		if dim == model.DimensionRoom {
			if _, ok := candidate.Room(); !ok {
				continue
			}
		}
		dims = append(dims, dim)
	}
	return dims
}

func validateCandidate(candidate model.ReservationCandidate) *model.ValidationError {
	verr := &model.ValidationError{}

	if candidate.TeacherID == "" {
		verr.Add("teacher_id", "required")
	}
	if candidate.GroupID == "" {
		verr.Add("group_id", "required")
	}
	if !candidate.Weekday.Valid() {
		verr.Add("weekday", "must be between 1 and 7")
	}
	if !candidate.StartTime.Valid() {
		verr.Add("start_time", "out of range")
	}
	if !candidate.EndTime.Valid() {
		verr.Add("end_time", "out of range")
	}

	return verr
}
