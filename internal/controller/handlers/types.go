package handlers

import (
	"context"

	"github.com/Freeeeeet/timetable/internal/controller/state"
	"github.com/Freeeeeet/timetable/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Timetable - операции расписания, которые использует бот
type Timetable interface {
	ProposeReservation(ctx context.Context, candidate model.ReservationCandidate) (*model.Reservation, error)
	DeleteReservation(ctx context.Context, id uuid.UUID) (bool, error)
	ListByResource(ctx context.Context, dim model.Dimension, resourceID string) ([]*model.Reservation, error)
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	timetable    Timetable
	isAdmin      func(telegramID int64) bool
	stateManager *state.Manager
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	timetable Timetable,
	isAdmin func(telegramID int64) bool,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		timetable:    timetable,
		isAdmin:      isAdmin,
		stateManager: stateManager,
		logger:       logger,
	}
}
