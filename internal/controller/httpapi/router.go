package httpapi

import (
	"context"
	"net/http"

	"github.com/Freeeeeet/timetable/internal/model"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Timetable - операции расписания, которые использует HTTP API
type Timetable interface {
	ProposeReservation(ctx context.Context, candidate model.ReservationCandidate) (*model.Reservation, error)
	DeleteReservation(ctx context.Context, id uuid.UUID) (bool, error)
	GetReservation(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	ListByResource(ctx context.Context, dim model.Dimension, resourceID string) ([]*model.Reservation, error)
}

// NewRouter собирает HTTP-обработчик API расписания.
// Пустой apiToken отключает проверку токена на изменяющих запросах
func NewRouter(timetable Timetable, apiToken string, logger *zap.Logger) http.Handler {
	h := NewHandler(timetable, logger)
	auth := requireToken(apiToken)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Handle("/reservations", auth(http.HandlerFunc(h.CreateReservation))).Methods(http.MethodPost)
	api.Handle("/reservations/{id}", auth(http.HandlerFunc(h.DeleteReservation))).Methods(http.MethodDelete)
	api.HandleFunc("/reservations/{id}", h.GetReservation).Methods(http.MethodGet)
	api.HandleFunc("/{kind:teachers|groups|rooms}/{id}/reservations", h.ListReservations).Methods(http.MethodGet)

	accessLog := zap.NewStdLog(logger.Named("http")).Writer()

	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger: logger}),
	)(handlers.CombinedLoggingHandler(accessLog, r))
}

// recoveryLogger адаптирует zap к handlers.RecoveryHandlerLogger
type recoveryLogger struct {
	logger *zap.Logger
}

func (l recoveryLogger) Println(v ...any) {
	l.logger.Sugar().Error(append([]any{"Recovered from panic: "}, v...)...)
}
