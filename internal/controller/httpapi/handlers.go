package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/Freeeeeet/timetable/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// createReservationRequest - тело POST /api/reservations.
// Обязательность полей и порядок времени проверяет сервис
type createReservationRequest struct {
	TeacherID string  `json:"teacher_id" validate:"max=64"`
	GroupID   string  `json:"group_id" validate:"max=64"`
	RoomID    *string `json:"room_id" validate:"omitempty,max=64"`
	SubjectID string  `json:"subject_id" validate:"max=64"`
	Weekday   int     `json:"weekday"`
	StartTime string  `json:"start_time" validate:"required,timeofday"`
	EndTime   string  `json:"end_time" validate:"required,timeofday"`
}

var kindDimensions = map[string]model.Dimension{
	"teachers": model.DimensionTeacher,
	"groups":   model.DimensionGroup,
	"rooms":    model.DimensionRoom,
}

type Handler struct {
	timetable Timetable
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewHandler(timetable Timetable, logger *zap.Logger) *Handler {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	err := validate.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
		_, err := model.ParseTimeOfDay(fl.Field().String())
		return err == nil
	})
	if err != nil {
		// Ошибка регистрации - ошибка в коде, без неё валидация всех запросов сломана
		panic(fmt.Sprintf("register timeofday validation: %v", err))
	}

	return &Handler{
		timetable: timetable,
		validate:  validate,
		logger:    logger,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "Invalid request body"})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationResponse(err))
		return
	}

	// Формат уже проверен валидатором
	start, _ := model.ParseTimeOfDay(req.StartTime)
	end, _ := model.ParseTimeOfDay(req.EndTime)

	reservation, err := h.timetable.ProposeReservation(r.Context(), model.ReservationCandidate{
		TeacherID: req.TeacherID,
		GroupID:   req.GroupID,
		RoomID:    req.RoomID,
		SubjectID: req.SubjectID,
		Weekday:   model.Weekday(req.Weekday),
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, reservation)
}

func (h *Handler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	removed, err := h.timetable.DeleteReservation(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "Reservation not found"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	reservation, err := h.timetable.GetReservation(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reservation)
}

func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dim, ok := kindDimensions[vars["kind"]]
	if !ok {
		writeError(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "Unknown resource kind"})
		return
	}

	reservations, err := h.timetable.ListByResource(r.Context(), dim, vars["id"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if reservations == nil {
		reservations = []*model.Reservation{}
	}

	writeJSON(w, http.StatusOK, reservations)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "Invalid reservation id"})
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceError переводит ошибки сервиса в HTTP-ответы
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError

	switch {
	case errors.Is(err, model.ErrInvalidWindow):
		writeError(w, http.StatusUnprocessableEntity, errorResponse{
			Error:   "invalid_window",
			Message: "Start time must be before end time",
		})
	case errors.As(err, &verr):
		writeError(w, http.StatusUnprocessableEntity, errorResponse{
			Error:   "invalid_reservation",
			Message: "Invalid reservation",
			Fields:  verr.FieldErrors,
		})
	case errors.Is(err, model.ErrConflict):
		dim, _ := model.ConflictDimension(err)
		writeError(w, http.StatusConflict, errorResponse{
			Error:     "conflict",
			Dimension: string(dim),
			Message:   ConflictMessage(dim),
		})
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "Reservation not found"})
	default:
		h.logger.Error("Request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errorResponse{Error: "internal", Message: "Internal server error"})
	}
}
