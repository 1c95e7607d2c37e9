package model

import (
	"time"

	"github.com/google/uuid"
)

// Reservation представляет занятие в недельном расписании:
// учитель + группа + (необязательно) аудитория в один и тот же день недели каждую неделю
type Reservation struct {
	ID        uuid.UUID `json:"id"`
	TeacherID string    `json:"teacher_id"`
	GroupID   string    `json:"group_id"`
	RoomID    *string   `json:"room_id"` // nil - аудитория не назначена
	SubjectID string    `json:"subject_id"`
	Weekday   Weekday   `json:"weekday"`
	StartTime TimeOfDay `json:"start_time"`
	EndTime   TimeOfDay `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// ReservationCandidate - предлагаемое занятие, ещё не прошедшее проверку конфликтов
type ReservationCandidate struct {
	TeacherID string
	GroupID   string
	RoomID    *string
	SubjectID string
	Weekday   Weekday
	StartTime TimeOfDay
	EndTime   TimeOfDay
}

// Room возвращает аудиторию и признак того, что она назначена
func (r *Reservation) Room() (string, bool) {
	return roomOf(r.RoomID)
}

// Interval возвращает временное окно занятия
func (r *Reservation) Interval() Interval {
	return Interval{ReservationID: r.ID, Start: r.StartTime, End: r.EndTime}
}

// ResourceID возвращает идентификатор ресурса занятия по измерению
func (r *Reservation) ResourceID(dim Dimension) string {
	switch dim {
	case DimensionTeacher:
		return r.TeacherID
	case DimensionGroup:
		return r.GroupID
	case DimensionRoom:
		room, _ := r.Room()
		return room
	}
	return ""
}

// Room возвращает аудиторию кандидата и признак того, что она назначена
func (c ReservationCandidate) Room() (string, bool) {
	return roomOf(c.RoomID)
}

// Interval возвращает временное окно кандидата
func (c ReservationCandidate) Interval() Interval {
	return Interval{Start: c.StartTime, End: c.EndTime}
}

// ResourceID возвращает идентификатор ресурса кандидата по измерению
func (c ReservationCandidate) ResourceID(dim Dimension) string {
	switch dim {
	case DimensionTeacher:
		return c.TeacherID
	case DimensionGroup:
		return c.GroupID
	case DimensionRoom:
		room, _ := c.Room()
		return room
	}
	return ""
}

// Reservation собирает занятие из кандидата (без ID)
func (c ReservationCandidate) Reservation() *Reservation {
	var room *string
	if id, ok := c.Room(); ok {
		room = &id
	}
	return &Reservation{
		TeacherID: c.TeacherID,
		GroupID:   c.GroupID,
		RoomID:    room,
		SubjectID: c.SubjectID,
		Weekday:   c.Weekday,
		StartTime: c.StartTime,
		EndTime:   c.EndTime,
	}
}

func roomOf(id *string) (string, bool) {
	if id == nil || *id == "" {
		return "", false
	}
	return *id, true
}
