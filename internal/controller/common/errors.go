package common

import (
	"errors"
	"html"

	"github.com/Freeeeeet/timetable/internal/model"
)

// ErrorMessage возвращает пользовательское сообщение для ошибки сервиса расписания.
// Результат безопасен для ParseMode HTML
func ErrorMessage(err error) string {
	var verr *model.ValidationError

	switch {
	case errors.Is(err, model.ErrInvalidWindow):
		return "❌ Время начала должно быть раньше времени окончания"
	case errors.As(err, &verr):
		return "❌ Неверные данные занятия: " + html.EscapeString(verr.Error())
	case errors.Is(err, model.ErrConflict):
		dim, _ := model.ConflictDimension(err)
		return ConflictMessage(dim)
	case errors.Is(err, model.ErrNotFound):
		return "❌ Занятие не найдено"
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}

// ConflictMessage возвращает сообщение о конфликте по измерению
func ConflictMessage(dim model.Dimension) string {
	switch dim {
	case model.DimensionTeacher:
		return "⛔ Преподаватель уже занят в это время"
	case model.DimensionGroup:
		return "⛔ У этой группы уже есть занятие в это время"
	case model.DimensionRoom:
		return "⛔ Аудитория занята в это время"
	default:
		return "⛔ Занятие пересекается с существующим"
	}
}
