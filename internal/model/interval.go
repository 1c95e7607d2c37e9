package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Dimension - измерение конфликта: учитель, группа или аудитория
type Dimension string

const (
	DimensionTeacher Dimension = "teacher"
	DimensionGroup   Dimension = "group"
	DimensionRoom    Dimension = "room"
)

// Dimensions задаёт порядок проверки. Порядок наблюдаем снаружи:
// при нескольких конфликтах сообщается первый из этого списка
var Dimensions = []Dimension{DimensionTeacher, DimensionGroup, DimensionRoom}

// ParseDimension разбирает строковое имя измерения
func ParseDimension(s string) (Dimension, error) {
	switch Dimension(s) {
	case DimensionTeacher, DimensionGroup, DimensionRoom:
		return Dimension(s), nil
	}
	return "", fmt.Errorf("unknown dimension %q", s)
}

// Interval - окно [Start, End) в пределах одного дня
type Interval struct {
	ReservationID uuid.UUID
	Start         TimeOfDay
	End           TimeOfDay
}

// Overlaps сообщает пересекаются ли два окна: s1 < e2 && s2 < e1.
// Окна, касающиеся концами (10:00 и 10:00), не пересекаются
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// Overlap описывает пару пересекающихся занятий, найденную аудитом
type Overlap struct {
	Dimension  Dimension
	ResourceID string
	Weekday    Weekday
	First      Interval
	Second     Interval
}
