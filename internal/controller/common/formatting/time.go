package formatting

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/timetable/internal/model"
)

var weekdayNames = map[model.Weekday]string{
	model.Monday:    "Понедельник",
	model.Tuesday:   "Вторник",
	model.Wednesday: "Среда",
	model.Thursday:  "Четверг",
	model.Friday:    "Пятница",
	model.Saturday:  "Суббота",
	model.Sunday:    "Воскресенье",
}

var weekdayShortNames = map[model.Weekday]string{
	model.Monday:    "Пн",
	model.Tuesday:   "Вт",
	model.Wednesday: "Ср",
	model.Thursday:  "Чт",
	model.Friday:    "Пт",
	model.Saturday:  "Сб",
	model.Sunday:    "Вс",
}

// FormatTimeRange форматирует диапазон времени
func FormatTimeRange(start, end model.TimeOfDay) string {
	return fmt.Sprintf("%s-%s", start.Short(), end.Short())
}

// GetWeekdayName возвращает название дня недели на русском
func GetWeekdayName(weekday model.Weekday) string {
	if name, ok := weekdayNames[weekday]; ok {
		return name
	}
	return "Неизвестно"
}

// GetWeekdayShortName возвращает краткое название дня недели на русском
func GetWeekdayShortName(weekday model.Weekday) string {
	if name, ok := weekdayShortNames[weekday]; ok {
		return name
	}
	return "?"
}

// ParseWeekday принимает номер дня (1-7) или краткое название: "пн", "Вт", "mon"
func ParseWeekday(s string) (model.Weekday, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		wd := model.Weekday(n)
		return wd, wd.Valid()
	}

	lower := strings.ToLower(s)
	for wd, short := range weekdayShortNames {
		if lower == strings.ToLower(short) || lower == strings.ToLower(weekdayNames[wd]) {
			return wd, true
		}
	}
	for wd := model.Monday; wd <= model.Sunday; wd++ {
		if len(lower) >= 3 && strings.HasPrefix(strings.ToLower(wd.String()), lower) {
			return wd, true
		}
	}
	return 0, false
}
