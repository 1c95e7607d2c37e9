package formatting

import (
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/timetable/internal/model"
)

// FormatReservation форматирует одно занятие для сообщения с ParseMode HTML
func FormatReservation(r *model.Reservation) string {
	room := "без аудитории"
	if id, ok := r.Room(); ok {
		room = "ауд. " + id
	}

	subject := r.SubjectID
	if subject == "" {
		subject = "занятие"
	}

	return fmt.Sprintf("🕐 %s %s\n    👨‍🏫 %s · 👥 %s · 🚪 %s\n    🆔 %s",
		FormatTimeRange(r.StartTime, r.EndTime),
		html.EscapeString(subject),
		html.EscapeString(r.TeacherID),
		html.EscapeString(r.GroupID),
		html.EscapeString(room),
		r.ID,
	)
}

// FormatSchedule форматирует недельное расписание с разбивкой по дням.
// Ожидает занятия, отсортированные по дню и времени начала
func FormatSchedule(title string, reservations []*model.Reservation) string {
	if len(reservations) == 0 {
		return fmt.Sprintf("📅 %s\n\nЗанятий нет.", html.EscapeString(title))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 %s\n", html.EscapeString(title))

	current := model.Weekday(0)
	for _, r := range reservations {
		if r.Weekday != current {
			current = r.Weekday
			fmt.Fprintf(&sb, "\n<b>%s</b>\n", GetWeekdayName(current))
		}
		sb.WriteString(FormatReservation(r))
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\nВсего занятий: %d", len(reservations))
	return sb.String()
}
