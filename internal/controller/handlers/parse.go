package handlers

import (
	"errors"
	"strings"

	"github.com/Freeeeeet/timetable/internal/controller/common/formatting"
	"github.com/Freeeeeet/timetable/internal/model"
	"github.com/google/uuid"
)

const (
	// noRoom - значение аргумента аудитории, когда занятие проходит без неё
	noRoom = "-"

	// Подсказки отправляются с ParseMode HTML
	addLessonUsage = "Формат:\n" +
		"/addlesson &lt;преподаватель&gt; &lt;группа&gt; &lt;аудитория|-&gt; &lt;день&gt; &lt;начало&gt; &lt;конец&gt; [предмет]\n\n" +
		"Пример:\n" +
		"/addlesson ivanov IT-21 301 пн 09:00 10:30 Алгебра\n\n" +
		"День: 1-7 или пн, вт, ср, чт, пт, сб, вс. Время: ЧЧ:ММ."
	removeLessonUsage = "Формат:\n/removelesson &lt;id занятия&gt;"
)

var (
	errLessonArgs = errors.New("wrong number of lesson arguments")
	errWeekday    = errors.New("invalid weekday")
	errTime       = errors.New("invalid time")
)

// commandArgs отрезает команду (включая /cmd@botname) и возвращает аргументы
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	_, args, _ := strings.Cut(text, " ")
	return strings.TrimSpace(args)
}

// parseLessonArgs разбирает "<teacher> <group> <room|-> <weekday> <start> <end> [subject...]"
func parseLessonArgs(args string) (model.ReservationCandidate, error) {
	fields := strings.Fields(args)
	if len(fields) < 6 {
		return model.ReservationCandidate{}, errLessonArgs
	}

	weekday, ok := formatting.ParseWeekday(fields[3])
	if !ok {
		return model.ReservationCandidate{}, errWeekday
	}

	start, err := model.ParseTimeOfDay(fields[4])
	if err != nil {
		return model.ReservationCandidate{}, errTime
	}
	end, err := model.ParseTimeOfDay(fields[5])
	if err != nil {
		return model.ReservationCandidate{}, errTime
	}

	candidate := model.ReservationCandidate{
		TeacherID: fields[0],
		GroupID:   fields[1],
		SubjectID: strings.Join(fields[6:], " "),
		Weekday:   weekday,
		StartTime: start,
		EndTime:   end,
	}
	if room := fields[2]; room != noRoom {
		candidate.RoomID = &room
	}

	return candidate, nil
}

// parseLessonError переводит ошибку разбора в ответ пользователю
func parseLessonError(err error) string {
	switch {
	case errors.Is(err, errWeekday):
		return "❌ Неверный день недели.\n\n" + addLessonUsage
	case errors.Is(err, errTime):
		return "❌ Неверное время, используйте ЧЧ:ММ.\n\n" + addLessonUsage
	default:
		return "❌ Не хватает параметров.\n\n" + addLessonUsage
	}
}

func parseLessonID(args string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(args))
	return id, err == nil
}
