package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Freeeeeet/timetable/internal/controller/common"
	"github.com/Freeeeeet/timetable/internal/model"
	"github.com/Freeeeeet/timetable/internal/repository"
	"github.com/Freeeeeet/timetable/internal/service"
	"go.uber.org/zap"
)

// Рисует недельное расписание группы на демонстрационных данных.
// Использование: timetable_image [файл.png]
func main() {
	out := "timetable.png"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}

	ctx := context.Background()
	timetable := service.NewTimetableService(repository.NewMemoryReservationRepository(), zap.NewNop())

	lessons := []struct {
		teacher, group, room, subject string
		weekday                       model.Weekday
		start, end                    string
	}{
		{"ivanov", "IT-21", "301", "Алгебра", model.Monday, "09:00", "10:30"},
		{"petrova", "IT-21", "214", "Физика", model.Monday, "10:45", "12:15"},
		{"sidorov", "IT-21", "", "Физкультура", model.Tuesday, "13:00", "14:30"},
		{"ivanov", "IT-21", "301", "Алгебра", model.Wednesday, "09:00", "10:30"},
		{"petrova", "IT-21", "105", "Лабораторная", model.Thursday, "14:00", "17:00"},
		{"kuznetsova", "IT-21", "402", "Английский", model.Friday, "11:00", "12:30"},
		{"ivanov", "IT-21", "301", "Консультация", model.Saturday, "10:00", "11:00"},
		// Пересекается с алгеброй в понедельник, в расписание не попадёт
		{"petrova", "IT-21", "214", "Физика", model.Monday, "10:00", "11:00"},
	}

	for _, l := range lessons {
		candidate := model.ReservationCandidate{
			TeacherID: l.teacher,
			GroupID:   l.group,
			SubjectID: l.subject,
			Weekday:   l.weekday,
			StartTime: model.MustTimeOfDay(l.start),
			EndTime:   model.MustTimeOfDay(l.end),
		}
		if l.room != "" {
			room := l.room
			candidate.RoomID = &room
		}

		if _, err := timetable.ProposeReservation(ctx, candidate); err != nil {
			if !errors.Is(err, model.ErrConflict) {
				fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Пропущено %s %s %s-%s: %v\n", l.subject, l.weekday, l.start, l.end, err)
		}
	}

	reservations, err := timetable.ListByGroup(ctx, "IT-21")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}

	png, err := common.GenerateWeekImage("Группа IT-21", reservations)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка генерации: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(out, png, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка записи файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение сохранено: %s (%d занятий)\n", out, len(reservations))
}
