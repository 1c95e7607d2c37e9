package state

import "time"

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Ожидаем строку с параметрами занятия после /addlesson без аргументов
	StateAddLesson UserState = "add_lesson"
	// Ожидаем ID занятия после /removelesson без аргументов
	StateRemoveLesson UserState = "remove_lesson"
)

// DefaultTTL - через сколько незавершённый диалог сбрасывается
const DefaultTTL = 15 * time.Minute

type userData struct {
	state     UserState
	updatedAt time.Time
}
