package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SecondsPerDay - количество секунд в сутках
const SecondsPerDay = 24 * 60 * 60

// TimeOfDay - время суток в секундах от полуночи, [0, 86400)
type TimeOfDay int

// NewTimeOfDay собирает время суток из часов, минут и секунд
func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, fmt.Errorf("time of day out of range: %02d:%02d:%02d", hour, minute, second)
	}
	return TimeOfDay(hour*3600 + minute*60 + second), nil
}

// MustTimeOfDay как ParseTimeOfDay, но паникует при ошибке. Для тестов и констант
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTimeOfDay разбирает "HH:MM" или "HH:MM:SS"
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("parse time of day %q: expected HH:MM or HH:MM:SS", s)
	}

	values := make([]int, 3)
	for i, p := range parts {
		if len(p) != 2 || !isDigit(p[0]) || !isDigit(p[1]) {
			return 0, fmt.Errorf("parse time of day %q: expected two digits per field", s)
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("parse time of day %q: %w", s, err)
		}
		values[i] = v
	}

	t, err := NewTimeOfDay(values[0], values[1], values[2])
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return t, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// FromDuration переводит длительность от полуночи во время суток (pgtype.Time хранит микросекунды)
func FromDuration(d time.Duration) (TimeOfDay, error) {
	if d < 0 || d >= SecondsPerDay*time.Second {
		return 0, fmt.Errorf("time of day out of range: %s", d)
	}
	return TimeOfDay(d / time.Second), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 3600 }
func (t TimeOfDay) Minute() int { return int(t) % 3600 / 60 }
func (t TimeOfDay) Second() int { return int(t) % 60 }

// Duration возвращает смещение от полуночи
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t) * time.Second
}

// Valid проверяет что значение в пределах суток
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < SecondsPerDay
}

// String форматирует как HH:MM:SS
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// Short форматирует как HH:MM
func (t TimeOfDay) Short() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time of day must be a string: %w", err)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
