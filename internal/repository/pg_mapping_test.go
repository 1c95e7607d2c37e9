package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Freeeeeet/timetable/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExclusionConflict(t *testing.T) {
	tests := []struct {
		constraint string
		want       model.Dimension
	}{
		{"timetable_reservations_teacher_excl", model.DimensionTeacher},
		{"timetable_reservations_group_excl", model.DimensionGroup},
		{"timetable_reservations_room_excl", model.DimensionRoom},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: "23P01", ConstraintName: tt.constraint}

			conflict, ok := exclusionConflict(fmt.Errorf("insert: %w", pgErr))
			require.True(t, ok)
			assert.Equal(t, tt.want, conflict.Dimension)
			assert.ErrorIs(t, conflict, model.ErrConflict)
		})
	}
}

func TestExclusionConflict_OtherErrors(t *testing.T) {
	_, ok := exclusionConflict(&pgconn.PgError{Code: "23P01", ConstraintName: "some_other_excl"})
	assert.False(t, ok)

	_, ok = exclusionConflict(&pgconn.PgError{Code: "23505", ConstraintName: "timetable_reservations_room_excl"})
	assert.False(t, ok)

	_, ok = exclusionConflict(errors.New("connection reset"))
	assert.False(t, ok)
}

func TestTimeOfDayPgRoundTrip(t *testing.T) {
	for _, in := range []string{"00:00:00", "09:30:15", "23:59:59"} {
		t.Run(in, func(t *testing.T) {
			tod := model.MustTimeOfDay(in)

			pg := timeOfDayToPg(tod)
			assert.True(t, pg.Valid)

			got, err := timeOfDayFromPg(pg)
			require.NoError(t, err)
			assert.Equal(t, tod, got)
		})
	}

	assert.Equal(t, int64(86399_000_000), timeOfDayToPg(model.MustTimeOfDay("23:59:59")).Microseconds)

	_, err := timeOfDayFromPg(pgtype.Time{})
	assert.Error(t, err)

	_, err = timeOfDayFromPg(pgtype.Time{Microseconds: 86400_000_000, Valid: true})
	assert.Error(t, err)
}
