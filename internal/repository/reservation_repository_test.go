package repository

import (
	"context"
	"os"
	"testing"

	"github.com/Freeeeeet/timetable/internal/app"
	"github.com/Freeeeeet/timetable/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newPostgresRepository поднимает схему в базе из TEST_DB_DSN и откатывает её после теста
func newPostgresRepository(t *testing.T) *ReservationRepository {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	migrator, err := app.NewMigrator(pool, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, migrator.Run(ctx))
	t.Cleanup(func() {
		assert.NoError(t, migrator.Reset(context.Background()))
		assert.NoError(t, migrator.Close())
	})

	return NewReservationRepository(pool, zap.NewNop())
}

func TestReservationRepository_Postgres(t *testing.T) {
	repo := newPostgresRepository(t)
	ctx := context.Background()

	r := newReservation("T1", "G1", strPtr("R1"), model.Monday, "09:00", "10:00:30")
	id, err := repo.Insert(ctx, r)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.False(t, r.CreatedAt.IsZero())

	intervals, err := repo.FindByResource(ctx, model.DimensionRoom, "R1", model.Monday)
	require.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.Equal(t, model.MustTimeOfDay("10:00:30"), intervals[0].End)

	intervals, err = repo.FindByResource(ctx, model.DimensionTeacher, "", model.Monday)
	require.NoError(t, err)
	assert.Empty(t, intervals)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "R1", *got.RoomID)
	assert.Equal(t, model.Monday, got.Weekday)

	// Касание концами допускается схемой
	_, err = repo.Insert(ctx, newReservation("T1", "G2", nil, model.Monday, "10:00:30", "11:00"))
	require.NoError(t, err)

	list, err := repo.ListByResource(ctx, model.DimensionTeacher, "T1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	removed, err := repo.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestReservationRepository_ExclusionConstraints(t *testing.T) {
	repo := newPostgresRepository(t)
	ctx := context.Background()

	_, err := repo.Insert(ctx, newReservation("T1", "G1", strPtr("R1"), model.Monday, "09:00", "10:00"))
	require.NoError(t, err)

	tests := []struct {
		name string
		r    *model.Reservation
		want model.Dimension
	}{
		{"teacher", newReservation("T1", "G2", strPtr("R2"), model.Monday, "09:30", "10:30"), model.DimensionTeacher},
		{"group", newReservation("T2", "G1", nil, model.Monday, "09:30", "10:30"), model.DimensionGroup},
		{"room", newReservation("T2", "G2", strPtr("R1"), model.Monday, "09:30", "10:30"), model.DimensionRoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Insert(ctx, tt.r)
			dim, ok := model.ConflictDimension(err)
			require.True(t, ok, "expected conflict, got %v", err)
			assert.Equal(t, tt.want, dim)
		})
	}

	// Без аудитории конфликт по аудитории невозможен
	_, err = repo.Insert(ctx, newReservation("T3", "G3", nil, model.Monday, "09:00", "10:00"))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, newReservation("T4", "G4", nil, model.Monday, "09:00", "10:00"))
	require.NoError(t, err)
}
