package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/timetable/internal/model"
	"github.com/Freeeeeet/timetable/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const reservationColumns = `id, teacher_id, group_id, room_id, subject_id, weekday, start_time, end_time, created_at`

// Колонки таблицы по измерению конфликта. Только эти значения попадают в SQL
var dimensionColumns = map[model.Dimension]string{
	model.DimensionTeacher: "teacher_id",
	model.DimensionGroup:   "group_id",
	model.DimensionRoom:    "room_id",
}

// EXCLUDE-ограничения из миграции и соответствующие им измерения
var exclusionDimensions = map[string]model.Dimension{
	"timetable_reservations_teacher_excl": model.DimensionTeacher,
	"timetable_reservations_group_excl":   model.DimensionGroup,
	"timetable_reservations_room_excl":    model.DimensionRoom,
}

// ReservationRepository хранит занятия расписания в PostgreSQL
type ReservationRepository struct {
	*base.Repository
	logger *zap.Logger
}

// NewReservationRepository создаёт новый репозиторий
func NewReservationRepository(pool *pgxpool.Pool, logger *zap.Logger) *ReservationRepository {
	return &ReservationRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// FindByResource возвращает окна всех занятий ресурса в указанный день недели
func (r *ReservationRepository) FindByResource(ctx context.Context, dim model.Dimension, resourceID string, weekday model.Weekday) ([]model.Interval, error) {
	if resourceID == "" {
		return nil, nil
	}

	column, ok := dimensionColumns[dim]
	if !ok {
		return nil, fmt.Errorf("find by resource: unknown dimension %q", dim)
	}

	query := fmt.Sprintf(`
		SELECT id, start_time, end_time
		FROM timetable_reservations
		WHERE %s = $1 AND weekday = $2
	`, column)

	rows, err := r.Query(ctx, query, resourceID, int(weekday))
	if err != nil {
		return nil, fmt.Errorf("find reservations by %s: %w", dim, err)
	}
	defer rows.Close()

	var intervals []model.Interval
	for rows.Next() {
		var (
			id         uuid.UUID
			start, end pgtype.Time
		)
		if err := rows.Scan(&id, &start, &end); err != nil {
			return nil, fmt.Errorf("scan interval: %w", err)
		}

		interval := model.Interval{ReservationID: id}
		if interval.Start, err = timeOfDayFromPg(start); err != nil {
			return nil, err
		}
		if interval.End, err = timeOfDayFromPg(end); err != nil {
			return nil, err
		}
		intervals = append(intervals, interval)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate intervals: %w", err)
	}

	return intervals, nil
}

// Insert сохраняет занятие одним INSERT и заполняет ID и CreatedAt.
// Нарушение EXCLUDE-ограничения возвращается как *model.ConflictError
func (r *ReservationRepository) Insert(ctx context.Context, reservation *model.Reservation) (uuid.UUID, error) {
	query := `
		INSERT INTO timetable_reservations (teacher_id, group_id, room_id, subject_id, weekday, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx,
		query,
		reservation.TeacherID,
		reservation.GroupID,
		reservation.RoomID,
		reservation.SubjectID,
		int(reservation.Weekday),
		timeOfDayToPg(reservation.StartTime),
		timeOfDayToPg(reservation.EndTime),
	).Scan(&reservation.ID, &reservation.CreatedAt)

	if err != nil {
		if conflict, ok := exclusionConflict(err); ok {
			r.logger.Warn("Insert rejected by exclusion constraint",
				zap.String("dimension", string(conflict.Dimension)))
			return uuid.Nil, conflict
		}
		return uuid.Nil, fmt.Errorf("insert reservation: %w", err)
	}

	return reservation.ID, nil
}

// DeleteByID удаляет занятие. Отсутствующий ID - не ошибка, возвращает false
func (r *ReservationRepository) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM timetable_reservations WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete reservation: %w", err)
	}
	return affected > 0, nil
}

// GetByID получает занятие по ID
func (r *ReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM timetable_reservations WHERE id = $1`

	reservation, err := scanReservation(r.QueryRow(ctx, query, id))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reservation by id: %w", err)
	}

	return reservation, nil
}

// ListByResource получает все занятия учителя, группы или аудитории
func (r *ReservationRepository) ListByResource(ctx context.Context, dim model.Dimension, resourceID string) ([]*model.Reservation, error) {
	if resourceID == "" {
		return nil, nil
	}

	column, ok := dimensionColumns[dim]
	if !ok {
		return nil, fmt.Errorf("list by resource: unknown dimension %q", dim)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM timetable_reservations
		WHERE %s = $1
		ORDER BY weekday, start_time
	`, reservationColumns, column)

	return r.list(ctx, query, resourceID)
}

// ListAll получает все занятия
func (r *ReservationRepository) ListAll(ctx context.Context) ([]*model.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM timetable_reservations ORDER BY weekday, start_time`
	return r.list(ctx, query)
}

func (r *ReservationRepository) list(ctx context.Context, query string, args ...any) ([]*model.Reservation, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*model.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations: %w", err)
	}

	return reservations, nil
}

func scanReservation(row pgx.Row) (*model.Reservation, error) {
	var (
		reservation model.Reservation
		weekday     int
		start, end  pgtype.Time
	)

	err := row.Scan(
		&reservation.ID,
		&reservation.TeacherID,
		&reservation.GroupID,
		&reservation.RoomID,
		&reservation.SubjectID,
		&weekday,
		&start,
		&end,
		&reservation.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	reservation.Weekday = model.Weekday(weekday)
	if reservation.StartTime, err = timeOfDayFromPg(start); err != nil {
		return nil, err
	}
	if reservation.EndTime, err = timeOfDayFromPg(end); err != nil {
		return nil, err
	}

	return &reservation, nil
}

// exclusionConflict переводит нарушение EXCLUDE-ограничения в конфликт по измерению.
// Незнакомые ограничения остаются обычной ошибкой
func exclusionConflict(err error) (*model.ConflictError, bool) {
	constraint, ok := base.ExclusionConstraint(err)
	if !ok {
		return nil, false
	}
	dim, known := exclusionDimensions[constraint]
	if !known {
		return nil, false
	}
	return &model.ConflictError{Dimension: dim}, true
}

func timeOfDayToPg(t model.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: t.Duration().Microseconds(), Valid: true}
}

func timeOfDayFromPg(t pgtype.Time) (model.TimeOfDay, error) {
	if !t.Valid {
		return 0, fmt.Errorf("time of day is null")
	}
	return model.FromDuration(time.Duration(t.Microseconds) * time.Microsecond)
}
