package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Freeeeeet/timetable/internal/model"
	"go.uber.org/zap"
)

// AuditTimetable проверяет всё расписание на пересечения по каждому измерению.
// Данные не изменяет, только сообщает найденные пары
func (s *TimetableService) AuditTimetable(ctx context.Context) ([]model.Overlap, error) {
	reservations, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all reservations: %w", err)
	}

	overlaps := FindOverlaps(reservations)

	s.logger.Info("Timetable audit finished",
		zap.Int("reservations", len(reservations)),
		zap.Int("overlaps", len(overlaps)))

	return overlaps, nil
}

// FindOverlaps группирует занятия по (измерение, ресурс, день) и возвращает
// все пересекающиеся пары
func FindOverlaps(reservations []*model.Reservation) []model.Overlap {
	type groupKey struct {
		dim        model.Dimension
		resourceID string
		weekday    model.Weekday
	}

	groups := make(map[groupKey][]model.Interval)
	var order []groupKey
	for _, r := range reservations {
		for _, dim := range model.Dimensions {
			id := r.ResourceID(dim)
			if id == "" {
				continue
			}
			key := groupKey{dim: dim, resourceID: id, weekday: r.Weekday}
			if _, ok := groups[key]; !ok {
				order = append(order, key)
			}
			groups[key] = append(groups[key], r.Interval())
		}
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.dim != b.dim {
			return dimensionRank(a.dim) < dimensionRank(b.dim)
		}
		if a.resourceID != b.resourceID {
			return a.resourceID < b.resourceID
		}
		return a.weekday < b.weekday
	})

	var overlaps []model.Overlap
	for _, key := range order {
		intervals := groups[key]
		sort.Slice(intervals, func(i, j int) bool {
			return intervals[i].Start < intervals[j].Start
		})

		// После сортировки по началу пересекаться с i могут только следующие, пока их начало < конца i
		for i := range intervals {
			for j := i + 1; j < len(intervals) && intervals[j].Start < intervals[i].End; j++ {
				if model.Overlaps(intervals[i], intervals[j]) {
					overlaps = append(overlaps, model.Overlap{
						Dimension:  key.dim,
						ResourceID: key.resourceID,
						Weekday:    key.weekday,
						First:      intervals[i],
						Second:     intervals[j],
					})
				}
			}
		}
	}

	return overlaps
}

func dimensionRank(dim model.Dimension) int {
	for i, d := range model.Dimensions {
		if d == dim {
			return i
		}
	}
	return len(model.Dimensions)
}
