package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/timetable/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeAuditor struct {
	overlaps []model.Overlap
	err      error
	calls    chan struct{}
}

func (f *fakeAuditor) AuditTimetable(ctx context.Context) ([]model.Overlap, error) {
	if f.calls != nil {
		f.calls <- struct{}{}
	}
	return f.overlaps, f.err
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler(&fakeAuditor{}, "every tuesday", zap.NewNop())
	assert.Error(t, err)
}

func TestScheduler_RunAuditLogsOverlaps(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	auditor := &fakeAuditor{overlaps: []model.Overlap{{
		Dimension:  model.DimensionRoom,
		ResourceID: "R1",
		Weekday:    model.Monday,
		First:      model.Interval{Start: model.MustTimeOfDay("09:00"), End: model.MustTimeOfDay("10:00")},
		Second:     model.Interval{Start: model.MustTimeOfDay("09:30"), End: model.MustTimeOfDay("10:30")},
	}}}

	s, err := NewScheduler(auditor, "@daily", zap.New(core))
	require.NoError(t, err)

	s.runAudit(context.Background())

	warnings := logs.FilterMessage("Timetable overlap detected").All()
	require.Len(t, warnings, 1)
	fields := warnings[0].ContextMap()
	assert.Equal(t, "room", fields["dimension"])
	assert.Equal(t, "R1", fields["resource_id"])
	assert.Equal(t, "09:00-10:00", fields["first_window"])
	assert.Zero(t, logs.FilterMessage("Timetable audit clean").Len())
}

func TestScheduler_RunAuditErrorAndClean(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	s, err := NewScheduler(&fakeAuditor{err: errors.New("db down")}, "@daily", zap.New(core))
	require.NoError(t, err)
	s.runAudit(context.Background())
	assert.Equal(t, 1, logs.FilterMessage("Timetable audit failed").Len())

	s, err = NewScheduler(&fakeAuditor{}, "@daily", zap.New(core))
	require.NoError(t, err)
	s.runAudit(context.Background())
	assert.Equal(t, 1, logs.FilterMessage("Timetable audit clean").Len())
}

func TestScheduler_StartRunsImmediately(t *testing.T) {
	auditor := &fakeAuditor{calls: make(chan struct{}, 1)}
	s, err := NewScheduler(auditor, "@daily", zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	select {
	case <-auditor.calls:
	case <-time.After(time.Second):
		t.Fatal("audit did not run on start")
	}
}
