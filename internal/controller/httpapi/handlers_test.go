package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Freeeeeet/timetable/internal/model"
	"github.com/Freeeeeet/timetable/internal/repository"
	"github.com/Freeeeeet/timetable/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testToken = "secret"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := service.NewTimetableService(repository.NewMemoryReservationRepository(), zap.NewNop())
	return NewRouter(svc, testToken, zap.NewNop())
}

func do(t *testing.T, h http.Handler, method, path, body string, authorized bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateReservation(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/reservations",
		`{"teacher_id":"T1","group_id":"G1","room_id":"R1","subject_id":"MATH","weekday":1,"start_time":"09:00","end_time":"10:00"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, model.MustTimeOfDay("09:00"), created.StartTime)
	assert.Equal(t, "R1", *created.RoomID)

	t.Run("teacher conflict", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/reservations",
			`{"teacher_id":"T1","group_id":"G2","room_id":"R2","weekday":1,"start_time":"09:30","end_time":"10:30"}`, true)
		require.Equal(t, http.StatusConflict, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "conflict", resp.Error)
		assert.Equal(t, "teacher", resp.Dimension)
		assert.Equal(t, "Teacher is already booked for this time", resp.Message)
	})

	t.Run("room conflict", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/reservations",
			`{"teacher_id":"T2","group_id":"G2","room_id":"R1","weekday":1,"start_time":"09:30","end_time":"10:30"}`, true)
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Room is occupied at this time", decodeError(t, rec).Message)
	})

	t.Run("touching window accepted", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/reservations",
			`{"teacher_id":"T1","group_id":"G1","room_id":"R1","weekday":1,"start_time":"10:00","end_time":"11:00"}`, true)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestCreateReservation_Rejections(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantError string
	}{
		{"malformed json", `{"teacher_id":`, http.StatusBadRequest, "bad_request"},
		{"bad time format", `{"teacher_id":"T1","group_id":"G1","weekday":1,"start_time":"9am","end_time":"10:00"}`, http.StatusBadRequest, "bad_request"},
		{"signed time", `{"teacher_id":"T1","group_id":"G1","weekday":1,"start_time":"+9:00","end_time":"10:00"}`, http.StatusBadRequest, "bad_request"},
		{"missing time", `{"teacher_id":"T1","group_id":"G1","weekday":1,"end_time":"10:00"}`, http.StatusBadRequest, "bad_request"},
		{"inverted window", `{"weekday":1,"start_time":"10:00","end_time":"09:00"}`, http.StatusUnprocessableEntity, "invalid_window"},
		{"missing teacher", `{"group_id":"G1","weekday":1,"start_time":"09:00","end_time":"10:00"}`, http.StatusUnprocessableEntity, "invalid_reservation"},
		{"bad weekday", `{"teacher_id":"T1","group_id":"G1","weekday":9,"start_time":"09:00","end_time":"10:00"}`, http.StatusUnprocessableEntity, "invalid_reservation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/reservations", tt.body, true)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantError, decodeError(t, rec).Error)
		})
	}

	rec := do(t, h, http.MethodPost, "/api/reservations",
		`{"teacher_id":"T1","group_id":"G1","weekday":1,"start_time":"9am","end_time":"10:00"}`, true)
	assert.Equal(t, "timeofday", decodeError(t, rec).Fields["start_time"])
}

func TestWritesRequireToken(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/reservations",
		`{"teacher_id":"T1","group_id":"G1","weekday":1,"start_time":"09:00","end_time":"10:00"}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/reservations/"+uuid.NewString(), "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/groups/G1/reservations", "", false)
	assert.Equal(t, http.StatusOK, rec.Code, "reads are public")
}

func TestDeleteAndRecreate(t *testing.T) {
	h := newTestRouter(t)
	body := `{"teacher_id":"T1","group_id":"G1","room_id":"R1","weekday":1,"start_time":"09:00","end_time":"10:00"}`

	rec := do(t, h, http.MethodPost, "/api/reservations", body, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = do(t, h, http.MethodGet, "/api/reservations/"+created.ID.String(), "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/reservations/"+created.ID.String(), "", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/reservations/"+created.ID.String(), "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/reservations/"+created.ID.String(), "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/reservations/not-a-uuid", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/reservations", body, true)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestListReservations(t *testing.T) {
	h := newTestRouter(t)

	for _, body := range []string{
		`{"teacher_id":"T1","group_id":"G1","room_id":"R1","weekday":2,"start_time":"09:00","end_time":"10:00"}`,
		`{"teacher_id":"T2","group_id":"G1","weekday":1,"start_time":"09:00","end_time":"10:00"}`,
	} {
		rec := do(t, h, http.MethodPost, "/api/reservations", body, true)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	var list []model.Reservation
	rec := do(t, h, http.MethodGet, "/api/groups/G1/reservations", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, model.Monday, list[0].Weekday)

	rec = do(t, h, http.MethodGet, "/api/rooms/R1/reservations", "", false)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = do(t, h, http.MethodGet, "/api/teachers/T9/reservations", "", false)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/students/S1/reservations", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/healthz", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestNewHandler_RegistersTimeOfDay(t *testing.T) {
	require.NotPanics(t, func() { NewHandler(nil, zap.NewNop()) })

	h := NewHandler(nil, zap.NewNop())
	assert.NoError(t, h.validate.Var("09:00", "timeofday"))
	assert.Error(t, h.validate.Var("09:+5", "timeofday"))
}
