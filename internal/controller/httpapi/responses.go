package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Freeeeeet/timetable/internal/model"
	"github.com/go-playground/validator/v10"
)

type errorResponse struct {
	Error     string            `json:"error"`
	Dimension string            `json:"dimension,omitempty"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// ConflictMessage возвращает сообщение для пользователя по измерению конфликта
func ConflictMessage(dim model.Dimension) string {
	switch dim {
	case model.DimensionTeacher:
		return "Teacher is already booked for this time"
	case model.DimensionGroup:
		return "This group already has a class at this time"
	case model.DimensionRoom:
		return "Room is occupied at this time"
	default:
		return "Reservation conflicts with an existing one"
	}
}

func validationResponse(err error) errorResponse {
	resp := errorResponse{Error: "bad_request", Message: "Invalid request"}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Fields = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			resp.Fields[fe.Field()] = fe.Tag()
		}
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, body errorResponse) {
	writeJSON(w, status, body)
}

// requireToken проверяет заголовок Authorization: Bearer <token>
func requireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeError(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Message: "Missing or invalid token"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
