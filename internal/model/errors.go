package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidWindow      = errors.New("start time must be before end time")
	ErrInvalidReservation = errors.New("invalid reservation")
	ErrConflict           = errors.New("reservation conflict")
	ErrNotFound           = errors.New("reservation not found")
)

// ConflictError - кандидат пересекается с существующим занятием по измерению Dimension
type ConflictError struct {
	Dimension Dimension
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s is already booked for this time", e.Dimension, e.Dimension)
}

// Is позволяет errors.Is(err, ErrConflict)
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ValidationError содержит ошибки по полям кандидата
type ValidationError struct {
	FieldErrors map[string]string
}

func (v *ValidationError) Error() string {
	if v == nil || len(v.FieldErrors) == 0 {
		return ErrInvalidReservation.Error()
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field, msg := range v.FieldErrors {
		fields = append(fields, field+": "+msg)
	}
	sort.Strings(fields)
	return ErrInvalidReservation.Error() + ": " + strings.Join(fields, "; ")
}

func (v *ValidationError) Unwrap() error {
	return ErrInvalidReservation
}

// HasErrors сообщает были ли записаны ошибки
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// Add записывает ошибку поля
func (v *ValidationError) Add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// ConflictDimension возвращает измерение конфликта, если err - конфликт
func ConflictDimension(err error) (Dimension, bool) {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict.Dimension, true
	}
	return "", false
}
