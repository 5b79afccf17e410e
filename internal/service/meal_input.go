package service

import (
	"fmt"
	"time"

	"daily-diet/internal/domain"
)

// ValidationError describe un campo de payload que no cumple el esquema.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// Formatos aceptados para date_time. El primero que parsea gana; el valor
// se normaliza siempre a UTC antes de persistir.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDateTime(raw string) (time.Time, bool) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// CreateMealInput es el payload de creación. Los campos son punteros para
// distinguir "ausente" de "presente con valor cero" al decodificar JSON.
type CreateMealInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	DateTime    *string `json:"date_time"`
	IsOnDiet    *bool   `json:"is_on_diet"`
}

// MealFields son los campos ya validados y normalizados de una comida nueva.
type MealFields struct {
	Name        string
	Description string
	DateTime    time.Time
	IsOnDiet    bool
}

// Validate aplica las reglas de esquema de creación y devuelve los campos
// normalizados o el primer error de validación encontrado.
func (in CreateMealInput) Validate() (MealFields, *ValidationError) {
	if in.Name == nil || *in.Name == "" {
		return MealFields{}, &ValidationError{Field: "name", Reason: "required non-empty string"}
	}
	if in.Description == nil {
		return MealFields{}, &ValidationError{Field: "description", Reason: "required string"}
	}
	if in.DateTime == nil {
		return MealFields{}, &ValidationError{Field: "date_time", Reason: "required timestamp"}
	}
	dateTime, ok := parseDateTime(*in.DateTime)
	if !ok {
		return MealFields{}, &ValidationError{Field: "date_time", Reason: "unparseable timestamp"}
	}
	if in.IsOnDiet == nil {
		return MealFields{}, &ValidationError{Field: "is_on_diet", Reason: "required boolean"}
	}
	return MealFields{
		Name:        *in.Name,
		Description: *in.Description,
		DateTime:    dateTime,
		IsOnDiet:    *in.IsOnDiet,
	}, nil
}

// UpdateMealInput es el payload de actualización parcial: todo campo es
// opcional y solo los presentes se validan y aplican.
type UpdateMealInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	DateTime    *string `json:"date_time"`
	IsOnDiet    *bool   `json:"is_on_diet"`
}

// MealPatch son los cambios validados de una actualización parcial.
type MealPatch struct {
	Name        *string
	Description *string
	DateTime    *time.Time
	IsOnDiet    *bool
}

// Validate aplica las reglas de esquema campo a campo sobre lo presente.
func (in UpdateMealInput) Validate() (MealPatch, *ValidationError) {
	var patch MealPatch
	if in.Name != nil {
		if *in.Name == "" {
			return MealPatch{}, &ValidationError{Field: "name", Reason: "must be non-empty"}
		}
		patch.Name = in.Name
	}
	if in.Description != nil {
		patch.Description = in.Description
	}
	if in.DateTime != nil {
		dateTime, ok := parseDateTime(*in.DateTime)
		if !ok {
			return MealPatch{}, &ValidationError{Field: "date_time", Reason: "unparseable timestamp"}
		}
		patch.DateTime = &dateTime
	}
	if in.IsOnDiet != nil {
		patch.IsOnDiet = in.IsOnDiet
	}
	return patch, nil
}

// Apply copia los campos presentes del patch sobre la comida.
// Nunca toca id, session_id ni created_at.
func (p MealPatch) Apply(meal *domain.Meal) {
	if p.Name != nil {
		meal.Name = *p.Name
	}
	if p.Description != nil {
		meal.Description = *p.Description
	}
	if p.DateTime != nil {
		meal.DateTime = *p.DateTime
	}
	if p.IsOnDiet != nil {
		meal.IsOnDiet = *p.IsOnDiet
	}
}
