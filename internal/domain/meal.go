package domain

import "time"

// Meal representa una comida registrada por una sesión anónima.
// El id, session_id y created_at los asigna el servidor; nunca vienen del cliente.
type Meal struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DateTime    time.Time `json:"date_time"`
	IsOnDiet    bool      `json:"is_on_diet"`
	CreatedAt   time.Time `json:"created_at"`
}

// MealMetrics agrega contadores sobre las comidas de una sesión.
type MealMetrics struct {
	TotalMeals int64 `json:"totalMeals"`
}
