package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"daily-diet/internal/domain"
	"daily-diet/internal/repository"
)

var (
	// ErrMealNotFound cubre tanto el id inexistente como el id de otra
	// sesión: el caller no puede distinguirlos.
	ErrMealNotFound = errors.New("meal not found")
	// ErrInvalidMealID indica un parámetro id que no tiene forma de UUID.
	ErrInvalidMealID = errors.New("invalid meal id")
)

// MealService coordina reglas de negocio para comidas de una sesión.
type MealService struct {
	logger   *zap.Logger
	meals    repository.MealRepository
	sessions *SessionService
}

func NewMealService(logger *zap.Logger, meals repository.MealRepository, sessions *SessionService) *MealService {
	return &MealService{
		logger:   logger,
		meals:    meals,
		sessions: sessions,
	}
}

// List devuelve todas las comidas de la sesión en orden determinista.
func (s *MealService) List(ctx context.Context, sessionID string) ([]domain.Meal, error) {
	return s.meals.ListBySession(ctx, sessionID)
}

// Get devuelve una comida por id dentro de la sesión.
func (s *MealService) Get(ctx context.Context, sessionID, rawID string) (domain.Meal, error) {
	id, err := parseMealID(rawID)
	if err != nil {
		return domain.Meal{}, err
	}
	meal, err := s.meals.GetByID(ctx, sessionID, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Meal{}, ErrMealNotFound
	}
	if err != nil {
		return domain.Meal{}, err
	}
	return meal, nil
}

// Metrics agrega contadores de la sesión. Una sesión sin comidas devuelve
// cero, nunca error.
func (s *MealService) Metrics(ctx context.Context, sessionID string) (domain.MealMetrics, error) {
	total, err := s.meals.CountBySession(ctx, sessionID)
	if err != nil {
		return domain.MealMetrics{}, err
	}
	return domain.MealMetrics{TotalMeals: total}, nil
}

// Create valida el payload, resuelve (o acuña) la sesión y persiste la
// comida. Es la única operación que puede crear una sesión nueva.
func (s *MealService) Create(ctx context.Context, sessionToken string, in CreateMealInput) (domain.Meal, string, bool, error) {
	fields, verr := in.Validate()
	if verr != nil {
		return domain.Meal{}, "", false, verr
	}

	sessionID, isNew := s.sessions.ResolveOrCreate(sessionToken)

	meal := domain.Meal{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		Name:        fields.Name,
		Description: fields.Description,
		DateTime:    fields.DateTime,
		IsOnDiet:    fields.IsOnDiet,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.meals.Create(ctx, meal); err != nil {
		return domain.Meal{}, "", false, err
	}

	return meal, sessionID, isNew, nil
}

// Update aplica una actualización parcial sobre la comida (id, session_id).
// La validación ocurre completa antes de cualquier escritura.
func (s *MealService) Update(ctx context.Context, sessionID, rawID string, in UpdateMealInput) (domain.Meal, error) {
	id, err := parseMealID(rawID)
	if err != nil {
		return domain.Meal{}, err
	}
	patch, verr := in.Validate()
	if verr != nil {
		return domain.Meal{}, verr
	}

	meal, err := s.meals.GetByID(ctx, sessionID, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Meal{}, ErrMealNotFound
	}
	if err != nil {
		return domain.Meal{}, err
	}

	patch.Apply(&meal)

	if err := s.meals.Update(ctx, meal); err != nil {
		// La comida pudo desaparecer entre la lectura y la escritura.
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Meal{}, ErrMealNotFound
		}
		return domain.Meal{}, err
	}
	return meal, nil
}

// Delete borra la comida (id, session_id). Borrar un id inexistente o de
// otra sesión falla con ErrMealNotFound en lugar de tener éxito en silencio.
func (s *MealService) Delete(ctx context.Context, sessionID, rawID string) error {
	id, err := parseMealID(rawID)
	if err != nil {
		return err
	}
	if err := s.meals.Delete(ctx, sessionID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrMealNotFound
		}
		return err
	}
	return nil
}

// parseMealID valida la forma de UUID del parámetro antes de tocar el store.
func parseMealID(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", ErrInvalidMealID
	}
	return id.String(), nil
}
