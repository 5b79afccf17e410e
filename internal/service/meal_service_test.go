package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"daily-diet/internal/domain"
)

type mockMealRepo struct {
	meals []domain.Meal
}

func newMockMealRepo() *mockMealRepo {
	return &mockMealRepo{}
}

func (m *mockMealRepo) Create(_ context.Context, meal domain.Meal) error {
	m.meals = append(m.meals, meal)
	return nil
}

func (m *mockMealRepo) ListBySession(_ context.Context, sessionID string) ([]domain.Meal, error) {
	out := make([]domain.Meal, 0)
	for _, meal := range m.meals {
		if meal.SessionID == sessionID {
			out = append(out, meal)
		}
	}
	return out, nil
}

func (m *mockMealRepo) GetByID(_ context.Context, sessionID, id string) (domain.Meal, error) {
	for _, meal := range m.meals {
		if meal.ID == id && meal.SessionID == sessionID {
			return meal, nil
		}
	}
	return domain.Meal{}, pgx.ErrNoRows
}

func (m *mockMealRepo) Update(_ context.Context, updated domain.Meal) error {
	for i, meal := range m.meals {
		if meal.ID == updated.ID && meal.SessionID == updated.SessionID {
			m.meals[i] = updated
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *mockMealRepo) Delete(_ context.Context, sessionID, id string) error {
	for i, meal := range m.meals {
		if meal.ID == id && meal.SessionID == sessionID {
			m.meals = append(m.meals[:i], m.meals[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *mockMealRepo) CountBySession(_ context.Context, sessionID string) (int64, error) {
	var total int64
	for _, meal := range m.meals {
		if meal.SessionID == sessionID {
			total++
		}
	}
	return total, nil
}

func newTestMealService(repo *mockMealRepo) *MealService {
	return NewMealService(zap.NewNop(), repo, NewSessionService())
}

func validCreateInput() CreateMealInput {
	return CreateMealInput{
		Name:        strPtr("Almuerzo"),
		Description: strPtr("Arroz con frijoles"),
		DateTime:    strPtr("2024-03-01T12:00:00Z"),
		IsOnDiet:    boolPtr(true),
	}
}

func TestMealServiceCreate(t *testing.T) {
	ctx := context.Background()
	repo := newMockMealRepo()
	svc := newTestMealService(repo)

	t.Run("without session mints one", func(t *testing.T) {
		meal, sessionID, isNew, err := svc.Create(ctx, "", validCreateInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !isNew || sessionID == "" {
			t.Fatalf("expected new session, got isNew=%v id=%q", isNew, sessionID)
		}
		if meal.SessionID != sessionID {
			t.Fatalf("expected meal owned by minted session")
		}
		if meal.ID == "" || meal.CreatedAt.IsZero() {
			t.Fatalf("expected server-side id and created_at, got %+v", meal)
		}
	})

	t.Run("with session reuses it", func(t *testing.T) {
		_, sessionID, isNew, err := svc.Create(ctx, "existing-session", validCreateInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if isNew || sessionID != "existing-session" {
			t.Fatalf("expected session reuse, got isNew=%v id=%q", isNew, sessionID)
		}
	})

	t.Run("ids unique and created_at non-decreasing", func(t *testing.T) {
		seen := make(map[string]bool)
		var last time.Time
		for i := 0; i < 10; i++ {
			meal, _, _, err := svc.Create(ctx, "sess-ids", validCreateInput())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if seen[meal.ID] {
				t.Fatalf("duplicate meal id %q", meal.ID)
			}
			seen[meal.ID] = true
			if meal.CreatedAt.Before(last) {
				t.Fatalf("created_at went backwards: %v < %v", meal.CreatedAt, last)
			}
			last = meal.CreatedAt
		}
	})

	t.Run("validation aborts before persistence", func(t *testing.T) {
		before := len(repo.meals)
		in := validCreateInput()
		in.DateTime = strPtr("not-a-date")
		_, _, _, err := svc.Create(ctx, "sess-ids", in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if len(repo.meals) != before {
			t.Fatalf("expected no write on validation failure")
		}
	})

	t.Run("date_time round trip", func(t *testing.T) {
		in := validCreateInput()
		in.DateTime = strPtr("2024-01-15T10:00:00Z")
		meal, sessionID, _, err := svc.Create(ctx, "sess-roundtrip", in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		fetched, err := svc.Get(ctx, sessionID, meal.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
		if !fetched.DateTime.Equal(want) {
			t.Fatalf("expected %v, got %v", want, fetched.DateTime)
		}
	})
}

func TestMealServiceSessionIsolation(t *testing.T) {
	ctx := context.Background()
	repo := newMockMealRepo()
	svc := newTestMealService(repo)

	mealA, sessA, _, err := svc.Create(ctx, "", validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mealB, sessB, _, err := svc.Create(ctx, "", validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	listA, err := svc.List(ctx, sessA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listA) != 1 || listA[0].ID != mealA.ID {
		t.Fatalf("expected only A's meal, got %+v", listA)
	}

	if _, err := svc.Get(ctx, sessA, mealB.ID); !errors.Is(err, ErrMealNotFound) {
		t.Fatalf("expected ErrMealNotFound across sessions, got %v", err)
	}

	if err := svc.Delete(ctx, sessA, mealB.ID); !errors.Is(err, ErrMealNotFound) {
		t.Fatalf("expected ErrMealNotFound on foreign delete, got %v", err)
	}
	// El registro de B sigue intacto tras el intento de borrado ajeno.
	if _, err := svc.Get(ctx, sessB, mealB.ID); err != nil {
		t.Fatalf("expected B's meal untouched, got %v", err)
	}
}

func TestMealServiceMetrics(t *testing.T) {
	ctx := context.Background()
	repo := newMockMealRepo()
	svc := newTestMealService(repo)

	metrics, err := svc.Metrics(ctx, "empty-session")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metrics.TotalMeals != 0 {
		t.Fatalf("expected 0 meals, got %d", metrics.TotalMeals)
	}

	for i := 0; i < 3; i++ {
		if _, _, _, err := svc.Create(ctx, "sess-metrics", validCreateInput()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	metrics, err = svc.Metrics(ctx, "sess-metrics")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, err := svc.List(ctx, "sess-metrics")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metrics.TotalMeals != int64(len(list)) {
		t.Fatalf("expected metrics %d to equal list length %d", metrics.TotalMeals, len(list))
	}
}

func TestMealServiceUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newMockMealRepo()
	svc := newTestMealService(repo)

	meal, sessionID, _, err := svc.Create(ctx, "", validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("partial update changes only named field", func(t *testing.T) {
		updated, err := svc.Update(ctx, sessionID, meal.ID, UpdateMealInput{Name: strPtr("Cena")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Name != "Cena" {
			t.Fatalf("expected name updated, got %q", updated.Name)
		}
		if updated.Description != meal.Description || !updated.DateTime.Equal(meal.DateTime) ||
			updated.IsOnDiet != meal.IsOnDiet || updated.ID != meal.ID ||
			updated.SessionID != meal.SessionID || !updated.CreatedAt.Equal(meal.CreatedAt) {
			t.Fatalf("expected other fields untouched, got %+v", updated)
		}
	})

	t.Run("empty payload leaves record unchanged", func(t *testing.T) {
		before, err := svc.Get(ctx, sessionID, meal.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		after, err := svc.Update(ctx, sessionID, meal.ID, UpdateMealInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if after != before {
			t.Fatalf("expected no observable change, got %+v vs %+v", after, before)
		}
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := svc.Update(ctx, sessionID, "3e8f3b5c-5a1f-4f83-9c94-000000000000", UpdateMealInput{Name: strPtr("X")})
		if !errors.Is(err, ErrMealNotFound) {
			t.Fatalf("expected ErrMealNotFound, got %v", err)
		}
	})

	t.Run("invalid payload performs no write", func(t *testing.T) {
		before, _ := svc.Get(ctx, sessionID, meal.ID)
		_, err := svc.Update(ctx, sessionID, meal.ID, UpdateMealInput{DateTime: strPtr("garbage")})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		after, _ := svc.Get(ctx, sessionID, meal.ID)
		if after != before {
			t.Fatalf("expected record unchanged after invalid update")
		}
	})
}

func TestMealServiceInvalidID(t *testing.T) {
	ctx := context.Background()
	svc := newTestMealService(newMockMealRepo())

	if _, err := svc.Get(ctx, "sess", "not-a-uuid"); !errors.Is(err, ErrInvalidMealID) {
		t.Fatalf("expected ErrInvalidMealID, got %v", err)
	}
	if _, err := svc.Update(ctx, "sess", "not-a-uuid", UpdateMealInput{}); !errors.Is(err, ErrInvalidMealID) {
		t.Fatalf("expected ErrInvalidMealID, got %v", err)
	}
	if err := svc.Delete(ctx, "sess", "not-a-uuid"); !errors.Is(err, ErrInvalidMealID) {
		t.Fatalf("expected ErrInvalidMealID, got %v", err)
	}
}
