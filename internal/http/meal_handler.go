package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"daily-diet/internal/domain"
	"daily-diet/internal/service"
)

// La cookie de sesión vive 7 días y aplica a toda la aplicación.
const sessionCookieMaxAge = 7 * 24 * 60 * 60

// MealHandler mantiene dependencias para los endpoints de comidas.
type MealHandler struct {
	logger     *zap.Logger
	mealServ   *service.MealService
	cookieName string
}

// NewMealHandler crea una instancia de MealHandler con dependencias necesarias.
func NewMealHandler(logger *zap.Logger, mealServ *service.MealService, cookieName string) *MealHandler {
	return &MealHandler{
		logger:     logger,
		mealServ:   mealServ,
		cookieName: cookieName,
	}
}

// mealView proyecta una comida para listados: conserva el booleano y añade
// una etiqueta sí/no solo de presentación.
type mealView struct {
	domain.Meal
	IsOnDietLabel string `json:"is_on_diet_label"`
}

func newMealView(meal domain.Meal) mealView {
	label := "No"
	if meal.IsOnDiet {
		label = "Sí"
	}
	return mealView{Meal: meal, IsOnDietLabel: label}
}

// ListMeals maneja GET /meals.
func (h *MealHandler) ListMeals(c *gin.Context) {
	sessionID, ok := GetSessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	meals, err := h.mealServ.List(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Error("list meals failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list meals"})
		return
	}

	views := make([]mealView, 0, len(meals))
	for _, meal := range meals {
		views = append(views, newMealView(meal))
	}
	c.JSON(http.StatusOK, gin.H{"meals": views})
}

// GetMeal maneja GET /meals/:id.
func (h *MealHandler) GetMeal(c *gin.Context) {
	sessionID, ok := GetSessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	meal, err := h.mealServ.Get(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		h.respondMealError(c, "get meal failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal": meal})
}

// MealMetrics maneja GET /meals/metrics.
func (h *MealHandler) MealMetrics(c *gin.Context) {
	sessionID, ok := GetSessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	metrics, err := h.mealServ.Metrics(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Error("meal metrics failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute metrics"})
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// CreateMeal maneja POST /meals. Es la única ruta sin sesión obligatoria:
// si la petición no trae cookie, se acuña una sesión nueva y se devuelve
// en la respuesta.
func (h *MealHandler) CreateMeal(c *gin.Context) {
	var req service.CreateMealInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create meal request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, _ := c.Cookie(h.cookieName)

	meal, sessionID, isNew, err := h.mealServ.Create(c.Request.Context(), token, req)
	if err != nil {
		h.respondMealError(c, "create meal failed", err)
		return
	}

	if isNew {
		c.SetCookie(h.cookieName, sessionID, sessionCookieMaxAge, "/", "", false, true)
	}
	RecordMealCreated(meal.IsOnDiet)

	c.JSON(http.StatusCreated, gin.H{"meal": meal})
}

// UpdateMeal maneja PUT /meals/:id.
func (h *MealHandler) UpdateMeal(c *gin.Context) {
	sessionID, ok := GetSessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	var req service.UpdateMealInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update meal request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	meal, err := h.mealServ.Update(c.Request.Context(), sessionID, c.Param("id"), req)
	if err != nil {
		h.respondMealError(c, "update meal failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "meal updated", "meal": meal})
}

// DeleteMeal maneja DELETE /meals/:id.
func (h *MealHandler) DeleteMeal(c *gin.Context) {
	sessionID, ok := GetSessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	if err := h.mealServ.Delete(c.Request.Context(), sessionID, c.Param("id")); err != nil {
		h.respondMealError(c, "delete meal failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "meal deleted"})
}

// respondMealError traduce la taxonomía de errores del servicio a HTTP.
func (h *MealHandler) respondMealError(c *gin.Context, logMsg string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload", "field": verr.Field, "reason": verr.Reason})
	case errors.Is(err, service.ErrInvalidMealID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal id", "field": "id"})
	case errors.Is(err, service.ErrMealNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
