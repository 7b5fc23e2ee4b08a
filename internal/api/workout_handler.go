package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/service"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- Request/Response Structs ---

type WorkoutResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Date      time.Time         `json:"date"`
	Status    string            `json:"status"`
	Progress  float64           `json:"progress"`
	Exercises []domain.Exercise `json:"exercises"`
}

// CompleteSetRequest carries the client's view of the finished set.
// Only the shape is validated; the increment itself is derived from the
// stored exercise state, not from these values.
type CompleteSetRequest struct {
	SetNumber int     `json:"setNumber" binding:"required,min=1"`
	Weight    float64 `json:"weight" binding:"required"`
	Reps      int     `json:"reps" binding:"required,min=1"`
}

type CompleteSetResponse struct {
	Success  bool                      `json:"success"`
	Exercise service.CompleteSetResult `json:"exercise"`
}

// --- Handler Methods ---

// ListWorkouts returns all of the caller's workouts, seeding the catalog
// on first access.
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity in token")
		return
	}

	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]WorkoutResponse, 0, len(workouts))
	for i := range workouts {
		resp = append(resp, MapWorkoutToResponse(&workouts[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// TodayWorkout returns the active workout, promoting the next pending one
// when necessary.
func (h *WorkoutHandler) TodayWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity in token")
		return
	}

	workout, err := h.workoutService.TodayWorkout(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// CompleteSet records one finished set for an exercise in a workout.
func (h *WorkoutHandler) CompleteSet(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity in token")
		return
	}

	workoutID, err := primitive.ObjectIDFromHex(c.Param("workoutId"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Treino não encontrado")
		return
	}
	exerciseID := c.Param("exerciseId")

	var req CompleteSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	result, err := h.workoutService.CompleteSet(c.Request.Context(), userID, workoutID, exerciseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, CompleteSetResponse{
		Success:  true,
		Exercise: *result,
	})
}

// MapWorkoutToResponse converts a domain Workout to its response DTO.
func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	return WorkoutResponse{
		ID:        w.ID.Hex(),
		Name:      w.Name,
		Date:      w.Date,
		Status:    string(w.Status),
		Progress:  w.Progress,
		Exercises: w.Exercises,
	}
}
